package store

import "strings"

const likeEscape = `!`

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// containsPattern turns s into a LIKE pattern matching it as a literal
// substring. Use with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// likeAny builds `(col LIKE ? ESCAPE '!' OR ...)` for each keyword and the
// matching arguments. The caller must pass at least one keyword.
func likeAny(col string, keywords []string) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(keywords))

	b.WriteByte('(')
	for i, kw := range keywords {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString(col)
		b.WriteString(` LIKE ? ESCAPE '` + likeEscape + `'`)
		args = append(args, containsPattern(kw))
	}
	b.WriteByte(')')
	return b.String(), args
}
