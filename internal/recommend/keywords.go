package recommend

import "strings"

// DefaultTags stand in for users who picked no preference tags.
var DefaultTags = []string{"좋다", "추천", "만족"}

// Keywords turns stored tag names into match keywords: one leading '#' is
// stripped, blanks are dropped and duplicates removed. An empty result
// falls back to DefaultTags.
func Keywords(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		kw := strings.TrimPrefix(strings.TrimSpace(t), "#")
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultTags...)
	}
	return out
}
