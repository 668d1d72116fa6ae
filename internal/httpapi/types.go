package httpapi

// ImportStatus describes the last crawled-review import.
type ImportStatus struct {
	LastRunAt   string         `json:"last_run_at"`
	LastOkAt    string         `json:"last_ok_at"`
	LastError   string         `json:"last_error"`
	LastAdded   int            `json:"last_added"`
	LastSkipped map[string]int `json:"last_skipped,omitempty"`
	Running     bool           `json:"running"`
}
