package events

import (
	"encoding/json"
	"time"
)

// Event types pushed to the admin console.
const (
	ReviewCreated   = "review.created"
	ReviewDeleted   = "review.deleted"
	InquiryCreated  = "inquiry.created"
	InquiryAnswered = "inquiry.answered"
	SpotCreated     = "spot.created"
	SpotDeleted     = "spot.deleted"
	SettingsChanged = "settings.changed"
	CrawlImported   = "crawl.imported"
)

const Version = 1

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   Version,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
