package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing          = "ping"
	TypeParsed        = "posting_parsed"
	TypeBatchParsed   = "batch_parsed"
	TypeConfigChanged = "config_saved"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ParsedData summarizes one parsed posting without repeating its text.
type ParsedData struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Defaulted []string `json:"defaulted"`
}

type BatchData struct {
	Count int `json:"count"`
}

type ConfigData struct {
	Path     string   `json:"path"`
	Warnings []string `json:"warnings,omitempty"`
}

func New(reqID, typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

func (e Event) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}
