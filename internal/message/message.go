// Package message defines the local IPC protocol between the cliptoo watch
// daemon and its CLI query commands.
//
// All messages are newline-delimited JSON; each message is exactly one line:
// <json>\n. The channel is a local socket, so there is no auth layer.
package message

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies the kind of message.
type Type string

const (
	TypeStatus         Type = "STATUS"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeRecent         Type = "RECENT"
	TypeRecentResponse Type = "RECENT_RESPONSE"
	TypeError          Type = "ERROR"
)

// ClipSummary is one stored clip as reported over IPC. Content is elided to
// a preview for large clips; the full payload stays in the store.
type ClipSummary struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Preview   string    `json:"preview"`
	SourceApp string    `json:"source_app,omitempty"`
	Pinned    bool      `json:"pinned,omitempty"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusInfo describes the running daemon.
type StatusInfo struct {
	Version     string    `json:"version"`
	Backend     string    `json:"backend"`
	Clips       int64     `json:"clips"`
	LastCleanup time.Time `json:"last_cleanup,omitzero"`
	StartedAt   time.Time `json:"started_at"`
}

// Message is the top-level envelope.
type Message struct {
	Type Type `json:"type"`

	// RECENT — how many clips to return (0 = server default)
	Limit int `json:"limit,omitempty"`

	// RECENT_RESPONSE
	Clips []ClipSummary `json:"clips,omitempty"`

	// STATUS_RESPONSE
	Status *StatusInfo `json:"status,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("message missing type")
	}
	return &m, nil
}
