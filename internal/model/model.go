package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation. Messages are append-only.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a persisted conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionSummary is the sidebar view of a session, without its messages.
type SessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Bucket       string    `json:"bucket"`
	Updated      string    `json:"updated"`
}

// StreamResponse is the structure for a single chunk in a streaming response.
type StreamResponse struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewID returns a time-ordered unique identifier (UUIDv7).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewMessage creates a message stamped with the given instant.
func NewMessage(role Role, text string, at time.Time) Message {
	return Message{ID: NewID(), Text: text, Role: role, Timestamp: at}
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool { return m.Role == RoleUser }

// LastActivity is the instant used for recency ordering and bucketing.
func (s *Session) LastActivity() time.Time {
	if s.UpdatedAt.IsZero() {
		return s.CreatedAt
	}
	return s.UpdatedAt
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = CloneMessages(s.Messages)
	return &c
}

// CloneMessages copies a message slice, never returning nil.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// UnmarshalJSON accepts the legacy browser shape of a message: a numeric id
// and an `isUser` flag instead of a role.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		*alias
		ID     json.RawMessage `json:"id"`
		IsUser *bool           `json:"isUser"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return fmt.Errorf("message id: %w", err)
	}
	m.ID = id
	if m.Role == "" && aux.IsUser != nil {
		if *aux.IsUser {
			m.Role = RoleUser
		} else {
			m.Role = RoleAssistant
		}
	}
	return nil
}

// UnmarshalJSON accepts numeric legacy ids and records without messages.
func (s *Session) UnmarshalJSON(data []byte) error {
	type alias Session
	aux := struct {
		*alias
		ID json.RawMessage `json:"id"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}
	s.ID = id
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
