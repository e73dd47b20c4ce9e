package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Role identifies the author kind of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleData      Role = "data"
)

// Valid reports whether r is one of the four persisted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleData:
		return true
	}
	return false
}

// Message is one entry of a room's append-only log. Messages are immutable
// once persisted.
type Message struct {
	ID          string         `db:"id" json:"id"`
	RoomID      string         `db:"room_id" json:"room_id"`
	Role        Role           `db:"role" json:"role"`
	Content     string         `db:"content" json:"content"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	Annotations types.JSONText `db:"annotations" json:"annotations,omitempty"`
	Attachments types.JSONText `db:"attachments" json:"attachments,omitempty"`
}

// Attachment mirrors the serialized attachment entries stored on a message.
type Attachment struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url"`
}

// NewMessage is the caller-supplied portion of a message to append; the store
// assigns identity and timestamp at persistence time.
type NewMessage struct {
	Role    Role
	Content string
}
