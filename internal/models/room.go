package models

import "time"

// Membership access levels. Only membership itself gates access in this
// service; levels are stored for invitation and moderation flows.
const (
	LevelMember = 0
	LevelAdmin  = 1
	LevelOwner  = 2
)

// ChatRoom is a conversation scope owning an ordered message log.
type ChatRoom struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Membership binds a user to a room at an access level. A user has at most
// one membership row per room.
type Membership struct {
	RoomID string `db:"room_id" json:"room_id"`
	UserID string `db:"user_id" json:"user_id"`
	Level  int    `db:"level" json:"level"`
}
