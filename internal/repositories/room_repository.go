package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"llm-chat-service/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository abstracts chat room and membership persistence.
type RoomRepository interface {
	CreateRoom(ctx context.Context, ownerID string) (models.ChatRoom, error)
	GetRoom(ctx context.Context, roomID string) (models.ChatRoom, error)
	IsMember(ctx context.Context, roomID string, userID string) (bool, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// CreateRoom inserts a room and the creator's owner membership in one
// transaction; the room is never observable without its owner row.
func (r *RoomRepo) CreateRoom(ctx context.Context, ownerID string) (models.ChatRoom, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.ChatRoom{}, err
	}
	defer tx.Rollback()

	var room models.ChatRoom
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO chat_rooms (id) VALUES ($1) RETURNING id, created_at`,
		uuid.NewString(),
	).Scan(&room.ID, &room.CreatedAt); err != nil {
		return models.ChatRoom{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_members (room_id, user_id, level) VALUES ($1, $2, $3)`,
		room.ID, ownerID, models.LevelOwner,
	); err != nil {
		return models.ChatRoom{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ChatRoom{}, err
	}
	return room, nil
}

// GetRoom fetches a room by id.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID string) (models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.GetContext(ctx, &room, `SELECT id, created_at FROM chat_rooms WHERE id=$1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	return room, err
}

// IsMember checks whether a membership row binds the user to the room.
func (r *RoomRepo) IsMember(ctx context.Context, roomID string, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE room_id=$1 AND user_id=$2)`,
		roomID, userID)
	return exists, err
}
