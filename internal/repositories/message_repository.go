package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"llm-chat-service/internal/models"
)

// ErrNothingStored reports that no message row was confirmed inserted.
var ErrNothingStored = errors.New("no messages stored")

// ErrMessageNotFound reports that the message does not exist in the room.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions with a room's message log.
type MessageRepository interface {
	AppendMessages(ctx context.Context, roomID string, msgs []models.NewMessage) ([]models.Message, error)
	ListMessages(ctx context.Context, roomID string) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// AppendMessages persists the batch in order within one transaction. Each
// message gets a fresh id and a persistence-time timestamp. Partial insertion
// is total failure; zero confirmed rows reports ErrNothingStored.
func (r *MessageRepo) AppendMessages(ctx context.Context, roomID string, msgs []models.NewMessage) ([]models.Message, error) {
	if len(msgs) == 0 {
		return nil, ErrNothingStored
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stored := stampBatch(roomID, time.Now().UTC(), msgs)
	for _, row := range stored {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, room_id, role, content, created_at, annotations, attachments)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.ID, row.RoomID, row.Role, row.Content, row.CreatedAt, row.Annotations, row.Attachments)
		if err != nil {
			return nil, err
		}
		count, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNothingStored
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

// stampBatch assigns each message a fresh id and a strictly increasing
// timestamp derived from base. The microsecond offsets keep a batch's listing
// order equal to its insertion order even when the clock does not move between
// rows.
func stampBatch(roomID string, base time.Time, msgs []models.NewMessage) []models.Message {
	rows := make([]models.Message, 0, len(msgs))
	for i, m := range msgs {
		rows = append(rows, models.Message{
			ID:          uuid.NewString(),
			RoomID:      roomID,
			Role:        m.Role,
			Content:     m.Content,
			CreatedAt:   base.Add(time.Duration(i) * time.Microsecond),
			Annotations: types.JSONText(`[]`),
			Attachments: types.JSONText(`[]`),
		})
	}
	return rows
}

// ListMessages returns the room's log ascending by creation time. Pure read,
// used by session resume.
func (r *MessageRepo) ListMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, room_id, role, content, created_at, annotations, attachments
         FROM messages WHERE room_id=$1 ORDER BY created_at ASC, id ASC`, roomID)
	return msgs, err
}
