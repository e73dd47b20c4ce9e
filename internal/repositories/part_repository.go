package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"llm-chat-service/internal/models"
)

// PartRepository stores structured message parts. The streaming path writes
// flattened text only; parts carry future tool-call and reasoning output
// while keeping referential integrity with their message.
type PartRepository interface {
	InsertParts(ctx context.Context, messageID string, payloads []models.PartPayload) ([]models.Part, error)
	ListParts(ctx context.Context, roomID, messageID string) ([]models.Part, error)
}

// PartRepo is a sqlx implementation of PartRepository.
type PartRepo struct {
	db *sqlx.DB
}

// NewPartRepo constructs a PartRepo.
func NewPartRepo(db *sqlx.DB) *PartRepo {
	return &PartRepo{db: db}
}

// InsertParts stores the payloads as ordered parts of the message. Each part
// row is paired with exactly one payload row in the table matching its type;
// the whole batch commits or none of it does.
func (r *PartRepo) InsertParts(ctx context.Context, messageID string, payloads []models.PartPayload) ([]models.Part, error) {
	if len(payloads) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	parts := make([]models.Part, 0, len(payloads))
	for i, payload := range payloads {
		part := models.Part{
			ID:        uuid.NewString(),
			MessageID: messageID,
			Order:     i,
			Payload:   payload,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parts (id, message_id, ord, type) VALUES ($1, $2, $3, $4)`,
			part.ID, part.MessageID, part.Order, part.Type()); err != nil {
			return nil, err
		}
		if err := insertPayload(ctx, tx, part.ID, payload); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return parts, nil
}

func insertPayload(ctx context.Context, tx *sqlx.Tx, partID string, payload models.PartPayload) error {
	switch p := payload.(type) {
	case models.TextPayload:
		_, err := tx.ExecContext(ctx,
			`INSERT INTO text_parts (part_id, text) VALUES ($1, $2)`, partID, p.Text)
		return err
	case models.ReasoningPayload:
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reasoning_parts (part_id, reasoning) VALUES ($1, $2)`, partID, p.Reasoning)
		return err
	case models.ToolInvocationPayload:
		args := p.Args
		if args == nil {
			args = types.JSONText(`null`)
		}
		var result interface{}
		if p.Result != nil {
			result = p.Result
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tool_invocation_parts (part_id, tool_call_id, tool_name, state, args, result)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			partID, p.ToolCallID, p.ToolName, p.State, args, result)
		return err
	case models.SourcePayload:
		_, err := tx.ExecContext(ctx,
			`INSERT INTO source_parts (part_id, source_type, source_id, url, title)
             VALUES ($1, $2, $3, $4, $5)`,
			partID, p.SourceType, p.SourceID, p.URL, p.Title)
		return err
	case models.StepStartPayload:
		_, err := tx.ExecContext(ctx,
			`INSERT INTO step_start_parts (part_id) VALUES ($1)`, partID)
		return err
	default:
		return fmt.Errorf("unknown part payload %T", payload)
	}
}

// ListParts reconstructs the message's parts in order with typed payloads.
// The read is scoped to the room: a message outside it reports
// ErrMessageNotFound rather than leaking another room's parts.
func (r *PartRepo) ListParts(ctx context.Context, roomID, messageID string) ([]models.Part, error) {
	var msgRoom string
	err := r.db.GetContext(ctx, &msgRoom,
		`SELECT room_id FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	if msgRoom != roomID {
		return nil, ErrMessageNotFound
	}

	type partRow struct {
		ID        string          `db:"id"`
		MessageID string          `db:"message_id"`
		Order     int             `db:"ord"`
		Type      models.PartType `db:"type"`
	}

	var rows []partRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT id, message_id, ord, type FROM parts WHERE message_id=$1 ORDER BY ord ASC`, messageID); err != nil {
		return nil, err
	}

	parts := make([]models.Part, 0, len(rows))
	for _, row := range rows {
		payload, err := r.loadPayload(ctx, row.ID, row.Type)
		if err != nil {
			return nil, err
		}
		parts = append(parts, models.Part{
			ID:        row.ID,
			MessageID: row.MessageID,
			Order:     row.Order,
			Payload:   payload,
		})
	}
	return parts, nil
}

func (r *PartRepo) loadPayload(ctx context.Context, partID string, t models.PartType) (models.PartPayload, error) {
	switch t {
	case models.PartText:
		var p models.TextPayload
		err := r.db.GetContext(ctx, &p, `SELECT text FROM text_parts WHERE part_id=$1`, partID)
		return p, err
	case models.PartReasoning:
		var p models.ReasoningPayload
		err := r.db.GetContext(ctx, &p, `SELECT reasoning FROM reasoning_parts WHERE part_id=$1`, partID)
		return p, err
	case models.PartToolInvocation:
		var p models.ToolInvocationPayload
		err := r.db.GetContext(ctx, &p,
			`SELECT tool_call_id, tool_name, state, args, COALESCE(result, 'null'::jsonb) AS result
             FROM tool_invocation_parts WHERE part_id=$1`, partID)
		return p, err
	case models.PartSource:
		var p models.SourcePayload
		err := r.db.GetContext(ctx, &p,
			`SELECT source_type, source_id, url, COALESCE(title, '') AS title
             FROM source_parts WHERE part_id=$1`, partID)
		return p, err
	case models.PartStepStart:
		return models.StepStartPayload{}, nil
	default:
		return nil, fmt.Errorf("unknown part type %q", t)
	}
}
