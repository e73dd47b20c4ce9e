package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Publisher delivers audit events to the operational event bus.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AuditEmitter emits reconciliation and audit events. The main consumer is an
// operator backfilling assistant messages whose outbound persistence failed
// after the response was already committed.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level  string `json:"level"`
	Text   string `json:"text"`
	RoomID string `json:"room_id,omitempty"`
}

// NewAuditEmitter constructs an AuditEmitter.
func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one audit event. Safe on a nil emitter so call sites need no
// guard when auditing is not wired.
func (e *AuditEmitter) Emit(ctx context.Context, level, text, requestID, roomID string, userID *string) {
	if e == nil || e.publisher == nil {
		return
	}

	log.Info().
		Str("level", level).
		Str("request_id", requestID).
		Str("room_id", roomID).
		Str("text", text).
		Msg("audit emit")

	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload: AuditPayload{
			Level:  level,
			Text:   text,
			RoomID: roomID,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Error().Err(err).Msg("audit publish failed")
	}
}
