package models

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
)

// PartType discriminates part payload variants.
type PartType string

const (
	PartText           PartType = "text"
	PartReasoning      PartType = "reasoning"
	PartToolInvocation PartType = "tool_invocation"
	PartSource         PartType = "source"
	PartStepStart      PartType = "step_start"
)

// PartPayload is the sum type over part payload variants. Exactly one payload
// row exists per part, in the table matching the part's discriminant.
type PartPayload interface {
	PartType() PartType
}

// TextPayload holds plain generated text.
type TextPayload struct {
	Text string `db:"text" json:"text"`
}

func (TextPayload) PartType() PartType { return PartText }

// ReasoningPayload holds a model's intermediate reasoning trace.
type ReasoningPayload struct {
	Reasoning string `db:"reasoning" json:"reasoning"`
}

func (ReasoningPayload) PartType() PartType { return PartReasoning }

// ToolInvocationPayload captures a tool call and, once resolved, its result.
// State is one of partial-call, call, result.
type ToolInvocationPayload struct {
	ToolCallID string         `db:"tool_call_id" json:"tool_call_id"`
	ToolName   string         `db:"tool_name" json:"tool_name"`
	State      string         `db:"state" json:"state"`
	Args       types.JSONText `db:"args" json:"args"`
	Result     types.JSONText `db:"result" json:"result,omitempty"`
}

func (ToolInvocationPayload) PartType() PartType { return PartToolInvocation }

// SourcePayload references external material cited by the model.
type SourcePayload struct {
	SourceType string `db:"source_type" json:"source_type"`
	SourceID   string `db:"source_id" json:"source_id"`
	URL        string `db:"url" json:"url"`
	Title      string `db:"title" json:"title,omitempty"`
}

func (SourcePayload) PartType() PartType { return PartSource }

// StepStartPayload marks a step boundary and carries no fields.
type StepStartPayload struct{}

func (StepStartPayload) PartType() PartType { return PartStepStart }

// Part is a typed, ordered sub-unit of a message's structured content.
type Part struct {
	ID        string      `json:"id"`
	MessageID string      `json:"message_id"`
	Order     int         `json:"order"`
	Payload   PartPayload `json:"payload"`
}

// Type returns the discriminant of the part's payload.
func (p Part) Type() PartType { return p.Payload.PartType() }

// MarshalJSON includes the payload discriminant so clients can decode the
// union without probing fields.
func (p Part) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string      `json:"id"`
		MessageID string      `json:"message_id"`
		Order     int         `json:"order"`
		Type      PartType    `json:"type"`
		Payload   PartPayload `json:"payload"`
	}{p.ID, p.MessageID, p.Order, p.Type(), p.Payload})
}
