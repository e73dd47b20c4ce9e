package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartTypeDiscriminants(t *testing.T) {
	cases := []struct {
		payload  PartPayload
		expected PartType
	}{
		{TextPayload{Text: "hi"}, PartText},
		{ReasoningPayload{Reasoning: "because"}, PartReasoning},
		{ToolInvocationPayload{ToolCallID: "c1", ToolName: "search", State: "call"}, PartToolInvocation},
		{SourcePayload{SourceType: "url", SourceID: "s1"}, PartSource},
		{StepStartPayload{}, PartStepStart},
	}

	for _, tc := range cases {
		part := Part{ID: "p1", MessageID: "m1", Payload: tc.payload}
		assert.Equal(t, tc.expected, part.Type())
	}
}
