package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenPlainString(t *testing.T) {
	assert.Equal(t, "hello there", TextContent("hello there").Flatten())
	assert.Equal(t, "", TextContent("").Flatten())
}

func TestFlattenSegments(t *testing.T) {
	cases := []struct {
		name     string
		content  MessageContent
		expected string
	}{
		{
			name: "text around image",
			content: SegmentContent(
				ContentSegment{Type: "text", Text: "a"},
				ContentSegment{Type: "image"},
				ContentSegment{Type: "text", Text: "b"},
			),
			expected: "a [Image] b",
		},
		{
			name:     "file with name",
			content:  SegmentContent(ContentSegment{Type: "file", Name: "report.pdf"}),
			expected: "[File: report.pdf]",
		},
		{
			name:     "file name falls back to data",
			content:  SegmentContent(ContentSegment{Type: "file", Data: "blob-42"}),
			expected: "[File: blob-42]",
		},
		{
			name:     "unknown segment type",
			content:  SegmentContent(ContentSegment{Type: "video"}),
			expected: "[Unknown content]",
		},
		{
			name:     "empty list",
			content:  SegmentContent(),
			expected: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.content.Flatten())
		})
	}
}

func TestMessageContentUnmarshalString(t *testing.T) {
	var content MessageContent
	require.NoError(t, json.Unmarshal([]byte(`"just text"`), &content))
	assert.Equal(t, "just text", content.Flatten())
}

func TestMessageContentUnmarshalSegments(t *testing.T) {
	var content MessageContent
	raw := `[{"type":"text","text":"see"},{"type":"file","name":"notes.txt"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &content))
	assert.Equal(t, "see [File: notes.txt]", content.Flatten())
}

func TestMessageContentUnmarshalRejectsObject(t *testing.T) {
	var content MessageContent
	assert.Error(t, json.Unmarshal([]byte(`{"type":"text"}`), &content))
}

func TestMessageContentMarshalRoundTrip(t *testing.T) {
	original := SegmentContent(
		ContentSegment{Type: "text", Text: "a"},
		ContentSegment{Type: "image"},
	)
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded MessageContent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.Flatten(), decoded.Flatten())
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleSystem, RoleUser, RoleAssistant, RoleData} {
		assert.True(t, role.Valid(), string(role))
	}
	assert.False(t, Role("robot").Valid())
	assert.False(t, Role("").Valid())
}
