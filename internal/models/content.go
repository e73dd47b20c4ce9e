package models

import (
	"encoding/json"
	"strings"
)

// ContentSegment is one typed element of structured message content.
type ContentSegment struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
	Data string `json:"data,omitempty"`
}

// MessageContent accepts either a plain string or an ordered list of typed
// segments, matching the wire shape chat clients produce.
type MessageContent struct {
	text     string
	segments []ContentSegment
	isList   bool
}

// TextContent wraps a plain string as message content.
func TextContent(s string) MessageContent {
	return MessageContent{text: s}
}

// SegmentContent wraps structured segments as message content.
func SegmentContent(segments ...ContentSegment) MessageContent {
	return MessageContent{segments: segments, isList: true}
}

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MessageContent{text: s}
		return nil
	}
	var segments []ContentSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return err
	}
	*m = MessageContent{segments: segments, isList: true}
	return nil
}

func (m MessageContent) MarshalJSON() ([]byte, error) {
	if m.isList {
		return json.Marshal(m.segments)
	}
	return json.Marshal(m.text)
}

// Flatten collapses content to a single display string: text segments pass
// through verbatim, other kinds become fixed placeholders, joined by single
// spaces in original order. Lossy on purpose; full structure belongs to the
// Part model.
func (m MessageContent) Flatten() string {
	if !m.isList {
		return m.text
	}
	rendered := make([]string, 0, len(m.segments))
	for _, segment := range m.segments {
		switch segment.Type {
		case "text":
			rendered = append(rendered, segment.Text)
		case "image":
			rendered = append(rendered, "[Image]")
		case "file":
			name := segment.Name
			if name == "" {
				name = segment.Data
			}
			rendered = append(rendered, "[File: "+name+"]")
		default:
			rendered = append(rendered, "[Unknown content]")
		}
	}
	return strings.Join(rendered, " ")
}
