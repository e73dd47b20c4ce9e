package llm

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// openaiGenerator streams chat completions through the OpenAI-compatible API
// surface. Google models are reached through Gemini's compatibility endpoint,
// so one client type covers the whole catalog.
type openaiGenerator struct {
	client *openai.Client
	model  string
}

func newOpenAIGenerator(apiKey, baseURL, model string) *openaiGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openaiGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

// Stream opens the upstream completion stream and relays text deltas on the
// returned channel until the model signals completion.
func (g *openaiGenerator) Stream(ctx context.Context, history []Message) (<-chan TokenEvent, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: toChatMessages(history),
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}

	out := make(chan TokenEvent)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case out <- TokenEvent{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case out <- TokenEvent{Delta: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func toChatMessages(history []Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		role := m.Role
		switch role {
		case openai.ChatMessageRoleSystem, openai.ChatMessageRoleUser, openai.ChatMessageRoleAssistant:
		default:
			// data messages carry client-side state; providers only understand
			// the three conversational roles.
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}
