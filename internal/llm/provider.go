package llm

import (
	"context"
	"errors"
)

// ErrUnsupportedProvider reports a (provider, model) pair outside the catalog.
var ErrUnsupportedProvider = errors.New("unsupported provider or model")

// Message is the minimal chat message shape sent upstream.
type Message struct {
	Role    string
	Content string
}

// TokenEvent is one increment of a generation stream. A non-nil Err is
// terminal; the channel closes after the final event.
type TokenEvent struct {
	Delta string
	Err   error
}

// Generator produces a finite, non-restartable token stream for a message
// history. Implementations stop early when ctx is canceled.
type Generator interface {
	Stream(ctx context.Context, history []Message) (<-chan TokenEvent, error)
}

// Resolver maps a (provider, model) pair to a Generator.
type Resolver interface {
	Resolve(provider, model string) (Generator, error)
}

type providerConfig struct {
	baseURL string
	models  map[string]struct{}
}

// catalog is the closed enumeration of valid (provider, model) pairs.
// Validation against it never touches the network.
var catalog = map[string]providerConfig{
	"google": {
		baseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
		models:  modelSet("gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"),
	},
	"openai": {
		baseURL: "",
		models:  modelSet("gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"),
	},
}

func modelSet(models ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[m] = struct{}{}
	}
	return set
}

// Supported reports whether the pair is in the catalog.
func Supported(provider, model string) bool {
	p, ok := catalog[provider]
	if !ok {
		return false
	}
	_, ok = p.models[model]
	return ok
}

// Pairs returns every valid (provider, model) combination.
func Pairs() map[string][]string {
	out := make(map[string][]string, len(catalog))
	for provider, cfg := range catalog {
		for model := range cfg.models {
			out[provider] = append(out[provider], model)
		}
	}
	return out
}

// Registry resolves catalog entries to streaming clients using per-provider
// API keys.
type Registry struct {
	keys map[string]string
}

// NewRegistry constructs a Registry. Keys are indexed by provider id.
func NewRegistry(keys map[string]string) *Registry {
	return &Registry{keys: keys}
}

// Resolve returns a Generator for the pair or ErrUnsupportedProvider. No
// network call happens here; the stream opens lazily on Stream.
func (r *Registry) Resolve(provider, model string) (Generator, error) {
	cfg, ok := catalog[provider]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	if _, ok := cfg.models[model]; !ok {
		return nil, ErrUnsupportedProvider
	}
	return newOpenAIGenerator(r.keys[provider], cfg.baseURL, model), nil
}
