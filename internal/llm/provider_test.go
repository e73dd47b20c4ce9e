package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedCoversWholeCatalog(t *testing.T) {
	for provider, models := range Pairs() {
		for _, model := range models {
			assert.True(t, Supported(provider, model), "%s/%s", provider, model)
		}
	}
}

func TestSupportedRejectsUnknownPairs(t *testing.T) {
	assert.False(t, Supported("google", "gpt-4o"))
	assert.False(t, Supported("openai", "gemini-1.5-flash"))
	assert.False(t, Supported("anthropic", "claude-3"))
	assert.False(t, Supported("", ""))
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry(map[string]string{"google": "k1", "openai": "k2"})

	gen, err := registry.Resolve("google", "gemini-1.5-flash")
	require.NoError(t, err)
	require.NotNil(t, gen)

	gen, err = registry.Resolve("openai", "gpt-4o-mini")
	require.NoError(t, err)
	require.NotNil(t, gen)
}

func TestRegistryResolveUnknown(t *testing.T) {
	registry := NewRegistry(nil)

	_, err := registry.Resolve("google", "no-such-model")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = registry.Resolve("no-such-provider", "gemini-1.5-flash")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
