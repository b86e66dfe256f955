package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "local", cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithProvider("openai"),
		WithHost("https://api.openai.com/v1"),
		WithAPIKey("sk-test"),
		WithEmbeddingModel("text-embedding-3-small"),
	)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1536, cfg.ResolvedDimensions())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"leaves v1 alone", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty host untouched", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("missing provider", func(t *testing.T) {
		cfg := NewConfig(WithProvider(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown model without dimensions", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel("some-exotic-model"))
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownDimensions)
	})

	t.Run("unknown model with explicit dimensions", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("some-exotic-model"),
			WithDimensions(512),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 512, cfg.ResolvedDimensions())
	})

	t.Run("negative dimensions", func(t *testing.T) {
		cfg := NewConfig(WithDimensions(-1))
		assert.Error(t, cfg.Validate())
	})
}

func TestResolvedDimensions(t *testing.T) {
	cfg := NewConfig(WithEmbeddingModel("all-minilm"))
	assert.Equal(t, 384, cfg.ResolvedDimensions())

	// Explicit override wins over the table.
	cfg = NewConfig(WithEmbeddingModel("all-minilm"), WithDimensions(256))
	assert.Equal(t, 256, cfg.ResolvedDimensions())
}
