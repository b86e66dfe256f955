package hearth

import (
	"testing"

	"github.com/poiesic/hearth/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults with store path", func(t *testing.T) {
		cfg := NewConfig(WithStorePath(t.TempDir()))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("defaults in memory", func(t *testing.T) {
		cfg := NewConfig(WithInMemory())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("badger requires a path", func(t *testing.T) {
		cfg := NewConfig()
		assert.ErrorIs(t, cfg.Validate(), ErrStorePathRequired)
	})

	t.Run("threshold bounds", func(t *testing.T) {
		cfg := NewConfig(WithInMemory(), WithSimilarityThreshold(1.5))
		assert.Error(t, cfg.Validate())
	})

	t.Run("ai config propagates", func(t *testing.T) {
		cfg := NewConfig(WithInMemory(), WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingModel("mystery-model"),
		)))
		assert.ErrorIs(t, cfg.Validate(), ai.ErrUnknownDimensions)
	})

	t.Run("options apply", func(t *testing.T) {
		cfg := NewConfig(
			WithInMemory(),
			WithCollection("devices"),
			WithDefaultLimit(25),
			WithHybridSearch(true),
			WithBatchSize(50),
			WithEnabled(false),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "devices", cfg.Collection)
		assert.Equal(t, 25, cfg.DefaultLimit)
		assert.True(t, cfg.HybridSearch)
		assert.Equal(t, 50, cfg.BatchSize)
		assert.False(t, cfg.Enabled)
	})
}
