package hearth

import (
	"fmt"

	"github.com/poiesic/hearth/ai"
)

// Config holds the full subsystem configuration. Values are read-only after
// the Resolver initializes.
type Config struct {
	// Enabled toggles the semantic path. A disabled subsystem still
	// answers searches via the keyword fallback.
	Enabled bool

	// Backend selects the vector store. Supported: "badger".
	Backend string

	// StorePath is the on-disk location for the embedded store.
	StorePath string

	// InMemory uses a non-persistent store; StorePath is then ignored.
	InMemory bool

	// Collection is the entity index collection name.
	Collection string

	// SimilarityThreshold is the default floor for semantic matches.
	SimilarityThreshold float32

	// DefaultLimit is the result count when a search requests none.
	DefaultLimit int

	// HybridSearch merges keyword hits into semantic results by default.
	HybridSearch bool

	// BatchSize is the indexing chunk size.
	BatchSize int

	// DirectoryURL is the Entity Directory base URL. Leave empty when a
	// Directory implementation is injected directly.
	DirectoryURL string

	// DirectoryToken is the bearer token for the Entity Directory.
	DirectoryToken string

	// AI configures the embedding provider.
	AI *ai.Config
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithEnabled toggles the semantic path.
func WithEnabled(enabled bool) Option {
	return func(c *Config) { c.Enabled = enabled }
}

// WithBackend selects the vector store backend.
func WithBackend(backend string) Option {
	return func(c *Config) { c.Backend = backend }
}

// WithStorePath sets the on-disk store location.
func WithStorePath(path string) Option {
	return func(c *Config) { c.StorePath = path }
}

// WithInMemory selects a non-persistent store.
func WithInMemory() Option {
	return func(c *Config) { c.InMemory = true }
}

// WithCollection sets the entity index collection name.
func WithCollection(name string) Option {
	return func(c *Config) { c.Collection = name }
}

// WithSimilarityThreshold sets the default semantic match floor.
func WithSimilarityThreshold(threshold float32) Option {
	return func(c *Config) { c.SimilarityThreshold = threshold }
}

// WithDefaultLimit sets the default search result count.
func WithDefaultLimit(limit int) Option {
	return func(c *Config) { c.DefaultLimit = limit }
}

// WithHybridSearch toggles the default hybrid merge.
func WithHybridSearch(hybrid bool) Option {
	return func(c *Config) { c.HybridSearch = hybrid }
}

// WithBatchSize sets the indexing chunk size.
func WithBatchSize(size int) Option {
	return func(c *Config) { c.BatchSize = size }
}

// WithDirectoryURL sets the Entity Directory base URL.
func WithDirectoryURL(url string) Option {
	return func(c *Config) { c.DirectoryURL = url }
}

// WithDirectoryToken sets the Entity Directory bearer token.
func WithDirectoryToken(token string) Option {
	return func(c *Config) { c.DirectoryToken = token }
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(c *Config) {
		if cfg != nil {
			c.AI = cfg
		}
	}
}

// DefaultConfig returns a Config with the badger backend and a local
// embedding provider.
func DefaultConfig() *Config {
	return &Config{
		Enabled:             true,
		Backend:             "badger",
		Collection:          "entities",
		SimilarityThreshold: 0.35,
		DefaultLimit:        10,
		BatchSize:           100,
		AI:                  ai.DefaultConfig(),
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("config: Backend is required")
	}
	if c.Backend == "badger" && !c.InMemory && c.StorePath == "" {
		return ErrStorePathRequired
	}
	if c.Collection == "" {
		return fmt.Errorf("config: Collection is required")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("config: SimilarityThreshold must be in [0,1]")
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("config: DefaultLimit must be positive")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("config: BatchSize must be positive")
	}
	if c.AI == nil {
		return fmt.Errorf("config: AI configuration is required")
	}
	return c.AI.Validate()
}
