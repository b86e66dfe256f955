package openai

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/hearth/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.EmbeddingProvider against the remote OpenAI API.
// A credential is required; Initialize fails fast with ai.ErrMissingAPIKey
// when none is configured.
type Embedder struct {
	config   *ai.Config
	embedder embeddings.Embedder
	initOnce sync.Once
	initErr  error
	closed   bool
	logger   *slog.Logger
}

var _ ai.EmbeddingProvider = (*Embedder)(nil)

// NewEmbedder creates a remote OpenAI embedding provider. No network calls
// are made until Initialize or the first EmbedTexts.
//
// Returns ai.EmbeddingProvider interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.EmbeddingProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		config: config,
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// Initialize constructs the API client. Single-flight: concurrent callers
// share one attempt, and the outcome is sticky.
func (e *Embedder) Initialize(ctx context.Context) error {
	e.initOnce.Do(func() {
		e.initErr = e.initialize()
	})
	return e.initErr
}

func (e *Embedder) initialize() error {
	if e.config.APIKey == "" {
		return ai.ErrMissingAPIKey
	}

	client, err := openai.New(
		openai.WithBaseURL(e.config.Host),
		openai.WithToken(e.config.APIKey),
		openai.WithEmbeddingModel(e.config.EmbeddingModel),
	)
	if err != nil {
		return err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return err
	}

	e.embedder = embedder
	return nil
}

// EmbedTexts generates vector embeddings for the given texts, lazily
// initializing the provider on first use.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.closed {
		return nil, ai.ErrProviderClosed
	}
	if err := e.Initialize(ctx); err != nil {
		return nil, err
	}

	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}

// Dimensions returns the fixed vector length for the configured model.
func (e *Embedder) Dimensions() int {
	return e.config.ResolvedDimensions()
}

// Close releases resources held by the provider.
// The underlying HTTP client requires no explicit cleanup.
func (e *Embedder) Close() error {
	e.closed = true
	return nil
}
