package ai

import "context"

// EmbeddingProvider generates vector embeddings from text for semantic
// similarity search. Implementations must be thread-safe for concurrent use.
type EmbeddingProvider interface {
	// Initialize prepares the provider for use. For providers backed by a
	// locally-served model this is where the heavy model load happens, so
	// the call may block for a long time. Initialization is single-flight:
	// concurrent callers share one attempt. Initialize fails fast with a
	// typed error when a credential or runtime dependency is missing.
	Initialize(ctx context.Context) error

	// EmbedTexts generates vector embeddings for the given texts.
	// The returned slice is 1:1 with the input and order-preserving.
	// Calling EmbedTexts on an uninitialized provider triggers a lazy
	// Initialize first.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector length. This is a hard-coded
	// constant per provider+model, not introspected from output.
	Dimensions() int

	// Close releases resources held by the provider.
	// After Close is called, the provider should not be used.
	Close() error
}
