// Package mock provides test doubles for the ai package.
package mock

import (
	"context"
	"hash/fnv"
)

// Embedder is a test double for ai.EmbeddingProvider.
// It allows custom behavior injection via function fields.
type Embedder struct {
	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// InitializeFunc is called by Initialize if set.
	InitializeFunc func(ctx context.Context) error

	dims        int
	callCount   int
	initialized bool
}

// NewEmbedder creates a mock embedder with default deterministic behavior
// and 384-dimensional vectors.
// Note: Returns concrete type to allow test assertions.
func NewEmbedder() *Embedder {
	return &Embedder{dims: 384}
}

// NewEmbedderWithDimensions creates a mock embedder producing vectors of
// the given length.
func NewEmbedderWithDimensions(dims int) *Embedder {
	return &Embedder{dims: dims}
}

// Initialize marks the provider as initialized.
func (m *Embedder) Initialize(ctx context.Context) error {
	if m.InitializeFunc != nil {
		if err := m.InitializeFunc(ctx); err != nil {
			return err
		}
	}
	m.initialized = true
	return nil
}

// EmbedTexts generates deterministic embeddings based on text hashes.
func (m *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if !m.initialized {
		if err := m.Initialize(ctx); err != nil {
			return nil, err
		}
	}

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = generateDeterministicVector(text, m.dims)
	}
	return vectors, nil
}

// Dimensions returns the configured vector length.
func (m *Embedder) Dimensions() int {
	return m.dims
}

// Close is a no-op for the mock embedder.
func (m *Embedder) Close() error {
	return nil
}

// CallCount returns the number of times EmbedTexts was called.
func (m *Embedder) CallCount() int {
	return m.callCount
}

// Initialized reports whether Initialize has run.
func (m *Embedder) Initialized() bool {
	return m.initialized
}

// Reset clears the call count and injected behavior.
func (m *Embedder) Reset() {
	m.callCount = 0
	m.initialized = false
	m.EmbedTextsFunc = nil
	m.InitializeFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	// Normalize to unit vector
	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares > 0 {
		norm := float32(1.0) / sumSquares
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
