// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package local implements ai.EmbeddingProvider against a locally-served
// OpenAI-compatible embedding API (Ollama, LocalAI, vLLM).
package local

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/hearth/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.EmbeddingProvider using a local OpenAI-compatible
// server. Initialize performs a warm-up embedding call so the server loads
// the model once, up front, rather than on the first query. The warm-up can
// block for a long time on large models; initialization is single-flight so
// concurrent first callers wait on one load instead of each triggering one.
type Embedder struct {
	config   *ai.Config
	embedder embeddings.Embedder
	initOnce sync.Once
	initErr  error
	closed   bool
	logger   *slog.Logger
}

var _ ai.EmbeddingProvider = (*Embedder)(nil)

// NewEmbedder creates a local embedding provider. No network calls are made
// until Initialize or the first EmbedTexts.
//
// Returns ai.EmbeddingProvider interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.EmbeddingProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		config: config,
		logger: slog.Default().With("component", "local-embedder"),
	}, nil
}

// Initialize builds the client and performs the warm-up embedding.
// An unreachable server fails fast here rather than on the first query.
func (e *Embedder) Initialize(ctx context.Context) error {
	e.initOnce.Do(func() {
		e.initErr = e.initialize(ctx)
	})
	return e.initErr
}

func (e *Embedder) initialize(ctx context.Context) error {
	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(e.config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(e.config.EmbeddingModel),
	)
	if err != nil {
		return err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return err
	}

	// Warm-up: forces the server to load the model now. Blocks until the
	// load finishes or ctx is cancelled.
	e.logger.Info("warming up local embedding model", "model", e.config.EmbeddingModel)
	if _, err := embedder.EmbedDocuments(ctx, []string{"warm up"}); err != nil {
		return fmt.Errorf("local embedding server unavailable at %s: %w", e.config.Host, err)
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
func (e *Embedder) Close() error {
	e.closed = true
	return nil
}
