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


package hearth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/hearth/ai"
	"github.com/poiesic/hearth/ai/local"
	"github.com/poiesic/hearth/ai/openai"
	"github.com/poiesic/hearth/classify"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	"github.com/poiesic/hearth/graph"
	"github.com/poiesic/hearth/history"
	"github.com/poiesic/hearth/indexing"
	"github.com/poiesic/hearth/search"
	"github.com/poiesic/hearth/storage"
	"github.com/poiesic/hearth/storage/badger"
)

// Resolver owns the embedding provider and vector store and hands out the
// subsystem components built on them. Construction is cheap; the provider
// and store are built lazily on first use behind a single-flight guard, so
// concurrent first callers share one initialization attempt.
type Resolver struct {
	config    *Config
	directory directory.Directory
	logger    *slog.Logger

	injectedProvider ai.EmbeddingProvider
	injectedStore    storage.Store

	initOnce sync.Once
	initErr  error
	store    storage.Store
	provider ai.EmbeddingProvider
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithDirectory injects an Entity Directory implementation, overriding the
// HTTP client built from Config.DirectoryURL.
func WithDirectory(dir directory.Directory) ResolverOption {
	return func(r *Resolver) error {
		r.directory = dir
		return nil
	}
}

// WithProvider injects a prebuilt embedding provider, bypassing the
// provider factory. Mainly for tests and embedding reuse.
func WithProvider(provider ai.EmbeddingProvider) ResolverOption {
	return func(r *Resolver) error {
		r.injectedProvider = provider
		return nil
	}
}

// WithStore injects a prebuilt vector store, bypassing the backend factory.
func WithStore(store storage.Store) ResolverOption {
	return func(r *Resolver) error {
		r.injectedStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver validates the configuration and creates a resolver. The
// provider and store are not touched yet; configuration problems surface
// here, connectivity problems at first use.
func NewResolver(cfg *Config, opts ...ResolverOption) (*Resolver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{
		config: cfg,
		logger: slog.Default().With("component", "resolver"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.directory == nil && cfg.DirectoryURL != "" {
		r.directory = directory.NewClient(cfg.DirectoryURL, directory.WithToken(cfg.DirectoryToken))
	}

	return r, nil
}

// initialize builds the provider and store exactly once. A failed attempt
// is sticky; callers see the same error until a new Resolver is built.
func (r *Resolver) initialize(ctx context.Context) error {
	r.initOnce.Do(func() {
		provider := r.injectedProvider
		if provider == nil {
			var err error
			provider, err = newProvider(r.config.AI)
			if err != nil {
				r.initErr = err
				return
			}
		}
		if err := provider.Initialize(ctx); err != nil {
			provider.Close()
			r.initErr = fmt.Errorf("initializing embedding provider: %w", err)
			return
		}

		store := r.injectedStore
		if store == nil {
			var err error
			store, err = newStore(r.config)
			if err != nil {
				provider.Close()
				r.initErr = err
				return
			}
		}
		if err := store.Initialize(ctx); err != nil {
			provider.Close()
			store.Close()
			r.initErr = fmt.Errorf("initializing vector store: %w", err)
			return
		}
		if !store.HealthCheck(ctx) {
			provider.Close()
			store.Close()
			r.initErr = ErrStoreUnhealthy
			return
		}

		r.provider = provider
		r.store = store
		r.logger.Info("resolver initialized",
			"backend", r.config.Backend, "provider", r.config.AI.Provider,
			"model", r.config.AI.EmbeddingModel)
	})
	return r.initErr
}

// newProvider selects the embedding provider implementation by name.
func newProvider(cfg *ai.Config) (ai.EmbeddingProvider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewEmbedder(cfg)
	case "local":
		return local.NewEmbedder(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// newStore selects the vector store implementation by name.
func newStore(cfg *Config) (storage.Store, error) {
	switch cfg.Backend {
	case "badger":
		if cfg.InMemory {
			return badger.NewMemoryStore()
		}
		return badger.NewStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
}

// Store returns the initialized vector store.
func (r *Resolver) Store(ctx context.Context) (storage.Store, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	return r.store, nil
}

// Provider returns the initialized embedding provider.
func (r *Resolver) Provider(ctx context.Context) (ai.EmbeddingProvider, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	return r.provider, nil
}

// HealthCheck reports whether the subsystem is initialized and usable.
func (r *Resolver) HealthCheck(ctx context.Context) bool {
	if err := r.initialize(ctx); err != nil {
		return false
	}
	return r.store.HealthCheck(ctx)
}

// EmbedTexts embeds texts with the configured provider.
func (r *Resolver) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	return r.provider.EmbedTexts(ctx, texts)
}

// AddTexts embeds texts and upserts them as vector records. ids, texts,
// and metadata (which may be nil) are parallel slices.
func (r *Resolver) AddTexts(ctx context.Context, collection string, ids, texts []string, metadata []map[string]string) error {
	if len(ids) != len(texts) {
		return fmt.Errorf("ids and texts length mismatch: %d != %d", len(ids), len(texts))
	}
	if metadata != nil && len(metadata) != len(ids) {
		return fmt.Errorf("ids and metadata length mismatch: %d != %d", len(ids), len(metadata))
	}
	if err := r.initialize(ctx); err != nil {
		return err
	}

	vectors, err := r.provider.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(vectors))
	}

	records := make([]*core.VectorRecord, len(ids))
	for i := range ids {
		record := &core.VectorRecord{Id: ids[i], Vector: vectors[i]}
		if metadata != nil {
			record.Metadata = metadata[i]
		}
		records[i] = record
	}
	return r.store.UpdateVectors(ctx, collection, records...)
}

// SearchTexts embeds a query and searches a collection directly, without
// the search engine's enrichment or ranking.
func (r *Resolver) SearchTexts(ctx context.Context, collection, query string, limit int, filter map[string]string) ([]*core.SearchResult, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}

	vectors, err := r.provider.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding result mismatch. expected 1, received %d", len(vectors))
	}
	return r.store.SearchVectors(ctx, collection, vectors[0], limit, filter)
}

// CollectionStats reports stats for a collection.
func (r *Resolver) CollectionStats(ctx context.Context, collection string) (*storage.CollectionStats, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	return r.store.CollectionStats(ctx, collection)
}

// DeleteCollection removes a collection and its records.
func (r *Resolver) DeleteCollection(ctx context.Context, collection string) error {
	if err := r.initialize(ctx); err != nil {
		return err
	}
	return r.store.DeleteCollection(ctx, collection)
}

// Close releases the provider and store. A never-initialized resolver
// closes cleanly.
func (r *Resolver) Close() error {
	if r.provider != nil {
		if err := r.provider.Close(); err != nil {
			r.logger.Error("error closing embedding provider", "err", err)
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logger.Error("error closing vector store", "err", err)
			return err
		}
	}
	return nil
}

// NewClassifier creates a query classifier bound to the resolver's
// directory.
func (r *Resolver) NewClassifier(opts ...classify.Option) (*classify.Classifier, error) {
	return classify.NewClassifier(r.directory, opts...)
}

// NewIndexer creates an indexing pipeline with the configured collection
// and batch size.
func (r *Resolver) NewIndexer(ctx context.Context, opts ...indexing.Option) (*indexing.Indexer, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	defaults := []indexing.Option{
		indexing.WithCollection(r.config.Collection),
		indexing.WithBatchSize(r.config.BatchSize),
	}
	return indexing.NewIndexer(r.store, r.provider, r.directory, append(defaults, opts...)...)
}

// NewEngine creates a search engine with the configured collection,
// threshold, limit, and hybrid defaults.
func (r *Resolver) NewEngine(ctx context.Context, opts ...search.Option) (*search.Engine, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	defaults := []search.Option{
		search.WithCollection(r.config.Collection),
		search.WithThreshold(r.config.SimilarityThreshold),
		search.WithDefaultLimit(r.config.DefaultLimit),
		search.WithHybrid(r.config.HybridSearch),
		search.WithEnabled(r.config.Enabled),
	}
	return search.NewEngine(r.store, r.provider, r.directory, append(defaults, opts...)...)
}

// NewBuilder creates a relationship graph builder.
func (r *Resolver) NewBuilder(ctx context.Context, opts ...graph.Option) (*graph.Builder, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	return graph.NewBuilder(r.store, r.provider, r.directory, opts...)
}

// NewTracker creates a query history tracker.
func (r *Resolver) NewTracker(ctx context.Context, opts ...history.Option) (*history.Tracker, error) {
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}
	classifier, err := r.NewClassifier()
	if err != nil {
		return nil, err
	}
	return history.NewTracker(r.store, r.provider, classifier, opts...)
}
