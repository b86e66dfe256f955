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


package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/hearth/ai"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	"github.com/poiesic/hearth/storage"
)

// DefaultCollection is the collection entity vectors are searched in.
const DefaultCollection = "entities"

// DefaultThreshold is the similarity floor applied when none is configured.
const DefaultThreshold = 0.35

// DefaultLimit is the result count when none is requested.
const DefaultLimit = 10

// hybridSemanticWeight favors semantic hits over keyword hits when merging.
const hybridSemanticWeight = 1.2

// Engine resolves queries against the entity vector index with a keyword
// fallback. A disabled engine, or any failing pipeline stage, serves the
// keyword path instead of returning an error.
type Engine struct {
	store      storage.Store
	provider   ai.EmbeddingProvider
	directory  directory.Directory
	collection string
	distance   DistanceKind
	threshold  float32
	limit      int
	hybrid     bool
	enabled    bool
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithCollection sets the collection to search.
// Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(e *Engine) error {
		if name != "" {
			e.collection = name
		}
		return nil
	}
}

// WithDistanceKind declares the backend's raw score interpretation.
// Default is CosineDistance, matching the badger backend.
func WithDistanceKind(kind DistanceKind) Option {
	return func(e *Engine) error {
		e.distance = kind
		return nil
	}
}

// WithThreshold sets the default similarity floor.
func WithThreshold(threshold float32) Option {
	return func(e *Engine) error {
		e.threshold = core.ClampScore(threshold)
		return nil
	}
}

// WithDefaultLimit sets the result count used when a search requests none.
func WithDefaultLimit(limit int) Option {
	return func(e *Engine) error {
		if limit > 0 {
			e.limit = limit
		}
		return nil
	}
}

// WithHybrid enables the hybrid semantic+keyword merge by default.
func WithHybrid(hybrid bool) Option {
	return func(e *Engine) error {
		e.hybrid = hybrid
		return nil
	}
}

// WithEnabled toggles the semantic path. A disabled engine serves every
// search from the keyword pass.
func WithEnabled(enabled bool) Option {
	return func(e *Engine) error {
		e.enabled = enabled
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a search engine.
func NewEngine(
	store storage.Store,
	provider ai.EmbeddingProvider,
	dir directory.Directory,
	opts ...Option,
) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if dir == nil {
		return nil, ErrDirectoryRequired
	}

	e := &Engine{
		store:      store,
		provider:   provider,
		directory:  dir,
		collection: DefaultCollection,
		distance:   CosineDistance,
		threshold:  DefaultThreshold,
		limit:      DefaultLimit,
		enabled:    true,
		logger:     slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Options narrows a single search. The zero value uses the engine defaults.
type Options struct {
	// Domain, AreaId, and Manufacturer become equality metadata filters.
	Domain       string
	AreaId       string
	Manufacturer string

	// EntityState drops results whose live state differs.
	EntityState string

	// Limit caps the result count; 0 uses the engine default.
	Limit int

	// Threshold overrides the similarity floor; 0 uses the engine default.
	Threshold float32

	// Hybrid requests the semantic+keyword merge in addition to the
	// engine-level default.
	Hybrid bool
}

// Search resolves a query to ranked entity matches.
// A nil error with an empty slice means nothing matched; degraded pipeline
// stages fall back to keyword search rather than erroring.
func (e *Engine) Search(ctx context.Context, query string, opts *Options) ([]*core.RankedMatch, error) {
	return e.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor resolves a query with observation hooks.
// The monitor receives callbacks at each stage of the search pipeline.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, opts *Options, monitor Monitor) ([]*core.RankedMatch, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if opts == nil {
		opts = &Options{}
	}

	query = strings.ToLower(strings.TrimSpace(query))
	limit := opts.Limit
	if limit <= 0 {
		limit = e.limit
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = e.threshold
	}

	monitor.Start(query)

	if !e.enabled {
		monitor.KeywordFallback("semantic search disabled")
		return e.finishKeyword(ctx, query, opts, limit, monitor)
	}

	vectors, err := e.provider.EmbedTexts(ctx, []string{query})
	if err != nil || len(vectors) != 1 {
		e.logger.Warn("query embedding failed, falling back to keyword search", "err", err)
		monitor.KeywordFallback("embedding failed")
		return e.finishKeyword(ctx, query, opts, limit, monitor)
	}
	monitor.AfterEmbedding(vectors[0])

	// Over-fetch so enrichment drops still leave enough results.
	raw, err := e.store.SearchVectors(ctx, e.collection, vectors[0], limit*2, e.metadataFilter(opts))
	if err != nil {
		e.logger.Warn("vector search failed, falling back to keyword search", "err", err)
		monitor.KeywordFallback("vector search failed")
		return e.finishKeyword(ctx, query, opts, limit, monitor)
	}
	monitor.AfterVectorSearch(raw)

	matches := e.rank(ctx, query, raw, threshold, opts, monitor)
	monitor.AfterRanking(matches)

	if opts.Hybrid || e.hybrid {
		keyword, kwErr := e.keywordSearch(ctx, query, opts, limit)
		if kwErr != nil {
			e.logger.Warn("keyword pass failed during hybrid merge", "err", kwErr)
		} else {
			matches = mergeHybrid(matches, keyword)
		}
	}

	sortMatches(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	monitor.Finish(matches)
	return matches, nil
}

// metadataFilter builds the equality filter from search options.
func (e *Engine) metadataFilter(opts *Options) map[string]string {
	filter := make(map[string]string)
	if opts.Domain != "" {
		filter["domain"] = opts.Domain
	}
	if opts.AreaId != "" {
		filter["area_id"] = opts.AreaId
	}
	if opts.Manufacturer != "" {
		filter["manufacturer"] = opts.Manufacturer
	}
	return filter
}

// rank converts raw vector hits into enriched, boosted matches.
func (e *Engine) rank(ctx context.Context, query string, raw []*core.SearchResult, threshold float32, opts *Options, monitor Monitor) []*core.RankedMatch {
	matches := make([]*core.RankedMatch, 0, len(raw))

	for _, result := range raw {
		similarity := similarityFromRaw(result.Distance, e.distance)
		if similarity < threshold {
			monitor.Dropped(result.Id, "below threshold")
			continue
		}

		entity, err := e.directory.GetEntityState(ctx, result.Id)
		if err != nil {
			// Stale index entries and directory hiccups drop the result.
			e.logger.Debug("dropping result, entity lookup failed", "entity", result.Id, "err", err)
			monitor.Dropped(result.Id, "entity lookup failed")
			continue
		}
		if opts.EntityState != "" && entity.State != opts.EntityState {
			monitor.Dropped(result.Id, "state mismatch")
			continue
		}

		name := entity.FriendlyName
		if name == "" {
			name = entity.EntityId
		}

		score := applyBoosts(similarity, query, entity.EntityId, entity.FriendlyName, entity.Domain, entity.AreaId)
		matches = append(matches, &core.RankedMatch{
			EntityId:    entity.EntityId,
			Score:       score,
			Explanation: explain(name, entity.Domain, entity.AreaId, similarity),
			Metadata:    result.Metadata,
			Source:      core.MatchSourceSemantic,
		})
	}

	sortMatches(matches)
	return matches
}

// finishKeyword serves a search entirely from the keyword pass.
func (e *Engine) finishKeyword(ctx context.Context, query string, opts *Options, limit int, monitor Monitor) ([]*core.RankedMatch, error) {
	matches, err := e.keywordSearch(ctx, query, opts, limit)
	if err != nil {
		return nil, err
	}
	monitor.Finish(matches)
	return matches, nil
}

// mergeHybrid combines semantic and keyword matches. Semantic scores are
// weighted up first; an id present in both keeps the higher score and is
// tagged as a hybrid hit.
func mergeHybrid(semantic, keyword []*core.RankedMatch) []*core.RankedMatch {
	merged := make([]*core.RankedMatch, 0, len(semantic)+len(keyword))
	byId := make(map[string]*core.RankedMatch, len(semantic))

	for _, match := range semantic {
		match.Score = core.ClampScore(match.Score * hybridSemanticWeight)
		byId[match.EntityId] = match
		merged = append(merged, match)
	}

	for _, match := range keyword {
		existing, ok := byId[match.EntityId]
		if !ok {
			merged = append(merged, match)
			continue
		}
		existing.Source = core.MatchSourceHybrid
		if match.Score > existing.Score {
			existing.Score = match.Score
			existing.Explanation = match.Explanation
		}
	}

	return merged
}

// sortMatches orders descending by score, first-seen-wins on ties.
func sortMatches(matches []*core.RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
