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


package history

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/hearth/ai"
	"github.com/poiesic/hearth/classify"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/storage"
)

// HistoryCollection is the collection query records are stored in.
const HistoryCollection = "query_history"

// PopularityCollection is the collection popularity counters are stored in.
const PopularityCollection = "entity_popularity"

// maxStoredRanks caps the per-query result summary.
const maxStoredRanks = 10

// candidateLimit is the recent-queries over-fetch used by reads; there is
// no native time-range index, so filtering happens in memory.
const candidateLimit = 500

// Tracker records resolved queries and maintains entity popularity.
type Tracker struct {
	store                storage.Store
	provider             ai.EmbeddingProvider
	classifier           *classify.Classifier
	historyCollection    string
	popularityCollection string
	logger               *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker) error

// WithHistoryCollection sets the query record collection.
// Default is HistoryCollection.
func WithHistoryCollection(name string) Option {
	return func(tr *Tracker) error {
		if name != "" {
			tr.historyCollection = name
		}
		return nil
	}
}

// WithPopularityCollection sets the popularity counter collection.
// Default is PopularityCollection.
func WithPopularityCollection(name string) Option {
	return func(tr *Tracker) error {
		if name != "" {
			tr.popularityCollection = name
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(tr *Tracker) error {
		if logger == nil {
			logger = slog.Default()
		}
		tr.logger = logger
		return nil
	}
}

// NewTracker creates a query history tracker. The classifier may be nil;
// intent and domain metadata are then left empty.
func NewTracker(
	store storage.Store,
	provider ai.EmbeddingProvider,
	classifier *classify.Classifier,
	opts ...Option,
) (*Tracker, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	tr := &Tracker{
		store:                store,
		provider:             provider,
		classifier:           classifier,
		historyCollection:    HistoryCollection,
		popularityCollection: PopularityCollection,
		logger:               slog.Default().With("component", "history"),
	}

	for _, opt := range opts {
		if err := opt(tr); err != nil {
			return nil, err
		}
	}

	return tr, nil
}

// Record stores one resolved query. Results beyond the first ten ranks are
// dropped from the summary. A selected entity also bumps its popularity
// counter; counter failures are logged, never fatal.
func (tr *Tracker) Record(ctx context.Context, queryText string, results []*core.RankedMatch, selectedEntityId, userId string) (*core.QueryHistoryEntry, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, ErrEmptyQuery
	}

	vectors, err := tr.provider.EmbedTexts(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding result mismatch. expected 1, received %d", len(vectors))
	}

	entry := &core.QueryHistoryEntry{
		QueryId:          uuid.NewString(),
		QueryText:        queryText,
		Timestamp:        time.Now().UTC(),
		ResultCount:      len(results),
		SelectedEntityId: selectedEntityId,
		UserId:           userId,
	}
	entry.TimeOfDay = timeOfDay(entry.Timestamp.Hour())

	if tr.classifier != nil {
		classification := tr.classifier.ProcessQuery(ctx, queryText)
		entry.Intent = classification.Intent.String()
		entry.Domain = classification.Domain
	}

	for i, match := range results {
		if i >= maxStoredRanks {
			break
		}
		entry.Results = append(entry.Results, core.ResultRank{
			Rank:     i + 1,
			EntityId: match.EntityId,
			Score:    match.Score,
		})
	}

	err = tr.store.UpdateVectors(ctx, tr.historyCollection, &core.VectorRecord{
		Id:       entry.QueryId,
		Vector:   vectors[0],
		Metadata: encodeEntry(entry),
	})
	if err != nil {
		return nil, fmt.Errorf("storing query history: %w", err)
	}

	if selectedEntityId != "" {
		if popErr := tr.incrementPopularity(ctx, selectedEntityId); popErr != nil {
			tr.logger.Warn("popularity update failed", "entity", selectedEntityId, "err", popErr)
		}
	}

	return entry, nil
}

// Filters narrows history reads and deletions. Zero fields match everything.
type Filters struct {
	UserId string
	Intent string
	Since  time.Time
	Until  time.Time
}

func (f *Filters) match(entry *core.QueryHistoryEntry) bool {
	if f == nil {
		return true
	}
	if f.UserId != "" && entry.UserId != f.UserId {
		return false
	}
	if f.Intent != "" && entry.Intent != f.Intent {
		return false
	}
	if !f.Since.IsZero() && entry.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && entry.Timestamp.After(f.Until) {
		return false
	}
	return true
}

// History returns recent queries, newest first. Store or embedder failures
// degrade to an empty result.
func (tr *Tracker) History(ctx context.Context, limit int, filters *Filters) ([]*core.QueryHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	entries := tr.recentEntries(ctx)
	matched := make([]*core.QueryHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if filters.match(entry) {
			matched = append(matched, entry)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Clear deletes matching history records and returns how many were removed.
func (tr *Tracker) Clear(ctx context.Context, filters *Filters) (int, error) {
	entries := tr.recentEntries(ctx)

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if filters.match(entry) {
			ids = append(ids, entry.QueryId)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := tr.store.DeleteVectors(ctx, tr.historyCollection, ids...); err != nil {
		return 0, fmt.Errorf("clearing query history: %w", err)
	}
	return len(ids), nil
}

// recentEntries pulls a large candidate set via a generic recent-queries
// embedding search. Failures degrade to empty.
func (tr *Tracker) recentEntries(ctx context.Context) []*core.QueryHistoryEntry {
	vectors, err := tr.provider.EmbedTexts(ctx, []string{"recent queries"})
	if err != nil || len(vectors) != 1 {
		tr.logger.Warn("history read degraded, embedding failed", "err", err)
		return nil
	}

	results, err := tr.store.SearchVectors(ctx, tr.historyCollection, vectors[0], candidateLimit, nil)
	if err != nil {
		tr.logger.Warn("history read degraded, search failed", "err", err)
		return nil
	}

	entries := make([]*core.QueryHistoryEntry, 0, len(results))
	for _, result := range results {
		entry := decodeEntry(result.Id, result.Metadata)
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// timeOfDay buckets an hour: morning 6-12, afternoon 12-18, evening 18-22,
// night otherwise.
func timeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// encodeEntry flattens a history entry into string metadata.
func encodeEntry(entry *core.QueryHistoryEntry) map[string]string {
	metadata := map[string]string{
		"query_id":     entry.QueryId,
		"query_text":   entry.QueryText,
		"timestamp":    entry.Timestamp.Format(time.RFC3339Nano),
		"result_count": strconv.Itoa(entry.ResultCount),
		"time_of_day":  entry.TimeOfDay,
	}
	if entry.Intent != "" {
		metadata["intent"] = entry.Intent
	}
	if entry.Domain != "" {
		metadata["domain"] = entry.Domain
	}
	if entry.SelectedEntityId != "" {
		metadata["selected_entity_id"] = entry.SelectedEntityId
	}
	if entry.UserId != "" {
		metadata["user_id"] = entry.UserId
	}
	if len(entry.Results) > 0 {
		metadata["results"] = encodeRanks(entry.Results)
	}
	return metadata
}

// decodeEntry rebuilds a history entry from metadata. Returns nil for rows
// that are not history records.
func decodeEntry(id string, metadata map[string]string) *core.QueryHistoryEntry {
	if metadata["query_text"] == "" {
		return nil
	}

	entry := &core.QueryHistoryEntry{
		QueryId:          id,
		QueryText:        metadata["query_text"],
		Intent:           metadata["intent"],
		Domain:           metadata["domain"],
		SelectedEntityId: metadata["selected_entity_id"],
		TimeOfDay:        metadata["time_of_day"],
		UserId:           metadata["user_id"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, metadata["timestamp"]); err == nil {
		entry.Timestamp = ts
	}
	if n, err := strconv.Atoi(metadata["result_count"]); err == nil {
		entry.ResultCount = n
	}
	entry.Results = decodeRanks(metadata["results"])
	return entry
}

// encodeRanks renders "<rank>:<entity_id>:<score>" items joined by ";".
func encodeRanks(ranks []core.ResultRank) string {
	parts := make([]string, len(ranks))
	for i, rank := range ranks {
		parts[i] = fmt.Sprintf("%d:%s:%.4f", rank.Rank, rank.EntityId, rank.Score)
	}
	return strings.Join(parts, ";")
}

func decodeRanks(encoded string) []core.ResultRank {
	if encoded == "" {
		return nil
	}

	var ranks []core.ResultRank
	for _, part := range strings.Split(encoded, ";") {
		fields := strings.SplitN(part, ":", 3)
		if len(fields) != 3 {
			continue
		}
		rank, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			continue
		}
		ranks = append(ranks, core.ResultRank{
			Rank:     rank,
			EntityId: fields[1],
			Score:    float32(score),
		})
	}
	return ranks
}
