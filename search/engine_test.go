package search

import (
	"context"
	"errors"
	"testing"

	aimock "github.com/poiesic/hearth/ai/mock"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	dirmock "github.com/poiesic/hearth/directory/mock"
	"github.com/poiesic/hearth/storage"
	"github.com/poiesic/hearth/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires an engine over an in-memory store with hand-placed vectors
// so similarity outcomes are exact.
type fixture struct {
	store    storage.Store
	embedder *aimock.Embedder
	dir      *dirmock.Directory
	engine   *Engine
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	dir := dirmock.NewDirectory()
	dir.AddEntity(&directory.EntityRecord{
		EntityId: "light.living_room", FriendlyName: "Living Room Light",
		State: "on", AreaId: "living_room",
	})
	dir.AddEntity(&directory.EntityRecord{
		EntityId: "sensor.kitchen_temp", FriendlyName: "Kitchen Temperature",
		State: "21.5", AreaId: "kitchen",
	})

	ctx := context.Background()
	require.NoError(t, store.AddVectors(ctx, DefaultCollection,
		&core.VectorRecord{
			Id:     "light.living_room",
			Vector: []float32{1, 0, 0},
			Metadata: map[string]string{
				"entity_id": "light.living_room", "domain": "light", "area_id": "living_room",
			},
		},
		&core.VectorRecord{
			Id:     "sensor.kitchen_temp",
			Vector: []float32{0, 1, 0},
			Metadata: map[string]string{
				"entity_id": "sensor.kitchen_temp", "domain": "sensor", "area_id": "kitchen",
			},
		},
	))

	embedder := aimock.NewEmbedder()
	engine, err := NewEngine(store, embedder, dir, opts...)
	require.NoError(t, err)

	return &fixture{store: store, embedder: embedder, dir: dir, engine: engine}
}

// embedFixed makes every query embed to the given vector.
func (f *fixture) embedFixed(vector []float32) {
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = vector
		}
		return vectors, nil
	}
}

func TestSearchSemantic(t *testing.T) {
	f := newFixture(t)
	f.embedFixed([]float32{1, 0, 0})

	matches, err := f.engine.Search(context.Background(), "living room light", nil)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	top := matches[0]
	assert.Equal(t, "light.living_room", top.EntityId)
	assert.Equal(t, core.MatchSourceSemantic, top.Source)
	assert.Contains(t, top.Explanation, `"Living Room Light" (light) matched with 100% similarity`)
	assert.InDelta(t, 1.0, top.Score, 0.001)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	for _, match := range matches {
		assert.GreaterOrEqual(t, match.Score, float32(0))
		assert.LessOrEqual(t, match.Score, float32(1))
	}
}

func TestSearchThresholdDropsDistant(t *testing.T) {
	f := newFixture(t, WithThreshold(0.6))
	// Opposite of the light vector: distance 2, similarity 0.
	// Orthogonal to the sensor vector: distance 1, similarity 0.5.
	f.embedFixed([]float32{-1, 0, 0})

	matches, err := f.engine.Search(context.Background(), "nothing close", nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchDomainFilter(t *testing.T) {
	f := newFixture(t)
	f.embedFixed([]float32{1, 0, 0})

	matches, err := f.engine.Search(context.Background(), "lights", &Options{Domain: "sensor"})
	require.NoError(t, err)
	for _, match := range matches {
		assert.Equal(t, "sensor.kitchen_temp", match.EntityId)
	}
}

func TestSearchEntityStateFilter(t *testing.T) {
	f := newFixture(t)
	f.embedFixed([]float32{1, 0, 0})

	matches, err := f.engine.Search(context.Background(), "living room light", &Options{EntityState: "off"})
	require.NoError(t, err)
	for _, match := range matches {
		assert.NotEqual(t, "light.living_room", match.EntityId)
	}
}

func TestSearchDropsStaleIndexEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Indexed but no longer known to the directory.
	require.NoError(t, f.store.AddVectors(ctx, DefaultCollection, &core.VectorRecord{
		Id:       "light.removed",
		Vector:   []float32{1, 0, 0},
		Metadata: map[string]string{"entity_id": "light.removed", "domain": "light"},
	}))
	f.embedFixed([]float32{1, 0, 0})

	matches, err := f.engine.Search(ctx, "light", nil)
	require.NoError(t, err)
	for _, match := range matches {
		assert.NotEqual(t, "light.removed", match.EntityId)
	}
}

func TestSearchKeywordFallbackOnEmbeddingFailure(t *testing.T) {
	f := newFixture(t)
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding server down")
	}

	matches, err := f.engine.Search(context.Background(), "living room light", nil)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "light.living_room", matches[0].EntityId)
	assert.Equal(t, core.MatchSourceKeyword, matches[0].Source)
}

func TestSearchDisabledServesKeyword(t *testing.T) {
	f := newFixture(t, WithEnabled(false))

	matches, err := f.engine.Search(context.Background(), "kitchen temperature", nil)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "sensor.kitchen_temp", matches[0].EntityId)
	assert.Equal(t, core.MatchSourceKeyword, matches[0].Source)
	// Disabled search still returns the same result shape.
	assert.NotEmpty(t, matches[0].Explanation)
	assert.LessOrEqual(t, matches[0].Score, float32(1))
}

func TestSearchHybridTagsBothSources(t *testing.T) {
	f := newFixture(t)
	f.embedFixed([]float32{1, 0, 0})

	matches, err := f.engine.Search(context.Background(), "living room light", &Options{Hybrid: true})
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// The light is both the nearest vector and a keyword hit.
	assert.Equal(t, "light.living_room", matches[0].EntityId)
	assert.Equal(t, core.MatchSourceHybrid, matches[0].Source)
}

func TestKeywordScoring(t *testing.T) {
	f := newFixture(t)

	matches, err := f.engine.keywordSearch(context.Background(), "living room light", &Options{}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// 0.4 name substring + 3 shared tokens at 0.1 each.
	assert.Equal(t, "light.living_room", matches[0].EntityId)
	assert.InDelta(t, 0.7, matches[0].Score, 0.001)
}

func TestMergeHybridKeepsHigherScore(t *testing.T) {
	semantic := []*core.RankedMatch{
		{EntityId: "light.a", Score: 0.5, Source: core.MatchSourceSemantic},
		{EntityId: "light.b", Score: 0.4, Source: core.MatchSourceSemantic},
	}
	keyword := []*core.RankedMatch{
		{EntityId: "light.a", Score: 0.9, Source: core.MatchSourceKeyword, Explanation: "keyword"},
		{EntityId: "light.c", Score: 0.3, Source: core.MatchSourceKeyword},
	}

	merged := mergeHybrid(semantic, keyword)
	require.Len(t, merged, 3)

	byId := make(map[string]*core.RankedMatch)
	for _, match := range merged {
		byId[match.EntityId] = match
	}

	assert.Equal(t, core.MatchSourceHybrid, byId["light.a"].Source)
	assert.InDelta(t, 0.9, byId["light.a"].Score, 0.001)
	assert.Equal(t, "keyword", byId["light.a"].Explanation)

	// Semantic-only entries are weighted up but stay clamped.
	assert.InDelta(t, 0.48, byId["light.b"].Score, 0.001)
	assert.Equal(t, core.MatchSourceSemantic, byId["light.b"].Source)
	assert.Equal(t, core.MatchSourceKeyword, byId["light.c"].Source)
}

func TestSimilarityFromRaw(t *testing.T) {
	tests := []struct {
		name string
		raw  float32
		kind DistanceKind
		want float32
	}{
		{"identical cosine", 0, CosineDistance, 1.0},
		{"orthogonal cosine", 1, CosineDistance, 0.5},
		{"opposite cosine", 2, CosineDistance, 0.0},
		{"similarity passthrough", 0.8, SimilarityScore, 0.8},
		{"generic distance", 3, GenericDistance, 0.25},
		{"negative raw", -1, GenericDistance, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarityFromRaw(tt.raw, tt.kind), 0.0001)
		})
	}
}

func TestApplyBoostsClamps(t *testing.T) {
	score := applyBoosts(0.9, "light.living_room lights in living_room",
		"light.living_room", "Living Room Light", "light", "living_room")
	assert.Equal(t, float32(1.0), score)
}
