package hearth

import (
	"context"
	"testing"

	aimock "github.com/poiesic/hearth/ai/mock"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	dirmock "github.com/poiesic/hearth/directory/mock"
	"github.com/poiesic/hearth/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveFixture seeds a directory and an index where every embedding is a
// fixed vector, so the living room light is always the nearest neighbor.
func resolveFixture(t *testing.T) *Resolver {
	t.Helper()

	dir := dirmock.NewDirectory()
	dir.AddArea(&directory.Area{AreaId: "living_room", Name: "Living Room"})
	dir.AddEntity(&directory.EntityRecord{
		EntityId: "light.living_room", FriendlyName: "Living Room Light",
		State: "off", AreaId: "living_room",
	})
	dir.AddEntity(&directory.EntityRecord{
		EntityId: "light.kitchen", FriendlyName: "Kitchen Light", State: "off",
	})

	embedder := aimock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}

	resolver := newTestResolver(t, embedder, dir)
	ctx := context.Background()

	store, err := resolver.Store(ctx)
	require.NoError(t, err)
	require.NoError(t, store.AddVectors(ctx, resolver.config.Collection, &core.VectorRecord{
		Id:     "light.living_room",
		Vector: []float32{1, 0, 0},
		Metadata: map[string]string{
			"entity_id": "light.living_room", "domain": "light", "area_id": "living_room",
		},
	}))

	return resolver
}

func TestResolveControlQuery(t *testing.T) {
	resolver := resolveFixture(t)

	plan, err := resolver.Resolve(context.Background(), "turn on the living room lights", nil)
	require.NoError(t, err)

	assert.Equal(t, core.IntentControl, plan.Classification.Intent)
	assert.Equal(t, "light", plan.Classification.Domain)
	assert.Equal(t, "on", plan.Classification.Action)

	require.NotEmpty(t, plan.Matches)
	assert.Equal(t, "light.living_room", plan.Matches[0].EntityId)

	require.NotEmpty(t, plan.Steps)
	step := plan.Steps[0]
	assert.Equal(t, "light.living_room", step.EntityId)
	assert.Equal(t, "light.turn_on", step.Service)
	assert.Equal(t, "light.living_room", step.Data["entity_id"])
}

func TestResolveExplicitEntityId(t *testing.T) {
	resolver := resolveFixture(t)

	plan, err := resolver.Resolve(context.Background(), "toggle light.kitchen", nil)
	require.NoError(t, err)

	require.NotEmpty(t, plan.Matches)
	assert.Equal(t, "light.kitchen", plan.Matches[0].EntityId)
	assert.Equal(t, float32(1.0), plan.Matches[0].Score)

	require.NotEmpty(t, plan.Steps)
	assert.Equal(t, "light.toggle", plan.Steps[0].Service)
}

func TestResolveStatusQueryHasNoSteps(t *testing.T) {
	resolver := resolveFixture(t)

	plan, err := resolver.Resolve(context.Background(), "what is the state of the living room lights", nil)
	require.NoError(t, err)

	assert.Equal(t, core.IntentStatus, plan.Classification.Intent)
	assert.Empty(t, plan.Steps)
}

func TestResolveRecordsHistory(t *testing.T) {
	resolver := resolveFixture(t)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "turn on the living room lights", &ResolveOptions{
		RecordHistory: true,
		UserId:        "alice",
	})
	require.NoError(t, err)

	stats, err := resolver.CollectionStats(ctx, history.HistoryCollection)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
}

func TestResolveSetBrightness(t *testing.T) {
	resolver := resolveFixture(t)

	plan, err := resolver.Resolve(context.Background(), "set the living room lights to 50%", nil)
	require.NoError(t, err)

	require.NotEmpty(t, plan.Steps)
	step := plan.Steps[0]
	assert.Equal(t, "light.turn_on", step.Service)
	assert.Equal(t, float64(50), step.Data["brightness_pct"])
}
