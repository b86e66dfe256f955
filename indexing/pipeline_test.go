package indexing

import (
	"bytes"
	"context"
	"testing"
	"time"

	aimock "github.com/poiesic/hearth/ai/mock"
	"github.com/poiesic/hearth/directory"
	dirmock "github.com/poiesic/hearth/directory/mock"
	"github.com/poiesic/hearth/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory() *dirmock.Directory {
	dir := dirmock.NewDirectory()
	dir.AddArea(&directory.Area{AreaId: "living_room", Name: "Living Room"})
	dir.AddDevice(&directory.Device{
		Id: "hue1", Name: "Hue Bulb", Manufacturer: "Signify", Model: "LCA001",
	})
	dir.AddEntity(&directory.EntityRecord{
		EntityId:     "light.living_room",
		FriendlyName: "Living Room Light",
		State:        "on",
		AreaId:       "living_room",
		DeviceId:     "hue1",
		Attributes:   map[string]any{"supported_color_modes": "color_temp, xy"},
		LastUpdated:  time.Now().UTC(),
	})
	dir.AddEntity(&directory.EntityRecord{
		EntityId:     "sensor.kitchen_temp",
		FriendlyName: "Kitchen Temperature",
		State:        "21.5",
		Attributes:   map[string]any{"device_class": "temperature", "unit_of_measurement": "°C"},
	})
	dir.AddEntity(&directory.EntityRecord{
		EntityId:     "switch.coffee",
		FriendlyName: "Coffee Machine",
		State:        "off",
	})
	return dir
}

func newTestIndexer(t *testing.T, dir *dirmock.Directory, opts ...Option) (*Indexer, *aimock.Embedder) {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedder := aimock.NewEmbedder()
	indexer, err := NewIndexer(store, embedder, dir, opts...)
	require.NoError(t, err)
	t.Cleanup(indexer.Release)

	return indexer, embedder
}

func TestNewIndexerValidation(t *testing.T) {
	dir := newTestDirectory()
	embedder := aimock.NewEmbedder()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	_, err = NewIndexer(nil, embedder, dir)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewIndexer(store, nil, dir)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewIndexer(store, embedder, nil)
	assert.ErrorIs(t, err, ErrDirectoryRequired)
}

func TestIndexEntity(t *testing.T) {
	dir := newTestDirectory()
	indexer, _ := newTestIndexer(t, dir)
	ctx := context.Background()

	require.NoError(t, indexer.IndexEntity(ctx, "light.living_room"))

	records, err := indexer.store.GetVectors(ctx, DefaultCollection, "light.living_room")
	require.NoError(t, err)
	require.Len(t, records, 1)

	metadata := records[0].Metadata
	assert.Equal(t, "light", metadata["domain"])
	assert.Equal(t, "Living Room Light", metadata["friendly_name"])
	assert.Equal(t, "living_room", metadata["area_id"])
	assert.Equal(t, "Signify", metadata["manufacturer"])
	assert.NotEmpty(t, metadata["fingerprint"])
	assert.NotEmpty(t, metadata["indexed_at"])
	assert.NotEmpty(t, records[0].Vector)
}

func TestIndexEntityUnknown(t *testing.T) {
	dir := newTestDirectory()
	indexer, _ := newTestIndexer(t, dir)

	err := indexer.IndexEntity(context.Background(), "light.nonexistent")
	assert.ErrorIs(t, err, directory.ErrEntityNotFound)
}

func TestIndexEntityFingerprintSkip(t *testing.T) {
	dir := newTestDirectory()
	indexer, embedder := newTestIndexer(t, dir)
	ctx := context.Background()

	require.NoError(t, indexer.IndexEntity(ctx, "sensor.kitchen_temp"))
	firstCalls := embedder.CallCount()

	// Re-indexing the unchanged entity reuses the stored vector.
	require.NoError(t, indexer.IndexEntity(ctx, "sensor.kitchen_temp"))
	assert.Equal(t, firstCalls, embedder.CallCount())

	stats, err := indexer.store.CollectionStats(ctx, DefaultCollection)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
}

func TestIndexEntitiesBatch(t *testing.T) {
	dir := newTestDirectory()
	indexer, _ := newTestIndexer(t, dir, WithBatchSize(2))
	ctx := context.Background()

	ids := []string{"light.living_room", "sensor.kitchen_temp", "switch.coffee", "light.ghost"}
	result, err := indexer.IndexEntities(ctx, ids)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Results, 4)

	var failed []string
	for _, item := range result.Results {
		if item.Err != nil {
			failed = append(failed, item.EntityId)
		}
	}
	assert.Equal(t, []string{"light.ghost"}, failed)
}

func TestIndexEntitiesAll(t *testing.T) {
	dir := newTestDirectory()
	indexer, _ := newTestIndexer(t, dir)

	result, err := indexer.IndexEntities(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

func TestIndexEntitiesWithProgress(t *testing.T) {
	dir := newTestDirectory()
	var buf bytes.Buffer
	indexer, _ := newTestIndexer(t, dir, WithProgress(NewProgressTracker(&buf, 3, 1)))

	_, err := indexer.IndexEntities(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "3/3")
}

func TestRemoveEntity(t *testing.T) {
	dir := newTestDirectory()
	indexer, _ := newTestIndexer(t, dir)
	ctx := context.Background()

	require.NoError(t, indexer.IndexEntity(ctx, "switch.coffee"))
	require.NoError(t, indexer.RemoveEntity(ctx, "switch.coffee"))

	records, err := indexer.store.GetVectors(ctx, DefaultCollection, "switch.coffee")
	require.NoError(t, err)
	assert.Empty(t, records)

	// Absent ids are not errors.
	assert.NoError(t, indexer.RemoveEntity(ctx, "switch.coffee"))
}
