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


package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hearth/ai"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	"github.com/poiesic/hearth/storage"
)

// DefaultCollection is the collection entity vectors are stored in.
const DefaultCollection = "entities"

// DefaultBatchSize is the chunk size for batch indexing.
const DefaultBatchSize = 100

// Indexer turns directory entities into embedded vector records.
// Batch runs are partial-failure-tolerant: one failing entity never aborts
// the batch.
type Indexer struct {
	store      storage.Store
	provider   ai.EmbeddingProvider
	directory  directory.Directory
	collection string
	batchSize  int
	pool       *ants.Pool
	progress   *ProgressTracker
	logger     *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithCollection sets the target collection.
// Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(ix *Indexer) error {
		if name != "" {
			ix.collection = name
		}
		return nil
	}
}

// WithBatchSize sets the chunk size for batch indexing.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size > 0 {
			ix.batchSize = size
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for batch indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithProgress attaches a progress tracker used by batch runs.
func WithProgress(progress *ProgressTracker) Option {
	return func(ix *Indexer) error {
		ix.progress = progress
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexing pipeline.
func NewIndexer(
	store storage.Store,
	provider ai.EmbeddingProvider,
	dir directory.Directory,
	opts ...Option,
) (*Indexer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if dir == nil {
		return nil, ErrDirectoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		store:      store,
		provider:   provider,
		directory:  dir,
		collection: DefaultCollection,
		batchSize:  DefaultBatchSize,
		pool:       pool,
		logger:     slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}

	return ix, nil
}

// ItemResult is the outcome of indexing one entity.
type ItemResult struct {
	EntityId string
	Err      error
}

// BatchResult aggregates a batch run. Total == Succeeded + Failed.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []ItemResult
}

// snapshot caches area and device lookups for one run.
type snapshot struct {
	areasById   map[string]*directory.Area
	devicesById map[string]*directory.Device
}

// IndexEntity indexes a single entity by id: fetch live state, build a
// description, embed it unless the stored fingerprint is unchanged, and
// upsert the vector record.
func (ix *Indexer) IndexEntity(ctx context.Context, entityId string) error {
	return ix.indexOne(ctx, entityId, ix.snapshot(ctx))
}

// UpdateEntity re-indexes an entity after a state or registry change.
// It is the same operation as IndexEntity; unchanged descriptions skip the
// embedding call.
func (ix *Indexer) UpdateEntity(ctx context.Context, entityId string) error {
	return ix.IndexEntity(ctx, entityId)
}

// RemoveEntity deletes an entity's vector record. Removing an entity that
// was never indexed is not an error.
func (ix *Indexer) RemoveEntity(ctx context.Context, entityId string) error {
	return ix.store.DeleteVectors(ctx, ix.collection, entityId)
}

// IndexEntities indexes the given entity ids in fixed-size chunks on the
// worker pool. An empty id list indexes every entity the directory knows.
// Per-item failures are recorded in the result, never returned as an error;
// the only error case is being unable to enumerate entities at all.
func (ix *Indexer) IndexEntities(ctx context.Context, entityIds []string) (*BatchResult, error) {
	if len(entityIds) == 0 {
		entities, err := ix.directory.GetEntities(ctx, "", "", 0)
		if err != nil {
			return nil, fmt.Errorf("listing entities: %w", err)
		}
		entityIds = make([]string, len(entities))
		for i, entity := range entities {
			entityIds[i] = entity.EntityId
		}
	}

	snap := ix.snapshot(ctx)
	result := &BatchResult{
		Total:   len(entityIds),
		Results: make([]ItemResult, 0, len(entityIds)),
	}

	if ix.progress != nil {
		ix.progress.Start()
	}

	var mu sync.Mutex
	for start := 0; start < len(entityIds); start += ix.batchSize {
		end := min(start+ix.batchSize, len(entityIds))

		var wg sync.WaitGroup
		for _, id := range entityIds[start:end] {
			wg.Add(1)
			submitErr := ix.pool.Submit(func() {
				defer wg.Done()
				err := ix.indexOne(ctx, id, snap)

				mu.Lock()
				result.Results = append(result.Results, ItemResult{EntityId: id, Err: err})
				if err != nil {
					result.Failed++
					ix.logger.Warn("entity indexing failed", "entity", id, "err", err)
				} else {
					result.Succeeded++
				}
				mu.Unlock()

				if ix.progress != nil {
					ix.progress.Increment(1)
				}
			})
			if submitErr != nil {
				wg.Done()
				mu.Lock()
				result.Results = append(result.Results, ItemResult{EntityId: id, Err: submitErr})
				result.Failed++
				mu.Unlock()
			}
		}
		wg.Wait()
	}

	if ix.progress != nil {
		ix.progress.Finish()
	}

	ix.logger.Info("batch indexing complete",
		"total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// Release releases the worker pool. The indexer should not be used after
// calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// snapshot fetches area and device lookups once per run. Failures degrade
// to empty maps; descriptions then omit area and device context.
func (ix *Indexer) snapshot(ctx context.Context) *snapshot {
	snap := &snapshot{
		areasById:   make(map[string]*directory.Area),
		devicesById: make(map[string]*directory.Device),
	}

	areas, err := ix.directory.GetAreas(ctx)
	if err != nil {
		ix.logger.Warn("area lookup failed, descriptions will omit areas", "err", err)
	} else {
		for _, area := range areas {
			snap.areasById[area.AreaId] = area
		}
	}

	devices, err := ix.directory.GetDevices(ctx)
	if err != nil {
		ix.logger.Warn("device lookup failed, descriptions will omit devices", "err", err)
	} else {
		for _, device := range devices {
			snap.devicesById[device.Id] = device
		}
	}

	return snap
}

func (ix *Indexer) indexOne(ctx context.Context, entityId string, snap *snapshot) error {
	if entityId == "" {
		return ErrNilEntity
	}

	entity, err := ix.directory.GetEntityState(ctx, entityId)
	if err != nil {
		return fmt.Errorf("fetching entity state: %w", err)
	}

	ec := &entityContext{
		entity: entity,
		area:   snap.areasById[entity.AreaId],
		device: snap.devicesById[entity.DeviceId],
	}

	text := describeEntity(ec)
	fingerprint := core.Fingerprint(text)
	metadata := ix.buildMetadata(ec, fingerprint)

	// Unchanged description: keep the stored vector, refresh metadata only.
	existing, err := ix.store.GetVectors(ctx, ix.collection, entityId)
	if err == nil && len(existing) == 1 && existing[0].Metadata["fingerprint"] == fingerprint {
		ix.logger.Debug("fingerprint unchanged, skipping embedding", "entity", entityId)
		return ix.store.UpdateVectors(ctx, ix.collection, &core.VectorRecord{
			Id:       entityId,
			Vector:   existing[0].Vector,
			Metadata: metadata,
		})
	}

	vectors, err := ix.provider.EmbedTexts(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("embedding description: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedding result mismatch. expected 1, received %d", len(vectors))
	}

	return ix.store.UpdateVectors(ctx, ix.collection, &core.VectorRecord{
		Id:       entityId,
		Vector:   vectors[0],
		Metadata: metadata,
	})
}

func (ix *Indexer) buildMetadata(ec *entityContext, fingerprint string) map[string]string {
	metadata := map[string]string{
		"entity_id":   ec.entity.EntityId,
		"domain":      ec.entity.Domain,
		"indexed_at":  time.Now().UTC().Format(time.RFC3339),
		"fingerprint": fingerprint,
	}

	if ec.entity.FriendlyName != "" {
		metadata["friendly_name"] = ec.entity.FriendlyName
	}
	if ec.entity.AreaId != "" {
		metadata["area_id"] = ec.entity.AreaId
	}
	if ec.entity.DeviceId != "" {
		metadata["device_id"] = ec.entity.DeviceId
	}
	if class := ec.entity.StringAttribute("device_class"); class != "" {
		metadata["device_class"] = class
	}
	if ec.device != nil {
		if ec.device.Manufacturer != "" {
			metadata["manufacturer"] = ec.device.Manufacturer
		}
		if ec.device.Model != "" {
			metadata["model"] = ec.device.Model
		}
	}
	if !ec.entity.LastUpdated.IsZero() {
		metadata["last_updated"] = ec.entity.LastUpdated.UTC().Format(time.RFC3339)
	}

	return metadata
}
