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


package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/hearth/ai"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	"github.com/poiesic/hearth/storage"
)

// DefaultCollection is the collection relationship edges are stored in.
const DefaultCollection = "entity_relationships"

// Builder derives and stores the relationship graph, and answers
// relationship queries over it.
type Builder struct {
	store      storage.Store
	provider   ai.EmbeddingProvider
	directory  directory.Directory
	collection string
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithCollection sets the edge collection.
// Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(b *Builder) error {
		if name != "" {
			b.collection = name
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a relationship graph builder.
func NewBuilder(
	store storage.Store,
	provider ai.EmbeddingProvider,
	dir directory.Directory,
	opts ...Option,
) (*Builder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if dir == nil {
		return nil, ErrDirectoryRequired
	}

	b := &Builder{
		store:      store,
		provider:   provider,
		directory:  dir,
		collection: DefaultCollection,
		logger:     slog.Default().With("component", "graph"),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// BuildResult aggregates one graph construction run.
type BuildResult struct {
	Total     int
	Succeeded int
	Failed    int
	ByType    map[core.RelationshipType]int
}

// Build snapshots the directory and upserts every derivable edge. Per-edge
// failures are counted, never fatal; the only error case is being unable to
// enumerate entities at all.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	edges, err := b.deriveEdges(ctx)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Total:  len(edges),
		ByType: make(map[core.RelationshipType]int),
	}

	for _, edge := range edges {
		if err := b.upsertEdge(ctx, edge); err != nil {
			b.logger.Warn("edge upsert failed", "edge", edge.Key(), "err", err)
			result.Failed++
			continue
		}
		result.Succeeded++
		result.ByType[edge.Type]++
	}

	b.logger.Info("relationship graph built",
		"total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// deriveEdges computes the edge set from a directory snapshot.
func (b *Builder) deriveEdges(ctx context.Context) ([]*core.RelationshipEdge, error) {
	entities, err := b.directory.GetEntities(ctx, "", "", 0)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	var edges []*core.RelationshipEdge

	for _, entity := range entities {
		if entity.AreaId == "" {
			continue
		}
		edges = append(edges, &core.RelationshipEdge{
			Source:     entity.EntityId,
			Target:     entity.AreaId,
			Type:       core.RelationshipInArea,
			SourceType: "entity",
			TargetType: "area",
		})
	}

	devices, err := b.directory.GetDevices(ctx)
	if err != nil {
		// Device edges degrade; area edges are still built.
		b.logger.Warn("device lookup failed, skipping device edges", "err", err)
		devices = nil
	}
	for _, device := range devices {
		for _, entityId := range device.Entities {
			edges = append(edges, &core.RelationshipEdge{
				Source:     entityId,
				Target:     device.Id,
				Type:       core.RelationshipFromDevice,
				SourceType: "entity",
				TargetType: "device",
			})
		}
		if device.ViaDeviceId != "" {
			edges = append(edges, &core.RelationshipEdge{
				Source:     device.Id,
				Target:     device.ViaDeviceId,
				Type:       core.RelationshipDeviceParent,
				SourceType: "device",
				TargetType: "device",
			})
		}
	}

	// Automation action parsing is out of scope, so automations contribute
	// no edges yet; the snapshot is logged for visibility.
	automations, err := b.directory.GetAutomations(ctx)
	if err == nil {
		b.logger.Debug("automations present but not linked", "count", len(automations))
	}

	return edges, nil
}

// upsertEdge embeds the edge text and stores it keyed by the edge key.
func (b *Builder) upsertEdge(ctx context.Context, edge *core.RelationshipEdge) error {
	if err := core.ValidateEdge(edge); err != nil {
		return err
	}

	vectors, err := b.provider.EmbedTexts(ctx, []string{edge.Text()})
	if err != nil {
		return fmt.Errorf("embedding edge text: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedding result mismatch. expected 1, received %d", len(vectors))
	}

	return b.store.UpdateVectors(ctx, b.collection, &core.VectorRecord{
		Id:     edge.Key(),
		Vector: vectors[0],
		Metadata: map[string]string{
			"source":            edge.Source,
			"target":            edge.Target,
			"relationship_type": string(edge.Type),
			"source_type":       edge.SourceType,
			"target_type":       edge.TargetType,
		},
	})
}
