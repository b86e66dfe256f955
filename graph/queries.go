package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/hearth/core"
)

// DefaultQueryLimit caps relationship queries when no limit is given.
const DefaultQueryLimit = 50

// Related pairs a neighboring id with the edge that connects it.
type Related struct {
	// Id is the endpoint on the other side of the edge.
	Id   string
	Edge *core.RelationshipEdge
}

// FindByRelationship retrieves edges matching whichever of entityId, edge
// type, and target are given. The match is a nearest-neighbor query with an
// equality filter, so results are best-effort candidates.
func (b *Builder) FindByRelationship(ctx context.Context, entityId string, relType core.RelationshipType, target string, limit int) ([]*core.RelationshipEdge, error) {
	if relType != "" {
		if err := core.ValidateRelationshipType(relType); err != nil {
			return nil, err
		}
	}

	filter := make(map[string]string)
	if entityId != "" {
		filter["source"] = entityId
	}
	if relType != "" {
		filter["relationship_type"] = string(relType)
	}
	if target != "" {
		filter["target"] = target
	}

	return b.searchEdges(ctx, edgeQueryText(entityId, relType, target), filter, limit)
}

// EntitiesInArea returns ids of entities linked to an area by in_area edges.
func (b *Builder) EntitiesInArea(ctx context.Context, areaId string, limit int) ([]string, error) {
	edges, err := b.FindByRelationship(ctx, "", core.RelationshipInArea, areaId, limit)
	if err != nil {
		return nil, err
	}
	return edgeSources(edges), nil
}

// EntitiesFromDevice returns ids of entities exposed by a device.
func (b *Builder) EntitiesFromDevice(ctx context.Context, deviceId string, limit int) ([]string, error) {
	edges, err := b.FindByRelationship(ctx, "", core.RelationshipFromDevice, deviceId, limit)
	if err != nil {
		return nil, err
	}
	return edgeSources(edges), nil
}

// RelatedEntities finds everything linked to an entity in either direction
// across the requested edge types (all types when none are given),
// deduplicated by the other endpoint.
func (b *Builder) RelatedEntities(ctx context.Context, entityId string, types []core.RelationshipType, limit int) ([]*Related, error) {
	if entityId == "" {
		return nil, ErrEntityIdRequired
	}
	if len(types) == 0 {
		types = core.RelationshipTypes()
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	seen := make(map[string]bool)
	var related []*Related

	collect := func(edges []*core.RelationshipEdge) {
		for _, edge := range edges {
			other := edge.Target
			if other == entityId {
				other = edge.Source
			}
			if other == "" || seen[other] {
				continue
			}
			seen[other] = true
			related = append(related, &Related{Id: other, Edge: edge})
		}
	}

	for _, relType := range types {
		text := edgeQueryText(entityId, relType, "")

		outgoing, err := b.searchEdges(ctx, text, map[string]string{
			"source":            entityId,
			"relationship_type": string(relType),
		}, limit)
		if err != nil {
			return nil, err
		}
		collect(outgoing)

		incoming, err := b.searchEdges(ctx, text, map[string]string{
			"target":            entityId,
			"relationship_type": string(relType),
		}, limit)
		if err != nil {
			return nil, err
		}
		collect(incoming)
	}

	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

// searchEdges embeds the query text and maps hits back to edges.
func (b *Builder) searchEdges(ctx context.Context, text string, filter map[string]string, limit int) ([]*core.RelationshipEdge, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	vectors, err := b.provider.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding relationship query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding result mismatch. expected 1, received %d", len(vectors))
	}

	results, err := b.store.SearchVectors(ctx, b.collection, vectors[0], limit, filter)
	if err != nil {
		return nil, fmt.Errorf("searching edges: %w", err)
	}

	edges := make([]*core.RelationshipEdge, 0, len(results))
	for _, result := range results {
		edges = append(edges, &core.RelationshipEdge{
			Source:     result.Metadata["source"],
			Target:     result.Metadata["target"],
			Type:       core.RelationshipType(result.Metadata["relationship_type"]),
			SourceType: result.Metadata["source_type"],
			TargetType: result.Metadata["target_type"],
		})
	}
	return edges, nil
}

// edgeQueryText builds the best-effort embedded query from the given parts.
func edgeQueryText(entityId string, relType core.RelationshipType, target string) string {
	parts := make([]string, 0, 3)
	if entityId != "" {
		parts = append(parts, entityId)
	}
	if relType != "" {
		parts = append(parts, string(relType))
	}
	if target != "" {
		parts = append(parts, target)
	}
	if len(parts) == 0 {
		return "entity relationships"
	}
	return strings.Join(parts, " ")
}

func edgeSources(edges []*core.RelationshipEdge) []string {
	sources := make([]string, 0, len(edges))
	for _, edge := range edges {
		sources = append(sources, edge.Source)
	}
	return sources
}
