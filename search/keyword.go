package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/hearth/core"
)

// Keyword scoring weights. Only entities scoring above zero are returned.
const (
	keywordIdWeight    = 0.5
	keywordNameWeight  = 0.4
	keywordTokenWeight = 0.1
)

// keywordSearch scores directory entities by literal overlap with the
// query. It is both the fallback for a degraded semantic pipeline and the
// second leg of hybrid search.
func (e *Engine) keywordSearch(ctx context.Context, query string, opts *Options, limit int) ([]*core.RankedMatch, error) {
	entities, err := e.directory.GetEntities(ctx, opts.Domain, "", 0)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	matches := make([]*core.RankedMatch, 0, len(entities))
	for _, entity := range entities {
		if opts.AreaId != "" && entity.AreaId != opts.AreaId {
			continue
		}
		if opts.EntityState != "" && entity.State != opts.EntityState {
			continue
		}

		var score float32
		if strings.Contains(query, strings.ToLower(entity.EntityId)) {
			score += keywordIdWeight
		}
		if entity.FriendlyName != "" && strings.Contains(query, strings.ToLower(entity.FriendlyName)) {
			score += keywordNameWeight
		}
		score += keywordTokenWeight * float32(sharedTokenCount(query, entity.FriendlyName))

		if score <= 0 {
			continue
		}

		name := entity.FriendlyName
		if name == "" {
			name = entity.EntityId
		}

		matches = append(matches, &core.RankedMatch{
			EntityId:    entity.EntityId,
			Score:       core.ClampScore(score),
			Explanation: fmt.Sprintf("Entity %q (%s) matched query keywords", name, entity.Domain),
			Metadata: map[string]string{
				"entity_id":     entity.EntityId,
				"domain":        entity.Domain,
				"friendly_name": entity.FriendlyName,
				"area_id":       entity.AreaId,
			},
			Source: core.MatchSourceKeyword,
		})
	}

	sortMatches(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
