package history

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/poiesic/hearth/core"
)

// popularityVector is the placeholder vector stored with counters.
// Popularity records are fetched by id, never searched.
var popularityVector = []float32{1}

// incrementPopularity bumps the selection counter for an entity, reading
// the prior count first so the counter accumulates across selections.
func (tr *Tracker) incrementPopularity(ctx context.Context, entityId string) error {
	id := core.PopularityId(entityId)

	count := 0
	existing, err := tr.store.GetVectors(ctx, tr.popularityCollection, id)
	if err != nil {
		return fmt.Errorf("reading popularity: %w", err)
	}
	if len(existing) == 1 {
		if prior, parseErr := strconv.Atoi(existing[0].Metadata["popularity_count"]); parseErr == nil {
			count = prior
		}
	}
	count++

	return tr.store.UpdateVectors(ctx, tr.popularityCollection, &core.VectorRecord{
		Id:     id,
		Vector: popularityVector,
		Metadata: map[string]string{
			"entity_id":        entityId,
			"popularity_count": strconv.Itoa(count),
			"last_updated":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Popularity returns how often an entity has been selected. Unknown
// entities have popularity 0.
func (tr *Tracker) Popularity(ctx context.Context, entityId string) (int, error) {
	records, err := tr.store.GetVectors(ctx, tr.popularityCollection, core.PopularityId(entityId))
	if err != nil {
		return 0, fmt.Errorf("reading popularity: %w", err)
	}
	if len(records) != 1 {
		return 0, nil
	}

	count, err := strconv.Atoi(records[0].Metadata["popularity_count"])
	if err != nil {
		return 0, nil
	}
	return count, nil
}

// BoostRanking raises scores of frequently selected entities and re-sorts.
// The boost is min(factor, count*0.01*factor), clamped so scores stay in
// [0,1]. Popularity read failures leave the affected score unchanged.
func (tr *Tracker) BoostRanking(ctx context.Context, matches []*core.RankedMatch, factor float32) []*core.RankedMatch {
	if factor <= 0 {
		return matches
	}

	for _, match := range matches {
		count, err := tr.Popularity(ctx, match.EntityId)
		if err != nil {
			tr.logger.Debug("popularity lookup failed, score unchanged", "entity", match.EntityId, "err", err)
			continue
		}
		if count <= 0 {
			continue
		}

		boost := float32(count) * 0.01 * factor
		if boost > factor {
			boost = factor
		}
		match.Score = core.ClampScore(match.Score + boost)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
