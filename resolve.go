package hearth

import (
	"context"
	"fmt"

	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	"github.com/poiesic/hearth/search"
)

// ResolveOptions tunes one Resolve call. The zero value uses the config
// defaults with no personalization or history recording.
type ResolveOptions struct {
	// Limit caps the candidate count; 0 uses the config default.
	Limit int

	// UserId attributes the query in history records.
	UserId string

	// RecordHistory stores the resolved query in the history collection.
	RecordHistory bool

	// BoostFactor applies popularity boosting when positive.
	BoostFactor float32
}

// Resolve turns a free-text query into an execution plan: classification,
// ranked entity candidates, and one executable step per actionable entity.
// Degraded stages (search fallback, failed history write) never fail the
// call; only an unusable provider or store does.
func (r *Resolver) Resolve(ctx context.Context, query string, opts *ResolveOptions) (*core.ExecutionPlan, error) {
	if opts == nil {
		opts = &ResolveOptions{}
	}
	if err := r.initialize(ctx); err != nil {
		return nil, err
	}

	classifier, err := r.NewClassifier()
	if err != nil {
		return nil, err
	}
	classification := classifier.ProcessQuery(ctx, query)

	matches := r.resolveMatches(ctx, classification, opts)

	if opts.BoostFactor > 0 {
		if tracker, trackerErr := r.NewTracker(ctx); trackerErr == nil {
			matches = tracker.BoostRanking(ctx, matches, opts.BoostFactor)
		}
	}

	plan := &core.ExecutionPlan{
		Query:          query,
		Classification: classification,
		Matches:        matches,
		Steps:          buildSteps(classification, matches),
	}

	if opts.RecordHistory {
		tracker, trackerErr := r.NewTracker(ctx)
		if trackerErr == nil {
			_, trackerErr = tracker.Record(ctx, query, matches, "", opts.UserId)
		}
		if trackerErr != nil {
			r.logger.Warn("history recording failed", "err", trackerErr)
		}
	}

	return plan, nil
}

// resolveMatches runs the search with the classifier's filters applied.
// Entity ids named literally in the query become direct matches ahead of
// the search results.
func (r *Resolver) resolveMatches(ctx context.Context, classification *core.ClassificationResult, opts *ResolveOptions) []*core.RankedMatch {
	matches := r.directMatches(ctx, classification.EntityFilters.EntityIds)
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		seen[match.EntityId] = true
	}

	engine, err := r.NewEngine(ctx)
	if err != nil {
		r.logger.Warn("search engine unavailable", "err", err)
		return matches
	}

	found, err := engine.Search(ctx, classification.RefinedQuery, &search.Options{
		Domain: classification.EntityFilters.Domain,
		AreaId: classification.EntityFilters.AreaId,
		Limit:  opts.Limit,
	})
	if err != nil {
		r.logger.Warn("search degraded to direct matches", "err", err)
		return matches
	}

	for _, match := range found {
		if !seen[match.EntityId] {
			matches = append(matches, match)
		}
	}
	return matches
}

// directMatches resolves explicitly named entity ids at full score.
func (r *Resolver) directMatches(ctx context.Context, entityIds []string) []*core.RankedMatch {
	if r.directory == nil {
		return nil
	}

	matches := make([]*core.RankedMatch, 0, len(entityIds))
	for _, entityId := range entityIds {
		entity, err := r.directory.GetEntityState(ctx, entityId)
		if err != nil {
			r.logger.Debug("ignoring unknown entity id from query", "entity", entityId)
			continue
		}
		name := entity.FriendlyName
		if name == "" {
			name = entity.EntityId
		}
		matches = append(matches, &core.RankedMatch{
			EntityId:    entity.EntityId,
			Score:       1.0,
			Explanation: fmt.Sprintf("Entity %q (%s) named directly in the query", name, entity.Domain),
			Source:      core.MatchSourceKeyword,
		})
	}
	return matches
}

// buildSteps derives executable steps for control queries. Non-control
// intents and matches without a runnable action produce no steps.
func buildSteps(classification *core.ClassificationResult, matches []*core.RankedMatch) []*core.ExecutionStep {
	if classification.Intent != core.IntentControl || classification.Action == "" {
		return nil
	}

	steps := make([]*core.ExecutionStep, 0, len(matches))
	for _, match := range matches {
		step := buildStep(match.EntityId, classification)
		if step != nil {
			steps = append(steps, step)
		}
	}
	return steps
}

// buildStep maps an action onto a concrete service call for one entity.
func buildStep(entityId string, classification *core.ClassificationResult) *core.ExecutionStep {
	domain := directory.DomainOf(entityId)
	data := map[string]any{"entity_id": entityId}
	params := classification.ActionParams

	var service string
	switch classification.Action {
	case "on":
		service = domain + ".turn_on"
	case "off":
		service = domain + ".turn_off"
	case "toggle":
		service = domain + ".toggle"
	case "set", "increase", "decrease":
		switch domain {
		case "light":
			service = "light.turn_on"
			if params.HasValue {
				data["brightness_pct"] = params.Value
			}
		case "climate":
			service = "climate.set_temperature"
			if params.HasValue {
				data["temperature"] = params.Value
			}
		case "cover":
			service = "cover.set_cover_position"
			if params.HasValue {
				data["position"] = params.Value
			}
		case "fan":
			service = "fan.set_percentage"
			if params.HasValue {
				data["percentage"] = params.Value
			}
		case "media_player":
			service = "media_player.volume_set"
			if params.HasValue {
				data["volume_level"] = params.Value / 100
			}
		default:
			return nil
		}
	default:
		return nil
	}

	return &core.ExecutionStep{
		EntityId:    entityId,
		Service:     service,
		Data:        data,
		Description: fmt.Sprintf("call %s for %s", service, entityId),
	}
}
