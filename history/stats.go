package history

import (
	"context"
	"sort"
)

// topN caps each ranked list in Statistics.
const topN = 10

// Counted pairs a value with its occurrence count.
type Counted struct {
	Value string
	Count int
}

// Statistics aggregates the recent query history.
type Statistics struct {
	TotalQueries     int
	CommonQueries    []Counted
	Intents          map[string]int
	Domains          map[string]int
	SelectedEntities []Counted
	TimeOfDay        map[string]int
}

// Statistics aggregates the recent candidate set in memory. Store failures
// degrade to empty statistics.
func (tr *Tracker) Statistics(ctx context.Context) (*Statistics, error) {
	entries := tr.recentEntries(ctx)

	stats := &Statistics{
		TotalQueries: len(entries),
		Intents:      make(map[string]int),
		Domains:      make(map[string]int),
		TimeOfDay:    make(map[string]int),
	}

	queries := make(map[string]int)
	selected := make(map[string]int)
	for _, entry := range entries {
		queries[entry.QueryText]++
		if entry.Intent != "" {
			stats.Intents[entry.Intent]++
		}
		if entry.Domain != "" {
			stats.Domains[entry.Domain]++
		}
		if entry.SelectedEntityId != "" {
			selected[entry.SelectedEntityId]++
		}
		if entry.TimeOfDay != "" {
			stats.TimeOfDay[entry.TimeOfDay]++
		}
	}

	stats.CommonQueries = topCounted(queries)
	stats.SelectedEntities = topCounted(selected)
	return stats, nil
}

// topCounted ranks a count map descending, values sorting ties for
// deterministic output, truncated to topN.
func topCounted(counts map[string]int) []Counted {
	ranked := make([]Counted, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, Counted{Value: value, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
