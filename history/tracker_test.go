package history

import (
	"context"
	"fmt"
	"testing"

	aimock "github.com/poiesic/hearth/ai/mock"
	"github.com/poiesic/hearth/classify"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	classifier, err := classify.NewClassifier(nil)
	require.NoError(t, err)

	tracker, err := NewTracker(store, aimock.NewEmbedder(), classifier)
	require.NoError(t, err)
	return tracker
}

func rankedMatches(n int) []*core.RankedMatch {
	matches := make([]*core.RankedMatch, n)
	for i := range matches {
		matches[i] = &core.RankedMatch{
			EntityId: fmt.Sprintf("light.lamp_%d", i),
			Score:    1 - float32(i)*0.05,
		}
	}
	return matches
}

func TestRecord(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	entry, err := tracker.Record(ctx, "turn on the living room lights", rankedMatches(3), "light.lamp_0", "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, entry.QueryId)
	assert.Equal(t, "control", entry.Intent)
	assert.Equal(t, "light", entry.Domain)
	assert.Equal(t, 3, entry.ResultCount)
	assert.Contains(t, []string{"morning", "afternoon", "evening", "night"}, entry.TimeOfDay)
	require.Len(t, entry.Results, 3)
	assert.Equal(t, 1, entry.Results[0].Rank)

	stored, err := tracker.store.GetVectors(ctx, HistoryCollection, entry.QueryId)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "turn on the living room lights", stored[0].Metadata["query_text"])
	assert.Equal(t, "alice", stored[0].Metadata["user_id"])
}

func TestRecordCapsResultSummary(t *testing.T) {
	tracker := newTestTracker(t)

	entry, err := tracker.Record(context.Background(), "find all lights", rankedMatches(15), "", "")
	require.NoError(t, err)

	assert.Equal(t, 15, entry.ResultCount)
	assert.Len(t, entry.Results, maxStoredRanks)
}

func TestRecordEmptyQuery(t *testing.T) {
	tracker := newTestTracker(t)

	_, err := tracker.Record(context.Background(), "   ", nil, "", "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestPopularityAccumulates(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	count, err := tracker.Popularity(ctx, "light.lamp_0")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 3; i++ {
		_, err := tracker.Record(ctx, "turn on the lamp", rankedMatches(1), "light.lamp_0", "")
		require.NoError(t, err)
	}

	count, err = tracker.Popularity(ctx, "light.lamp_0")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBoostRanking(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	// light.b gets five selections, light.a none.
	for i := 0; i < 5; i++ {
		require.NoError(t, tracker.incrementPopularity(ctx, "light.b"))
	}

	matches := []*core.RankedMatch{
		{EntityId: "light.a", Score: 0.60},
		{EntityId: "light.b", Score: 0.58},
	}

	boosted := tracker.BoostRanking(ctx, matches, 0.5)
	require.Len(t, boosted, 2)

	// boost = min(0.5, 5*0.01*0.5) = 0.025, enough to flip the order.
	assert.Equal(t, "light.b", boosted[0].EntityId)
	assert.InDelta(t, 0.605, boosted[0].Score, 0.001)
	assert.InDelta(t, 0.60, boosted[1].Score, 0.001)
}

func TestBoostRankingCapsAtFactor(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, tracker.incrementPopularity(ctx, "light.hot"))
	}

	matches := []*core.RankedMatch{{EntityId: "light.hot", Score: 0.4}}
	boosted := tracker.BoostRanking(ctx, matches, 0.3)

	// 250*0.01*0.3 = 0.75 is capped at the factor itself.
	assert.InDelta(t, 0.7, boosted[0].Score, 0.001)
}

func TestHistoryFilters(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Record(ctx, "turn on the lights", nil, "", "alice")
	require.NoError(t, err)
	_, err = tracker.Record(ctx, "what is the temperature", nil, "", "bob")
	require.NoError(t, err)
	_, err = tracker.Record(ctx, "find all sensors", nil, "", "alice")
	require.NoError(t, err)

	t.Run("by user", func(t *testing.T) {
		entries, err := tracker.History(ctx, 10, &Filters{UserId: "alice"})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			assert.Equal(t, "alice", entry.UserId)
		}
	})

	t.Run("by intent", func(t *testing.T) {
		entries, err := tracker.History(ctx, 10, &Filters{Intent: "status"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "what is the temperature", entries[0].QueryText)
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := tracker.History(ctx, 2, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestStatistics(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := tracker.Record(ctx, "turn on the lights", nil, "light.a", "")
		require.NoError(t, err)
	}
	_, err := tracker.Record(ctx, "what is the temperature", nil, "", "")
	require.NoError(t, err)

	stats, err := tracker.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalQueries)
	require.NotEmpty(t, stats.CommonQueries)
	assert.Equal(t, Counted{Value: "turn on the lights", Count: 2}, stats.CommonQueries[0])
	assert.Equal(t, 2, stats.Intents["control"])
	assert.Equal(t, 1, stats.Intents["status"])
	assert.Equal(t, []Counted{{Value: "light.a", Count: 2}}, stats.SelectedEntities)
}

func TestClear(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Record(ctx, "turn on the lights", nil, "", "alice")
	require.NoError(t, err)
	_, err = tracker.Record(ctx, "find all sensors", nil, "", "bob")
	require.NoError(t, err)

	deleted, err := tracker.Clear(ctx, &Filters{UserId: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	entries, err := tracker.History(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bob", entries[0].UserId)
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{17, "afternoon"},
		{18, "evening"},
		{21, "evening"},
		{22, "night"},
		{3, "night"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, timeOfDay(tt.hour), "hour %d", tt.hour)
	}
}

func TestRankEncoding(t *testing.T) {
	ranks := []core.ResultRank{
		{Rank: 1, EntityId: "light.a", Score: 0.91},
		{Rank: 2, EntityId: "sensor.b", Score: 0.5},
	}

	decoded := decodeRanks(encodeRanks(ranks))
	require.Len(t, decoded, 2)
	assert.Equal(t, "light.a", decoded[0].EntityId)
	assert.InDelta(t, 0.91, decoded[0].Score, 0.001)
	assert.Equal(t, 2, decoded[1].Rank)

	assert.Nil(t, decodeRanks(""))
	assert.Empty(t, decodeRanks("garbage"))
}
