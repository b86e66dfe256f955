package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := Fingerprint("Living Room Light is a light in the Living Room")
		b := Fingerprint("Living Room Light is a light in the Living Room")
		assert.Equal(t, a, b)
	})

	t.Run("different content differs", func(t *testing.T) {
		a := Fingerprint("light.living_room")
		b := Fingerprint("light.bedroom")
		assert.NotEqual(t, a, b)
	})

	t.Run("16 hex chars", func(t *testing.T) {
		assert.Len(t, Fingerprint("anything"), 16)
	})
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, float32(0), ClampScore(-0.5))
	assert.Equal(t, float32(1), ClampScore(1.7))
	assert.Equal(t, float32(0.42), ClampScore(0.42))
}

func TestRelationshipEdge(t *testing.T) {
	edge := &RelationshipEdge{
		Source:     "light.living_room",
		Target:     "living_room",
		Type:       RelationshipInArea,
		SourceType: "entity",
		TargetType: "area",
	}

	assert.Equal(t, "light.living_room_in_area_living_room", edge.Key())
	assert.Equal(t, "light.living_room in_area living_room", edge.Text())
}

func TestPopularityId(t *testing.T) {
	assert.Equal(t, "popularity_light.kitchen", PopularityId("light.kitchen"))
}

func TestMatchSourceString(t *testing.T) {
	assert.Equal(t, "semantic", MatchSourceSemantic.String())
	assert.Equal(t, "keyword", MatchSourceKeyword.String())
	assert.Equal(t, "hybrid", MatchSourceHybrid.String())
	assert.Equal(t, "unknown", MatchSource(0).String())
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "control", IntentControl.String())
	assert.Equal(t, "status", IntentStatus.String())
	assert.Equal(t, "search", IntentSearch.String())
}
