package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/hearth/core"
)

// DistanceKind declares how a backend's raw search score is interpreted.
type DistanceKind int

const (
	// CosineDistance is a cosine distance in [0,2]; 0 means identical.
	CosineDistance DistanceKind = iota + 1
	// SimilarityScore is already a similarity in [0,1]; 1 means identical.
	SimilarityScore
	// GenericDistance is an unbounded distance; 0 means identical.
	GenericDistance
)

// similarityFromRaw converts a backend-native score to a similarity in [0,1].
// Values outside the declared kind's range fall through to the generic
// distance conversion.
func similarityFromRaw(raw float32, kind DistanceKind) float32 {
	switch kind {
	case CosineDistance:
		if raw >= 0 && raw <= 2 {
			return core.ClampScore(1 - raw/2)
		}
	case SimilarityScore:
		if raw >= 0 && raw <= 1 {
			return raw
		}
	}
	if raw < 0 {
		return 0
	}
	return 1 / (1 + raw)
}

// Boost increments for literal query hits. Each boost clamps the running
// score to 1 before the next is applied.
const (
	entityIdBoost     = 0.20
	friendlyNameBoost = 0.15
	domainBoost       = 0.10
	areaBoost         = 0.10
)

// applyBoosts rewards literal appearances of the entity's identity fields
// inside the query. The query is expected lowercased.
func applyBoosts(score float32, query, entityId, friendlyName, domain, areaId string) float32 {
	if entityId != "" && strings.Contains(query, strings.ToLower(entityId)) {
		score = core.ClampScore(score + entityIdBoost)
	}
	if friendlyName != "" && strings.Contains(query, strings.ToLower(friendlyName)) {
		score = core.ClampScore(score + friendlyNameBoost)
	}
	if domain != "" && strings.Contains(query, domain) {
		score = core.ClampScore(score + domainBoost)
	}
	if areaId != "" && strings.Contains(query, strings.ToLower(areaId)) {
		score = core.ClampScore(score + areaBoost)
	}
	return score
}

// explain renders the user-visible match explanation.
func explain(friendlyName, domain, areaId string, similarity float32) string {
	explanation := fmt.Sprintf("Entity %q (%s) matched with %.0f%% similarity",
		friendlyName, domain, similarity*100)
	if areaId != "" {
		explanation += fmt.Sprintf(" in area %s", areaId)
	}
	return explanation
}
