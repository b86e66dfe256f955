package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint generates a deterministic short hash of text content using
// BLAKE2b. Identical content always produces the same fingerprint, which
// lets the indexer skip re-embedding unchanged entity descriptions.
func Fingerprint(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// VectorRecord is a single row in a vector store collection.
// The vector is never mutated after creation; upserts replace the row.
type VectorRecord struct {
	Id         string
	Vector     []float32
	Metadata   map[string]string
	InsertedAt time.Time // When the record was first stored
	UpdatedAt  time.Time // When the record was last upserted
}

// CollectionInfo describes a named collection inside the vector store.
// Collections are created lazily on first write.
type CollectionInfo struct {
	Name       string
	Dimensions int // Vector length; 0 until the first record is stored
	Metadata   map[string]string
	CreatedAt  time.Time
}

// SearchResult is a backend-native similarity hit. The distance is the
// store's raw metric (cosine distance in [0,2] for the badger backend) and
// has not yet been normalized to a similarity score.
type SearchResult struct {
	Id       string
	Distance float32
	Metadata map[string]string
}

// MatchSource identifies which search path produced a RankedMatch.
type MatchSource int

const (
	// MatchSourceSemantic indicates a vector-similarity hit.
	MatchSourceSemantic MatchSource = iota + 1
	// MatchSourceKeyword indicates a keyword/substring hit.
	MatchSourceKeyword
	// MatchSourceHybrid indicates the entity was found by both paths.
	MatchSourceHybrid
)

func (s MatchSource) String() string {
	switch s {
	case MatchSourceSemantic:
		return "semantic"
	case MatchSourceKeyword:
		return "keyword"
	case MatchSourceHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// RankedMatch is a resolved entity candidate with a normalized score.
// Lists of RankedMatch are always sorted descending by score, with
// first-seen-wins tie handling.
type RankedMatch struct {
	EntityId    string
	Score       float32 // Always in [0,1]
	Explanation string
	Metadata    map[string]string
	Source      MatchSource
}

// ClampScore clamps a similarity score to the [0,1] range.
func ClampScore(score float32) float32 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Intent classifies what a free-text query is asking for.
type Intent int

const (
	// IntentSearch is a lookup for entities ("find the lights").
	IntentSearch Intent = iota + 1
	// IntentControl changes device state ("turn on the lights").
	IntentControl
	// IntentStatus reads device state ("what is the temperature").
	IntentStatus
	// IntentConfigure adjusts settings ("set up the thermostat schedule").
	IntentConfigure
	// IntentDiscover enumerates devices ("what devices do I have").
	IntentDiscover
	// IntentAnalyze asks about history or usage ("how much energy did I use").
	IntentAnalyze
)

func (i Intent) String() string {
	switch i {
	case IntentSearch:
		return "search"
	case IntentControl:
		return "control"
	case IntentStatus:
		return "status"
	case IntentConfigure:
		return "configure"
	case IntentDiscover:
		return "discover"
	case IntentAnalyze:
		return "analyze"
	default:
		return "unknown"
	}
}

// ActionParams carries parameters extracted alongside a control action.
type ActionParams struct {
	Value     float64 // Numeric literal from the query
	HasValue  bool
	Unit      string // "percent" when the literal was a percentage
	Attribute string // Target attribute, e.g. "brightness"
}

// QueryParams carries general parameters extracted from a query.
type QueryParams struct {
	Value    float64
	HasValue bool
	Unit     string
	Attribute string
	TimeRef  string // Raw time reference, e.g. "30 minutes" or "yesterday"
}

// EntityFilters narrows entity resolution based on query analysis.
type EntityFilters struct {
	EntityIds []string // Explicit domain.entity tokens found in the query
	AreaId    string
	Domain    string
	Type      string // Sensor-type hint, e.g. "temperature" or "motion"
}

// ClassificationResult is the full output of query classification.
// It is produced per query and never persisted.
type ClassificationResult struct {
	Intent           Intent
	Confidence       float32 // In [0,1]
	Domain           string  // Empty when no domain matched
	DomainConfidence float32
	Action           string // Empty when no action matched
	ActionParams     ActionParams
	EntityFilters    EntityFilters
	Parameters       QueryParams
	RefinedQuery     string
}

// RelationshipType identifies the kind of edge between two ids.
type RelationshipType string

const (
	RelationshipInArea       RelationshipType = "in_area"
	RelationshipFromDevice   RelationshipType = "from_device"
	RelationshipDeviceParent RelationshipType = "device_parent"
	RelationshipSameArea     RelationshipType = "same_area"
	RelationshipSameDevice   RelationshipType = "same_device"
	RelationshipSameDomain   RelationshipType = "same_domain"
	RelationshipInAutomation RelationshipType = "in_automation"
)

// RelationshipTypes returns every known relationship type.
func RelationshipTypes() []RelationshipType {
	return []RelationshipType{
		RelationshipInArea,
		RelationshipFromDevice,
		RelationshipDeviceParent,
		RelationshipSameArea,
		RelationshipSameDevice,
		RelationshipSameDomain,
		RelationshipInAutomation,
	}
}

// RelationshipEdge is a typed directed link between two ids (entity, area,
// or device), stored as a vector row whose embedded text is Text().
type RelationshipEdge struct {
	Source     string
	Target     string
	Type       RelationshipType
	SourceType string // "entity" or "device"
	TargetType string // "area", "device", or "entity"
}

// Key returns the vector-store id for this edge.
func (e *RelationshipEdge) Key() string {
	return fmt.Sprintf("%s_%s_%s", e.Source, e.Type, e.Target)
}

// Text returns the natural-language form of the edge used for embedding.
func (e *RelationshipEdge) Text() string {
	return fmt.Sprintf("%s %s %s", e.Source, e.Type, e.Target)
}

// ResultRank is a compact summary of one ranked result in a history entry.
type ResultRank struct {
	Rank     int
	EntityId string
	Score    float32
}

// QueryHistoryEntry records one resolved query for later aggregation.
// Entries are append-only and bulk-deletable.
type QueryHistoryEntry struct {
	QueryId          string // UUID
	QueryText        string
	Timestamp        time.Time
	Intent           string
	Domain           string
	ResultCount      int
	SelectedEntityId string
	TimeOfDay        string // morning, afternoon, evening, or night
	UserId           string
	Results          []ResultRank // At most the first 10 ranks
}

// PopularityRecord tracks how often an entity was selected from results.
// One record per entity, identified by PopularityId(entityId).
type PopularityRecord struct {
	EntityId    string
	Count       int
	LastUpdated time.Time
}

// PopularityId derives the vector-store id for an entity's popularity record.
func PopularityId(entityId string) string {
	return "popularity_" + entityId
}

// ExecutionStep is one concrete device operation in an action plan.
type ExecutionStep struct {
	EntityId    string
	Service     string // e.g. "light.turn_on"
	Data        map[string]any
	Description string
}

/// ExecutionPlan is the executable outcome of resolving a query: the
// classification, the ranked candidates, and one step per actionable entity.
type ExecutionPlan struct {
	Query          string
	Classification *ClassificationResult
	Matches        []*RankedMatch
	Steps          []*ExecutionStep
}
