package classify

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
)

// Classifier turns free-text queries into a ClassificationResult using
// static pattern tables. It performs no I/O except an area-name lookup used
// only for entity-filter extraction; that lookup degrades to "no area
// filter" on any error.
type Classifier struct {
	directory directory.Directory
	logger    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClassifier creates a classifier. The directory may be nil, in which
// case area filters are never extracted.
func NewClassifier(dir directory.Directory, opts ...Option) (*Classifier, error) {
	c := &Classifier{
		directory: dir,
		logger:    slog.Default().With("component", "classifier"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ProcessQuery runs intent classification, domain prediction, action and
// parameter extraction, filter extraction, and query refinement. It is
// stateless and side-effect-free.
func (c *Classifier) ProcessQuery(ctx context.Context, query string) *core.ClassificationResult {
	lower := strings.ToLower(strings.TrimSpace(query))

	intent, confidence := ClassifyIntent(lower)
	domain, domainConfidence := PredictDomain(lower)
	action, actionParams := ExtractAction(lower)
	params := ExtractParameters(lower)
	filters := c.extractFilters(ctx, lower, domain)

	return &core.ClassificationResult{
		Intent:           intent,
		Confidence:       confidence,
		Domain:           domain,
		DomainConfidence: domainConfidence,
		Action:           action,
		ActionParams:     actionParams,
		EntityFilters:    filters,
		Parameters:       params,
		RefinedQuery:     RefineQuery(lower),
	}
}

// ClassifyIntent scores the query against every intent's pattern groups.
// Each matching group contributes 0.3; confidence is clamped to [0.5, 1.0]
// from best_score/2. Queries matching nothing default to SEARCH at 0.5.
func ClassifyIntent(query string) (core.Intent, float32) {
	best := core.IntentSearch
	var bestScore float32

	for _, entry := range intentPatterns {
		var score float32
		for _, pattern := range entry.patterns {
			if pattern.MatchString(query) {
				score += intentGroupWeight
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry.intent
		}
	}

	if bestScore == 0 {
		return core.IntentSearch, 0.5
	}

	confidence := bestScore / 2.0
	if confidence < 0.5 {
		confidence = 0.5
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, confidence
}

// PredictDomain walks the ordered domain check list. Each matching pattern
// contributes 0.4; confidence is clamp(best_score/2, 0, 1). No match yields
// an empty domain at confidence 0.
func PredictDomain(query string) (string, float32) {
	var best string
	var bestScore float32

	for _, entry := range domainPatterns {
		var score float32
		for _, pattern := range entry.patterns {
			if pattern.MatchString(query) {
				score += domainPatternWeight
			}
		}
		// Strictly greater: earlier entries win ties, preserving the
		// climate-before-sensor ordering.
		if score > bestScore {
			bestScore = score
			best = entry.domain
		}
	}

	if bestScore == 0 {
		return "", 0
	}
	return best, core.ClampScore(bestScore / 2.0)
}

// ExtractAction walks the fixed priority list of actions; the first pattern
// match wins. On a match it also extracts a numeric literal (percentage
// checked before plain integer) and a target attribute.
func ExtractAction(query string) (string, core.ActionParams) {
	for _, entry := range actionPatterns {
		if !entry.pattern.MatchString(query) {
			continue
		}

		params := core.ActionParams{}
		if m := percentPattern.FindStringSubmatch(query); m != nil {
			value, _ := strconv.ParseFloat(m[1], 64)
			params.Value = value
			params.HasValue = true
			params.Unit = "percent"
		} else if m := integerPattern.FindStringSubmatch(query); m != nil {
			value, _ := strconv.ParseFloat(m[1], 64)
			params.Value = value
			params.HasValue = true
		}
		params.Attribute = extractAttribute(query)
		return entry.action, params
	}
	return "", core.ActionParams{}
}

// ExtractParameters extracts the primary numeric value (percentage > float
// > integer), the target attribute, and a time reference.
func ExtractParameters(query string) core.QueryParams {
	params := core.QueryParams{}

	if m := percentPattern.FindStringSubmatch(query); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		params.Value = value
		params.HasValue = true
		params.Unit = "percent"
	} else if m := floatPattern.FindStringSubmatch(query); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		params.Value = value
		params.HasValue = true
	} else if m := integerPattern.FindStringSubmatch(query); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		params.Value = value
		params.HasValue = true
	}

	params.Attribute = extractAttribute(query)

	if m := timeRefPattern.FindString(query); m != "" {
		params.TimeRef = m
	}

	return params
}

// RefineQuery applies literal synonym substitutions, then collapses
// whitespace and trims. Plural/singular forms are not touched.
func RefineQuery(query string) string {
	refined := strings.ToLower(query)
	for _, syn := range synonyms {
		refined = strings.ReplaceAll(refined, syn.from, syn.to)
	}
	refined = whitespaceRun.ReplaceAllString(refined, " ")
	return strings.TrimSpace(refined)
}

// extractAttribute walks the ordered attribute keyword table.
func extractAttribute(query string) string {
	for _, entry := range attributePatterns {
		if entry.pattern.MatchString(query) {
			return entry.attribute
		}
	}
	return ""
}

// extractFilters collects explicit entity ids, an area filter from the
// directory's area names and aliases, the predicted domain, and a
// sensor-type hint.
func (c *Classifier) extractFilters(ctx context.Context, query, predictedDomain string) core.EntityFilters {
	filters := core.EntityFilters{
		Domain: predictedDomain,
	}

	// Explicit domain.entity_name tokens are returned verbatim.
	filters.EntityIds = entityIdPattern.FindAllString(query, -1)

	// Area display names and aliases, substring-matched case-insensitively.
	// Any directory failure degrades to "no area filter".
	if c.directory != nil {
		areas, err := c.directory.GetAreas(ctx)
		if err != nil {
			c.logger.Warn("area lookup failed, skipping area filter", "err", err)
		} else {
		areaLoop:
			for _, area := range areas {
				if strings.Contains(query, strings.ToLower(area.Name)) {
					filters.AreaId = area.AreaId
					break
				}
				for _, alias := range area.Aliases {
					if strings.Contains(query, strings.ToLower(alias)) {
						filters.AreaId = area.AreaId
						break areaLoop
					}
				}
			}
		}
	}

	for _, entry := range typeHints {
		if entry.pattern.MatchString(query) {
			filters.Type = entry.hint
			break
		}
	}

	return filters
}
