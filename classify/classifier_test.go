package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/directory"
	"github.com/poiesic/hearth/directory/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query string
		want  core.Intent
	}{
		{"turn on the living room lights", core.IntentControl},
		{"switch off the fan", core.IntentControl},
		{"what is the temperature in the kitchen", core.IntentStatus},
		{"status of the kitchen sensor", core.IntentStatus},
		{"find all motion sensors", core.IntentSearch},
		{"scan for new devices", core.IntentDiscover},
		{"how much energy did the heater use", core.IntentAnalyze},
		{"set up a schedule automation", core.IntentConfigure},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			intent, confidence := ClassifyIntent(tt.query)
			assert.Equal(t, tt.want, intent)
			assert.GreaterOrEqual(t, confidence, float32(0.5))
			assert.LessOrEqual(t, confidence, float32(1.0))
		})
	}

	t.Run("no match defaults to search at 0.5", func(t *testing.T) {
		intent, confidence := ClassifyIntent("blorp")
		assert.Equal(t, core.IntentSearch, intent)
		assert.Equal(t, float32(0.5), confidence)
	})
}

func TestPredictDomain(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"turn on the living room lights", "light"},
		{"what is the temperature in the kitchen", "sensor"},
		{"set the thermostat temperature to 72", "climate"},
		{"open the garage door", "cover"},
		{"is the front door locked", "lock"},
		{"turn up the volume on the tv", "media_player"},
		{"show the camera snapshot", "camera"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			domain, confidence := PredictDomain(tt.query)
			assert.Equal(t, tt.want, domain)
			assert.Greater(t, confidence, float32(0))
			assert.LessOrEqual(t, confidence, float32(1))
		})
	}

	t.Run("climate wins over sensor when both match", func(t *testing.T) {
		// Climate contributes twice (thermostat + heating); sensor once.
		domain, _ := PredictDomain("thermostat heating temperature")
		assert.Equal(t, "climate", domain)
	})

	t.Run("no match yields empty domain", func(t *testing.T) {
		domain, confidence := PredictDomain("hello world")
		assert.Empty(t, domain)
		assert.Equal(t, float32(0), confidence)
	})
}

func TestExtractAction(t *testing.T) {
	t.Run("set brightness to 50 percent", func(t *testing.T) {
		action, params := ExtractAction("set brightness to 50%")
		assert.Equal(t, "set", action)
		require.True(t, params.HasValue)
		assert.Equal(t, float64(50), params.Value)
		assert.Equal(t, "percent", params.Unit)
		assert.Equal(t, "brightness", params.Attribute)
	})

	t.Run("turn on", func(t *testing.T) {
		action, params := ExtractAction("turn on the lights")
		assert.Equal(t, "on", action)
		assert.False(t, params.HasValue)
	})

	t.Run("on beats set in priority order", func(t *testing.T) {
		action, _ := ExtractAction("turn on and set the lamp")
		assert.Equal(t, "on", action)
	})

	t.Run("plain integer", func(t *testing.T) {
		action, params := ExtractAction("set the temperature to 21")
		assert.Equal(t, "set", action)
		require.True(t, params.HasValue)
		assert.Equal(t, float64(21), params.Value)
		assert.Empty(t, params.Unit)
		assert.Equal(t, "temperature", params.Attribute)
	})

	t.Run("no action", func(t *testing.T) {
		action, params := ExtractAction("where are the sensors")
		assert.Empty(t, action)
		assert.Equal(t, core.ActionParams{}, params)
	})
}

func TestExtractParameters(t *testing.T) {
	t.Run("percentage beats float and integer", func(t *testing.T) {
		params := ExtractParameters("set to 75% or 2.5 or 10")
		require.True(t, params.HasValue)
		assert.Equal(t, float64(75), params.Value)
		assert.Equal(t, "percent", params.Unit)
	})

	t.Run("float beats integer", func(t *testing.T) {
		params := ExtractParameters("set to 21.5 degrees in 3 rooms")
		require.True(t, params.HasValue)
		assert.Equal(t, 21.5, params.Value)
		assert.Empty(t, params.Unit)
	})

	t.Run("time reference", func(t *testing.T) {
		params := ExtractParameters("motion in the last 30 minutes")
		assert.Equal(t, "30 minutes", params.TimeRef)
	})

	t.Run("bare time word", func(t *testing.T) {
		params := ExtractParameters("what happened yesterday")
		assert.Equal(t, "yesterday", params.TimeRef)
	})

	t.Run("color temperature attribute", func(t *testing.T) {
		params := ExtractParameters("adjust the color temperature")
		assert.Equal(t, "color_temp", params.Attribute)
	})
}

func TestRefineQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"switch on the lamp", "turn on the lamp"},
		{"power off   the tv", "turn off the tv"},
		{"  turn on the lights  ", "turn on the lights"},
		{"dim the lights", "dim the lights"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RefineQuery(tt.in))
	}
}

func TestProcessQuery(t *testing.T) {
	dir := mock.NewDirectory()
	dir.AddArea(&directory.Area{AreaId: "living_room", Name: "Living Room", Aliases: []string{"lounge"}})
	dir.AddArea(&directory.Area{AreaId: "kitchen", Name: "Kitchen"})

	classifier, err := NewClassifier(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("control lights", func(t *testing.T) {
		result := classifier.ProcessQuery(ctx, "turn on the living room lights")
		assert.Equal(t, core.IntentControl, result.Intent)
		assert.Equal(t, "light", result.Domain)
		assert.Equal(t, "on", result.Action)
		assert.Equal(t, "living_room", result.EntityFilters.AreaId)
		assert.Equal(t, "light", result.EntityFilters.Domain)
	})

	t.Run("status sensor", func(t *testing.T) {
		result := classifier.ProcessQuery(ctx, "what is the temperature in the kitchen")
		assert.Equal(t, core.IntentStatus, result.Intent)
		assert.Equal(t, "sensor", result.Domain)
		assert.Equal(t, "kitchen", result.EntityFilters.AreaId)
		assert.Equal(t, "temperature", result.EntityFilters.Type)
	})

	t.Run("area alias match", func(t *testing.T) {
		result := classifier.ProcessQuery(ctx, "dim the lounge lights")
		assert.Equal(t, "living_room", result.EntityFilters.AreaId)
	})

	t.Run("explicit entity id", func(t *testing.T) {
		result := classifier.ProcessQuery(ctx, "toggle light.kitchen_ceiling")
		assert.Equal(t, []string{"light.kitchen_ceiling"}, result.EntityFilters.EntityIds)
	})

	t.Run("refined query in result", func(t *testing.T) {
		result := classifier.ProcessQuery(ctx, "switch on the lamp")
		assert.Equal(t, "turn on the lamp", result.RefinedQuery)
	})
}

func TestProcessQueryAreaLookupDegrades(t *testing.T) {
	dir := mock.NewDirectory()
	dir.GetAreasFunc = func(ctx context.Context) ([]*directory.Area, error) {
		return nil, errors.New("directory down")
	}

	classifier, err := NewClassifier(dir)
	require.NoError(t, err)

	// Failure only drops the area filter; everything else still works.
	result := classifier.ProcessQuery(context.Background(), "turn on the living room lights")
	assert.Equal(t, core.IntentControl, result.Intent)
	assert.Empty(t, result.EntityFilters.AreaId)
}

func TestProcessQueryNilDirectory(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	result := classifier.ProcessQuery(context.Background(), "turn on the lights")
	assert.Equal(t, core.IntentControl, result.Intent)
	assert.Empty(t, result.EntityFilters.AreaId)
}
