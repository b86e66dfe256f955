package classify

import (
	"regexp"

	"github.com/poiesic/hearth/core"
)

// Pattern tables are data, not control flow: adding a new intent, domain,
// action, or attribute is an additive table change.

// intentPatterns maps each intent to its regular-expression groups.
// Every matching group contributes intentGroupWeight to the intent's score.
var intentPatterns = []struct {
	intent   core.Intent
	patterns []*regexp.Regexp
}{
	{core.IntentControl, []*regexp.Regexp{
		regexp.MustCompile(`\b(turn|switch|power)\s+(on|off)\b`),
		regexp.MustCompile(`\b(set|change|adjust|dim|brighten)\b`),
		regexp.MustCompile(`\b(open|close|lock|unlock|start|stop|toggle)\b`),
	}},
	{core.IntentStatus, []*regexp.Regexp{
		regexp.MustCompile(`\b(what|how)\s+(is|are)\b`),
		regexp.MustCompile(`\b(status|state|current|reading)\b`),
		regexp.MustCompile(`\bis\s+the\b.+\b(on|off|open|closed|locked|running)\b`),
	}},
	{core.IntentConfigure, []*regexp.Regexp{
		regexp.MustCompile(`\b(configure|set\s*up|settings|calibrate)\b`),
		regexp.MustCompile(`\b(automation|scene|schedule|scheduling)\b`),
	}},
	{core.IntentDiscover, []*regexp.Regexp{
		regexp.MustCompile(`\b(discover|detect|scan)\b`),
		regexp.MustCompile(`\bwhat\s+(devices|entities)\b.+\b(have|available|exist)\b`),
		regexp.MustCompile(`\bnew\s+devices?\b`),
	}},
	{core.IntentAnalyze, []*regexp.Regexp{
		regexp.MustCompile(`\b(history|usage|trend|statistics|consumption|energy)\b`),
		regexp.MustCompile(`\bhow\s+(much|many|long|often)\b`),
		regexp.MustCompile(`\b(compare|average|total)\b`),
	}},
	{core.IntentSearch, []*regexp.Regexp{
		regexp.MustCompile(`\b(find|search|show|list|where)\b`),
		regexp.MustCompile(`\b(all|any|every)\b.+\b(lights?|sensors?|devices?|switches)\b`),
	}},
}

const intentGroupWeight = 0.3

// domainPatterns is an ORDERED check list. Climate is checked before sensor
// so the more general sensor patterns don't shadow the specific climate
// ones. Every matching pattern contributes domainPatternWeight.
var domainPatterns = []struct {
	domain   string
	patterns []*regexp.Regexp
}{
	{"climate", []*regexp.Regexp{
		regexp.MustCompile(`\b(thermostat|hvac|climate)\b`),
		regexp.MustCompile(`\b(heat(ing)?|cool(ing)?)\b`),
		regexp.MustCompile(`\bair\s*condition(er|ing)?\b`),
	}},
	{"light", []*regexp.Regexp{
		regexp.MustCompile(`\b(lights?|lamps?|bulbs?)\b`),
		regexp.MustCompile(`\b(brightness|dim|brighten|illuminate)\b`),
	}},
	{"sensor", []*regexp.Regexp{
		regexp.MustCompile(`\bsensors?\b`),
		regexp.MustCompile(`\b(temperature|humidity|motion|air\s*quality|co2)\b`),
	}},
	{"switch", []*regexp.Regexp{
		regexp.MustCompile(`\bswitch(es)?\b`),
		regexp.MustCompile(`\b(outlets?|plugs?)\b`),
	}},
	{"cover", []*regexp.Regexp{
		regexp.MustCompile(`\b(blinds?|curtains?|shades?|covers?)\b`),
		regexp.MustCompile(`\bgarage\s+door\b`),
	}},
	{"fan", []*regexp.Regexp{
		regexp.MustCompile(`\bfans?\b`),
		regexp.MustCompile(`\bventilat(e|ion|or)\b`),
	}},
	{"lock", []*regexp.Regexp{
		regexp.MustCompile(`\b(un)?lock(s|ed)?\b`),
		regexp.MustCompile(`\bdead\s*bolt\b`),
	}},
	{"media_player", []*regexp.Regexp{
		regexp.MustCompile(`\b(tv|television|speakers?|stereo)\b`),
		regexp.MustCompile(`\b(music|media|volume|playlist)\b`),
	}},
	{"camera", []*regexp.Regexp{
		regexp.MustCompile(`\b(cameras?|cctv|snapshot)\b`),
	}},
}

const domainPatternWeight = 0.4

// actionPatterns is a fixed PRIORITY list: the first matching action wins.
var actionPatterns = []struct {
	action  string
	pattern *regexp.Regexp
}{
	{"on", regexp.MustCompile(`\b(turn|switch|power)\s+on\b|\b(enable|activate)\b`)},
	{"off", regexp.MustCompile(`\b(turn|switch|power)\s+off\b|\b(disable|deactivate)\b`)},
	{"set", regexp.MustCompile(`\b(set|change|adjust|make)\b`)},
	{"increase", regexp.MustCompile(`\b(increase|raise|brighten|turn\s+up)\b`)},
	{"decrease", regexp.MustCompile(`\b(decrease|lower|dim|turn\s+down)\b`)},
	{"toggle", regexp.MustCompile(`\b(toggle|flip)\b`)},
}

// attributePatterns is an ORDERED keyword table mapping query phrasing to a
// target attribute. color_temp is checked before color and temperature so
// "color temperature" doesn't match the broader patterns first.
var attributePatterns = []struct {
	attribute string
	pattern   *regexp.Regexp
}{
	{"color_temp", regexp.MustCompile(`\bcolou?r\s+temp(erature)?\b|\bwarmth\b`)},
	{"brightness", regexp.MustCompile(`\b(brightness|bright|dimmer)\b`)},
	{"color", regexp.MustCompile(`\bcolou?r\b`)},
	{"temperature", regexp.MustCompile(`\b(temperature|degrees)\b`)},
	{"humidity", regexp.MustCompile(`\bhumidity\b`)},
	{"position", regexp.MustCompile(`\bposition\b`)},
}

// typeHints maps query keywords to a sensor-type filter hint.
var typeHints = []struct {
	hint    string
	pattern *regexp.Regexp
}{
	{"temperature", regexp.MustCompile(`\btemperature\b`)},
	{"motion", regexp.MustCompile(`\bmotion\b`)},
	{"humidity", regexp.MustCompile(`\bhumidity\b`)},
	{"brightness", regexp.MustCompile(`\bbrightness\b`)},
}

// synonyms are literal phrase substitutions applied during refinement.
// Plural/singular forms are deliberately left alone.
var synonyms = []struct {
	from string
	to   string
}{
	{"switch on", "turn on"},
	{"switch off", "turn off"},
	{"power on", "turn on"},
	{"power off", "turn off"},
	{"shut off", "turn off"},
	{"shut", "close"},
}

// Numeric and time literal patterns. Percentage is checked before the plain
// integer so "50%" isn't consumed as a bare 50.
var (
	percentPattern  = regexp.MustCompile(`(\d+)\s*(%|percent)`)
	floatPattern    = regexp.MustCompile(`\b(\d+\.\d+)\b`)
	integerPattern  = regexp.MustCompile(`\b(\d+)\b`)
	entityIdPattern = regexp.MustCompile(`\b([a-z_]+\.[a-z0-9_]+)\b`)
	timeRefPattern  = regexp.MustCompile(`\b(\d+\s*(minutes?|hours?|days?|weeks?))\b|\b(today|yesterday|now|recent|last)\b`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)
