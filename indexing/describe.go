package indexing

import (
	"fmt"
	"strings"

	"github.com/poiesic/hearth/directory"
)

// entityContext bundles an entity with its resolved area and device.
// Area and device may be nil when the entity has no such link or the
// directory could not resolve it.
type entityContext struct {
	entity *directory.EntityRecord
	area   *directory.Area
	device *directory.Device
}

// describer builds a natural-language description for one template slot.
type describer func(ec *entityContext) string

// domainDescribers is keyed by entity domain. Unknown domains use
// describeDefault.
var domainDescribers = map[string]describer{
	"light":        describeLight,
	"sensor":       describeSensor,
	"switch":       describeSwitch,
	"climate":      describeClimate,
	"cover":        describeCover,
	"fan":          describeFan,
	"lock":         describeLock,
	"media_player": describeMediaPlayer,
	"camera":       describeCamera,
}

// describeEntity renders the description text used for embedding. It never
// fails: a panic inside a template falls back to the minimal sentence.
func describeEntity(ec *entityContext) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = minimalDescription(ec.entity)
		}
	}()

	describe, ok := domainDescribers[ec.entity.Domain]
	if !ok {
		describe = describeDefault
	}

	text = strings.TrimSpace(describe(ec))
	if text == "" {
		text = minimalDescription(ec.entity)
	}
	return text
}

// minimalDescription is the last-resort template.
func minimalDescription(entity *directory.EntityRecord) string {
	name := entity.FriendlyName
	if name == "" {
		name = entity.EntityId
	}
	return fmt.Sprintf("%s is a %s entity.", name, entity.Domain)
}

func describeLight(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a light%s.", displayName(ec.entity), inArea(ec))

	if modes := ec.entity.StringAttribute("supported_color_modes"); modes != "" {
		fmt.Fprintf(&b, " It supports color modes: %s.", modes)
	} else if ec.entity.Attributes["brightness"] != nil {
		b.WriteString(" It supports brightness adjustment.")
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeSensor(ec *entityContext) string {
	var b strings.Builder
	class := ec.entity.StringAttribute("device_class")
	if class != "" {
		fmt.Fprintf(&b, "%s is a %s sensor%s.", displayName(ec.entity), class, inArea(ec))
	} else {
		fmt.Fprintf(&b, "%s is a sensor%s.", displayName(ec.entity), inArea(ec))
	}

	if ec.entity.State != "" && ec.entity.State != "unknown" {
		unit := ec.entity.StringAttribute("unit_of_measurement")
		if unit != "" {
			fmt.Fprintf(&b, " It currently reads %s %s.", ec.entity.State, unit)
		} else {
			fmt.Fprintf(&b, " It currently reads %s.", ec.entity.State)
		}
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeSwitch(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a switch%s.", displayName(ec.entity), inArea(ec))
	if ec.entity.State != "" {
		fmt.Fprintf(&b, " It is currently %s.", ec.entity.State)
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeClimate(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a climate control device%s.", displayName(ec.entity), inArea(ec))

	if target := ec.entity.StringAttribute("temperature"); target != "" {
		fmt.Fprintf(&b, " The target temperature is %s.", target)
	}
	if modes := ec.entity.StringAttribute("hvac_modes"); modes != "" {
		fmt.Fprintf(&b, " Supported modes: %s.", modes)
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeCover(ec *entityContext) string {
	var b strings.Builder
	class := ec.entity.StringAttribute("device_class")
	if class == "" {
		class = "cover"
	}
	fmt.Fprintf(&b, "%s is a %s%s.", displayName(ec.entity), class, inArea(ec))
	if ec.entity.State != "" {
		fmt.Fprintf(&b, " It is currently %s.", ec.entity.State)
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeFan(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a fan%s.", displayName(ec.entity), inArea(ec))
	if ec.entity.Attributes["percentage"] != nil {
		b.WriteString(" It supports speed adjustment.")
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeLock(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a lock%s.", displayName(ec.entity), inArea(ec))
	if ec.entity.State != "" {
		fmt.Fprintf(&b, " It is currently %s.", ec.entity.State)
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeMediaPlayer(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a media player%s.", displayName(ec.entity), inArea(ec))
	if ec.entity.Attributes["volume_level"] != nil {
		b.WriteString(" It supports volume control.")
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeCamera(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a camera%s.", displayName(ec.entity), inArea(ec))
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func describeDefault(ec *entityContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s entity%s.", displayName(ec.entity), ec.entity.Domain, inArea(ec))
	if ec.entity.State != "" && ec.entity.State != "unknown" {
		fmt.Fprintf(&b, " Its current state is %s.", ec.entity.State)
	}
	b.WriteString(deviceSentence(ec))
	return b.String()
}

func displayName(entity *directory.EntityRecord) string {
	if entity.FriendlyName != "" {
		return entity.FriendlyName
	}
	return entity.EntityId
}

func inArea(ec *entityContext) string {
	if ec.area != nil && ec.area.Name != "" {
		return " in the " + ec.area.Name
	}
	return ""
}

func deviceSentence(ec *entityContext) string {
	if ec.device == nil {
		return ""
	}
	switch {
	case ec.device.Manufacturer != "" && ec.device.Model != "":
		return fmt.Sprintf(" It is provided by a %s %s device.", ec.device.Manufacturer, ec.device.Model)
	case ec.device.Name != "":
		return fmt.Sprintf(" It is provided by the %s device.", ec.device.Name)
	default:
		return ""
	}
}
