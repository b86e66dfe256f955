package indexing

import (
	"testing"

	"github.com/poiesic/hearth/directory"
	"github.com/stretchr/testify/assert"
)

func TestDescribeEntity(t *testing.T) {
	area := &directory.Area{AreaId: "living_room", Name: "Living Room"}
	device := &directory.Device{Id: "hue1", Manufacturer: "Signify", Model: "LCA001"}

	t.Run("light with area and device", func(t *testing.T) {
		text := describeEntity(&entityContext{
			entity: &directory.EntityRecord{
				EntityId:     "light.living_room",
				Domain:       "light",
				FriendlyName: "Living Room Light",
				Attributes:   map[string]any{"supported_color_modes": "color_temp, xy"},
			},
			area:   area,
			device: device,
		})
		assert.Contains(t, text, "Living Room Light is a light in the Living Room.")
		assert.Contains(t, text, "color modes: color_temp, xy")
		assert.Contains(t, text, "Signify LCA001")
	})

	t.Run("sensor with reading", func(t *testing.T) {
		text := describeEntity(&entityContext{
			entity: &directory.EntityRecord{
				EntityId:     "sensor.kitchen_temp",
				Domain:       "sensor",
				FriendlyName: "Kitchen Temperature",
				State:        "21.5",
				Attributes:   map[string]any{"device_class": "temperature", "unit_of_measurement": "°C"},
			},
		})
		assert.Contains(t, text, "temperature sensor")
		assert.Contains(t, text, "21.5 °C")
	})

	t.Run("unknown domain uses default template", func(t *testing.T) {
		text := describeEntity(&entityContext{
			entity: &directory.EntityRecord{
				EntityId:     "vacuum.robo",
				Domain:       "vacuum",
				FriendlyName: "Robo",
				State:        "docked",
			},
		})
		assert.Contains(t, text, "Robo is a vacuum entity.")
		assert.Contains(t, text, "docked")
	})

	t.Run("missing friendly name falls back to id", func(t *testing.T) {
		text := describeEntity(&entityContext{
			entity: &directory.EntityRecord{EntityId: "lock.front", Domain: "lock"},
		})
		assert.Contains(t, text, "lock.front is a lock.")
	})
}
