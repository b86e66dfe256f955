package directory

import (
	"strings"
	"time"
)

// EntityRecord is a read-only snapshot of one entity in the home-automation
// control plane. Records are owned by the directory service; hearth never
// mutates them.
type EntityRecord struct {
	EntityId     string         `json:"entity_id"`
	Domain       string         `json:"domain"`
	FriendlyName string         `json:"friendly_name"`
	State        string         `json:"state"`
	Attributes   map[string]any `json:"attributes"`
	AreaId       string         `json:"area_id"`
	DeviceId     string         `json:"device_id"`
	LastUpdated  time.Time      `json:"last_updated"`
}

// Area is a physical location grouping entities.
type Area struct {
	AreaId  string   `json:"area_id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Device is a physical device exposing one or more entities.
type Device struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	AreaId       string   `json:"area_id"`
	ViaDeviceId  string   `json:"via_device_id"`
	Entities     []string `json:"entities"`
}

// Automation is a stored automation rule. Only identity is exposed here;
// action parsing is out of scope.
type Automation struct {
	Id    string `json:"id"`
	Alias string `json:"alias"`
}

// DomainOf extracts the domain prefix from an entity id
// ("light.living_room" -> "light"). Returns the whole id when there is no
// dot separator.
func DomainOf(entityId string) string {
	if idx := strings.IndexByte(entityId, '.'); idx > 0 {
		return entityId[:idx]
	}
	return entityId
}

// StringAttribute returns a string-typed attribute value, or empty when the
// attribute is absent or not a string.
func (e *EntityRecord) StringAttribute(key string) string {
	if e.Attributes == nil {
		return ""
	}
	if v, ok := e.Attributes[key].(string); ok {
		return v
	}
	return ""
}
