// Package mock provides an in-memory test double for directory.Directory.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/hearth/directory"
)

// Directory is an in-memory directory.Directory for tests and seeding.
// Behavior can be overridden per method via function fields.
type Directory struct {
	mu          sync.RWMutex
	entities    map[string]*directory.EntityRecord
	areas       []*directory.Area
	devices     map[string]*directory.Device
	automations []*directory.Automation

	// GetAreasFunc overrides GetAreas if set, e.g. to inject failures.
	GetAreasFunc func(ctx context.Context) ([]*directory.Area, error)

	// GetEntityStateFunc overrides GetEntityState if set.
	GetEntityStateFunc func(ctx context.Context, entityId string) (*directory.EntityRecord, error)
}

var _ directory.Directory = (*Directory)(nil)

// NewDirectory creates an empty in-memory directory.
// Note: Returns concrete type to allow fixtures and assertions.
func NewDirectory() *Directory {
	return &Directory{
		entities: make(map[string]*directory.EntityRecord),
		devices:  make(map[string]*directory.Device),
	}
}

// AddEntity registers an entity, deriving Domain from the id when unset.
func (d *Directory) AddEntity(entity *directory.EntityRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if entity.Domain == "" {
		entity.Domain = directory.DomainOf(entity.EntityId)
	}
	d.entities[entity.EntityId] = entity
}

// AddArea registers an area.
func (d *Directory) AddArea(area *directory.Area) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.areas = append(d.areas, area)
}

// AddDevice registers a device.
func (d *Directory) AddDevice(device *directory.Device) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices[device.Id] = device
}

// AddAutomation registers an automation.
func (d *Directory) AddAutomation(automation *directory.Automation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.automations = append(d.automations, automation)
}

// RemoveEntity deletes an entity, if present.
func (d *Directory) RemoveEntity(entityId string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entities, entityId)
}

// GetEntities lists entities filtered by domain and substring search.
func (d *Directory) GetEntities(ctx context.Context, domain, search string, limit int) ([]*directory.EntityRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	search = strings.ToLower(search)
	var results []*directory.EntityRecord
	for _, entity := range d.entities {
		if domain != "" && entity.Domain != domain {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(entity.EntityId), search) &&
			!strings.Contains(strings.ToLower(entity.FriendlyName), search) {
			continue
		}
		results = append(results, entity)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// GetEntityState retrieves a single entity.
func (d *Directory) GetEntityState(ctx context.Context, entityId string) (*directory.EntityRecord, error) {
	if d.GetEntityStateFunc != nil {
		return d.GetEntityStateFunc(ctx, entityId)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	entity, ok := d.entities[entityId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", directory.ErrEntityNotFound, entityId)
	}
	return entity, nil
}

// GetAreas lists all areas.
func (d *Directory) GetAreas(ctx context.Context) ([]*directory.Area, error) {
	if d.GetAreasFunc != nil {
		return d.GetAreasFunc(ctx)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.areas, nil
}

// GetDevices lists all devices.
func (d *Directory) GetDevices(ctx context.Context) ([]*directory.Device, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	devices := make([]*directory.Device, 0, len(d.devices))
	for _, device := range d.devices {
		devices = append(devices, device)
	}
	return devices, nil
}

// GetDeviceDetails retrieves a single device.
func (d *Directory) GetDeviceDetails(ctx context.Context, id string) (*directory.Device, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	device, ok := d.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", directory.ErrDeviceNotFound, id)
	}
	return device, nil
}

// GetAutomations lists all automations.
func (d *Directory) GetAutomations(ctx context.Context) ([]*directory.Automation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.automations, nil
}
