package directory

import "context"

// Directory is the boundary to the external home-automation control plane.
// Implementations must be thread-safe for concurrent use.
//
// Callers treat a not-found answer (ErrEntityNotFound, ErrDeviceNotFound)
// as "skip and continue", never as fatal.
type Directory interface {
	// GetEntities lists entities, optionally filtered by domain and a
	// substring search over entity id and friendly name. limit <= 0 means
	// no limit.
	GetEntities(ctx context.Context, domain, search string, limit int) ([]*EntityRecord, error)

	// GetEntityState retrieves the live state of a single entity.
	// Returns ErrEntityNotFound for unknown ids.
	GetEntityState(ctx context.Context, entityId string) (*EntityRecord, error)

	// GetAreas lists all areas with display names and aliases.
	GetAreas(ctx context.Context) ([]*Area, error)

	// GetDevices lists all devices.
	GetDevices(ctx context.Context) ([]*Device, error)

	// GetDeviceDetails retrieves a single device.
	// Returns ErrDeviceNotFound for unknown ids.
	GetDeviceDetails(ctx context.Context, id string) (*Device, error)

	// GetAutomations lists all automation rules.
	GetAutomations(ctx context.Context) ([]*Automation, error)
}
