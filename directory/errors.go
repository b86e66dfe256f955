package directory

import "errors"

var (
	// ErrEntityNotFound indicates the directory has no entity with the
	// requested id.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDeviceNotFound indicates the directory has no device with the
	// requested id.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrUnavailable indicates the directory service could not be reached.
	ErrUnavailable = errors.New("entity directory unavailable")
)
