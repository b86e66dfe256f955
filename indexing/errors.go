package indexing

import "errors"

var (
	// ErrStoreRequired is returned when no vector store is provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrProviderRequired is returned when no embedding provider is provided.
	ErrProviderRequired = errors.New("embedding provider required")

	// ErrDirectoryRequired is returned when no entity directory is provided.
	ErrDirectoryRequired = errors.New("entity directory required")

	// ErrNilEntity is returned when an entity record is nil or has no id.
	ErrNilEntity = errors.New("entity record is nil or missing an id")
)
