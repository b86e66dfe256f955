package graph

import "errors"

var (
	// ErrStoreRequired is returned when no vector store is provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrProviderRequired is returned when no embedding provider is provided.
	ErrProviderRequired = errors.New("embedding provider required")

	// ErrDirectoryRequired is returned when no entity directory is provided.
	ErrDirectoryRequired = errors.New("entity directory required")

	// ErrEntityIdRequired is returned when a query needs an entity id.
	ErrEntityIdRequired = errors.New("entity id required")
)
