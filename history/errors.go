package history

import "errors"

var (
	// ErrStoreRequired is returned when no vector store is provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrProviderRequired is returned when no embedding provider is provided.
	ErrProviderRequired = errors.New("embedding provider required")

	// ErrEmptyQuery is returned when recording an empty query.
	ErrEmptyQuery = errors.New("query text is empty")
)
