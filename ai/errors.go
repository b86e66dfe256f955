package ai

import "errors"

var (
	// ErrMissingAPIKey is returned when the remote provider has no credential.
	ErrMissingAPIKey = errors.New("ai: API key required")

	// ErrUnknownDimensions is returned when the embedding model is not in
	// the ModelDimensions table and no explicit dimension was configured.
	ErrUnknownDimensions = errors.New("ai: unknown embedding dimensions for model")

	// ErrProviderClosed is returned when a closed provider is used.
	ErrProviderClosed = errors.New("ai: provider is closed")
)
