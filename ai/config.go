// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the embedding provider implementation.
	// Supported values: "local" (OpenAI-compatible local server) and
	// "openai" (remote API requiring a credential).
	Provider string

	// Host is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	Host string

	// APIKey is the credential for remote providers. The local provider
	// ignores it.
	APIKey string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// Dimensions overrides the embedding vector length for models missing
	// from the ModelDimensions table. Leave 0 for known models.
	Dimensions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding provider name.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the credential for remote providers.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithDimensions sets an explicit embedding vector length.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible embedding server.
func DefaultConfig() *Config {
	return &Config{
		Provider:       "local",
		Host:           "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config with
// custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider("openai"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Provider == "" {
		return errors.New("ai config: Provider is required")
	}
	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimensions < 0 {
		return errors.New("ai config: Dimensions cannot be negative")
	}
	if c.Dimensions == 0 {
		if _, ok := ModelDimensions[c.EmbeddingModel]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimensions, c.EmbeddingModel)
		}
	}
	return nil
}

// ResolvedDimensions returns the effective embedding vector length: the
// explicit override when set, otherwise the ModelDimensions table entry.
func (c *Config) ResolvedDimensions() int {
	if c.Dimensions > 0 {
		return c.Dimensions
	}
	return ModelDimensions[c.EmbeddingModel]
}
