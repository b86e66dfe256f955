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


// Package ai provides the embedding provider abstraction for hearth.
//
// This package defines the EmbeddingProvider interface along with its
// configuration surface. It follows the dependency inversion principle,
// allowing the search, indexing, graph, and history components to depend on
// an abstraction rather than a concrete embedding backend.
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/local: a locally-served OpenAI-compatible model (Ollama, LocalAI,
//     vLLM). Initialize performs a warm-up embedding so the server-side
//     model load happens once, up front; initialization is single-flight so
//     concurrent first callers do not each trigger a load.
//   - ai/openai: the remote OpenAI API. Initialize fails fast with
//     ai.ErrMissingAPIKey when no credential is configured.
//   - ai/mock: a deterministic test double with no external dependencies.
//
// # Dimensions Contract
//
// Every provider declares its vector length up front via Dimensions(),
// resolved from the ModelDimensions table or an explicit config override,
// never introspected from embedding output. Collection schemas in the vector
// store rely on this being stable.
//
// # Constructor Return Type Pattern
//
// Public constructors (local.NewEmbedder, openai.NewEmbedder) return the
// ai.EmbeddingProvider INTERFACE to enforce abstraction. Test constructors
// (mock.NewEmbedder) return the CONCRETE type to enable assertions and
// behavior injection via public fields.
package ai
