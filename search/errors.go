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


package search

import "errors"

var (
	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrProviderRequired is returned when an embedding provider is not provided.
	ErrProviderRequired = errors.New("embedding provider required")

	// ErrDirectoryRequired is returned when an entity directory is not provided.
	ErrDirectoryRequired = errors.New("entity directory required")
)
