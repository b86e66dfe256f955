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


package hearth

import "errors"

var (
	// ErrUnsupportedBackend is returned for an unknown vector store name.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")

	// ErrUnsupportedProvider is returned for an unknown embedding provider name.
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")

	// ErrStoreUnhealthy is returned when the store fails its post-init
	// health check.
	ErrStoreUnhealthy = errors.New("vector store unhealthy after initialization")

	// ErrStorePathRequired is returned when the badger backend has no path
	// and in-memory mode is off.
	ErrStorePathRequired = errors.New("store path required")
)
