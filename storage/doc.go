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


// Package storage provides the vector store abstraction layer for hearth.
//
// This package defines the Store interface that decouples vector storage
// from the search, indexing, graph, and history components. Collections are
// named logical partitions holding (id, vector, metadata) rows; they are
// created lazily before the first write, and reads against a missing
// collection yield empty results rather than errors.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backend
// implementations:
//
//	store, err := badger.NewStore(path)  // returns storage.Store interface
//
// # Architecture
//
//   - Store: collections, vector CRUD, similarity search, batch operations
//   - Operation/OpKind: tagged entries for best-effort batch application
//   - CollectionStats: count/dimensions/metadata summary
//
// # Thread Safety
//
// Store implementations must be safe for concurrent use within a single
// process. The embedded badger backend persists to a local directory and is
// not safe for concurrent writers across processes; callers needing
// multi-process access must provide external coordination.
//
// # Context Support
//
// All Store methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
