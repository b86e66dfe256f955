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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidVectorRecord indicates a VectorRecord failed validation.
	ErrInvalidVectorRecord = errors.New("invalid vector record")

	// ErrInvalidEdge indicates a RelationshipEdge failed validation.
	ErrInvalidEdge = errors.New("invalid relationship edge")

	// ErrEmptyId indicates a required id field is empty.
	ErrEmptyId = errors.New("id cannot be empty")

	// ErrEmptyVector indicates an embedding vector is empty.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrEmptyCollection indicates a collection name is empty.
	ErrEmptyCollection = errors.New("collection name cannot be empty")

	// ErrInvalidRelationshipType indicates an unrecognized relationship type.
	ErrInvalidRelationshipType = errors.New("invalid relationship type")
)
