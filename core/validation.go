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

import "fmt"

// ValidateVectorRecord validates a VectorRecord according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Vector must not be empty
//
// NOT validated:
//   - Metadata (optional, backend-dependent)
//   - Timestamps (populated by the store on write)
func ValidateVectorRecord(record *VectorRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVectorRecord)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyId)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyVector)
	}

	return nil
}

// ValidateEdge validates a RelationshipEdge according to domain rules.
//
// Validation rules:
//   - Source and Target must not be empty
//   - Type must be one of the known relationship types
func ValidateEdge(edge *RelationshipEdge) error {
	if edge == nil {
		return fmt.Errorf("%w: edge is nil", ErrInvalidEdge)
	}

	if edge.Source == "" || edge.Target == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrEmptyId)
	}

	if err := ValidateRelationshipType(edge.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, err)
	}

	return nil
}

// ValidateRelationshipType validates that a RelationshipType has a known value.
func ValidateRelationshipType(t RelationshipType) error {
	switch t {
	case RelationshipInArea, RelationshipFromDevice, RelationshipDeviceParent,
		RelationshipSameArea, RelationshipSameDevice, RelationshipSameDomain,
		RelationshipInAutomation:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRelationshipType, t)
	}
}
