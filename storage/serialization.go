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


package storage

import (
	"github.com/poiesic/hearth/core"
)

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *core.VectorRecord) []byte {
	buf := make([]byte, core.VectorRecordMUS.Size(*record))
	core.VectorRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*core.VectorRecord, error) {
	record, _, err := core.VectorRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalCollectionInfo serializes a CollectionInfo to bytes.
func MarshalCollectionInfo(info *core.CollectionInfo) []byte {
	buf := make([]byte, core.CollectionInfoMUS.Size(*info))
	core.CollectionInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalCollectionInfo deserializes a CollectionInfo from bytes.
func UnmarshalCollectionInfo(data []byte) (*core.CollectionInfo, error) {
	info, _, err := core.CollectionInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &info, nil
}
