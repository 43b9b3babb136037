// Copyright 2024 The ChronoFrame Authors.
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

package wire

import (
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/lifecycle"
)

// ChunkStorageProto mirrors management::ChunkStorage's wire values: 0
// is Unspecified and never a valid lifecycle.Storage.
type ChunkStorageProto int32

const (
	ChunkStorageUnspecified ChunkStorageProto = iota
	ChunkStorageOpenMutableBuffer
	ChunkStorageClosedMutableBuffer
	ChunkStorageReadBuffer
	ChunkStorageReadBufferAndObjectStore
	ChunkStorageObjectStoreOnly
)

// storageToProto has no failure mode: every lifecycle.Storage value has
// a wire representation.
func storageToProto(s lifecycle.Storage) ChunkStorageProto {
	switch s {
	case lifecycle.OpenMutableBuffer:
		return ChunkStorageOpenMutableBuffer
	case lifecycle.ClosedMutableBuffer:
		return ChunkStorageClosedMutableBuffer
	case lifecycle.ReadBuffer:
		return ChunkStorageReadBuffer
	case lifecycle.ReadBufferAndObjectStore:
		return ChunkStorageReadBufferAndObjectStore
	case lifecycle.ObjectStoreOnly:
		return ChunkStorageObjectStoreOnly
	default:
		return ChunkStorageUnspecified
	}
}

// storageFromProto rejects Unspecified, matching the original's
// required("storage") check.
func storageFromProto(p ChunkStorageProto) (lifecycle.Storage, error) {
	switch p {
	case ChunkStorageOpenMutableBuffer:
		return lifecycle.OpenMutableBuffer, nil
	case ChunkStorageClosedMutableBuffer:
		return lifecycle.ClosedMutableBuffer, nil
	case ChunkStorageReadBuffer:
		return lifecycle.ReadBuffer, nil
	case ChunkStorageReadBufferAndObjectStore:
		return lifecycle.ReadBufferAndObjectStore, nil
	case ChunkStorageObjectStoreOnly:
		return lifecycle.ObjectStoreOnly, nil
	default:
		return 0, &errs.FieldViolation{Field: "storage", Description: "must be set"}
	}
}
