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

// Package lifecycle implements the catalog chunk: a tagged-union state
// machine over a chunk's physical backing (mutable buffer, read
// buffer, object store), ported from
// server/src/db/catalog/chunk.rs's ChunkState enum and its
// swap-test-restore transition discipline.
package lifecycle

// Storage tags a chunk's current physical location, independent of
// any lifecycle action in progress on it.
type Storage uint8

const (
	OpenMutableBuffer Storage = iota
	ClosedMutableBuffer
	ReadBuffer
	ReadBufferAndObjectStore
	ObjectStoreOnly
)

func (s Storage) String() string {
	switch s {
	case OpenMutableBuffer:
		return "OpenMutableBuffer"
	case ClosedMutableBuffer:
		return "ClosedMutableBuffer"
	case ReadBuffer:
		return "ReadBuffer"
	case ReadBufferAndObjectStore:
		return "ReadBufferAndObjectStore"
	case ObjectStoreOnly:
		return "ObjectStoreOnly"
	default:
		return "Unknown"
	}
}

// ActionKind is a lifecycle action that may be in progress on a chunk,
// orthogonal to its Storage tag.
type ActionKind uint8

const (
	Persisting ActionKind = iota
	Compacting
	CompactingObjectStore
	Dropping
	LoadingReadBuffer
)

func (k ActionKind) String() string {
	switch k {
	case Persisting:
		return "Persisting"
	case Compacting:
		return "Compacting"
	case CompactingObjectStore:
		return "CompactingObjectStore"
	case Dropping:
		return "Dropping"
	case LoadingReadBuffer:
		return "LoadingReadBuffer"
	default:
		return "Unknown"
	}
}
