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

// Package chunkid holds the identifiers used to name and order chunks
// within a partition: a 128-bit ChunkId and a 32-bit ChunkOrder.
package chunkid

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a 128-bit chunk identifier, unique within a single partition.
//
// Production code should only ever construct an ID with New, which is
// cryptographically random. NewTest exists purely so tests get
// deterministic, human-readable ids and must never be used outside of
// tests.
type ID struct {
	u uuid.UUID
}

// New creates a new, random ID.
func New() ID {
	return ID{u: uuid.New()}
}

// NewTest creates a deterministic ID from an integer. TESTING ONLY: two
// calls with the same n collide, which real production code must never
// risk.
func NewTest(n uint64) ID {
	var u uuid.UUID
	// Place n in the low 8 bytes; the high bytes stay zero, which is
	// enough to keep deterministic ids visually distinct from random
	// (version 4) ones in String/GoString output.
	for i := 0; i < 8; i++ {
		u[15-i] = byte(n >> (8 * i))
	}
	return ID{u: u}
}

// FromUUID wraps an existing UUID (used when decoding wire bytes).
func FromUUID(u uuid.UUID) ID { return ID{u: u} }

// UUID returns the underlying UUID value.
func (id ID) UUID() uuid.UUID { return id.u }

// looksRandom reports whether id carries the RFC4122 variant and
// version-4 bits that uuid.New() always sets. NewTest never sets them
// (it writes raw bytes), so this is how String/GoString pick a
// rendering without needing to remember how an ID was constructed.
func (id ID) looksRandom() bool {
	return id.u.Variant() == uuid.RFC4122 && id.u.Version() == 4
}

func (id ID) asTestInt() uint64 {
	var n uint64
	for i := 0; i < 8; i++ {
		n |= uint64(id.u[15-i]) << (8 * i)
	}
	return n
}

// String renders the ID for logs and debug output. Deterministic
// (test-constructed) ids print as a bare integer; random ids print in
// UUID form, so test golden output stays stable regardless of how the
// production path renders real ids.
func (id ID) String() string {
	if id.looksRandom() {
		return id.u.String()
	}
	return fmt.Sprintf("%d", id.asTestInt())
}

// GoString supports %#v and debug-style rendering, mirroring the
// upstream ChunkId Debug impl: ChunkId(<uuid>) or ChunkId(<int>).
func (id ID) GoString() string {
	return fmt.Sprintf("ChunkId(%s)", id.String())
}

// Bytes returns the 16-byte wire representation.
func (id ID) Bytes() [16]byte { return id.u }

// FromBytes parses a 16-byte wire chunk id.
func FromBytes(b []byte) (ID, error) {
	u, err := uuid.FromBytes(b)
	if err != nil {
		return ID{}, fmt.Errorf("chunkid: invalid bytes: %w", err)
	}
	return ID{u: u}, nil
}

// Compare gives a total order over IDs (used for deterministic display
// and as a tiebreaker; ChunkOrder, not ID, governs upsert/lock order).
func (id ID) Compare(other ID) int {
	for i := range id.u {
		if id.u[i] != other.u[i] {
			if id.u[i] < other.u[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports whether two IDs are the same.
func (id ID) Equal(other ID) bool { return id.u == other.u }
