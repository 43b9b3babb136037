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

// Package bitset implements row-id sets over a row group: a dense
// bitmap backing (github.com/RoaringBitmap/roaring/v2) for sets with
// many scattered matches, and a sorted run-list backing for sets that
// are naturally a handful of contiguous ranges (e.g. "the first N
// rows", or a time-range predicate against a sorted column). FromSlice
// picks a backing by density; both satisfy Set so row-group code never
// has to care which one it got back.
package bitset

// Set is a set of row ids (0-based positions within a row group).
type Set interface {
	Len() int
	Contains(row uint32) bool
	// ToSlice returns the matching row ids in ascending order.
	ToSlice() []uint32
	Union(other Set) Set
	Intersect(other Set) Set
	// Complement returns the rows in [0, universe) not present in the
	// set.
	Complement(universe uint32) Set
}

// Empty returns a Set with no members.
func Empty() Set { return Dense() }

// FromSlice builds a Set from unsorted row ids, choosing a dense or
// run-list backing by density against universe.
func FromSlice(rows []uint32, universe uint32) Set {
	if len(rows) == 0 {
		return Empty()
	}
	d := Dense()
	for _, r := range rows {
		d.Add(r)
	}
	return d.chooseRepresentation(universe)
}
