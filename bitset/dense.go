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

package bitset

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// denseSet backs a Set with a compressed roaring bitmap. Good for
// scattered matches where a run-list would hold many short runs.
type denseSet struct {
	bm *roaring.Bitmap
}

// Dense returns a new, empty dense Set.
func Dense() *denseSet {
	return &denseSet{bm: roaring.New()}
}

// Add inserts row into the set. Exposed (unlike the Set interface,
// which is read-only once built) so callers constructing a result
// incrementally don't have to go through FromSlice.
func (d *denseSet) Add(row uint32) { d.bm.Add(row) }

func (d *denseSet) Len() int { return int(d.bm.GetCardinality()) }

func (d *denseSet) Contains(row uint32) bool { return d.bm.Contains(row) }

func (d *denseSet) ToSlice() []uint32 { return d.bm.ToArray() }

func (d *denseSet) Union(other Set) Set {
	result := Dense()
	result.bm = d.bm.Clone()
	switch o := other.(type) {
	case *denseSet:
		result.bm.Or(o.bm)
	default:
		for _, row := range other.ToSlice() {
			result.bm.Add(row)
		}
	}
	return result
}

func (d *denseSet) Intersect(other Set) Set {
	result := Dense()
	result.bm = d.bm.Clone()
	switch o := other.(type) {
	case *denseSet:
		result.bm.And(o.bm)
	default:
		mask := roaring.New()
		for _, row := range other.ToSlice() {
			mask.Add(row)
		}
		result.bm.And(mask)
	}
	return result
}

func (d *denseSet) Complement(universe uint32) Set {
	result := Dense()
	var row uint32
	it := d.bm.Iterator()
	for row = 0; row < universe; row++ {
		for it.HasNext() && it.PeekNext() < row {
			it.Next()
		}
		if it.HasNext() && it.PeekNext() == row {
			continue
		}
		result.bm.Add(row)
	}
	return result
}

// RunThreshold is the divisor used by chooseRepresentation: a run-list
// backing is preferred when it would need fewer than 1/RunThreshold as
// many entries as a flat row count. Overridable via config.Apply so
// the tradeoff between run-list and roaring representations can be
// tuned per deployment instead of baked in.
var RunThreshold uint32 = 8

// chooseRepresentation converts to a run-list backing when the set is
// a small number of contiguous ranges relative to universe, since a
// run-list is both smaller and cheaper to scan in that case.
func (d *denseSet) chooseRepresentation(universe uint32) Set {
	runs := toRuns(d.bm.ToArray())
	if uint32(len(runs))*RunThreshold < universe && len(runs) > 0 {
		return &runSet{runs: runs, length: d.Len()}
	}
	return d
}
