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

package column

import (
	"sort"

	"github.com/chronoframe/tsdb/bitset"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

// ByteTrieU32 (BT_U32) packs a small-cardinality integer column as
// 32-bit indices into a sorted table of distinct values. Unlike
// Dictionary it does not run-length encode the index stream: it is
// meant for columns with low cardinality but high-frequency value
// changes row to row, where RLE buys nothing.
type ByteTrieU32 struct {
	table   []int64
	indices []uint32
}

// NewByteTrieU32 builds a BT_U32 column from row-ordered int64 values.
func NewByteTrieU32(values []int64) *ByteTrieU32 {
	distinct := make(map[int64]struct{})
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	table := make([]int64, 0, len(distinct))
	for v := range distinct {
		table = append(table, v)
	}
	sort.Slice(table, func(i, j int) bool { return table[i] < table[j] })

	indexOf := make(map[int64]uint32, len(table))
	for i, v := range table {
		indexOf[v] = uint32(i)
	}

	indices := make([]uint32, len(values))
	for i, v := range values {
		indices[i] = indexOf[v]
	}
	return &ByteTrieU32{table: table, indices: indices}
}

func (c *ByteTrieU32) Size() int {
	return len(c.table)*8 + len(c.indices)*4
}

func (c *ByteTrieU32) SizeRaw(includeNulls bool) int {
	return len(c.indices) * 8
}

func (c *ByteTrieU32) Statistics() Statistics {
	return Statistics{
		Encoding: "BT_U32", LogicalType: schema.Int64,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.SizeRaw(true), RawBytesExcludingNulls: c.SizeRaw(false),
		TotalValues: len(c.indices),
	}
}

func (c *ByteTrieU32) Values(rowIDs bitset.Set) Values {
	rows := allOrSelected(rowIDs, len(c.indices))
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.table[c.indices[row]])
	}
	return Values{Kind: KindI64, I64: out}
}

func (c *ByteTrieU32) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsI64(lit)
	if err != nil {
		return nil, err
	}

	idx := sort.Search(len(c.table), func(i int) bool { return c.table[i] >= v })
	found := idx < len(c.table) && c.table[idx] == v

	var lo, hi int
	switch op {
	case predicate.Eq:
		if !found {
			return bitset.Empty(), nil
		}
		lo, hi = idx, idx
	case predicate.Ne:
		return c.matchOutside(idx, idx, found), nil
	case predicate.Lt:
		if idx == 0 {
			return bitset.Empty(), nil
		}
		lo, hi = 0, idx-1
	case predicate.Le:
		if found {
			lo, hi = 0, idx
		} else if idx == 0 {
			return bitset.Empty(), nil
		} else {
			lo, hi = 0, idx-1
		}
	case predicate.Gt:
		start := idx
		if found {
			start = idx + 1
		}
		if start >= len(c.table) {
			return bitset.Empty(), nil
		}
		lo, hi = start, len(c.table)-1
	case predicate.Ge:
		if idx >= len(c.table) {
			return bitset.Empty(), nil
		}
		lo, hi = idx, len(c.table)-1
	}
	return c.matchRange(lo, hi), nil
}

func (c *ByteTrieU32) matchRange(lo, hi int) bitset.Set {
	var rows []uint32
	for i, idx := range c.indices {
		if int(idx) >= lo && int(idx) <= hi {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.indices)))
}

func (c *ByteTrieU32) matchOutside(lo, hi int, found bool) bitset.Set {
	if !found {
		return bitset.FromSlice(allRows(len(c.indices)), uint32(len(c.indices)))
	}
	var rows []uint32
	for i, idx := range c.indices {
		if int(idx) < lo || int(idx) > hi {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.indices)))
}

func allRows(n int) []uint32 {
	rows := make([]uint32, n)
	for i := range rows {
		rows[i] = uint32(i)
	}
	return rows
}
