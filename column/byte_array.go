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
	"bytes"

	"github.com/chronoframe/tsdb/bitset"
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

// ByteArray stores arbitrary-length blobs length-prefixed back to
// back; no nullability, matching the design (a missing value is
// represented as a zero-length entry by convention of the caller).
type ByteArray struct {
	values [][]byte
}

func NewByteArray(values [][]byte) *ByteArray { return &ByteArray{values: values} }

func (c *ByteArray) Size() int {
	size := 0
	for _, v := range c.values {
		size += len(v) + 4 // 4-byte length prefix
	}
	return size
}

func (c *ByteArray) SizeRaw(includeNulls bool) int {
	size := 0
	for _, v := range c.values {
		size += len(v)
	}
	return size
}

func (c *ByteArray) Statistics() Statistics {
	return Statistics{
		Encoding: "BYTE_ARRAY", LogicalType: schema.ByteArray,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.SizeRaw(true), RawBytesExcludingNulls: c.SizeRaw(true),
		TotalValues: len(c.values),
	}
}

func (c *ByteArray) Values(rowIDs bitset.Set) Values {
	rows := allOrSelected(rowIDs, len(c.values))
	out := make([][]byte, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.values[row])
	}
	return Values{Kind: KindByteArray, Bytes: out}
}

func (c *ByteArray) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	if lit.Type != schema.ByteArray && lit.Type != schema.String {
		return nil, &errs.PredicateInvalid{Reason: "literal is not byte-comparable, cannot compare against a byte-array column"}
	}
	want := lit.Bytes
	if want == nil {
		want = []byte(lit.Str)
	}
	var rows []uint32
	for i, val := range c.values {
		cmp := bytes.Compare(val, want)
		if matchesCompare(cmp, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

func matchesCompare(cmp int, op predicate.Op) bool {
	switch op {
	case predicate.Eq:
		return cmp == 0
	case predicate.Ne:
		return cmp != 0
	case predicate.Lt:
		return cmp < 0
	case predicate.Le:
		return cmp <= 0
	case predicate.Gt:
		return cmp > 0
	case predicate.Ge:
		return cmp >= 0
	default:
		return false
	}
}
