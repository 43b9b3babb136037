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
	"github.com/chronoframe/tsdb/bitset"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

// nullMask tracks which row positions are null for a nullable fixed
// column (FIXEDN): a bitset.Set of the null row ids, separate from the
// packed value storage.
type nullMask struct {
	nulls    bitset.Set // rows that are null
	rowCount int
}

func newNullMask(present []bool) nullMask {
	var nullRows []uint32
	for i, ok := range present {
		if !ok {
			nullRows = append(nullRows, uint32(i))
		}
	}
	return nullMask{nulls: bitset.FromSlice(nullRows, uint32(len(present))), rowCount: len(present)}
}

func (m nullMask) isNull(row int) bool { return m.nulls.Contains(uint32(row)) }
func (m nullMask) nullCount() int      { return m.nulls.Len() }

// I64N is a nullable fixed-width int64 column (FIXEDN). values[i] is a
// placeholder (zero) wherever the row is null.
type I64N struct {
	values []int64
	mask   nullMask
	lt     schema.LogicalType
}

// NewI64N builds a nullable int64 column. present[i]==false means row
// i is null; values[i] is ignored in that case.
func NewI64N(values []int64, present []bool, lt schema.LogicalType) *I64N {
	return &I64N{values: values, mask: newNullMask(present), lt: lt}
}

func (c *I64N) Size() int { return len(c.values)*wordSize + c.mask.rowCount/8 + 1 }
func (c *I64N) SizeRaw(includeNulls bool) int {
	if includeNulls {
		return len(c.values) * wordSize
	}
	return (len(c.values) - c.mask.nullCount()) * wordSize
}
func (c *I64N) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXEDN", LogicalType: c.lt,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.SizeRaw(true), RawBytesExcludingNulls: c.SizeRaw(false),
		TotalValues: len(c.values), NullCount: c.mask.nullCount(),
	}
}

func (c *I64N) Values(rowIDs bitset.Set) Values {
	rows := allOrSelected(rowIDs, len(c.values))
	out := make([]int64, 0, len(rows))
	var nullPos []int
	for i, row := range rows {
		if c.mask.isNull(int(row)) {
			nullPos = append(nullPos, i)
			out = append(out, 0)
			continue
		}
		out = append(out, c.values[row])
	}
	return Values{Kind: KindI64N, I64: out, NullPositions: nullPos}
}

func (c *I64N) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsI64(lit)
	if err != nil {
		return nil, err
	}
	var rows []uint32
	for i, val := range c.values {
		if c.mask.isNull(i) {
			continue // nulls never satisfy a comparison
		}
		if compareOrdered(val, v, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

// F64N is a nullable fixed-width float64 column.
type F64N struct {
	values []float64
	mask   nullMask
}

func NewF64N(values []float64, present []bool) *F64N {
	return &F64N{values: values, mask: newNullMask(present)}
}

func (c *F64N) Size() int { return len(c.values)*wordSize + c.mask.rowCount/8 + 1 }
func (c *F64N) SizeRaw(includeNulls bool) int {
	if includeNulls {
		return len(c.values) * wordSize
	}
	return (len(c.values) - c.mask.nullCount()) * wordSize
}
func (c *F64N) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXEDN", LogicalType: schema.Float64,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.SizeRaw(true), RawBytesExcludingNulls: c.SizeRaw(false),
		TotalValues: len(c.values), NullCount: c.mask.nullCount(),
	}
}

func (c *F64N) Values(rowIDs bitset.Set) Values {
	rows := allOrSelected(rowIDs, len(c.values))
	out := make([]float64, 0, len(rows))
	var nullPos []int
	for i, row := range rows {
		if c.mask.isNull(int(row)) {
			nullPos = append(nullPos, i)
			out = append(out, 0)
			continue
		}
		out = append(out, c.values[row])
	}
	return Values{Kind: KindF64N, F64: out, NullPositions: nullPos}
}

func (c *F64N) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsF64(lit)
	if err != nil {
		return nil, err
	}
	var rows []uint32
	for i, val := range c.values {
		if c.mask.isNull(i) {
			continue
		}
		if compareOrdered(val, v, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

// U64N is a nullable fixed-width uint64 column.
type U64N struct {
	values []uint64
	mask   nullMask
}

func NewU64N(values []uint64, present []bool) *U64N {
	return &U64N{values: values, mask: newNullMask(present)}
}

func (c *U64N) Size() int { return len(c.values)*wordSize + c.mask.rowCount/8 + 1 }
func (c *U64N) SizeRaw(includeNulls bool) int {
	if includeNulls {
		return len(c.values) * wordSize
	}
	return (len(c.values) - c.mask.nullCount()) * wordSize
}
func (c *U64N) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXEDN", LogicalType: schema.UInt64,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.SizeRaw(true), RawBytesExcludingNulls: c.SizeRaw(false),
		TotalValues: len(c.values), NullCount: c.mask.nullCount(),
	}
}

func (c *U64N) Values(rowIDs bitset.Set) Values {
	rows := allOrSelected(rowIDs, len(c.values))
	out := make([]uint64, 0, len(rows))
	var nullPos []int
	for i, row := range rows {
		if c.mask.isNull(int(row)) {
			nullPos = append(nullPos, i)
			out = append(out, 0)
			continue
		}
		out = append(out, c.values[row])
	}
	return Values{Kind: KindU64N, U64: out, NullPositions: nullPos}
}

func (c *U64N) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsU64(lit)
	if err != nil {
		return nil, err
	}
	var rows []uint32
	for i, val := range c.values {
		if c.mask.isNull(i) {
			continue
		}
		if compareOrdered(val, v, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

func allOrSelected(rowIDs bitset.Set, n int) []uint32 {
	if rowIDs == nil {
		rows := make([]uint32, n)
		for i := range rows {
			rows[i] = uint32(i)
		}
		return rows
	}
	return rowIDs.ToSlice()
}
