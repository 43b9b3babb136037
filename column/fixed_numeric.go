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
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

const wordSize = 8 // bytes per packed i64/u64/f64 value

// I64 is a non-nullable fixed-width packed int64 column.
type I64 struct {
	values []int64
	lt     schema.LogicalType // Int64 or Timestamp
}

// NewI64 builds a non-nullable int64 column; lt is usually
// schema.Int64 but schema.Timestamp uses the same physical encoding.
func NewI64(values []int64, lt schema.LogicalType) *I64 { return &I64{values: values, lt: lt} }

func (c *I64) Size() int                       { return len(c.values) * wordSize }
func (c *I64) SizeRaw(includeNulls bool) int   { return len(c.values) * wordSize }
func (c *I64) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXED", LogicalType: c.lt,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.Size(), RawBytesExcludingNulls: c.Size(),
		TotalValues: len(c.values),
	}
}

func (c *I64) Values(rowIDs bitset.Set) Values {
	if rowIDs == nil {
		return Values{Kind: KindI64, I64: append([]int64(nil), c.values...)}
	}
	out := make([]int64, 0, rowIDs.Len())
	for _, row := range rowIDs.ToSlice() {
		out = append(out, c.values[row])
	}
	return Values{Kind: KindI64, I64: out}
}

func (c *I64) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsI64(lit)
	if err != nil {
		return nil, err
	}
	var rows []uint32
	for i, val := range c.values {
		if compareOrdered(val, v, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

// U64 is a non-nullable fixed-width packed uint64 column.
type U64 struct {
	values []uint64
}

func NewU64(values []uint64) *U64 { return &U64{values: values} }

func (c *U64) Size() int                     { return len(c.values) * wordSize }
func (c *U64) SizeRaw(includeNulls bool) int { return len(c.values) * wordSize }
func (c *U64) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXED", LogicalType: schema.UInt64,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.Size(), RawBytesExcludingNulls: c.Size(),
		TotalValues: len(c.values),
	}
}

func (c *U64) Values(rowIDs bitset.Set) Values {
	if rowIDs == nil {
		return Values{Kind: KindU64, U64: append([]uint64(nil), c.values...)}
	}
	out := make([]uint64, 0, rowIDs.Len())
	for _, row := range rowIDs.ToSlice() {
		out = append(out, c.values[row])
	}
	return Values{Kind: KindU64, U64: out}
}

func (c *U64) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsU64(lit)
	if err != nil {
		return nil, err
	}
	var rows []uint32
	for i, val := range c.values {
		if compareOrdered(val, v, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

// F64 is a non-nullable fixed-width packed float64 column.
type F64 struct {
	values []float64
}

func NewF64(values []float64) *F64 { return &F64{values: values} }

func (c *F64) Size() int                     { return len(c.values) * wordSize }
func (c *F64) SizeRaw(includeNulls bool) int { return len(c.values) * wordSize }
func (c *F64) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXED", LogicalType: schema.Float64,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.Size(), RawBytesExcludingNulls: c.Size(),
		TotalValues: len(c.values),
	}
}

func (c *F64) Values(rowIDs bitset.Set) Values {
	if rowIDs == nil {
		return Values{Kind: KindF64, F64: append([]float64(nil), c.values...)}
	}
	out := make([]float64, 0, rowIDs.Len())
	for _, row := range rowIDs.ToSlice() {
		out = append(out, c.values[row])
	}
	return Values{Kind: KindF64, F64: out}
}

func (c *F64) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	v, err := literalAsF64(lit)
	if err != nil {
		return nil, err
	}
	var rows []uint32
	for i, val := range c.values {
		if compareOrdered(val, v, op) {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}

func compareOrdered[T int64 | uint64 | float64](a, b T, op predicate.Op) bool {
	switch op {
	case predicate.Eq:
		return a == b
	case predicate.Ne:
		return a != b
	case predicate.Lt:
		return a < b
	case predicate.Le:
		return a <= b
	case predicate.Gt:
		return a > b
	case predicate.Ge:
		return a >= b
	default:
		return false
	}
}

func literalAsI64(lit predicate.Literal) (int64, error) {
	switch lit.Type {
	case schema.Int64, schema.Timestamp:
		return lit.I64, nil
	case schema.UInt64:
		return int64(lit.U64), nil
	case schema.Float64:
		return int64(lit.F64), nil
	default:
		return 0, &errs.PredicateInvalid{Reason: "literal type " + lit.Type.String() + " is not numeric"}
	}
}

func literalAsU64(lit predicate.Literal) (uint64, error) {
	switch lit.Type {
	case schema.UInt64:
		return lit.U64, nil
	case schema.Int64, schema.Timestamp:
		return uint64(lit.I64), nil
	case schema.Float64:
		return uint64(lit.F64), nil
	default:
		return 0, &errs.PredicateInvalid{Reason: "literal type " + lit.Type.String() + " is not numeric"}
	}
}

func literalAsF64(lit predicate.Literal) (float64, error) {
	switch lit.Type {
	case schema.Float64:
		return lit.F64, nil
	case schema.Int64, schema.Timestamp:
		return float64(lit.I64), nil
	case schema.UInt64:
		return float64(lit.U64), nil
	default:
		return 0, &errs.PredicateInvalid{Reason: "literal type " + lit.Type.String() + " is not numeric"}
	}
}
