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

// Package column implements the per-logical-type compressed column
// encodings described by the read-buffer design: dictionary+RLE for
// tags, a byte-trie over small-cardinality integers, fixed-width
// packed columns (nullable and non-nullable), and length-prefixed byte
// arrays. Every encoding exposes the same Column interface so a row
// group can treat them uniformly.
package column

import (
	"github.com/chronoframe/tsdb/bitset"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

// Statistics describes one physical column's storage and value
// accounting, independent of its encoding.
type Statistics struct {
	Encoding                string
	LogicalType             schema.LogicalType
	BytesAllocated          int
	BytesRequired           int
	RawBytes                int
	RawBytesExcludingNulls  int
	TotalValues             int
	NullCount               int
}

// ValueKind tags which field of Values is populated.
type ValueKind uint8

const (
	KindDictionary ValueKind = iota
	KindString
	KindI64
	KindU64
	KindF64
	KindI64N
	KindU64N
	KindF64N
	KindBool
	KindByteArray
)

// Values is the tagged-union materialized result of Column.Values.
// Nullable variants (I64N/U64N/F64N) carry NullPositions: indices into
// the accompanying slice that are logically null (the slice still has
// a placeholder entry at that position so lengths agree).
type Values struct {
	Kind ValueKind

	// KindDictionary
	Codes []int32
	Dict  []string

	// KindString
	Strings []string

	I64 []int64
	U64 []uint64
	F64 []float64

	NullPositions []int

	Bool  []bool
	Bytes [][]byte
}

// Len reports how many logical rows Values carries.
func (v Values) Len() int {
	switch v.Kind {
	case KindDictionary:
		return len(v.Codes)
	case KindString:
		return len(v.Strings)
	case KindI64, KindI64N:
		return len(v.I64)
	case KindU64, KindU64N:
		return len(v.U64)
	case KindF64, KindF64N:
		return len(v.F64)
	case KindBool:
		return len(v.Bool)
	case KindByteArray:
		return len(v.Bytes)
	default:
		return 0
	}
}

// Column is the common interface every encoding implements.
type Column interface {
	// Size is the allocated (capacity) footprint in bytes.
	Size() int
	// SizeRaw is the uncompressed footprint; includeNulls controls
	// whether null placeholder slots are counted.
	SizeRaw(includeNulls bool) int
	Statistics() Statistics
	// Values materializes the rows named by rowIDs (nil means all
	// rows) in ascending row order.
	Values(rowIDs bitset.Set) Values
	// RowIDsMatching evaluates op against lit, returning the matching
	// row ids, or a *errs.PredicateInvalid error if lit's type cannot
	// be compared against the column.
	RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error)
}
