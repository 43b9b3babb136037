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
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

// nullCode marks a run as representing null values rather than a
// dictionary entry.
const nullCode int32 = -1

// dictRun is one run of identical dictionary codes (or null).
type dictRun struct {
	code   int32
	length int
}

// Dictionary encodes a string/tag column as RLE runs over codes into a
// sorted dictionary of distinct values. Sorting the dictionary lets
// range predicates translate a literal into a contiguous code range
// with a single binary search, per the design notes.
type Dictionary struct {
	dict      []string
	runs      []dictRun
	rowCount  int
	nullCount int
}

// NewDictionary builds a Dictionary column from values in row order;
// a nil entry represents a null (missing tag value).
func NewDictionary(values []*string) *Dictionary {
	distinct := make(map[string]struct{})
	for _, v := range values {
		if v != nil {
			distinct[*v] = struct{}{}
		}
	}
	dict := make([]string, 0, len(distinct))
	for v := range distinct {
		dict = append(dict, v)
	}
	sort.Strings(dict)

	codeOf := make(map[string]int32, len(dict))
	for i, v := range dict {
		codeOf[v] = int32(i)
	}

	d := &Dictionary{dict: dict, rowCount: len(values)}
	var runs []dictRun
	for _, v := range values {
		code := nullCode
		if v != nil {
			code = codeOf[*v]
		} else {
			d.nullCount++
		}
		if n := len(runs); n > 0 && runs[n-1].code == code {
			runs[n-1].length++
			continue
		}
		runs = append(runs, dictRun{code: code, length: 1})
	}
	d.runs = runs
	return d
}

func (d *Dictionary) Size() int {
	size := 0
	for _, v := range d.dict {
		size += len(v) + 8 // string header overhead approximation
	}
	size += len(d.runs) * 8 // code + run length, packed
	return size
}

func (d *Dictionary) SizeRaw(includeNulls bool) int {
	size := 0
	for _, r := range d.runs {
		if r.code == nullCode {
			if includeNulls {
				size += r.length * 8 // sentinel slot cost
			}
			continue
		}
		size += r.length * len(d.dict[r.code])
	}
	return size
}

func (d *Dictionary) Statistics() Statistics {
	return Statistics{
		Encoding:               "Dictionary+RLE",
		LogicalType:            schema.String,
		BytesAllocated:         d.Size(),
		BytesRequired:          d.Size(),
		RawBytes:               d.SizeRaw(true),
		RawBytesExcludingNulls: d.SizeRaw(false),
		TotalValues:            d.rowCount,
		NullCount:              d.nullCount,
	}
}

// codeAt returns the dictionary code for the given row, or nullCode.
func (d *Dictionary) codeAt(row int) int32 {
	pos := 0
	for _, r := range d.runs {
		if row < pos+r.length {
			return r.code
		}
		pos += r.length
	}
	return nullCode
}

func (d *Dictionary) Values(rowIDs bitset.Set) Values {
	var codes []int32
	if rowIDs == nil {
		codes = make([]int32, 0, d.rowCount)
		for _, r := range d.runs {
			for i := 0; i < r.length; i++ {
				codes = append(codes, r.code)
			}
		}
	} else {
		for _, row := range rowIDs.ToSlice() {
			codes = append(codes, d.codeAt(int(row)))
		}
	}
	return Values{Kind: KindDictionary, Codes: codes, Dict: append([]string(nil), d.dict...)}
}

// codeRangeFor translates a comparison against a literal into a
// (lo, hi) inclusive code range matching the dictionary's sort order,
// without decoding every row — a single binary search over the sorted
// dictionary, as the design notes prescribe.
func (d *Dictionary) codeRangeFor(op predicate.Op, lit string) (lo, hi int32, ok bool) {
	// insertion point: first index with dict[idx] >= lit
	idx := sort.SearchStrings(d.dict, lit)
	found := idx < len(d.dict) && d.dict[idx] == lit

	switch op {
	case predicate.Eq:
		if !found {
			return 0, -1, true // empty range, valid predicate
		}
		return int32(idx), int32(idx), true
	case predicate.Ne:
		// handled specially by caller (union of two ranges); signal
		// via ok=false here so RowIDsMatching takes the dedicated path
		return 0, 0, false
	case predicate.Lt:
		if idx == 0 {
			return 0, -1, true
		}
		return 0, int32(idx - 1), true
	case predicate.Le:
		if found {
			return 0, int32(idx), true
		}
		if idx == 0 {
			return 0, -1, true
		}
		return 0, int32(idx - 1), true
	case predicate.Gt:
		if found {
			if idx+1 >= len(d.dict) {
				return 0, -1, true
			}
			return int32(idx + 1), int32(len(d.dict) - 1), true
		}
		if idx >= len(d.dict) {
			return 0, -1, true
		}
		return int32(idx), int32(len(d.dict) - 1), true
	case predicate.Ge:
		if idx >= len(d.dict) {
			return 0, -1, true
		}
		return int32(idx), int32(len(d.dict) - 1), true
	default:
		return 0, -1, true
	}
}

func (d *Dictionary) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	if lit.Type != schema.String {
		return nil, &errs.PredicateInvalid{Reason: "literal is not a string, cannot compare against a dictionary-encoded column"}
	}

	if op == predicate.Ne {
		lo, hi, _ := d.codeRangeFor(predicate.Eq, lit.Str)
		return d.matchOutsideRange(lo, hi), nil
	}

	lo, hi, _ := d.codeRangeFor(op, lit.Str)
	return d.matchRange(lo, hi), nil
}

func (d *Dictionary) matchRange(lo, hi int32) bitset.Set {
	var rows []uint32
	pos := uint32(0)
	for _, r := range d.runs {
		if r.code != nullCode && r.code >= lo && r.code <= hi {
			for i := 0; i < r.length; i++ {
				rows = append(rows, pos+uint32(i))
			}
		}
		pos += uint32(r.length)
	}
	return bitset.FromSlice(rows, uint32(d.rowCount))
}

func (d *Dictionary) matchOutsideRange(lo, hi int32) bitset.Set {
	var rows []uint32
	pos := uint32(0)
	for _, r := range d.runs {
		if r.code != nullCode && (r.code < lo || r.code > hi) {
			for i := 0; i < r.length; i++ {
				rows = append(rows, pos+uint32(i))
			}
		}
		pos += uint32(r.length)
	}
	return bitset.FromSlice(rows, uint32(d.rowCount))
}
