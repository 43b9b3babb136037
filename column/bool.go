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

// Bool is a fixed-width packed boolean column with an optional null
// bitmap (present == nil means no column in the row group is ever
// null, matching the "optional" wording in the design).
type Bool struct {
	values  []bool
	present []bool // nil if the column has no nulls at all
}

// NewBool builds a boolean column. Pass present as nil when the
// column is known to have no nulls.
func NewBool(values []bool, present []bool) *Bool {
	return &Bool{values: values, present: present}
}

func (c *Bool) hasNulls() bool { return c.present != nil }

func (c *Bool) isNull(row int) bool {
	return c.hasNulls() && !c.present[row]
}

func (c *Bool) nullCount() int {
	if !c.hasNulls() {
		return 0
	}
	n := 0
	for _, p := range c.present {
		if !p {
			n++
		}
	}
	return n
}

func (c *Bool) Size() int {
	size := (len(c.values) + 7) / 8
	if c.hasNulls() {
		size += (len(c.present) + 7) / 8
	}
	return size
}

func (c *Bool) SizeRaw(includeNulls bool) int {
	if includeNulls || !c.hasNulls() {
		return len(c.values)
	}
	return len(c.values) - c.nullCount()
}

func (c *Bool) Statistics() Statistics {
	return Statistics{
		Encoding: "FIXED", LogicalType: schema.Bool,
		BytesAllocated: c.Size(), BytesRequired: c.Size(),
		RawBytes: c.SizeRaw(true), RawBytesExcludingNulls: c.SizeRaw(false),
		TotalValues: len(c.values), NullCount: c.nullCount(),
	}
}

func (c *Bool) Values(rowIDs bitset.Set) Values {
	rows := allOrSelected(rowIDs, len(c.values))
	out := make([]bool, 0, len(rows))
	var nullPos []int
	for i, row := range rows {
		if c.isNull(int(row)) {
			nullPos = append(nullPos, i)
		}
		out = append(out, c.values[row])
	}
	return Values{Kind: KindBool, Bool: out, NullPositions: nullPos}
}

func (c *Bool) RowIDsMatching(op predicate.Op, lit predicate.Literal) (bitset.Set, error) {
	if lit.Type != schema.Bool {
		return nil, &errs.PredicateInvalid{Reason: "literal is not a bool, cannot compare against a boolean column"}
	}
	if op != predicate.Eq && op != predicate.Ne {
		return nil, &errs.PredicateInvalid{Reason: "boolean columns only support = and !="}
	}
	var rows []uint32
	for i, val := range c.values {
		if c.isNull(i) {
			continue
		}
		matches := val == lit.Bool
		if op == predicate.Ne {
			matches = !matches
		}
		if matches {
			rows = append(rows, uint32(i))
		}
	}
	return bitset.FromSlice(rows, uint32(len(c.values))), nil
}
