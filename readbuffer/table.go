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

// Package readbuffer implements the in-memory read buffer: a Chunk
// wraps exactly one table name and that table's ordered row-group
// collection, fanning every query operation out over the row groups
// it holds. Grounded on read_buffer's Chunk and Table.
package readbuffer

import (
	"strconv"
	"sync"

	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/rowgroup"
	"github.com/chronoframe/tsdb/schema"
)

// Table holds an ordered collection of row groups for a single table
// name. Row groups are append-only: read_buffer never mutates one in
// place, only adds new ones.
type Table struct {
	mu        sync.RWMutex
	name      string
	rowGroups []*rowgroup.RowGroup
}

// NewTable creates an empty table under name.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// AddRowGroup appends rg to the table's row-group collection.
func (t *Table) AddRowGroup(rg *rowgroup.RowGroup) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rowGroups = append(t.rowGroups, rg)
}

// RowGroups returns a snapshot of the table's row groups.
func (t *Table) RowGroups() []*rowgroup.RowGroup {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*rowgroup.RowGroup, len(t.rowGroups))
	copy(out, t.rowGroups)
	return out
}

// Rows sums rows across every row group.
func (t *Table) Rows() int {
	total := 0
	for _, rg := range t.RowGroups() {
		total += rg.Rows()
	}
	return total
}

// RowGroupCount reports how many row groups the table holds.
func (t *Table) RowGroupCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rowGroups)
}

// Size sums the allocated size across every row group.
func (t *Table) Size() int {
	total := 0
	for _, rg := range t.RowGroups() {
		total += rg.Size()
	}
	return total
}

// SizeRaw sums the uncompressed size across every row group.
func (t *Table) SizeRaw(includeNulls bool) int {
	total := 0
	for _, rg := range t.RowGroups() {
		total += rg.SizeRaw(includeNulls)
	}
	return total
}

// ColumnSizes sums each column's allocated footprint across every row
// group, aggregated by column name.
func (t *Table) ColumnSizes() []rowgroup.ColumnSize {
	totals := make(map[string]int)
	var order []string
	for _, rg := range t.RowGroups() {
		for _, cs := range rg.ColumnSizes() {
			if _, ok := totals[cs.Name]; !ok {
				order = append(order, cs.Name)
			}
			totals[cs.Name] += cs.Bytes
		}
	}
	out := make([]rowgroup.ColumnSize, len(order))
	for i, name := range order {
		out[i] = rowgroup.ColumnSize{Name: name, Bytes: totals[name]}
	}
	return out
}

// ColumnStats merges each column's value accounting and bounds across
// every row group, aggregated by column name in first-seen order —
// the table-level counterpart of read_buffer's TableSummary.
func (t *Table) ColumnStats() []rowgroup.ColumnStat {
	merged := make(map[string]rowgroup.ColumnStat)
	var order []string
	for _, rg := range t.RowGroups() {
		for _, s := range rg.ColumnStats() {
			existing, ok := merged[s.Name]
			if !ok {
				order = append(order, s.Name)
				merged[s.Name] = s
				continue
			}
			existing.TotalValues += s.TotalValues
			existing.NullCount += s.NullCount
			existing.Min, existing.Max, existing.HasBounds = mergeBounds(existing, s)
			merged[s.Name] = existing
		}
	}
	out := make([]rowgroup.ColumnStat, len(order))
	for i, name := range order {
		out[i] = merged[name]
	}
	return out
}

// mergeBounds combines two ColumnStat bounds for the same column
// across row groups. Numeric columns compare by parsed value;
// everything else (string, byte-array) compares lexically, matching
// how rowgroup.bounds itself orders those kinds.
func mergeBounds(a, b rowgroup.ColumnStat) (min, max string, ok bool) {
	if !a.HasBounds {
		return b.Min, b.Max, b.HasBounds
	}
	if !b.HasBounds {
		return a.Min, a.Max, a.HasBounds
	}
	min, max = a.Min, a.Max
	if a.LogicalType.IsNumeric() {
		aMin, _ := strconv.ParseFloat(a.Min, 64)
		aMax, _ := strconv.ParseFloat(a.Max, 64)
		bMin, _ := strconv.ParseFloat(b.Min, 64)
		bMax, _ := strconv.ParseFloat(b.Max, 64)
		if bMin < aMin {
			min = b.Min
		}
		if bMax > aMax {
			max = b.Max
		}
		return min, max, true
	}
	if b.Min < min {
		min = b.Min
	}
	if b.Max > max {
		max = b.Max
	}
	return min, max, true
}

// schemaUnion returns the ordered union of column schemas across
// every row group: a column's first-seen position wins, matching
// schema.Map's tie-breaking rule.
func (t *Table) schemaUnion() *schema.Map {
	var cols []schema.Column
	seen := make(map[string]bool)
	for _, rg := range t.RowGroups() {
		for _, name := range rg.Names() {
			if seen[name] {
				continue
			}
			col, ok := rg.Column(name)
			if !ok {
				continue
			}
			seen[name] = true
			cols = append(cols, col)
		}
	}
	return schema.NewMap(cols)
}

// ReadFilterTableSchema returns a schema.Map restricted to selectCols
// in the requested order, or the ordered union of every column across
// row groups if selectCols is empty (Selection::All).
func (t *Table) ReadFilterTableSchema(selectCols []string) (*schema.Map, error) {
	union := t.schemaUnion()
	if len(selectCols) == 0 {
		return union, nil
	}
	cols := make([]schema.Column, 0, len(selectCols))
	for _, name := range selectCols {
		col, ok := union.Column(name)
		if !ok {
			return nil, &errs.ColumnDoesNotExist{Column: name, Table: t.name}
		}
		cols = append(cols, col)
	}
	return schema.NewMap(cols), nil
}

// SatisfiesPredicate reports whether it is guaranteed that at least
// one row group's at least one row matches pred.
func (t *Table) SatisfiesPredicate(pred predicate.Predicate) bool {
	for _, rg := range t.RowGroups() {
		if !rg.CouldPassPredicate(pred) {
			continue
		}
		if rg.SatisfiesPredicate(pred) {
			return true
		}
	}
	return false
}

// ReadFilter fans out over every row group whose bounds could pass
// pred, merging each surviving rowgroup.Result.
func (t *Table) ReadFilter(selectCols []string, pred predicate.Predicate, negated []predicate.Predicate) ([]*rowgroup.Result, error) {
	var results []*rowgroup.Result
	for _, rg := range t.RowGroups() {
		if !rg.CouldPassPredicate(pred) {
			continue
		}
		result, err := rg.ReadFilter(selectCols, pred, negated)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// ColumnNames returns the distinct column names, among selectCols (or
// every column, if empty), with at least one non-null matching value
// across every row group. accumulator both seeds and short-circuits
// the scan per row group.
func (t *Table) ColumnNames(pred predicate.Predicate, negated []predicate.Predicate, selectCols []string, accumulator map[string]struct{}) (map[string]struct{}, error) {
	for _, rg := range t.RowGroups() {
		if !rg.CouldPassPredicate(pred) {
			continue
		}
		var err error
		accumulator, err = rg.ColumnNames(pred, negated, selectCols, accumulator)
		if err != nil {
			return nil, err
		}
	}
	return accumulator, nil
}

// ColumnValues returns the distinct tag values per requested column
// across every row group, merged into accumulator.
func (t *Table) ColumnValues(pred predicate.Predicate, cols []string, accumulator map[string]map[string]struct{}) (map[string]map[string]struct{}, error) {
	for _, rg := range t.RowGroups() {
		if !rg.CouldPassPredicate(pred) {
			continue
		}
		var err error
		accumulator, err = rg.ColumnValues(pred, cols, accumulator)
		if err != nil {
			return nil, err
		}
	}
	return accumulator, nil
}

