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

package readbuffer

import (
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/metrics"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/rowgroup"
	"github.com/chronoframe/tsdb/schema"
)

// Chunk wraps exactly one table name and that table's row-group
// collection, fanning every query operation out over its row groups.
type Chunk struct {
	db      string
	table   *Table
	metrics *metrics.ChunkMetrics
}

// NewChunk starts a new, empty Chunk for tableName within db,
// reporting storage statistics through reg (pass nil for an
// unregistered chunk, e.g. in tests).
func NewChunk(db, tableName string, reg *metrics.Registry) *Chunk {
	return &Chunk{
		db:      db,
		table:   NewTable(tableName),
		metrics: metrics.NewChunkMetrics(db, reg),
	}
}

// AddRowGroup appends rg to the chunk's table and updates the
// column-storage metrics lifecycle.
func (c *Chunk) AddRowGroup(rg *rowgroup.RowGroup) {
	c.table.AddRowGroup(rg)
	c.metrics.RegisterRowGroup(rg.ColumnStorageStatistics())
}

// Drop zeroes every metric this chunk has registered, as if it had
// never existed — called when the chunk is evicted from the catalog.
func (c *Chunk) Drop() {
	c.metrics.Drop()
}

// TableName returns the wrapped table's name.
func (c *Chunk) TableName() string { return c.table.Name() }

// Rows sums rows across the table's row groups.
func (c *Chunk) Rows() int { return c.table.Rows() }

// RowGroups reports how many row groups the chunk holds.
func (c *Chunk) RowGroups() int { return c.table.RowGroupCount() }

// Size is the chunk's total allocated footprint.
func (c *Chunk) Size() int { return c.table.Size() }

// SizeRaw is the chunk's total uncompressed footprint.
func (c *Chunk) SizeRaw(includeNulls bool) int { return c.table.SizeRaw(includeNulls) }

// ColumnSizes sums each column's allocated footprint across the
// table's row groups, used to build a catalog chunk's detailed
// summary.
func (c *Chunk) ColumnSizes() []rowgroup.ColumnSize { return c.table.ColumnSizes() }

// ColumnStats merges per-column value accounting and bounds across the
// table's row groups, used to build the system.columns and
// system.chunk_columns projections.
func (c *Chunk) ColumnStats() []rowgroup.ColumnStat { return c.table.ColumnStats() }

// ReadFilterTableSchema validates selectCols against the table's
// schema and returns the matching ordered schema.Map; an empty
// selectCols returns the ordered union of every column across row
// groups (Selection::All).
func (c *Chunk) ReadFilterTableSchema(selectCols []string) (*schema.Map, error) {
	return c.table.ReadFilterTableSchema(selectCols)
}

// SatisfiesPredicate reports whether it is guaranteed that at least
// one row in the chunk satisfies pred.
func (c *Chunk) SatisfiesPredicate(pred predicate.Predicate) bool {
	return c.table.SatisfiesPredicate(pred)
}

// ReadFilter fans pred (minus negated) out across the table's row
// groups and returns every surviving rowgroup.Result.
func (c *Chunk) ReadFilter(selectCols []string, pred predicate.Predicate, negated []predicate.Predicate) ([]*rowgroup.Result, error) {
	return c.table.ReadFilter(selectCols, pred, negated)
}

// ColumnNames returns the distinct column names with at least one
// matching non-null value, merged into accumulator.
func (c *Chunk) ColumnNames(pred predicate.Predicate, negated []predicate.Predicate, selectCols []string, accumulator map[string]struct{}) (map[string]struct{}, error) {
	return c.table.ColumnNames(pred, negated, selectCols, accumulator)
}

// ColumnValues rejects Selection::All (an empty cols slice): the
// caller must bound the work since only tag columns are meaningful.
func (c *Chunk) ColumnValues(pred predicate.Predicate, cols []string, accumulator map[string]map[string]struct{}) (map[string]map[string]struct{}, error) {
	if len(cols) == 0 {
		return nil, &errs.UnsupportedOperation{Msg: "column_values does not support selecting all columns"}
	}
	return c.table.ColumnValues(pred, cols, accumulator)
}
