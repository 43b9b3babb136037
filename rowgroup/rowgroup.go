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

// Package rowgroup implements the read-buffer's row group: a
// horizontal slice of a table's data held as compressed columns, with
// predicate evaluation pushed all the way down into those columns'
// encodings. A RowGroup is immutable once built, mirroring
// read_buffer's RowGroup — new data arrives as a new row group appended
// to a readbuffer.Table.
package rowgroup

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/chronoframe/tsdb/bitset"
	"github.com/chronoframe/tsdb/column"
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

// NamedColumn pairs one physical column with its schema entry, in the
// order a caller wants them exposed.
type NamedColumn struct {
	Schema schema.Column
	Data   column.Column
}

// Batch is the minimal arrow.RecordBatch-shaped input a RowGroup is
// built from: arrow-go itself is outside this pack's dependency set,
// so the record-batch-to-row-group conversion that read_buffer does at
// the ingest boundary is the caller's job; a RowGroup only needs the already-encoded columns and a row count.
type Batch struct {
	Rows    int
	Columns []NamedColumn
}

// boundsKind tags which field of bounds is meaningful.
type boundsKind uint8

const (
	boundsNone boundsKind = iota
	boundsNumeric
	boundsString
	boundsBytes
)

// bounds is the min/max summary used by CouldPassPredicate to reject
// a row group without scanning any rows.
type bounds struct {
	kind           boundsKind
	minNum, maxNum float64
	minStr, maxStr string
	minBy, maxBy   []byte
}

// RowGroup is a column store for rows-count rows across a set of
// encoded columns, plus cached min/max bounds per column for cheap
// predicate rejection.
type RowGroup struct {
	rows    int
	columns []NamedColumn
	index   map[string]int
	bounds  map[string]bounds
	timeCol string
}

// New builds a RowGroup from batch. Returns an error if two columns
// share a name.
func New(batch Batch) (*RowGroup, error) {
	rg := &RowGroup{
		rows:    batch.Rows,
		columns: append([]NamedColumn(nil), batch.Columns...),
		index:   make(map[string]int, len(batch.Columns)),
		bounds:  make(map[string]bounds, len(batch.Columns)),
	}
	for i, c := range rg.columns {
		if _, dup := rg.index[c.Schema.Name]; dup {
			return nil, &errs.FieldViolation{Field: c.Schema.Name, Description: "duplicate column name in row group"}
		}
		rg.index[c.Schema.Name] = i
		rg.bounds[c.Schema.Name] = computeBounds(c)
		if c.Schema.InfluxType == schema.Time {
			rg.timeCol = c.Schema.Name
		}
	}
	return rg, nil
}

func computeBounds(c NamedColumn) bounds {
	vals := c.Data.Values(nil)
	switch vals.Kind {
	case column.KindDictionary:
		if len(vals.Dict) == 0 {
			return bounds{}
		}
		return bounds{kind: boundsString, minStr: vals.Dict[0], maxStr: vals.Dict[len(vals.Dict)-1]}
	case column.KindString:
		return stringBounds(vals.Strings)
	case column.KindI64, column.KindI64N:
		return numericBoundsI64(vals.I64, vals.NullPositions)
	case column.KindU64, column.KindU64N:
		return numericBoundsU64(vals.U64, vals.NullPositions)
	case column.KindF64, column.KindF64N:
		return numericBoundsF64(vals.F64, vals.NullPositions)
	case column.KindByteArray:
		return byteBounds(vals.Bytes)
	default:
		return bounds{}
	}
}

func isNullAt(i int, nullPositions []int) bool {
	for _, n := range nullPositions {
		if n == i {
			return true
		}
	}
	return false
}

func stringBounds(values []string) bounds {
	if len(values) == 0 {
		return bounds{}
	}
	b := bounds{kind: boundsString, minStr: values[0], maxStr: values[0]}
	for _, v := range values[1:] {
		if v < b.minStr {
			b.minStr = v
		}
		if v > b.maxStr {
			b.maxStr = v
		}
	}
	return b
}

func numericBoundsI64(values []int64, nulls []int) bounds {
	var b bounds
	first := true
	for i, v := range values {
		if isNullAt(i, nulls) {
			continue
		}
		f := float64(v)
		if first {
			b = bounds{kind: boundsNumeric, minNum: f, maxNum: f}
			first = false
			continue
		}
		if f < b.minNum {
			b.minNum = f
		}
		if f > b.maxNum {
			b.maxNum = f
		}
	}
	return b
}

func numericBoundsU64(values []uint64, nulls []int) bounds {
	var b bounds
	first := true
	for i, v := range values {
		if isNullAt(i, nulls) {
			continue
		}
		f := float64(v)
		if first {
			b = bounds{kind: boundsNumeric, minNum: f, maxNum: f}
			first = false
			continue
		}
		if f < b.minNum {
			b.minNum = f
		}
		if f > b.maxNum {
			b.maxNum = f
		}
	}
	return b
}

func numericBoundsF64(values []float64, nulls []int) bounds {
	var b bounds
	first := true
	for i, v := range values {
		if isNullAt(i, nulls) {
			continue
		}
		if first {
			b = bounds{kind: boundsNumeric, minNum: v, maxNum: v}
			first = false
			continue
		}
		if v < b.minNum {
			b.minNum = v
		}
		if v > b.maxNum {
			b.maxNum = v
		}
	}
	return b
}

func byteBounds(values [][]byte) bounds {
	if len(values) == 0 {
		return bounds{}
	}
	b := bounds{kind: boundsBytes, minBy: values[0], maxBy: values[0]}
	for _, v := range values[1:] {
		if bytes.Compare(v, b.minBy) < 0 {
			b.minBy = v
		}
		if bytes.Compare(v, b.maxBy) > 0 {
			b.maxBy = v
		}
	}
	return b
}

// Rows reports the row group's row count.
func (rg *RowGroup) Rows() int { return rg.rows }

// Columns reports the number of physical columns.
func (rg *RowGroup) Columns() int { return len(rg.columns) }

// Size is the total allocated footprint of every column.
func (rg *RowGroup) Size() int {
	total := 0
	for _, c := range rg.columns {
		total += c.Data.Size()
	}
	return total
}

// SizeRaw is the total uncompressed footprint of every column.
func (rg *RowGroup) SizeRaw(includeNulls bool) int {
	total := 0
	for _, c := range rg.columns {
		total += c.Data.SizeRaw(includeNulls)
	}
	return total
}

// ColumnStorageStatistics returns one Statistics entry per physical
// column, in schema order.
func (rg *RowGroup) ColumnStorageStatistics() []column.Statistics {
	out := make([]column.Statistics, len(rg.columns))
	for i, c := range rg.columns {
		out[i] = c.Data.Statistics()
	}
	return out
}

// ColumnSize names one physical column's allocated footprint, used to
// build a chunk's per-column detailed summary.
type ColumnSize struct {
	Name  string
	Bytes int
}

// ColumnSizes returns one ColumnSize entry per physical column, in
// schema order.
func (rg *RowGroup) ColumnSizes() []ColumnSize {
	out := make([]ColumnSize, len(rg.columns))
	for i, c := range rg.columns {
		out[i] = ColumnSize{Name: c.Schema.Name, Bytes: c.Data.Size()}
	}
	return out
}

// ColumnStat summarizes one physical column's schema role and value
// accounting: the building block for table/column summaries and the
// system.columns / system.chunk_columns projections. Min/Max are
// already rendered to strings (numeric values via their decimal
// form), since that's the shape every consumer of table summaries
// wants; HasBounds is false when the column held no non-null values
// to bound.
type ColumnStat struct {
	Name        string
	LogicalType schema.LogicalType
	InfluxType  schema.InfluxType
	TotalValues int
	NullCount   int
	Min         string
	Max         string
	HasBounds   bool
}

// ColumnStats returns one ColumnStat entry per physical column, in
// schema order.
func (rg *RowGroup) ColumnStats() []ColumnStat {
	out := make([]ColumnStat, len(rg.columns))
	for i, c := range rg.columns {
		stats := c.Data.Statistics()
		min, max, ok := rg.bounds[c.Schema.Name].strings()
		out[i] = ColumnStat{
			Name:        c.Schema.Name,
			LogicalType: c.Schema.LogicalType,
			InfluxType:  c.Schema.InfluxType,
			TotalValues: stats.TotalValues,
			NullCount:   stats.NullCount,
			Min:         min,
			Max:         max,
			HasBounds:   ok,
		}
	}
	return out
}

func (b bounds) strings() (min, max string, ok bool) {
	switch b.kind {
	case boundsNumeric:
		return strconv.FormatFloat(b.minNum, 'g', -1, 64), strconv.FormatFloat(b.maxNum, 'g', -1, 64), true
	case boundsString:
		return b.minStr, b.maxStr, true
	case boundsBytes:
		return string(b.minBy), string(b.maxBy), true
	default:
		return "", "", false
	}
}

func (rg *RowGroup) columnByName(name string) (NamedColumn, bool) {
	i, ok := rg.index[name]
	if !ok {
		return NamedColumn{}, false
	}
	return rg.columns[i], true
}

// Column implements schema.Lookup so predicate.Validate can check a
// RowGroup's column types directly.
func (rg *RowGroup) Column(name string) (schema.Column, bool) {
	c, ok := rg.columnByName(name)
	if !ok {
		return schema.Column{}, false
	}
	return c.Schema, true
}

// Names returns every column name in schema order.
func (rg *RowGroup) Names() []string {
	out := make([]string, len(rg.columns))
	for i, c := range rg.columns {
		out[i] = c.Schema.Name
	}
	return out
}

// resolveExprs intersects the row-id matches of every expression in
// exprs (an empty slice matches every row), then intersects the
// result with the time-range constraint if present.
func (rg *RowGroup) resolveExprs(exprs []predicate.Expr, tr *predicate.TimeRange) (bitset.Set, error) {
	var result bitset.Set
	for _, e := range exprs {
		col, ok := rg.columnByName(e.Column)
		if !ok {
			return nil, &errs.ColumnDoesNotExist{Column: e.Column, Table: ""}
		}
		rows, err := col.Data.RowIDsMatching(e.Op, e.Literal)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = rows
			continue
		}
		result = result.Intersect(rows)
	}
	if tr != nil {
		if rg.timeCol == "" {
			return nil, &errs.PredicateInvalid{Column: "time", Reason: "row group has no time column for a time-range predicate"}
		}
		col, _ := rg.columnByName(rg.timeCol)
		lo, err := col.Data.RowIDsMatching(predicate.Ge, predicate.TimeLiteral(tr.Lo))
		if err != nil {
			return nil, err
		}
		hi, err := col.Data.RowIDsMatching(predicate.Lt, predicate.TimeLiteral(tr.Hi))
		if err != nil {
			return nil, err
		}
		rangeRows := lo.Intersect(hi)
		if result == nil {
			result = rangeRows
		} else {
			result = result.Intersect(rangeRows)
		}
	}
	if result == nil {
		return bitset.FromSlice(allRows(rg.rows), uint32(rg.rows)), nil
	}
	return result, nil
}

// resolvePredicate resolves p to the row ids it matches.
func (rg *RowGroup) resolvePredicate(p predicate.Predicate) (bitset.Set, error) {
	return rg.resolveExprs(p.Exprs, p.TimeRange)
}

func allRows(n int) []uint32 {
	rows := make([]uint32, n)
	for i := range rows {
		rows[i] = uint32(i)
	}
	return rows
}

// Result is the materialized output of ReadFilter: the selected
// columns' values restricted to the surviving row set, in the order
// requested.
type Result struct {
	Rows    int
	Columns []string
	Values  map[string]column.Values
}

// ReadFilter resolves predicate to a row-id set, subtracts the union
// of every negated predicate's matches, and materializes select (or
// every column, if select is empty) over what remains. Returns (nil,
// nil) if nothing survives.
func (rg *RowGroup) ReadFilter(selectCols []string, pred predicate.Predicate, negated []predicate.Predicate) (*Result, error) {
	rows, err := rg.resolvePredicate(pred)
	if err != nil {
		return nil, err
	}
	for _, np := range negated {
		negRows, err := rg.resolvePredicate(np)
		if err != nil {
			return nil, err
		}
		rows = rows.Intersect(negRows.Complement(uint32(rg.rows)))
	}
	if rows.Len() == 0 {
		return nil, nil
	}

	names := selectCols
	if len(names) == 0 {
		names = make([]string, len(rg.columns))
		for i, c := range rg.columns {
			names[i] = c.Schema.Name
		}
	}
	values := make(map[string]column.Values, len(names))
	for _, name := range names {
		col, ok := rg.columnByName(name)
		if !ok {
			return nil, &errs.ColumnDoesNotExist{Column: name}
		}
		values[name] = col.Data.Values(rows)
	}
	return &Result{Rows: rows.Len(), Columns: names, Values: values}, nil
}

// CouldPassPredicate reports whether pred may admit rows, using only
// each column's min/max bounds — a cheap, conservative check that
// never materializes a row.
func (rg *RowGroup) CouldPassPredicate(pred predicate.Predicate) bool {
	for _, e := range pred.Exprs {
		b, ok := rg.bounds[e.Column]
		if !ok {
			return false
		}
		if !boundsAdmit(b, e.Op, e.Literal) {
			return false
		}
	}
	if pred.TimeRange != nil {
		if rg.timeCol == "" {
			return false
		}
		b := rg.bounds[rg.timeCol]
		if b.kind != boundsNumeric {
			return false
		}
		if b.maxNum < float64(pred.TimeRange.Lo) || b.minNum >= float64(pred.TimeRange.Hi) {
			return false
		}
	}
	return true
}

func boundsAdmit(b bounds, op predicate.Op, lit predicate.Literal) bool {
	switch b.kind {
	case boundsNumeric:
		v, ok := literalAsFloat(lit)
		if !ok {
			return false
		}
		switch op {
		case predicate.Eq:
			return v >= b.minNum && v <= b.maxNum
		case predicate.Ne:
			return !(b.minNum == b.maxNum && b.minNum == v)
		case predicate.Lt:
			return b.minNum < v
		case predicate.Le:
			return b.minNum <= v
		case predicate.Gt:
			return b.maxNum > v
		case predicate.Ge:
			return b.maxNum >= v
		}
	case boundsString:
		if lit.Type != schema.String {
			return false
		}
		switch op {
		case predicate.Eq:
			return lit.Str >= b.minStr && lit.Str <= b.maxStr
		case predicate.Ne:
			return !(b.minStr == b.maxStr && b.minStr == lit.Str)
		case predicate.Lt:
			return b.minStr < lit.Str
		case predicate.Le:
			return b.minStr <= lit.Str
		case predicate.Gt:
			return b.maxStr > lit.Str
		case predicate.Ge:
			return b.maxStr >= lit.Str
		}
	case boundsBytes:
		want := lit.Bytes
		if want == nil {
			want = []byte(lit.Str)
		}
		switch op {
		case predicate.Eq:
			return bytes.Compare(want, b.minBy) >= 0 && bytes.Compare(want, b.maxBy) <= 0
		case predicate.Ne:
			return !(bytes.Equal(b.minBy, b.maxBy) && bytes.Equal(b.minBy, want))
		case predicate.Lt:
			return bytes.Compare(b.minBy, want) < 0
		case predicate.Le:
			return bytes.Compare(b.minBy, want) <= 0
		case predicate.Gt:
			return bytes.Compare(b.maxBy, want) > 0
		case predicate.Ge:
			return bytes.Compare(b.maxBy, want) >= 0
		}
	case boundsNone:
		// No min/max to rule rows out (e.g. a bool column): admit.
		return true
	}
	return false
}

func literalAsFloat(lit predicate.Literal) (float64, bool) {
	switch lit.Type {
	case schema.Int64, schema.Timestamp:
		return float64(lit.I64), true
	case schema.UInt64:
		return float64(lit.U64), true
	case schema.Float64:
		return lit.F64, true
	default:
		return 0, false
	}
}

// SatisfiesPredicate reports whether it is guaranteed that at least
// one row in the row group matches pred — an exact check, unlike
// CouldPassPredicate's min/max approximation. An invalid predicate
// (e.g. a type-mismatched literal) never satisfies.
func (rg *RowGroup) SatisfiesPredicate(pred predicate.Predicate) bool {
	rows, err := rg.resolvePredicate(pred)
	if err != nil {
		return false
	}
	return rows.Len() > 0
}

// ColumnNames returns the names, among select (or every column if
// empty), that have at least one non-null value in the rows matching
// pred (after subtracting negated). Names already in accumulator are
// skipped entirely, letting a caller short-circuit across many row
// groups.
func (rg *RowGroup) ColumnNames(pred predicate.Predicate, negated []predicate.Predicate, selectCols []string, accumulator map[string]struct{}) (map[string]struct{}, error) {
	names := selectCols
	if len(names) == 0 {
		names = make([]string, len(rg.columns))
		for i, c := range rg.columns {
			names[i] = c.Schema.Name
		}
	}
	pending := names[:0:0]
	for _, n := range names {
		if _, done := accumulator[n]; !done {
			pending = append(pending, n)
		}
	}
	if len(pending) == 0 {
		return accumulator, nil
	}

	result, err := rg.ReadFilter(pending, pred, negated)
	if err != nil {
		return nil, err
	}
	if accumulator == nil {
		accumulator = make(map[string]struct{})
	}
	if result == nil {
		return accumulator, nil
	}
	for _, name := range pending {
		vals := result.Values[name]
		if len(vals.NullPositions) < vals.Len() {
			accumulator[name] = struct{}{}
		}
	}
	return accumulator, nil
}

// ColumnValues returns, for each requested tag column, the distinct
// non-null values among the rows matching pred, merged into
// accumulator.
func (rg *RowGroup) ColumnValues(pred predicate.Predicate, cols []string, accumulator map[string]map[string]struct{}) (map[string]map[string]struct{}, error) {
	result, err := rg.ReadFilter(cols, pred, nil)
	if err != nil {
		return nil, err
	}
	if accumulator == nil {
		accumulator = make(map[string]map[string]struct{}, len(cols))
	}
	if result == nil {
		return accumulator, nil
	}
	for _, name := range cols {
		col, ok := rg.columnByName(name)
		if !ok {
			return nil, &errs.ColumnDoesNotExist{Column: name}
		}
		if col.Schema.InfluxType != schema.Tag {
			continue
		}
		set, ok := accumulator[name]
		if !ok {
			set = make(map[string]struct{})
			accumulator[name] = set
		}
		vals := result.Values[name]
		for i, code := range vals.Codes {
			if isNullAt(i, vals.NullPositions) || code < 0 || int(code) >= len(vals.Dict) {
				continue
			}
			set[vals.Dict[code]] = struct{}{}
		}
	}
	return accumulator, nil
}

// Aggregate is one requested aggregation: the column to aggregate and
// the function to apply. Grouping is restricted to tag columns, per
// the design.
type Aggregate struct {
	Column string
	Func   AggregateFunc
}

// AggregateFunc is a supported aggregation function.
type AggregateFunc uint8

const (
	AggSum AggregateFunc = iota
	AggMin
	AggMax
	AggCount
)

func (f AggregateFunc) String() string {
	switch f {
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCount:
		return "count"
	default:
		return "unknown"
	}
}

// AggregateResult is one group's key (one value per grouping column,
// in the same order as requested) plus its aggregated values.
type AggregateResult struct {
	Group  []string
	Values []float64
}

// ReadAggregate groups the rows matching pred by groupCols (which must
// all be tag columns) and computes aggregates over each group.
func (rg *RowGroup) ReadAggregate(pred predicate.Predicate, groupCols []string, aggregates []Aggregate) ([]AggregateResult, error) {
	for _, g := range groupCols {
		col, ok := rg.columnByName(g)
		if !ok {
			return nil, &errs.ColumnDoesNotExist{Column: g}
		}
		if col.Schema.InfluxType != schema.Tag {
			return nil, &errs.UnsupportedOperation{Msg: fmt.Sprintf("cannot group by non-tag column %q", g)}
		}
	}

	selectCols := append([]string(nil), groupCols...)
	for _, agg := range aggregates {
		selectCols = append(selectCols, agg.Column)
	}
	result, err := rg.ReadFilter(dedupe(selectCols), pred, nil)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	groups := make(map[string]*AggregateResult)
	var order []string
	for row := 0; row < result.Rows; row++ {
		key := make([]string, len(groupCols))
		for i, g := range groupCols {
			key[i] = dictValueAt(result.Values[g], row)
		}
		groupKey := fmt.Sprint(key)
		g, ok := groups[groupKey]
		if !ok {
			g = &AggregateResult{Group: key, Values: make([]float64, len(aggregates))}
			for i, agg := range aggregates {
				if agg.Func == AggMin {
					g.Values[i] = math.Inf(1)
				} else if agg.Func == AggMax {
					g.Values[i] = math.Inf(-1)
				}
			}
			groups[groupKey] = g
			order = append(order, groupKey)
		}
		for i, agg := range aggregates {
			v := numericValueAt(result.Values[agg.Column], row)
			switch agg.Func {
			case AggSum:
				g.Values[i] += v
			case AggCount:
				g.Values[i]++
			case AggMin:
				if v < g.Values[i] {
					g.Values[i] = v
				}
			case AggMax:
				if v > g.Values[i] {
					g.Values[i] = v
				}
			}
		}
	}

	out := make([]AggregateResult, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func dictValueAt(v column.Values, row int) string {
	if v.Kind != column.KindDictionary || row >= len(v.Codes) {
		return ""
	}
	code := v.Codes[row]
	if code < 0 || int(code) >= len(v.Dict) {
		return ""
	}
	return v.Dict[code]
}

func numericValueAt(v column.Values, row int) float64 {
	switch v.Kind {
	case column.KindI64, column.KindI64N:
		if row < len(v.I64) {
			return float64(v.I64[row])
		}
	case column.KindU64, column.KindU64N:
		if row < len(v.U64) {
			return float64(v.U64[row])
		}
	case column.KindF64, column.KindF64N:
		if row < len(v.F64) {
			return v.F64[row]
		}
	}
	return 0
}
