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

// Package systables projects the catalog's metadata into the two
// read-only system tables described in server/src/db/system_tables:
// system.columns and system.chunk_columns. Both are pure functions
// over a *catalog.Catalog snapshot, not live query operators — there's
// no query engine in scope to register them with.
package systables

import (
	"github.com/chronoframe/tsdb/catalog"
	"github.com/chronoframe/tsdb/lifecycle"
	"github.com/chronoframe/tsdb/schema"
)

// ColumnsRow is one row of system.columns: one per distinct column
// seen across a partition's chunks.
type ColumnsRow struct {
	PartitionKey string
	TableName    string
	ColumnName   string
	ColumnType   string
	InfluxDBType string
}

// Columns projects system.columns: one row per (partition, table,
// column) with at least one chunk holding a read-buffer
// representation for that column. Partitions with no such chunks, or
// columns not yet backed by a read buffer, contribute no rows —
// mirroring the original's "no rows for tables with no columns" note
// in from_partition_summaries.
func Columns(cat *catalog.Catalog) []ColumnsRow {
	var out []ColumnsRow
	for _, tableName := range cat.TableNames() {
		t, err := cat.Table(tableName)
		if err != nil {
			continue
		}
		for _, p := range t.Partitions() {
			seen := make(map[string]bool)
			for _, ch := range p.Chunks() {
				d, err := ch.DetailedSummary()
				if err != nil {
					continue
				}
				for _, col := range d.Columns {
					if seen[col.Name] {
						continue
					}
					seen[col.Name] = true
					out = append(out, ColumnsRow{
						PartitionKey: p.Key(),
						TableName:    tableName,
						ColumnName:   col.Name,
						ColumnType:   col.LogicalType.String(),
						InfluxDBType: influxDBTypeLabel(col.InfluxType),
					})
				}
			}
		}
	}
	return out
}

// ChunkColumnsRow is one row of system.chunk_columns: one per
// (chunk, column) pair. MinValue/MaxValue are empty when the column
// held no non-null values to bound.
type ChunkColumnsRow struct {
	PartitionKey string
	ChunkID      string
	TableName    string
	ColumnName   string
	Storage      string
	RowCount     int
	NullCount    int
	MinValue     string
	MaxValue     string
	MemoryBytes  int
}

// ChunkColumns projects system.chunk_columns across every chunk with a
// read-buffer representation. Chunks still mutable-buffer-backed
// (DetailedSummary unavailable) contribute no rows, same as Columns.
func ChunkColumns(cat *catalog.Catalog) []ChunkColumnsRow {
	var out []ChunkColumnsRow
	for _, tableName := range cat.TableNames() {
		t, err := cat.Table(tableName)
		if err != nil {
			continue
		}
		for _, p := range t.Partitions() {
			for _, ch := range p.Chunks() {
				out = append(out, chunkColumnsRows(tableName, ch)...)
			}
		}
	}
	return out
}

func chunkColumnsRows(tableName string, ch *lifecycle.Chunk) []ChunkColumnsRow {
	d, err := ch.DetailedSummary()
	if err != nil {
		return nil
	}
	rows := make([]ChunkColumnsRow, 0, len(d.Columns))
	for _, col := range d.Columns {
		row := ChunkColumnsRow{
			PartitionKey: d.PartitionKey,
			ChunkID:      d.ID.String(),
			TableName:    tableName,
			ColumnName:   col.Name,
			Storage:      d.Storage.String(),
			RowCount:     col.TotalValues,
			NullCount:    col.NullCount,
			MemoryBytes:  col.MemoryBytes,
		}
		if col.HasBounds {
			row.MinValue = col.Min
			row.MaxValue = col.Max
		}
		rows = append(rows, row)
	}
	return rows
}

func influxDBTypeLabel(t schema.InfluxType) string {
	if t == schema.None {
		return ""
	}
	return t.String()
}
