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

// Package metrics tracks per-column storage accounting for read-buffer
// chunks: counts and byte totals bucketed by (db, encoding, logical
// type, nullness), exported through a prometheus registry the way
// dolt's go/store/metrics package tracks histograms for its own
// internal bookkeeping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chronoframe/tsdb/column"
	"github.com/chronoframe/tsdb/schema"
)

// ColumnBucketKey identifies one (db, encoding, logical type,
// nullness) bucket that a chunk's column storage statistics are
// tallied into.
type ColumnBucketKey struct {
	DB          string
	Encoding    string
	LogicalType schema.LogicalType
	Nullable    bool
}

// ChunkMetrics tracks a single chunk's row-group and column-bucket
// counters. Registering a new row group increments the row-group
// counter and every column bucket it contributes to; dropping the
// chunk decrements everything back to zero, matching the design's
// "chunk drop decrements to zero" lifecycle rule.
type ChunkMetrics struct {
	db       string
	reg      *Registry
	buckets  map[ColumnBucketKey]int
	bytes    map[ColumnBucketKey]int // keyed with Nullable always false
	rowGroup int
}

// NewChunkMetrics returns a ChunkMetrics scoped to db, reporting
// through reg. Passing a nil Registry is valid and makes every
// operation a no-op, for tests and benchmarks that don't need a live
// prometheus registry (mirroring ChunkMetrics::new_unregistered).
func NewChunkMetrics(db string, reg *Registry) *ChunkMetrics {
	return &ChunkMetrics{db: db, reg: reg, buckets: make(map[ColumnBucketKey]int), bytes: make(map[ColumnBucketKey]int)}
}

// RegisterRowGroup records one row group's column storage stats (one
// column.Statistics per encoded column) as newly added to the chunk.
func (m *ChunkMetrics) RegisterRowGroup(stats []column.Statistics) {
	m.rowGroup++
	if m.reg != nil {
		m.reg.rowGroups.WithLabelValues(m.db).Inc()
	}
	for _, s := range stats {
		key := ColumnBucketKey{DB: m.db, Encoding: s.Encoding, LogicalType: s.LogicalType, Nullable: s.NullCount > 0}
		m.buckets[key]++
		m.bytes[ColumnBucketKey{DB: m.db, Encoding: s.Encoding, LogicalType: s.LogicalType}] += s.BytesAllocated
		if m.reg != nil {
			m.reg.columnBuckets.WithLabelValues(m.db, s.Encoding, s.LogicalType.String(), nullLabel(key.Nullable)).Inc()
			m.reg.columnBytes.WithLabelValues(m.db, s.Encoding, s.LogicalType.String()).Add(float64(s.BytesAllocated))
		}
	}
}

// Drop decrements every counter this ChunkMetrics has ever
// incremented back to zero, as if the chunk had never existed.
func (m *ChunkMetrics) Drop() {
	if m.reg != nil {
		m.reg.rowGroups.WithLabelValues(m.db).Sub(float64(m.rowGroup))
		for key, n := range m.buckets {
			m.reg.columnBuckets.WithLabelValues(m.db, key.Encoding, key.LogicalType.String(), nullLabel(key.Nullable)).Sub(float64(n))
		}
		for key, n := range m.bytes {
			m.reg.columnBytes.WithLabelValues(m.db, key.Encoding, key.LogicalType.String()).Sub(float64(n))
		}
	}
	m.rowGroup = 0
	m.buckets = make(map[ColumnBucketKey]int)
	m.bytes = make(map[ColumnBucketKey]int)
}

func nullLabel(nullable bool) string {
	if nullable {
		return "nullable"
	}
	return "not_null"
}

// Registry owns the prometheus collectors backing every ChunkMetrics
// in a process. Construct one with NewRegistry and pass it to every
// NewChunkMetrics call that should share counters.
type Registry struct {
	rowGroups     *prometheus.GaugeVec
	columnBuckets *prometheus.GaugeVec
	columnBytes   *prometheus.GaugeVec
}

// NewRegistry builds and registers the chunk storage collectors
// against reg. These are gauges, not counters: a chunk drop must be
// able to bring them back down to zero.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		rowGroups: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tsdb",
			Subsystem: "readbuffer",
			Name:      "row_groups",
			Help:      "Row groups currently held by read-buffer chunks, by database.",
		}, []string{"db"}),
		columnBuckets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tsdb",
			Subsystem: "readbuffer",
			Name:      "columns",
			Help:      "Encoded columns currently held, bucketed by db/encoding/logical_type/nullness.",
		}, []string{"db", "encoding", "logical_type", "nullness"}),
		columnBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tsdb",
			Subsystem: "readbuffer",
			Name:      "column_bytes",
			Help:      "Allocated bytes for encoded columns, bucketed by db/encoding/logical_type.",
		}, []string{"db", "encoding", "logical_type"}),
	}
	reg.MustRegister(r.rowGroups, r.columnBuckets, r.columnBytes)
	return r
}
