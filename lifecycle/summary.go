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

package lifecycle

import (
	"time"

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/schema"
)

// Summary is an immutable snapshot of a chunk's catalog-level
// metadata at the instant it was taken; later changes to the chunk do
// not retroactively change a Summary already handed out.
type Summary struct {
	PartitionKey string
	ID           chunkid.ID
	Order        chunkid.Order

	Storage Storage
	Action  *Action

	MemoryBytes      int
	ObjectStoreBytes int
	RowCount         int

	TimeOfFirstWrite *time.Time
	TimeOfLastWrite  *time.Time
	TimeOfLastAccess *time.Time
}

// ColumnSummary names one column's contribution to a chunk's
// DetailedSummary. Order is not guaranteed to match the owning
// table's schema ordering.
type ColumnSummary struct {
	Name        string
	LogicalType schema.LogicalType
	InfluxType  schema.InfluxType
	MemoryBytes int
	TotalValues int
	NullCount   int
	Min         string
	Max         string
	HasBounds   bool
}

// DetailedSummary extends Summary with a per-column memory breakdown,
// available only once a chunk has a read-buffer representation.
type DetailedSummary struct {
	Summary
	Columns []ColumnSummary
}
