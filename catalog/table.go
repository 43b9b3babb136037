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

package catalog

import (
	"sort"
	"sync"

	"github.com/chronoframe/tsdb/errs"
)

// PartitionSummary is a read-only snapshot of one partition's size,
// used by system-table projections and admin tooling.
type PartitionSummary struct {
	TableName string
	Key       string
	RowCount  int
}

// Table owns every partition for one table name.
type Table struct {
	mu sync.RWMutex

	dbName string
	name   string

	partitions map[string]*Partition
}

func newTable(dbName, name string) *Table {
	return &Table{
		dbName:     dbName,
		name:       name,
		partitions: make(map[string]*Partition),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Partition looks up a partition by key.
func (t *Table) Partition(key string) (*Partition, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.partitions[key]
	if !ok {
		return nil, &errs.NotFound{Kind: "partition", Coord: t.name + "/" + key}
	}
	return p, nil
}

// GetOrCreatePartition returns the partition for key, creating it if
// this is the first time it has been seen.
func (t *Table) GetOrCreatePartition(key string) *Partition {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.partitions[key]
	if !ok {
		p = newPartition(t.name, key)
		t.partitions[key] = p
	}
	return p
}

// Partitions returns every partition, sorted by key for deterministic
// iteration.
func (t *Table) Partitions() []*Partition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Partition, 0, len(t.partitions))
	for _, p := range t.partitions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// PartitionKeys returns every partition key, sorted.
func (t *Table) PartitionKeys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.partitions))
	for k := range t.partitions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PartitionSummaries returns a row-count summary per partition, sorted
// by key.
func (t *Table) PartitionSummaries() []PartitionSummary {
	var out []PartitionSummary
	for _, p := range t.Partitions() {
		rows := 0
		for _, c := range p.Chunks() {
			rows += c.Rows()
		}
		out = append(out, PartitionSummary{TableName: t.name, Key: p.Key(), RowCount: rows})
	}
	return out
}
