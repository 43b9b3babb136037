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

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/lifecycle"
)

// Partition owns every chunk for one (table, partition key) coordinate
// and the allocation of chunk orders within it. Chunk ids are never
// recycled: dropping a chunk and re-creating one for the same
// partition always yields a new, distinct id.
type Partition struct {
	mu sync.RWMutex

	tableName string
	key       string

	chunks    map[chunkid.ID]*lifecycle.Chunk
	nextOrder chunkid.Order

	window *PersistenceWindow
}

func newPartition(tableName, key string) *Partition {
	return &Partition{
		tableName: tableName,
		key:       key,
		chunks:    make(map[chunkid.ID]*lifecycle.Chunk),
		nextOrder: chunkid.OrderMin,
		window:    NewPersistenceWindow(),
	}
}

// TableName returns the owning table's name.
func (p *Partition) TableName() string { return p.tableName }

// Key returns the partition key.
func (p *Partition) Key() string { return p.key }

// Chunk looks up a chunk by id, returning its current order alongside
// it since callers that need to lock several chunks must do so in
// ascending order.
func (p *Partition) Chunk(id chunkid.ID) (*lifecycle.Chunk, chunkid.Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.chunks[id]
	if !ok {
		return nil, 0, &errs.NotFound{Kind: "chunk", Coord: p.tableName + "/" + p.key + "/" + id.String()}
	}
	return c, c.Order(), nil
}

// Chunks returns every chunk in the partition, sorted by ascending
// order — the order callers must acquire multiple chunk locks in.
func (p *Partition) Chunks() []*lifecycle.Chunk {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*lifecycle.Chunk, 0, len(p.chunks))
	for _, c := range p.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order() < out[j].Order() })
	return out
}

// CreateOpenChunk allocates a new chunk id and the next chunk order
// within this partition, and creates a new Open chunk backed by mb.
func (p *Partition) CreateOpenChunk(mb lifecycle.MutableBuffer) (*lifecycle.Chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	order := p.nextOrder
	next, err := order.Next()
	if err != nil {
		return nil, err
	}
	p.nextOrder = next

	id := chunkid.New()
	c := lifecycle.NewOpen(p.key, id, order, mb)
	p.chunks[id] = c
	return c, nil
}

// DropChunk removes a chunk from the partition. The id is never
// reused: a later CreateOpenChunk call always allocates a fresh one.
func (p *Partition) DropChunk(id chunkid.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.chunks[id]; !ok {
		return &errs.NotFound{Kind: "chunk", Coord: p.tableName + "/" + p.key + "/" + id.String()}
	}
	delete(p.chunks, id)
	return nil
}

// PersistenceWindow returns the partition's write-accounting window.
func (p *Partition) PersistenceWindow() *PersistenceWindow { return p.window }
