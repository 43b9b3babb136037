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
	"sync"
	"time"

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/readbuffer"
)

// MutableBuffer is the narrow interface this package needs from
// whatever holds a chunk's in-progress (not-yet-compacted) writes.
// Mutable-buffer ingest itself is outside this package's scope, the
// same way object-store I/O is: lifecycle only needs to query it, not
// build it.
type MutableBuffer interface {
	HasTable(tableName string) bool
	TableNames() []string
	Size() int
	Rows() int
}

// ObjectStoreArtifact is a narrow placeholder for a chunk's persisted
// parquet representation; actual object-store I/O is out of scope
// here (an external collaborator per the design notes).
type ObjectStoreArtifact struct {
	Bytes int
}

// stateTag is the variant discriminant of a Chunk's physical backing.
type stateTag uint8

const (
	stateInvalid stateTag = iota
	stateOpen
	stateClosing
	stateMoving
	stateMoved
	stateWritingToObjectStore
	stateWrittenToObjectStore
)

func (s stateTag) String() string {
	switch s {
	case stateInvalid:
		return "Invalid"
	case stateOpen:
		return "Open"
	case stateClosing:
		return "Closing"
	case stateMoving:
		return "Moving"
	case stateMoved:
		return "Moved"
	case stateWritingToObjectStore:
		return "Writing to Object Store"
	case stateWrittenToObjectStore:
		return "Written to Object Store"
	default:
		return "Unknown"
	}
}

// state is the tagged union itself: exactly the fields relevant to
// tag are meaningful, mirroring ChunkState's per-variant payload.
type state struct {
	tag     stateTag
	mutable MutableBuffer        // Open, Closing, Moving
	rb      *readbuffer.Chunk    // Moved, WritingToObjectStore, WrittenToObjectStore
	parquet *ObjectStoreArtifact // WrittenToObjectStore only
}

// Chunk is the catalog's representation of one chunk: its identity,
// physical state machine, lifecycle action, and write timestamps.
// Owned by a Partition; a Chunk may exist in several physical
// locations over its life but exactly one at any instant.
type Chunk struct {
	mu sync.RWMutex

	partitionKey string
	id           chunkid.ID
	order        chunkid.Order
	state        state
	action       *Action

	timeOfFirstWrite *time.Time
	timeOfLastWrite  *time.Time
	timeClosing      *time.Time
	timeOfLastAccess *time.Time
}

// NewOpen creates a new chunk in the Open state.
func NewOpen(partitionKey string, id chunkid.ID, order chunkid.Order, mutable MutableBuffer) *Chunk {
	return &Chunk{
		partitionKey: partitionKey,
		id:           id,
		order:        order,
		state:        state{tag: stateOpen, mutable: mutable},
	}
}

// ID returns the chunk's identifier.
func (c *Chunk) ID() chunkid.ID { return c.id }

// Order returns the chunk's upsert/lock order.
func (c *Chunk) Order() chunkid.Order { return c.order }

// Key returns the owning partition's key.
func (c *Chunk) Key() string { return c.partitionKey }

func (c *Chunk) unexpectedState(operation, expected string) error {
	return &errs.InternalChunkState{
		PartitionKey: c.partitionKey,
		ChunkID:      c.id.String(),
		Operation:    operation,
		Expected:     expected,
		Actual:       c.state.tag.String(),
	}
}

// RecordWrite updates the chunk's write timestamps: time_of_first_write
// is set once, time_of_last_write always advances. Valid in every
// state.
func (c *Chunk) RecordWrite() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if c.timeOfFirstWrite == nil {
		c.timeOfFirstWrite = &now
	}
	c.timeOfLastWrite = &now
}

// RecordAccess stamps time_of_last_access, used by the catalog to
// track which chunks a query actually touched.
func (c *Chunk) RecordAccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.timeOfLastAccess = &now
}

// MutableBuffer returns the chunk's mutable-buffer backing. Must be
// in the Open or Closing state.
func (c *Chunk) MutableBuffer() (MutableBuffer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state.tag {
	case stateOpen, stateClosing:
		return c.state.mutable, nil
	default:
		return nil, c.unexpectedState("mutable buffer reference", "Open or Closing")
	}
}

// SetClosing moves an Open chunk to Closing, stamping time_closing
// exactly once; calling it on a chunk that is already Closing (whose
// time_closing is therefore set) panics. The state is moved out to an
// Invalid sentinel for the duration of the check so a concurrent
// reader never observes a half-updated chunk.
func (c *Chunk) SetClosing() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	c.state = state{tag: stateInvalid}

	switch s.tag {
	case stateOpen, stateClosing:
		if c.timeClosing != nil {
			c.state = s
			panic("lifecycle: time_closing set twice on the same chunk")
		}
		now := time.Now()
		c.timeClosing = &now
		c.state = state{tag: stateClosing, mutable: s.mutable}
		return nil
	default:
		c.state = s
		return c.unexpectedState("setting closing", "Open or Closing")
	}
}

// SetMoving transitions an Open or Closing chunk to Moving, returning
// the mutable-buffer handle the caller should hand off to the
// compaction routine that builds the read-buffer representation.
func (c *Chunk) SetMoving() (MutableBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	c.state = state{tag: stateInvalid}

	switch s.tag {
	case stateOpen, stateClosing:
		c.state = state{tag: stateMoving, mutable: s.mutable}
		return s.mutable, nil
	default:
		c.state = s
		return nil, c.unexpectedState("setting moving", "Open or Closing")
	}
}

// SetMoved transitions a Moving chunk to Moved, discarding the
// mutable-buffer handle in favor of rb.
func (c *Chunk) SetMoved(rb *readbuffer.Chunk) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	c.state = state{tag: stateInvalid}

	switch s.tag {
	case stateMoving:
		c.state = state{tag: stateMoved, rb: rb}
		return nil
	default:
		c.state = s
		return c.unexpectedState("setting moved", "Moving")
	}
}

// SetWritingToObjectStore transitions a Moved chunk to
// WritingToObjectStore, returning the read-buffer handle the caller
// should persist.
func (c *Chunk) SetWritingToObjectStore() (*readbuffer.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	c.state = state{tag: stateInvalid}

	switch s.tag {
	case stateMoved:
		c.state = state{tag: stateWritingToObjectStore, rb: s.rb}
		return s.rb, nil
	default:
		c.state = s
		return nil, c.unexpectedState("setting object store", "Moved")
	}
}

// SetWrittenToObjectStore transitions a WritingToObjectStore chunk to
// WrittenToObjectStore, retaining both the read-buffer and the
// persisted parquet artifact.
func (c *Chunk) SetWrittenToObjectStore(artifact *ObjectStoreArtifact) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	c.state = state{tag: stateInvalid}

	switch s.tag {
	case stateWritingToObjectStore:
		c.state = state{tag: stateWrittenToObjectStore, rb: s.rb, parquet: artifact}
		return nil
	default:
		c.state = s
		return c.unexpectedState("setting object store", "Writing to Object Store")
	}
}

// HasTable reports whether the chunk holds data for tableName.
func (c *Chunk) HasTable(tableName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state.tag {
	case stateInvalid:
		return false
	case stateOpen, stateClosing, stateMoving:
		return c.state.mutable.HasTable(tableName)
	default:
		return c.state.rb.TableName() == tableName
	}
}

// TableNames collects every table name the chunk holds data for.
func (c *Chunk) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state.tag {
	case stateInvalid:
		return nil
	case stateOpen, stateClosing, stateMoving:
		return c.state.mutable.TableNames()
	default:
		return []string{c.state.rb.TableName()}
	}
}

// Size returns an approximation of the process memory and/or
// object-store bytes consumed by the chunk, summing both when the
// chunk is backed by both a read buffer and a parquet artifact.
func (c *Chunk) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state.tag {
	case stateInvalid:
		return 0
	case stateOpen, stateClosing, stateMoving:
		return c.state.mutable.Size()
	case stateMoved, stateWritingToObjectStore:
		return c.state.rb.Size()
	case stateWrittenToObjectStore:
		return c.state.rb.Size() + c.state.parquet.Bytes
	default:
		return 0
	}
}

// Rows returns the chunk's current row count.
func (c *Chunk) Rows() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state.tag {
	case stateInvalid:
		return 0
	case stateOpen, stateClosing, stateMoving:
		return c.state.mutable.Rows()
	default:
		return c.state.rb.Rows()
	}
}

// storageLocked derives the chunk's ChunkStorage tag from its current
// physical state. Caller must hold at least a read lock.
func (c *Chunk) storageLocked() Storage {
	switch c.state.tag {
	case stateOpen:
		return OpenMutableBuffer
	case stateClosing, stateMoving:
		return ClosedMutableBuffer
	case stateMoved, stateWritingToObjectStore:
		return ReadBuffer
	case stateWrittenToObjectStore:
		return ReadBufferAndObjectStore
	default:
		panic("lifecycle: Invalid chunk state observed externally")
	}
}

func (c *Chunk) memoryAndObjectStoreBytesLocked() (memory, objectStore int) {
	switch c.state.tag {
	case stateOpen, stateClosing, stateMoving:
		return c.state.mutable.Size(), 0
	case stateMoved, stateWritingToObjectStore:
		return c.state.rb.Size(), 0
	case stateWrittenToObjectStore:
		return c.state.rb.Size(), c.state.parquet.Bytes
	default:
		return 0, 0
	}
}

// Summary returns an immutable snapshot of the chunk's catalog-level
// metadata.
func (c *Chunk) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	memBytes, objBytes := c.memoryAndObjectStoreBytesLocked()
	var rows int
	switch c.state.tag {
	case stateOpen, stateClosing, stateMoving:
		rows = c.state.mutable.Rows()
	case stateMoved, stateWritingToObjectStore, stateWrittenToObjectStore:
		rows = c.state.rb.Rows()
	}
	return Summary{
		PartitionKey:     c.partitionKey,
		ID:               c.id,
		Order:            c.order,
		Storage:          c.storageLocked(),
		Action:           c.action,
		MemoryBytes:      memBytes,
		ObjectStoreBytes: objBytes,
		RowCount:         rows,
		TimeOfFirstWrite: c.timeOfFirstWrite,
		TimeOfLastWrite:  c.timeOfLastWrite,
		TimeOfLastAccess: c.timeOfLastAccess,
	}
}

// DetailedSummary returns Summary plus a per-column memory breakdown.
// Only meaningful once the chunk has a read-buffer representation;
// mutable-buffer-backed chunks return an UnsupportedOperation error.
func (c *Chunk) DetailedSummary() (DetailedSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.state.tag {
	case stateMoved, stateWritingToObjectStore, stateWrittenToObjectStore:
	default:
		return DetailedSummary{}, &errs.UnsupportedOperation{
			Msg: "detailed column summary is only available once a chunk has a read-buffer representation",
		}
	}

	memBytes, objBytes := c.memoryAndObjectStoreBytesLocked()
	bytesByName := make(map[string]int)
	for _, cs := range c.state.rb.ColumnSizes() {
		bytesByName[cs.Name] = cs.Bytes
	}
	columns := make([]ColumnSummary, 0)
	for _, cs := range c.state.rb.ColumnStats() {
		columns = append(columns, ColumnSummary{
			Name:        cs.Name,
			LogicalType: cs.LogicalType,
			InfluxType:  cs.InfluxType,
			MemoryBytes: bytesByName[cs.Name],
			TotalValues: cs.TotalValues,
			NullCount:   cs.NullCount,
			Min:         cs.Min,
			Max:         cs.Max,
			HasBounds:   cs.HasBounds,
		})
	}

	return DetailedSummary{
		Summary: Summary{
			PartitionKey:     c.partitionKey,
			ID:               c.id,
			Order:            c.order,
			Storage:          c.storageLocked(),
			Action:           c.action,
			MemoryBytes:      memBytes,
			ObjectStoreBytes: objBytes,
			RowCount:         c.state.rb.Rows(),
			TimeOfFirstWrite: c.timeOfFirstWrite,
			TimeOfLastWrite:  c.timeOfLastWrite,
			TimeOfLastAccess: c.timeOfLastAccess,
		},
		Columns: columns,
	}, nil
}
