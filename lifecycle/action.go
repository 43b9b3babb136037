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
	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/errs"
)

// Action is an in-progress lifecycle operation on a chunk.
// TargetChunkID is only meaningful when Kind is CompactingObjectStore:
// it names the chunk that will replace this one once compaction
// succeeds.
type Action struct {
	Kind          ActionKind
	TargetChunkID chunkid.ID
}

// SetAction records a from-now-on in-progress action on the chunk.
// Only one action may be in progress at a time.
func (c *Chunk) SetAction(a Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.action != nil {
		return &errs.InternalChunkState{
			PartitionKey: c.partitionKey, ChunkID: c.id.String(),
			Operation: "setting lifecycle action",
			Expected:  "no action in progress", Actual: c.action.Kind.String(),
		}
	}
	c.action = &a
	return nil
}

// ClearAction clears any in-progress lifecycle action, e.g. after it
// completes or is aborted.
func (c *Chunk) ClearAction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.action = nil
}

// CurrentAction returns the chunk's in-progress action, or nil.
func (c *Chunk) CurrentAction() *Action {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.action
}
