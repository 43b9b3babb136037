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

package wire

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/lifecycle"
)

const (
	summaryFieldPartitionKey     protowire.Number = 1
	summaryFieldTableName        protowire.Number = 2
	summaryFieldID               protowire.Number = 3
	summaryFieldStorage          protowire.Number = 4
	summaryFieldLifecycleAction  protowire.Number = 5
	summaryFieldMemoryBytes      protowire.Number = 6
	summaryFieldObjectStoreBytes protowire.Number = 7
	summaryFieldRowCount         protowire.Number = 8
	summaryFieldTimeOfLastAccess protowire.Number = 9
	summaryFieldTimeOfFirstWrite protowire.Number = 10
	summaryFieldTimeOfLastWrite  protowire.Number = 11
	summaryFieldOrder            protowire.Number = 12
)

// ChunkSummaryProto mirrors management::Chunk's wire shape. Field
// numbers follow the struct field order in
// generated_types/src/chunk.rs, since the .proto source itself wasn't
// retrieved.
type ChunkSummaryProto struct {
	PartitionKey     string
	TableName        string
	ID               [16]byte
	Storage          ChunkStorageProto
	LifecycleAction  ChunkLifecycleActionProto
	MemoryBytes      uint64
	ObjectStoreBytes uint64
	RowCount         uint64
	TimeOfLastAccess *time.Time
	TimeOfFirstWrite time.Time
	TimeOfLastWrite  time.Time
	Order            uint32
}

// FromSummary builds the wire representation of a chunk's catalog
// summary. tableName comes from the owning partition, since
// lifecycle.Chunk itself (like the original's catalog::chunk::Chunk)
// does not track its own table name.
func FromSummary(tableName string, s lifecycle.Summary) ChunkSummaryProto {
	p := ChunkSummaryProto{
		PartitionKey:     s.PartitionKey,
		TableName:        tableName,
		ID:               s.ID.Bytes(),
		Storage:          storageToProto(s.Storage),
		LifecycleAction:  actionToProto(s.Action),
		MemoryBytes:      uint64(s.MemoryBytes),
		ObjectStoreBytes: uint64(s.ObjectStoreBytes),
		RowCount:         uint64(s.RowCount),
		Order:            uint32(s.Order),
	}
	if s.TimeOfLastAccess != nil {
		t := *s.TimeOfLastAccess
		p.TimeOfLastAccess = &t
	}
	if s.TimeOfFirstWrite != nil {
		p.TimeOfFirstWrite = *s.TimeOfFirstWrite
	}
	if s.TimeOfLastWrite != nil {
		p.TimeOfLastWrite = *s.TimeOfLastWrite
	}
	return p
}

// ToSummary validates and converts a wire summary back into its
// catalog-level representation. time_of_first_write and
// time_of_last_write are required fields, matching the original's
// unwrap_field checks; time_of_last_access stays optional.
func ToSummary(p ChunkSummaryProto) (tableName string, s lifecycle.Summary, err error) {
	if p.PartitionKey == "" {
		return "", lifecycle.Summary{}, &errs.FieldViolation{Field: "partition_key", Description: "must be set"}
	}
	if p.TableName == "" {
		return "", lifecycle.Summary{}, &errs.FieldViolation{Field: "table_name", Description: "must be set"}
	}
	id, err := chunkid.FromBytes(p.ID[:])
	if err != nil {
		return "", lifecycle.Summary{}, &errs.FieldViolation{Field: "id", Description: err.Error()}
	}
	storage, err := storageFromProto(p.Storage)
	if err != nil {
		return "", lifecycle.Summary{}, err
	}
	order, err := chunkid.NewOrder(p.Order)
	if err != nil {
		return "", lifecycle.Summary{}, &errs.FieldViolation{Field: "order", Description: err.Error()}
	}
	if p.TimeOfFirstWrite.IsZero() {
		return "", lifecycle.Summary{}, &errs.FieldViolation{Field: "time_of_first_write", Description: "must be set"}
	}
	if p.TimeOfLastWrite.IsZero() {
		return "", lifecycle.Summary{}, &errs.FieldViolation{Field: "time_of_last_write", Description: "must be set"}
	}

	firstWrite := p.TimeOfFirstWrite
	lastWrite := p.TimeOfLastWrite
	s = lifecycle.Summary{
		PartitionKey:     p.PartitionKey,
		ID:               id,
		Order:            order,
		Storage:          storage,
		Action:           actionFromProto(p.LifecycleAction),
		MemoryBytes:      int(p.MemoryBytes),
		ObjectStoreBytes: int(p.ObjectStoreBytes),
		RowCount:         int(p.RowCount),
		TimeOfFirstWrite: &firstWrite,
		TimeOfLastWrite:  &lastWrite,
		TimeOfLastAccess: p.TimeOfLastAccess,
	}
	return p.TableName, s, nil
}

// Encode serializes p to its protobuf wire-format bytes.
func Encode(p ChunkSummaryProto) []byte {
	var b []byte
	b = protowire.AppendTag(b, summaryFieldPartitionKey, protowire.BytesType)
	b = protowire.AppendString(b, p.PartitionKey)
	b = protowire.AppendTag(b, summaryFieldTableName, protowire.BytesType)
	b = protowire.AppendString(b, p.TableName)
	b = protowire.AppendTag(b, summaryFieldID, protowire.BytesType)
	b = protowire.AppendBytes(b, p.ID[:])
	b = protowire.AppendTag(b, summaryFieldStorage, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Storage))
	b = protowire.AppendTag(b, summaryFieldLifecycleAction, protowire.BytesType)
	b = protowire.AppendBytes(b, appendActionMessage(nil, p.LifecycleAction))
	b = protowire.AppendTag(b, summaryFieldMemoryBytes, protowire.VarintType)
	b = protowire.AppendVarint(b, p.MemoryBytes)
	b = protowire.AppendTag(b, summaryFieldObjectStoreBytes, protowire.VarintType)
	b = protowire.AppendVarint(b, p.ObjectStoreBytes)
	b = protowire.AppendTag(b, summaryFieldRowCount, protowire.VarintType)
	b = protowire.AppendVarint(b, p.RowCount)
	if p.TimeOfLastAccess != nil {
		b = appendTimestampField(b, summaryFieldTimeOfLastAccess, *p.TimeOfLastAccess)
	}
	b = appendTimestampField(b, summaryFieldTimeOfFirstWrite, p.TimeOfFirstWrite)
	b = appendTimestampField(b, summaryFieldTimeOfLastWrite, p.TimeOfLastWrite)
	b = protowire.AppendTag(b, summaryFieldOrder, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Order))
	return b
}

// Decode parses b into a ChunkSummaryProto. Unknown fields are
// skipped, matching protobuf's forward-compatibility contract.
func Decode(b []byte) (ChunkSummaryProto, error) {
	var p ChunkSummaryProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case summaryFieldPartitionKey:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.PartitionKey = string(v)
			b = b[n:]
		case summaryFieldTableName:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.TableName = string(v)
			b = b[n:]
		case summaryFieldID:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			copy(p.ID[:], v)
			b = b[n:]
		case summaryFieldStorage:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.Storage = ChunkStorageProto(v)
			b = b[n:]
		case summaryFieldLifecycleAction:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			action, err := consumeActionMessage(v)
			if err != nil {
				return p, err
			}
			p.LifecycleAction = action
			b = b[n:]
		case summaryFieldMemoryBytes:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.MemoryBytes = v
			b = b[n:]
		case summaryFieldObjectStoreBytes:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.ObjectStoreBytes = v
			b = b[n:]
		case summaryFieldRowCount:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.RowCount = v
			b = b[n:]
		case summaryFieldTimeOfLastAccess:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			t, err := consumeTimestampMessage(v)
			if err != nil {
				return p, err
			}
			p.TimeOfLastAccess = &t
			b = b[n:]
		case summaryFieldTimeOfFirstWrite:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			t, err := consumeTimestampMessage(v)
			if err != nil {
				return p, err
			}
			p.TimeOfFirstWrite = t
			b = b[n:]
		case summaryFieldTimeOfLastWrite:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			t, err := consumeTimestampMessage(v)
			if err != nil {
				return p, err
			}
			p.TimeOfLastWrite = t
			b = b[n:]
		case summaryFieldOrder:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.Order = uint32(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return p, nil
}
