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
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/lifecycle"
)

// ActionProto mirrors management::Action's wire values.
type ActionProto int32

const (
	ActionUnspecified ActionProto = iota
	ActionPersisting
	ActionCompacting
	ActionCompactingObjectStore
	ActionDropping
	ActionLoadingReadBuffer
)

const (
	actionFieldAction        protowire.Number = 1
	actionFieldTargetChunkID protowire.Number = 2
)

// ChunkLifecycleActionProto mirrors management::ChunkLifecycleAction.
// TargetChunkID is only meaningful when Action is
// ActionCompactingObjectStore; in every other case the original fills
// it with a fresh random uuid, but this port emits 16 zero bytes
// instead (an explicit, documented deviation — see DESIGN.md) since a
// deterministic filler is simpler to test and decoding never inspects
// it outside the CompactingObjectStore case anyway.
type ChunkLifecycleActionProto struct {
	Action        ActionProto
	TargetChunkID [16]byte
}

func actionToProto(a *lifecycle.Action) ChunkLifecycleActionProto {
	if a == nil {
		return ChunkLifecycleActionProto{Action: ActionUnspecified}
	}
	switch a.Kind {
	case lifecycle.Persisting:
		return ChunkLifecycleActionProto{Action: ActionPersisting}
	case lifecycle.Compacting:
		return ChunkLifecycleActionProto{Action: ActionCompacting}
	case lifecycle.CompactingObjectStore:
		return ChunkLifecycleActionProto{Action: ActionCompactingObjectStore, TargetChunkID: a.TargetChunkID.Bytes()}
	case lifecycle.Dropping:
		return ChunkLifecycleActionProto{Action: ActionDropping}
	case lifecycle.LoadingReadBuffer:
		return ChunkLifecycleActionProto{Action: ActionLoadingReadBuffer}
	default:
		return ChunkLifecycleActionProto{Action: ActionUnspecified}
	}
}

// actionFromProto never errors: an unrecognized or Unspecified action
// simply yields no in-progress action, mirroring the original's
// catch-all `else { Ok(None) }` arm.
func actionFromProto(p ChunkLifecycleActionProto) *lifecycle.Action {
	switch p.Action {
	case ActionPersisting:
		return &lifecycle.Action{Kind: lifecycle.Persisting}
	case ActionCompacting:
		return &lifecycle.Action{Kind: lifecycle.Compacting}
	case ActionCompactingObjectStore:
		id, err := chunkid.FromBytes(p.TargetChunkID[:])
		if err != nil {
			return nil
		}
		return &lifecycle.Action{Kind: lifecycle.CompactingObjectStore, TargetChunkID: id}
	case ActionDropping:
		return &lifecycle.Action{Kind: lifecycle.Dropping}
	case ActionLoadingReadBuffer:
		return &lifecycle.Action{Kind: lifecycle.LoadingReadBuffer}
	default:
		return nil
	}
}

func appendActionMessage(b []byte, p ChunkLifecycleActionProto) []byte {
	b = protowire.AppendTag(b, actionFieldAction, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Action))
	b = protowire.AppendTag(b, actionFieldTargetChunkID, protowire.BytesType)
	b = protowire.AppendBytes(b, p.TargetChunkID[:])
	return b
}

func consumeActionMessage(b []byte) (ChunkLifecycleActionProto, error) {
	var p ChunkLifecycleActionProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case actionFieldAction:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.Action = ActionProto(v)
			b = b[n:]
		case actionFieldTargetChunkID:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			copy(p.TargetChunkID[:], v)
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
