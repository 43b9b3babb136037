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

// Package wire implements protobuf-shaped encode/decode of chunk
// catalog summaries, hand-written over protowire's varint/bytes field
// primitives rather than generated from a .proto file — the field
// layout mirrors generated_types/src/chunk.rs's management::Chunk and
// management::ChunkLifecycleAction messages. These are the messages a
// management gRPC service would stream to a client (see
// cmd/tsdbcat, which reads them back out of a length-prefixed file);
// no such service is registered here, since a live gRPC server is out
// of scope.
package wire

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	timestampFieldSeconds protowire.Number = 1
	timestampFieldNanos   protowire.Number = 2
)

// appendTimestampField appends a length-delimited google.protobuf.Timestamp-
// shaped submessage under field.
func appendTimestampField(b []byte, field protowire.Number, t time.Time) []byte {
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, appendTimestampMessage(nil, t))
}

func appendTimestampMessage(b []byte, t time.Time) []byte {
	b = protowire.AppendTag(b, timestampFieldSeconds, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.Unix()))
	b = protowire.AppendTag(b, timestampFieldNanos, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.Nanosecond()))
	return b
}

func consumeTimestampMessage(b []byte) (time.Time, error) {
	var seconds int64
	var nanos int64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return time.Time{}, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case timestampFieldSeconds:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			seconds = int64(v)
			b = b[n:]
		case timestampFieldNanos:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			nanos = int64(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return time.Unix(seconds, nanos).UTC(), nil
}
