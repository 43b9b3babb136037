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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/lifecycle"
)

func testSummary(t *testing.T) lifecycle.Summary {
	t.Helper()
	first := time.Unix(2, 6).UTC()
	last := time.Unix(756, 23).UTC()
	access := time.Unix(12, 100007).UTC()
	order, err := chunkid.NewOrder(5)
	require.NoError(t, err)
	return lifecycle.Summary{
		PartitionKey:     "foo",
		ID:               chunkid.NewTest(42),
		Order:            order,
		Storage:          lifecycle.ObjectStoreOnly,
		Action:           &lifecycle.Action{Kind: lifecycle.Persisting},
		MemoryBytes:      1234,
		ObjectStoreBytes: 567,
		RowCount:         321,
		TimeOfFirstWrite: &first,
		TimeOfLastWrite:  &last,
		TimeOfLastAccess: &access,
	}
}

func TestChunkSummaryRoundTrip(t *testing.T) {
	summary := testSummary(t)
	proto := FromSummary("bar", summary)

	tableName, decoded, err := ToSummary(proto)
	require.NoError(t, err)

	assert.Equal(t, "bar", tableName)
	assert.Equal(t, summary.PartitionKey, decoded.PartitionKey)
	assert.True(t, summary.ID.Equal(decoded.ID))
	assert.Equal(t, summary.Order, decoded.Order)
	assert.Equal(t, summary.Storage, decoded.Storage)
	assert.Equal(t, summary.Action, decoded.Action)
	assert.Equal(t, summary.MemoryBytes, decoded.MemoryBytes)
	assert.Equal(t, summary.ObjectStoreBytes, decoded.ObjectStoreBytes)
	assert.Equal(t, summary.RowCount, decoded.RowCount)
	assert.True(t, summary.TimeOfFirstWrite.Equal(*decoded.TimeOfFirstWrite))
	assert.True(t, summary.TimeOfLastWrite.Equal(*decoded.TimeOfLastWrite))
	assert.True(t, summary.TimeOfLastAccess.Equal(*decoded.TimeOfLastAccess))
}

func TestChunkSummaryWireRoundTrip(t *testing.T) {
	summary := testSummary(t)
	proto := FromSummary("bar", summary)

	encoded := Encode(proto)
	decodedProto, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, proto, decodedProto)
}

func TestChunkSummaryMissingStorageRejected(t *testing.T) {
	summary := testSummary(t)
	proto := FromSummary("bar", summary)
	proto.Storage = ChunkStorageUnspecified

	_, _, err := ToSummary(proto)
	assert.Error(t, err)
}

func TestChunkSummaryMissingTimeOfFirstWriteRejected(t *testing.T) {
	summary := testSummary(t)
	proto := FromSummary("bar", summary)
	proto.TimeOfFirstWrite = time.Time{}

	_, _, err := ToSummary(proto)
	assert.Error(t, err)
}

func TestChunkLifecycleActionCompactingObjectStoreCarriesTargetID(t *testing.T) {
	target := chunkid.NewTest(7)
	action := &lifecycle.Action{Kind: lifecycle.CompactingObjectStore, TargetChunkID: target}
	proto := actionToProto(action)

	decoded := actionFromProto(proto)
	require.NotNil(t, decoded)
	assert.Equal(t, lifecycle.CompactingObjectStore, decoded.Kind)
	assert.True(t, target.Equal(decoded.TargetChunkID))
}

func TestChunkLifecycleActionNilYieldsUnspecified(t *testing.T) {
	proto := actionToProto(nil)
	assert.Equal(t, ActionUnspecified, proto.Action)
	assert.Equal(t, [16]byte{}, proto.TargetChunkID)
	assert.Nil(t, actionFromProto(proto))
}
