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

package chunkid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsRandom(t *testing.T) {
	assert.NotEqual(t, New(), New())
}

func TestNewTestIsDeterministic(t *testing.T) {
	assert.Equal(t, NewTest(1), NewTest(1))
	assert.NotEqual(t, NewTest(1), NewTest(2))
}

func TestStringRendering(t *testing.T) {
	random := New()
	assert.Equal(t, random.UUID().String(), random.String())

	det := NewTest(42)
	assert.Equal(t, "42", det.String())
	assert.Equal(t, "ChunkId(42)", det.GoString())
}

func TestBytesRoundTrip(t *testing.T) {
	id := New()
	b := id.Bytes()
	got, err := FromBytes(b[:])
	assert.NoError(t, err)
	assert.True(t, id.Equal(got))
}

func TestFromBytesInvalidLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestOrderBounds(t *testing.T) {
	_, err := NewOrder(0)
	assert.Error(t, err)

	one, err := NewOrder(1)
	assert.NoError(t, err)
	assert.Equal(t, OrderMin, one)

	_, err = OrderMax.Next()
	assert.ErrorIs(t, err, ErrOrderOverflow)

	two, err := one.Next()
	assert.NoError(t, err)
	assert.Equal(t, Order(2), two)
}

func TestAddrOrdering(t *testing.T) {
	a := Addr{DBName: "d", TableName: "t1", PartitionKey: "p1", ChunkID: NewTest(1)}
	b := Addr{DBName: "d", TableName: "t1", PartitionKey: "p1", ChunkID: NewTest(2)}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestAddrString(t *testing.T) {
	a := Addr{DBName: "mydb", TableName: "cpu", PartitionKey: "2021-01-01", ChunkID: NewTest(7)}
	assert.Equal(t, `Chunk("mydb":"cpu":"2021-01-01":7)`, a.String())
}
