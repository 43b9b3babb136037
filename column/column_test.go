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

package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

func strp(s string) *string { return &s }

func TestDictionaryEquality(t *testing.T) {
	col := NewDictionary([]*string{strp("west"), strp("east"), strp("west"), nil, strp("north")})
	rows, err := col.RowIDsMatching(predicate.Eq, predicate.StringLiteral("west"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, rows.ToSlice())
}

func TestDictionaryNotEqual(t *testing.T) {
	col := NewDictionary([]*string{strp("west"), strp("east"), strp("west"), strp("north")})
	rows, err := col.RowIDsMatching(predicate.Ne, predicate.StringLiteral("west"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3}, rows.ToSlice())
}

func TestDictionaryRange(t *testing.T) {
	col := NewDictionary([]*string{strp("a"), strp("b"), strp("c"), strp("d")})
	rows, err := col.RowIDsMatching(predicate.Lt, predicate.StringLiteral("c"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1}, rows.ToSlice())
}

func TestDictionaryInvalidLiteral(t *testing.T) {
	col := NewDictionary([]*string{strp("a")})
	_, err := col.RowIDsMatching(predicate.Eq, predicate.IntLiteral(1))
	var pi *errs.PredicateInvalid
	assert.ErrorAs(t, err, &pi)
}

func TestDictionaryStatisticsNullCount(t *testing.T) {
	col := NewDictionary([]*string{strp("a"), nil, nil})
	stats := col.Statistics()
	assert.Equal(t, 2, stats.NullCount)
	assert.Equal(t, 3, stats.TotalValues)
}

func TestI64Comparisons(t *testing.T) {
	col := NewI64([]int64{10, 20, 30}, schema.Int64)
	rows, err := col.RowIDsMatching(predicate.Ge, predicate.IntLiteral(20))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, rows.ToSlice())
}

func TestI64NSkipsNulls(t *testing.T) {
	col := NewI64N([]int64{1, 0, 3}, []bool{true, false, true}, schema.Int64)
	rows, err := col.RowIDsMatching(predicate.Ge, predicate.IntLiteral(0))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, rows.ToSlice())

	vals := col.Values(nil)
	assert.Equal(t, []int{1}, vals.NullPositions)
}

func TestBoolColumn(t *testing.T) {
	col := NewBool([]bool{true, false, true}, nil)
	rows, err := col.RowIDsMatching(predicate.Eq, predicate.BoolLiteral(true))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, rows.ToSlice())
}

func TestByteTrieU32(t *testing.T) {
	col := NewByteTrieU32([]int64{5, 1, 5, 9, 1})
	rows, err := col.RowIDsMatching(predicate.Eq, predicate.IntLiteral(5))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, rows.ToSlice())

	rows, err = col.RowIDsMatching(predicate.Gt, predicate.IntLiteral(5))
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, rows.ToSlice())
}

func TestByteArrayEquality(t *testing.T) {
	col := NewByteArray([][]byte{[]byte("a"), []byte("bb"), []byte("a")})
	rows, err := col.RowIDsMatching(predicate.Eq, predicate.StringLiteral("a"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, rows.ToSlice())
}

func TestValuesLen(t *testing.T) {
	v := Values{Kind: KindI64, I64: []int64{1, 2, 3}}
	assert.Equal(t, 3, v.Len())
}
