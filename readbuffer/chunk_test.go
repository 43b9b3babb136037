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

package readbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronoframe/tsdb/column"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/rowgroup"
	"github.com/chronoframe/tsdb/schema"
)

func strp(s string) *string { return &s }

func buildRowGroup(t *testing.T) *rowgroup.RowGroup {
	t.Helper()
	timeCol := column.NewI64([]int64{1, 2, 3}, schema.Timestamp)
	regionCol := column.NewDictionary([]*string{strp("west"), strp("east"), strp("west")})
	rg, err := rowgroup.New(rowgroup.Batch{
		Rows: 3,
		Columns: []rowgroup.NamedColumn{
			{Schema: schema.Column{Name: "time", LogicalType: schema.Timestamp, InfluxType: schema.Time}, Data: timeCol},
			{Schema: schema.Column{Name: "region", LogicalType: schema.String, InfluxType: schema.Tag}, Data: regionCol},
		},
	})
	require.NoError(t, err)
	return rg
}

func TestChunkAddRowGroupTracksRowGroupsAndRows(t *testing.T) {
	c := NewChunk("mydb", "cpu", nil)
	c.AddRowGroup(buildRowGroup(t))
	assert.Equal(t, 1, c.RowGroups())
	assert.Equal(t, 3, c.Rows())
}

func TestChunkDropIsSafeUnregistered(t *testing.T) {
	c := NewChunk("mydb", "cpu", nil)
	c.AddRowGroup(buildRowGroup(t))
	assert.NotPanics(t, c.Drop)
}

func TestReadFilterTableSchemaAll(t *testing.T) {
	c := NewChunk("mydb", "cpu", nil)
	c.AddRowGroup(buildRowGroup(t))
	m, err := c.ReadFilterTableSchema(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"time", "region"}, m.Names())
}

func TestReadFilterTableSchemaUnknownColumn(t *testing.T) {
	c := NewChunk("mydb", "cpu", nil)
	c.AddRowGroup(buildRowGroup(t))
	_, err := c.ReadFilterTableSchema([]string{"nope"})
	assert.Error(t, err)
}

func TestColumnValuesRejectsAllSelection(t *testing.T) {
	c := NewChunk("mydb", "cpu", nil)
	c.AddRowGroup(buildRowGroup(t))
	_, err := c.ColumnValues(predicate.New(), nil, nil)
	assert.Error(t, err)
}

func TestChunkSatisfiesPredicate(t *testing.T) {
	c := NewChunk("mydb", "cpu", nil)
	c.AddRowGroup(buildRowGroup(t))
	assert.True(t, c.SatisfiesPredicate(predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.StringLiteral("east")})))
	assert.False(t, c.SatisfiesPredicate(predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.StringLiteral("north")})))
}
