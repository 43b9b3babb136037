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

package systables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronoframe/tsdb/catalog"
	"github.com/chronoframe/tsdb/column"
	"github.com/chronoframe/tsdb/readbuffer"
	"github.com/chronoframe/tsdb/rowgroup"
	"github.com/chronoframe/tsdb/schema"
)

type stubMutableBuffer struct{ table string }

func (s *stubMutableBuffer) HasTable(name string) bool { return name == s.table }
func (s *stubMutableBuffer) TableNames() []string      { return []string{s.table} }
func (s *stubMutableBuffer) Size() int                 { return 0 }
func (s *stubMutableBuffer) Rows() int                 { return 0 }

func strp(s string) *string { return &s }

// moveChunkToReadBuffer drives a freshly created chunk through
// Open -> Closing -> Moving -> Moved so it ends up backed by a
// two-column read-buffer representation.
func moveChunkToReadBuffer(t *testing.T, p *catalog.Partition) {
	t.Helper()
	c, err := p.CreateOpenChunk(&stubMutableBuffer{table: "cpu"})
	require.NoError(t, err)

	require.NoError(t, c.SetClosing())
	_, err = c.SetMoving()
	require.NoError(t, err)

	regionCol := column.NewDictionary([]*string{strp("west"), strp("east"), strp("west")})
	tempCol := column.NewF64([]float64{65.2, 70.1, 68.4})
	rg, err := rowgroup.New(rowgroup.Batch{
		Rows: 3,
		Columns: []rowgroup.NamedColumn{
			{Schema: schema.Column{Name: "region", LogicalType: schema.String, InfluxType: schema.Tag}, Data: regionCol},
			{Schema: schema.Column{Name: "surface_degrees", LogicalType: schema.Float64, InfluxType: schema.Field}, Data: tempCol},
		},
	})
	require.NoError(t, err)

	rb := readbuffer.NewChunk("mydb", "cpu", nil)
	rb.AddRowGroup(rg)
	require.NoError(t, c.SetMoved(rb))
}

func TestColumnsProjectsDistinctColumnsPerPartition(t *testing.T) {
	cat := catalog.New("mydb", nil)
	p := cat.GetOrCreatePartition("cpu", "p1")
	moveChunkToReadBuffer(t, p)

	rows := Columns(cat)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "p1", row.PartitionKey)
		assert.Equal(t, "cpu", row.TableName)
	}
}

func TestChunkColumnsIncludesBoundsAndStorage(t *testing.T) {
	cat := catalog.New("mydb", nil)
	p := cat.GetOrCreatePartition("cpu", "p1")
	moveChunkToReadBuffer(t, p)

	rows := ChunkColumns(cat)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "ReadBuffer", row.Storage)
		assert.Equal(t, 3, row.RowCount)
		assert.Equal(t, 0, row.NullCount)
		if row.ColumnName == "surface_degrees" {
			assert.Equal(t, "65.2", row.MinValue)
			assert.Equal(t, "70.1", row.MaxValue)
		}
	}
}

func TestColumnsSkipsMutableBufferBackedChunks(t *testing.T) {
	cat := catalog.New("mydb", nil)
	p := cat.GetOrCreatePartition("cpu", "p1")
	_, err := p.CreateOpenChunk(&stubMutableBuffer{table: "cpu"})
	require.NoError(t, err)

	assert.Empty(t, Columns(cat))
	assert.Empty(t, ChunkColumns(cat))
}
