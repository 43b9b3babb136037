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

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronoframe/tsdb/chunkid"
	"github.com/chronoframe/tsdb/lifecycle"
	"github.com/chronoframe/tsdb/wire"
)

func writeSnapshot(t *testing.T, path string, rows []row) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	for _, r := range rows {
		proto := wire.FromSummary(r.tableName, r.summary)
		body := wire.Encode(proto)
		var lenBuf [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(lenBuf[:], uint64(len(body)))
		_, err := f.Write(lenBuf[:n])
		require.NoError(t, err)
		_, err = f.Write(body)
		require.NoError(t, err)
	}
}

func sampleRow(t *testing.T, tableName string, storage lifecycle.Storage) row {
	t.Helper()
	order, err := chunkid.NewOrder(1)
	require.NoError(t, err)
	return row{
		tableName: tableName,
		summary: lifecycle.Summary{
			PartitionKey:     "p1",
			ID:               chunkid.New(),
			Order:            order,
			Storage:          storage,
			MemoryBytes:      2048,
			ObjectStoreBytes: 0,
			RowCount:         100,
			TimeOfFirstWrite: timePtr(time.Unix(0, 0).UTC()),
			TimeOfLastWrite:  timePtr(time.Unix(0, 0).UTC()),
		},
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestReadSnapshotRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot")

	want := []row{
		sampleRow(t, "cpu", lifecycle.ReadBuffer),
		sampleRow(t, "mem", lifecycle.OpenMutableBuffer),
	}
	writeSnapshot(t, path, want)

	got, err := readSnapshot(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cpu", got[0].tableName)
	assert.Equal(t, lifecycle.ReadBuffer, got[0].summary.Storage)
	assert.Equal(t, "mem", got[1].tableName)
	assert.Equal(t, lifecycle.OpenMutableBuffer, got[1].summary.Storage)
}

func TestReadSnapshotMissingFile(t *testing.T) {
	_, err := readSnapshot(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFilterRowsByTableAndStorage(t *testing.T) {
	rows := []row{
		sampleRow(t, "cpu", lifecycle.ReadBuffer),
		sampleRow(t, "mem", lifecycle.OpenMutableBuffer),
		sampleRow(t, "cpu", lifecycle.OpenMutableBuffer),
	}

	byTable := filterRows(rows, "cpu", "")
	assert.Len(t, byTable, 2)

	byStorage := filterRows(rows, "", "ReadBuffer")
	require.Len(t, byStorage, 1)
	assert.Equal(t, "cpu", byStorage[0].tableName)

	byBoth := filterRows(rows, "cpu", "OpenMutableBuffer")
	require.Len(t, byBoth, 1)
	assert.Equal(t, lifecycle.OpenMutableBuffer, byBoth[0].summary.Storage)
}

func TestPrintTableIncludesColumns(t *testing.T) {
	rows := []row{sampleRow(t, "cpu", lifecycle.ReadBuffer)}

	var buf bytes.Buffer
	printTable(&buf, rows)

	out := buf.String()
	assert.Contains(t, out, "TABLE")
	assert.Contains(t, out, "cpu")
	assert.Contains(t, out, "p1")
}
