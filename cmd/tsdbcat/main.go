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

// tsdbcat is a read-only inspection tool over a catalog chunk-summary
// snapshot: a file of length-prefixed wire.ChunkSummaryProto records,
// the same shape a management API would stream over gRPC (see package
// wire). It has no write path and registers nothing with a query
// engine; it only decodes and prints.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/lifecycle"
	"github.com/chronoframe/tsdb/wire"
)

func main() {
	inPath := flag.String("in", "", "path to a chunk-summary snapshot file (required)")
	tableFilter := flag.String("table", "", "only print chunks belonging to this table")
	storageFilter := flag.String("storage", "", "only print chunks with this Storage value (e.g. ReadBuffer)")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "tsdbcat: -in is required")
		os.Exit(2)
	}
	if *noColor {
		color.NoColor = true
	}

	rows, err := readSnapshot(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tsdbcat: %v\n", err)
		os.Exit(1)
	}

	rows = filterRows(rows, *tableFilter, *storageFilter)
	printTable(os.Stdout, rows)
}

type row struct {
	tableName string
	summary   lifecycle.Summary
}

// readSnapshot decodes a sequence of varint-length-prefixed
// wire.ChunkSummaryProto messages, the framing a CatalogChunk stream
// would use on disk or over a pipe.
func readSnapshot(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []row
	lr := &byteReader{r: f}
	for {
		n, err := binary.ReadUvarint(lr)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(err, "reading record length")
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, errs.Wrap(err, "reading record body")
		}
		proto, err := wire.Decode(buf)
		if err != nil {
			return nil, errs.Wrap(err, "decoding record")
		}
		tableName, summary, err := wire.ToSummary(proto)
		if err != nil {
			return nil, errs.Wrap(err, "converting record")
		}
		rows = append(rows, row{tableName: tableName, summary: summary})
	}
	return rows, nil
}

// byteReader adapts an io.Reader to io.ByteReader, which
// binary.ReadUvarint requires.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReader) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.r, b.buf[:])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return 0, err
	}
	return b.buf[0], nil
}

func filterRows(rows []row, tableName, storage string) []row {
	if tableName == "" && storage == "" {
		return rows
	}
	out := rows[:0]
	for _, r := range rows {
		if tableName != "" && r.tableName != tableName {
			continue
		}
		if storage != "" && r.summary.Storage.String() != storage {
			continue
		}
		out = append(out, r)
	}
	return out
}

func printTable(w io.Writer, rows []row) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	defer tw.Flush()

	header := color.New(color.Bold)
	header.Fprintln(tw, "TABLE\tPARTITION\tCHUNK\tORDER\tSTORAGE\tACTION\tROWS\tMEM\tOBJ STORE")

	for _, r := range rows {
		s := r.summary
		action := "-"
		if s.Action != nil {
			action = s.Action.Kind.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.tableName,
			s.PartitionKey,
			s.ID.String(),
			s.Order.String(),
			colorStorage(s.Storage),
			action,
			humanize.Comma(int64(s.RowCount)),
			humanize.Bytes(uint64(s.MemoryBytes)),
			humanize.Bytes(uint64(s.ObjectStoreBytes)),
		)
	}
}

func colorStorage(s lifecycle.Storage) string {
	switch s {
	case lifecycle.OpenMutableBuffer, lifecycle.ClosedMutableBuffer:
		return color.YellowString(s.String())
	case lifecycle.ReadBuffer, lifecycle.ReadBufferAndObjectStore:
		return color.GreenString(s.String())
	case lifecycle.ObjectStoreOnly:
		return color.CyanString(s.String())
	default:
		return s.String()
	}
}
