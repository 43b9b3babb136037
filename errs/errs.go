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

// Package errs collects the error kinds surfaced by the catalog, chunk
// lifecycle, and read-buffer packages. Each kind is a plain struct so
// callers can recover it with errors.As instead of string matching.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap attaches msg to err, the way d.Wrap does in the upstream store
// packages. Wrap(nil, msg) returns nil. The result remains
// errors.As/errors.Unwrap-compatible through pkg/errors' own Unwrap
// support.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// NotFound is returned when a table, partition, or chunk lookup misses.
type NotFound struct {
	Kind  string // "table", "partition", or "chunk"
	Coord string // human-readable coordinate, e.g. db/table/partition/id
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Coord)
}

// InternalChunkState reports an unexpected lifecycle transition attempt.
type InternalChunkState struct {
	PartitionKey string
	ChunkID      string
	Operation    string
	Expected     string
	Actual       string
}

func (e *InternalChunkState) Error() string {
	return fmt.Sprintf(
		"internal chunk state error for partition %q chunk %s: %s: expected chunk to be in state %q but was %q",
		e.PartitionKey, e.ChunkID, e.Operation, e.Expected, e.Actual,
	)
}

// ColumnDoesNotExist is returned when a schema or selection references a
// column that is not present.
type ColumnDoesNotExist struct {
	Column string
	Table  string
}

func (e *ColumnDoesNotExist) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("column %q does not exist", e.Column)
	}
	return fmt.Sprintf("column %q does not exist in table %q", e.Column, e.Table)
}

// UnsupportedOperation is returned for operations that are not
// meaningful in context, e.g. column_values(All).
type UnsupportedOperation struct {
	Msg string
}

func (e *UnsupportedOperation) Error() string {
	return "unsupported operation: " + e.Msg
}

// PredicateInvalid is returned when a predicate literal's type is
// incompatible with a column's logical type.
type PredicateInvalid struct {
	Column string
	Reason string
}

func (e *PredicateInvalid) Error() string {
	return fmt.Sprintf("invalid predicate on column %q: %s", e.Column, e.Reason)
}

// FieldViolation is returned by the wire layer for malformed protocol
// messages.
type FieldViolation struct {
	Field       string
	Description string
}

func (e *FieldViolation) Error() string {
	return fmt.Sprintf("field violation on %q: %s", e.Field, e.Description)
}

// PersistenceIO marks an out-of-scope object-store I/O failure surfaced
// to a lifecycle driver. The chunk's state is restored by the caller
// before this error is returned.
type PersistenceIO struct {
	Cause error
}

func (e *PersistenceIO) Error() string {
	return "persistence I/O error: " + e.Cause.Error()
}

func (e *PersistenceIO) Unwrap() error { return e.Cause }
