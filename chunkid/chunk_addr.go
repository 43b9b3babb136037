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

import "fmt"

// Addr is the catalog coordinate of a chunk. Go strings are already
// cheap to copy (a header referencing shared backing bytes), so Addr
// gets the teacher's "shared immutable string" discipline for free
// without needing an Arc-style wrapper type.
type Addr struct {
	DBName       string
	TableName    string
	PartitionKey string
	ChunkID      ID
}

// String renders the address the way the original implementation's
// Display impl does, useful for log lines.
func (a Addr) String() string {
	return fmt.Sprintf("Chunk(%q:%q:%q:%s)", a.DBName, a.TableName, a.PartitionKey, a.ChunkID)
}

// Compare gives the total lexicographic order over Addr required by
// spec: db, then table, then partition, then chunk id.
func (a Addr) Compare(other Addr) int {
	if c := compareStrings(a.DBName, other.DBName); c != 0 {
		return c
	}
	if c := compareStrings(a.TableName, other.TableName); c != 0 {
		return c
	}
	if c := compareStrings(a.PartitionKey, other.PartitionKey); c != 0 {
		return c
	}
	return a.ChunkID.Compare(other.ChunkID)
}

// Less reports whether a sorts before other under Compare.
func (a Addr) Less(other Addr) bool { return a.Compare(other) < 0 }

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
