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

// Package config loads the engine's tunables from a TOML file, with
// defaults for every field so a missing or partial file is never an
// error.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chronoframe/tsdb/bitset"
	"github.com/chronoframe/tsdb/catalog"
)

// Engine holds the knobs that shape how the storage engine picks
// internal representations and bounds its own concurrency. There is no
// dictionary-cardinality tunable here: nothing in this tree chooses an
// encoding at ingest time (that decision belongs to whatever builds a
// rowgroup.RowGroup from incoming batches, out of scope here), so a
// threshold with no consumer is left out rather than added for show.
type Engine struct {
	// BitmapRunThreshold is the divisor bitset.RunThreshold uses when
	// deciding whether a filter result is cheaper to keep as a run-list
	// than as a roaring bitmap. Higher values favor run-lists less
	// often.
	BitmapRunThreshold uint32 `toml:"bitmap_run_threshold"`

	// ScanConcurrency caps how many partitions catalog.FilteredChunks
	// scans at once. Zero means unlimited.
	ScanConcurrency int `toml:"scan_concurrency"`
}

// Defaults returns the engine configuration used when no file or
// override is present.
func Defaults() Engine {
	return Engine{
		BitmapRunThreshold: bitset.RunThreshold,
		ScanConcurrency:    0,
	}
}

// Load reads path as TOML over top of Defaults, so an absent field
// keeps its default rather than zeroing out. A missing file is not an
// error: Defaults alone is returned.
func Load(path string) (Engine, error) {
	e := Defaults()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return e, nil
	}
	if _, err := toml.DecodeFile(path, &e); err != nil {
		return Engine{}, err
	}
	return e, nil
}

// Apply wires e into the package-level and per-catalog state it
// tunes. Call once during startup, after Load, before the catalog
// starts taking writes.
func Apply(e Engine, cat *catalog.Catalog) {
	if e.BitmapRunThreshold > 0 {
		bitset.RunThreshold = e.BitmapRunThreshold
	}
	if cat != nil {
		cat.SetScanConcurrency(e.ScanConcurrency)
	}
}
