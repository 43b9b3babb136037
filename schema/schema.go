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

// Package schema holds the logical-type and column-role vocabulary
// shared by the column, predicate, and row-group packages, so none of
// them need to import each other just to talk about a column's type.
package schema

// LogicalType is the type a column's values are interpreted as,
// independent of its physical encoding.
type LogicalType uint8

const (
	String LogicalType = iota
	Int64
	UInt64
	Float64
	Bool
	ByteArray
	Timestamp
)

func (t LogicalType) String() string {
	switch t {
	case String:
		return "string"
	case Int64:
		return "i64"
	case UInt64:
		return "u64"
	case Float64:
		return "f64"
	case Bool:
		return "bool"
	case ByteArray:
		return "byte_array"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether comparison operators treat t as a number
// line (int/uint/float/timestamp all compare numerically).
func (t LogicalType) IsNumeric() bool {
	switch t {
	case Int64, UInt64, Float64, Timestamp:
		return true
	default:
		return false
	}
}

// InfluxType is the role a column plays in a line-protocol table.
type InfluxType uint8

const (
	None InfluxType = iota
	Tag
	Field
	Time
)

func (t InfluxType) String() string {
	switch t {
	case Tag:
		return "tag"
	case Field:
		return "field"
	case Time:
		return "timestamp"
	default:
		return "none"
	}
}

// Column describes one column's schema: its logical type and its
// InfluxDB role.
type Column struct {
	Name        string
	LogicalType LogicalType
	InfluxType  InfluxType
}

// Lookup resolves a column's schema by name. Row groups, tables, and
// predicates all validate against something implementing Lookup.
type Lookup interface {
	Column(name string) (Column, bool)
}

// Map is a simple Lookup backed by a slice, preserving the schema's
// declared column order (used for ordered-union schema results).
type Map struct {
	order   []string
	columns map[string]Column
}

// NewMap builds a Map from columns, in the given order. Later entries
// with the same name overwrite earlier ones' type info but keep the
// first position in order.
func NewMap(columns []Column) *Map {
	m := &Map{columns: make(map[string]Column, len(columns))}
	for _, c := range columns {
		if _, ok := m.columns[c.Name]; !ok {
			m.order = append(m.order, c.Name)
		}
		m.columns[c.Name] = c
	}
	return m
}

func (m *Map) Column(name string) (Column, bool) {
	c, ok := m.columns[name]
	return c, ok
}

// Names returns the columns in declared order.
func (m *Map) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len reports how many distinct columns are in the map.
func (m *Map) Len() int { return len(m.order) }
