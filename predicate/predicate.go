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

// Package predicate models the binary-expression predicates pushed
// into row-group scans: a conjunction of (column, op, literal)
// expressions plus an optional time range, and the negated-predicate
// "delete" semantics layered on top at the row-group/chunk level.
package predicate

import (
	"fmt"

	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/schema"
)

// Op is a comparison operator usable in a predicate expression.
type Op uint8

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return "?"
	}
}

// Literal is the right-hand side of an expression: exactly one field
// is meaningful, selected by Type.
type Literal struct {
	Type  schema.LogicalType
	Str   string
	I64   int64
	U64   uint64
	F64   float64
	Bool  bool
	Bytes []byte
}

// StringLiteral, IntLiteral, etc. build Literal values for callers
// constructing predicates by hand (tests, the boundary HTTP/gRPC
// layers).
func StringLiteral(s string) Literal { return Literal{Type: schema.String, Str: s} }
func IntLiteral(v int64) Literal     { return Literal{Type: schema.Int64, I64: v} }
func UintLiteral(v uint64) Literal   { return Literal{Type: schema.UInt64, U64: v} }
func FloatLiteral(v float64) Literal { return Literal{Type: schema.Float64, F64: v} }
func BoolLiteral(v bool) Literal     { return Literal{Type: schema.Bool, Bool: v} }
func TimeLiteral(v int64) Literal    { return Literal{Type: schema.Timestamp, I64: v} }

// Expr is one binary comparison: column OP literal.
type Expr struct {
	Column  string
	Op      Op
	Literal Literal
}

func (e Expr) String() string {
	return fmt.Sprintf("%s %s %v", e.Column, e.Op, e.Literal.Str)
}

// TimeRange is the half-open range [Lo, Hi) added by WithTimeRange.
type TimeRange struct {
	Lo, Hi int64
}

// Predicate is a conjunction of Exprs plus an optional time range. The
// zero value matches every row.
type Predicate struct {
	Exprs     []Expr
	TimeRange *TimeRange
}

// New builds a Predicate from a set of expressions.
func New(exprs ...Expr) Predicate {
	return Predicate{Exprs: append([]Expr(nil), exprs...)}
}

// WithTimeRange returns a copy of exprs-as-Predicate with an added
// `time >= lo AND time < hi` constraint, per spec.
func WithTimeRange(exprs []Expr, lo, hi int64) Predicate {
	return Predicate{
		Exprs:     append([]Expr(nil), exprs...),
		TimeRange: &TimeRange{Lo: lo, Hi: hi},
	}
}

// IsEmpty reports whether the predicate has no constraints at all, in
// which case it matches every row.
func (p Predicate) IsEmpty() bool {
	return len(p.Exprs) == 0 && p.TimeRange == nil
}

// Validate checks every expression's column exists and its literal
// type against the schema's column types; TimeRange is not checked
// here. The first incompatible expression
// aborts validation (spec: "an invalid one fails the entire query").
func (p Predicate) Validate(lookup schema.Lookup) error {
	for _, e := range p.Exprs {
		col, ok := lookup.Column(e.Column)
		if !ok {
			return &errs.ColumnDoesNotExist{Column: e.Column}
		}
		if !typeCompatible(col.LogicalType, e.Literal.Type) {
			return &errs.PredicateInvalid{
				Column: e.Column,
				Reason: fmt.Sprintf("literal type %s is not comparable with column type %s", e.Literal.Type, col.LogicalType),
			}
		}
	}
	return nil
}

// typeCompatible reports whether a literal of litType may be compared
// against a column of colType. Numeric types (including timestamps)
// interoperate with each other; strings, bools, and byte arrays only
// match themselves.
func typeCompatible(colType, litType schema.LogicalType) bool {
	if colType == litType {
		return true
	}
	return colType.IsNumeric() && litType.IsNumeric()
}

// ValidateAll validates predicate and every negated predicate, in
// order, failing fast on the first error — independent validation per
// spec §4.7.
func ValidateAll(lookup schema.Lookup, p Predicate, negated []Predicate) error {
	if err := p.Validate(lookup); err != nil {
		return err
	}
	for _, n := range negated {
		if err := n.Validate(lookup); err != nil {
			return err
		}
	}
	return nil
}
