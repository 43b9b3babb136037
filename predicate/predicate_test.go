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

package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chronoframe/tsdb/errs"
	"github.com/chronoframe/tsdb/schema"
)

func testSchema() *schema.Map {
	return schema.NewMap([]schema.Column{
		{Name: "env", LogicalType: schema.String, InfluxType: schema.Tag},
		{Name: "value", LogicalType: schema.Float64, InfluxType: schema.Field},
		{Name: "time", LogicalType: schema.Timestamp, InfluxType: schema.Time},
	})
}

func TestEmptyPredicateMatchesAll(t *testing.T) {
	assert.True(t, Predicate{}.IsEmpty())
}

func TestValidateTypeMismatch(t *testing.T) {
	p := New(Expr{Column: "value", Op: Eq, Literal: StringLiteral("nope")})
	err := p.Validate(testSchema())
	assert.Error(t, err)
	var pi *errs.PredicateInvalid
	assert.ErrorAs(t, err, &pi)
}

func TestValidateNumericCrossType(t *testing.T) {
	p := New(Expr{Column: "time", Op: Ge, Literal: IntLiteral(100)})
	assert.NoError(t, p.Validate(testSchema()))
}

func TestValidateUnknownColumn(t *testing.T) {
	p := New(Expr{Column: "nope", Op: Eq, Literal: StringLiteral("x")})
	err := p.Validate(testSchema())
	var cd *errs.ColumnDoesNotExist
	assert.ErrorAs(t, err, &cd)
}

func TestWithTimeRange(t *testing.T) {
	p := WithTimeRange([]Expr{{Column: "env", Op: Eq, Literal: StringLiteral("us-west")}}, 100, 205)
	assert.Equal(t, int64(100), p.TimeRange.Lo)
	assert.Equal(t, int64(205), p.TimeRange.Hi)
	assert.Len(t, p.Exprs, 1)
}

func TestValidateAllFailsFastOnNegated(t *testing.T) {
	good := New(Expr{Column: "env", Op: Eq, Literal: StringLiteral("us-west")})
	bad := New(Expr{Column: "value", Op: Eq, Literal: StringLiteral("bad")})
	err := ValidateAll(testSchema(), good, []Predicate{bad})
	assert.Error(t, err)
}
