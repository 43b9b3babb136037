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

package rowgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronoframe/tsdb/column"
	"github.com/chronoframe/tsdb/predicate"
	"github.com/chronoframe/tsdb/schema"
)

func strp(s string) *string { return &s }

func testRowGroup(t *testing.T) *RowGroup {
	t.Helper()
	timeCol := column.NewI64N([]int64{1, 2, 3, 4, 5, 6}, []bool{true, true, true, true, true, true}, schema.Timestamp)
	regionCol := column.NewDictionary([]*string{strp("west"), strp("west"), strp("east"), strp("west"), strp("south"), strp("north")})
	tempCol := column.NewF64N([]float64{10, 20, 30, 40, 50, 60}, []bool{true, true, true, true, true, true})

	rg, err := New(Batch{
		Rows: 6,
		Columns: []NamedColumn{
			{Schema: schema.Column{Name: "time", LogicalType: schema.Timestamp, InfluxType: schema.Time}, Data: timeCol},
			{Schema: schema.Column{Name: "region", LogicalType: schema.String, InfluxType: schema.Tag}, Data: regionCol},
			{Schema: schema.Column{Name: "temp", LogicalType: schema.Float64, InfluxType: schema.Field}, Data: tempCol},
		},
	})
	require.NoError(t, err)
	return rg
}

func TestSatisfiesPredicateEmptyMatchesAll(t *testing.T) {
	rg := testRowGroup(t)
	assert.True(t, rg.SatisfiesPredicate(predicate.New()))
}

func TestSatisfiesPredicateAtLeastOneMatch(t *testing.T) {
	rg := testRowGroup(t)
	p := predicate.New(predicate.Expr{Column: "region", Op: predicate.Ge, Literal: predicate.StringLiteral("west")})
	assert.True(t, rg.SatisfiesPredicate(p))
}

func TestSatisfiesPredicateNoMatch(t *testing.T) {
	rg := testRowGroup(t)
	p := predicate.New(predicate.Expr{Column: "region", Op: predicate.Gt, Literal: predicate.StringLiteral("west")})
	assert.False(t, rg.SatisfiesPredicate(p))
}

func TestSatisfiesPredicateInvalidNeverSatisfies(t *testing.T) {
	rg := testRowGroup(t)
	p := predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.FloatLiteral(33.2)})
	assert.False(t, rg.SatisfiesPredicate(p))
}

func TestCouldPassPredicate(t *testing.T) {
	rg := testRowGroup(t)
	p := predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.StringLiteral("east")})
	assert.True(t, rg.CouldPassPredicate(p))

	p2 := predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.StringLiteral("zzz")})
	assert.False(t, rg.CouldPassPredicate(p2))
}

func TestReadFilterWithNegated(t *testing.T) {
	rg := testRowGroup(t)
	pred := predicate.New()
	negated := []predicate.Predicate{
		predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.StringLiteral("west")}),
	}
	result, err := rg.ReadFilter([]string{"region"}, pred, negated)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Rows) // east, south, north
}

func TestReadFilterEmptyResult(t *testing.T) {
	rg := testRowGroup(t)
	pred := predicate.New(predicate.Expr{Column: "region", Op: predicate.Eq, Literal: predicate.StringLiteral("nowhere")})
	result, err := rg.ReadFilter(nil, pred, nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestColumnNamesSkipsAccumulated(t *testing.T) {
	rg := testRowGroup(t)
	acc := map[string]struct{}{"region": {}}
	out, err := rg.ColumnNames(predicate.New(), nil, nil, acc)
	require.NoError(t, err)
	_, hasRegion := out["region"]
	_, hasTemp := out["temp"]
	assert.True(t, hasRegion)
	assert.True(t, hasTemp)
}

func TestColumnValuesDistinctTags(t *testing.T) {
	rg := testRowGroup(t)
	out, err := rg.ColumnValues(predicate.New(), []string{"region"}, nil)
	require.NoError(t, err)
	assert.Len(t, out["region"], 4) // west, east, south, north
}

func TestReadAggregateGroupBySum(t *testing.T) {
	rg := testRowGroup(t)
	results, err := rg.ReadAggregate(predicate.New(), []string{"region"}, []Aggregate{
		{Column: "temp", Func: AggSum},
		{Column: "temp", Func: AggCount},
	})
	require.NoError(t, err)
	assert.Len(t, results, 4)

	totals := map[string]float64{}
	for _, r := range results {
		totals[r.Group[0]] = r.Values[0]
	}
	assert.Equal(t, 70.0, totals["west"]) // rows 0,1,3 => 10+20+40
}

func TestReadAggregateRejectsNonTagGrouping(t *testing.T) {
	rg := testRowGroup(t)
	_, err := rg.ReadAggregate(predicate.New(), []string{"temp"}, []Aggregate{{Column: "temp", Func: AggSum}})
	assert.Error(t, err)
}
