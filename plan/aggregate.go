// Copyright (C) 2026 Sandstone Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package plan

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/exp/maps"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/stats"
)

// AggFunc enumerates the aggregation functions supported by Aggregate
// (spec.md §4.10).
type AggFunc int

const (
	AggCount AggFunc = iota
	AggCountDistinct
	AggSum
	AggMin
	AggMax
	AggMean
	AggStddev
	AggVariance
	AggProduct
	AggApproxMedian
	AggList
	AggOne
)

// Aggregation is one SELECT-list aggregate expression: a function
// plus the argument it folds over (nil for COUNT(*)) and its output
// name.
type Aggregation struct {
	Func AggFunc
	Arg  evalcontract.Expr
	Name string
}

// Aggregate is the grouped-aggregation operator. One producer, a set
// of group-key expressions (empty means "no GROUP BY"), and a set of
// Aggregations.
type Aggregate struct {
	base
	groupKeys []evalcontract.Expr
	aggs      []Aggregation
	eval      evalcontract.Evaluator
}

func NewAggregate(groupKeys []evalcontract.Expr, aggs []Aggregation, eval evalcontract.Evaluator) *Aggregate {
	return &Aggregate{base: newBase("Aggregate", 1), groupKeys: groupKeys, aggs: aggs, eval: eval}
}

func (a *Aggregate) Config() string {
	return fmt.Sprintf("groups=%d aggs=%d", len(a.groupKeys), len(a.aggs))
}

// groupState accumulates one group's output row: the rendered group
// key values plus one accumulator per aggregation.
type groupState struct {
	keyValues []any
	accs      []*accumulator
}

type accumulator struct {
	fn      AggFunc
	count   int64
	sum     float64
	sumSq   float64
	product float64
	min     any
	max     any
	one     any
	list    []any
	samples []float64
	distinct map[string]bool
}

func newAccumulator(fn AggFunc) *accumulator {
	return &accumulator{fn: fn, product: 1, distinct: map[string]bool{}}
}

func (acc *accumulator) add(v any) {
	acc.count++
	if f, ok := asNumeric(v); ok {
		acc.sum += f
		acc.sumSq += f * f
		acc.product *= f
		acc.samples = append(acc.samples, f)
		if acc.min == nil || f < mustFloat(acc.min) {
			acc.min = f
		}
		if acc.max == nil || f > mustFloat(acc.max) {
			acc.max = f
		}
	} else {
		s := fmt.Sprint(v)
		if acc.min == nil || s < fmt.Sprint(acc.min) {
			acc.min = v
		}
		if acc.max == nil || s > fmt.Sprint(acc.max) {
			acc.max = v
		}
	}
	if acc.one == nil {
		acc.one = v
	}
	acc.list = append(acc.list, v)
	acc.distinct[fmt.Sprint(v)] = true
}

func mustFloat(v any) float64 {
	f, _ := asNumeric(v)
	return f
}

func (acc *accumulator) result() any {
	switch acc.fn {
	case AggCount:
		return acc.count
	case AggCountDistinct:
		return int64(len(acc.distinct))
	case AggSum:
		return acc.sum
	case AggMin:
		return acc.min
	case AggMax:
		return acc.max
	case AggMean:
		if acc.count == 0 {
			return 0.0
		}
		return acc.sum / float64(acc.count)
	case AggStddev:
		return math.Sqrt(acc.variance())
	case AggVariance:
		return acc.variance()
	case AggProduct:
		if acc.count == 0 {
			return 0.0
		}
		return acc.product
	case AggApproxMedian:
		return approxMedian(acc.samples)
	case AggList:
		return acc.list
	case AggOne:
		return acc.one
	default:
		return nil
	}
}

func (acc *accumulator) variance() float64 {
	if acc.count == 0 {
		return 0.0
	}
	mean := acc.sum / float64(acc.count)
	return acc.sumSq/float64(acc.count) - mean*mean
}

func approxMedian(samples []float64) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func (a *Aggregate) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	batches, err := pullAll(ctx, a.producers[0], st)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	groups := map[string]*groupState{}

	for _, b := range batches {
		if b.RowCount() == 0 {
			continue
		}

		var groupCols []batchvec.Column
		for _, k := range a.groupKeys {
			res, err := a.eval.Evaluate(k, b)
			if err != nil {
				return nil, fmt.Errorf("plan: evaluating group key: %w", err)
			}
			groupCols = append(groupCols, res.Column)
		}

		var keys [][]byte
		if len(a.groupKeys) > 0 {
			keys, err = a.eval.RenderKeys(a.groupKeys, b)
			if err != nil {
				return nil, fmt.Errorf("plan: rendering group keys: %w", err)
			}
		} else {
			keys = make([][]byte, b.RowCount())
		}

		argCols := make([]batchvec.Column, len(a.aggs))
		argPresent := make([]bool, len(a.aggs))
		for i, agg := range a.aggs {
			if agg.Arg == nil {
				continue
			}
			res, err := a.eval.Evaluate(agg.Arg, b)
			if err != nil {
				return nil, fmt.Errorf("plan: evaluating aggregate argument %q: %w", agg.Name, err)
			}
			argCols[i] = res.Column
			argPresent[i] = true
		}

		for row := 0; row < b.RowCount(); row++ {
			key := string(keys[row])
			g, ok := groups[key]
			if !ok {
				g = &groupState{accs: make([]*accumulator, len(a.aggs))}
				for i, agg := range a.aggs {
					g.accs[i] = newAccumulator(agg.Func)
				}
				for _, c := range groupCols {
					g.keyValues = append(g.keyValues, valueAt(c, row))
				}
				groups[key] = g
			}
			for i := range a.aggs {
				if argPresent[i] {
					g.accs[i].add(valueAt(argCols[i], row))
				} else {
					g.accs[i].add(int64(1))
				}
			}
		}
	}

	var out *batchvec.Batch
	if len(groups) == 0 && len(a.groupKeys) == 0 {
		// No GROUP BY, empty input: exactly one row, COUNT(*) = 0.
		out, err = a.buildBatch([]groupState{emptyGroup(a.aggs)})
	} else {
		// Sort the hash-group keys for deterministic output order;
		// map iteration order is otherwise unspecified.
		keys := maps.Keys(groups)
		sort.Strings(keys)
		states := make([]groupState, len(keys))
		for i, k := range keys {
			states[i] = *groups[k]
		}
		out, err = a.buildBatch(states)
	}
	if err != nil {
		return nil, err
	}
	st.AddTimeAggregatingNS(int64(time.Since(start)))

	done := false
	return func() (*batchvec.Batch, error) {
		if done {
			return nil, nil
		}
		done = true
		return out, nil
	}, nil
}

func emptyGroup(aggs []Aggregation) groupState {
	g := groupState{accs: make([]*accumulator, len(aggs))}
	for i, agg := range aggs {
		g.accs[i] = newAccumulator(agg.Func)
	}
	return g
}

// buildBatch materializes one output row per group, in the order of
// states (Execute passes them sorted by group key).
func (a *Aggregate) buildBatch(states []groupState) (*batchvec.Batch, error) {
	groupNames := groupKeyNames(a.groupKeys)
	var cols []batchvec.Column

	for gi := range groupNames {
		values := make([]any, len(states))
		for si, s := range states {
			values[si] = s.keyValues[gi]
		}
		cols = append(cols, columnFromValues(groupNames[gi], values))
	}
	for ai, agg := range a.aggs {
		values := make([]any, len(states))
		for si, s := range states {
			values[si] = s.accs[ai].result()
		}
		cols = append(cols, columnFromValues(agg.Name, values))
	}
	return batchvec.New(cols)
}

func groupKeyNames(keys []evalcontract.Expr) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// valueAt extracts the scalar value of col at row i as an `any`.
func valueAt(col batchvec.Column, i int) any {
	switch v := col.Data.(type) {
	case batchvec.StringVector:
		return v[i]
	case batchvec.Int64Vector:
		return v[i]
	case batchvec.Float64Vector:
		return v[i]
	case batchvec.BoolVector:
		return v[i]
	case batchvec.TimestampVector:
		return v.Values[i]
	case batchvec.ListVector:
		return v.Rows[i]
	case batchvec.StructVector:
		return v[i]
	default:
		return nil
	}
}

// columnFromValues infers the narrowest batchvec vector kind that
// fits every value and builds a Column from it. Aggregate output
// columns are small (one row per group), so a type switch per value
// is cheap relative to the grouping pass above.
func columnFromValues(name string, values []any) batchvec.Column {
	allInt, allFloat, allBool, allString := true, true, true, true
	for _, v := range values {
		switch v.(type) {
		case int64:
		default:
			allInt = false
		}
		if _, ok := asNumeric(v); !ok {
			allFloat = false
		}
		if _, ok := v.(bool); !ok {
			allBool = false
		}
		if _, ok := v.(string); !ok {
			allString = false
		}
	}

	switch {
	case allInt:
		out := make(batchvec.Int64Vector, len(values))
		for i, v := range values {
			out[i], _ = v.(int64)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: out}
	case allFloat:
		out := make(batchvec.Float64Vector, len(values))
		for i, v := range values {
			out[i], _ = asNumeric(v)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: out}
	case allBool:
		out := make(batchvec.BoolVector, len(values))
		for i, v := range values {
			out[i], _ = v.(bool)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: out}
	case allString:
		out := make(batchvec.StringVector, len(values))
		for i, v := range values {
			out[i] = fmt.Sprint(v)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: out}
	default:
		rows := make([][]any, len(values))
		for i, v := range values {
			if list, ok := v.([]any); ok {
				rows[i] = list
			} else {
				rows[i] = []any{v}
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: batchvec.ListVector{Rows: rows, ElemKind: batchvec.KindString}}
	}
}
