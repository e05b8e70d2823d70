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

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/stats"
)

// JoinKind identifies which strategy (spec.md §4.13) a Join performs:
// a cross join, or one of the four equality joins (inner, left,
// right, full). Cross carries no keys.
type JoinKind int

const (
	JoinCross JoinKind = iota
	JoinInner
	JoinLeft
	JoinRight
	JoinFull
)

// JoinKey is one equality condition. LeftName == RightName models a
// `USING (col)` join, which coalesces to a single output column;
// differing names model `ON left.a = right.b`, which keeps both
// columns (subject to the usual collision-prefixing rule).
type JoinKey struct {
	LeftName  string
	RightName string
}

// Join implements cross, inner, and left/right/full outer equality
// joins over two materialized producer streams.
type Join struct {
	base
	kind        JoinKind
	keys        []JoinKey
	leftAlias   string
	rightAlias  string
	eval        evalcontract.Evaluator
}

func NewJoin(kind JoinKind, keys []JoinKey, leftAlias, rightAlias string, eval evalcontract.Evaluator) *Join {
	return &Join{base: newBase("Join", 2), kind: kind, keys: keys, leftAlias: leftAlias, rightAlias: rightAlias, eval: eval}
}

func (j *Join) Config() string {
	return fmt.Sprintf("kind=%d keys=%d", j.kind, len(j.keys))
}

func (j *Join) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	leftBatches, err := pullAll(ctx, j.producers[0], st)
	if err != nil {
		return nil, err
	}
	rightBatches, err := pullAll(ctx, j.producers[1], st)
	if err != nil {
		return nil, err
	}
	left, err := batchvec.Concat(leftBatches...)
	if err != nil {
		return nil, fmt.Errorf("plan: concatenating join left side: %w", err)
	}
	right, err := batchvec.Concat(rightBatches...)
	if err != nil {
		return nil, fmt.Errorf("plan: concatenating join right side: %w", err)
	}

	var leftIdx, rightIdx []int
	switch j.kind {
	case JoinCross:
		leftIdx, rightIdx = crossIndices(left.RowCount(), right.RowCount())
	default:
		leftIdx, rightIdx, err = j.equiJoinIndices(left, right)
		if err != nil {
			return nil, err
		}
	}

	out, err := mergeJoined(left, right, leftIdx, rightIdx, j.keys, j.leftAlias, j.rightAlias)
	if err != nil {
		return nil, err
	}

	done := false
	return func() (*batchvec.Batch, error) {
		if done {
			return nil, nil
		}
		done = true
		return out, nil
	}, nil
}

func crossIndices(leftRows, rightRows int) (leftIdx, rightIdx []int) {
	leftIdx = make([]int, 0, leftRows*rightRows)
	rightIdx = make([]int, 0, leftRows*rightRows)
	for l := 0; l < leftRows; l++ {
		for r := 0; r < rightRows; r++ {
			leftIdx = append(leftIdx, l)
			rightIdx = append(rightIdx, r)
		}
	}
	return leftIdx, rightIdx
}

// equiJoinIndices builds a hash table on the smaller side and probes
// with the other, then appends the unmatched rows of the preserved
// side(s) per j.kind, with a sentinel index of -1 denoting "no row on
// this side" (padded with zero values by mergeJoined).
func (j *Join) equiJoinIndices(left, right *batchvec.Batch) (leftIdx, rightIdx []int, err error) {
	leftKeys, err := j.eval.RenderKeys(keyExprs(j.keys, true), left)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: rendering left join keys: %w", err)
	}
	rightKeys, err := j.eval.RenderKeys(keyExprs(j.keys, false), right)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: rendering right join keys: %w", err)
	}

	buildOnRight := right.RowCount() <= left.RowCount()
	leftMatched := make([]bool, left.RowCount())
	rightMatched := make([]bool, right.RowCount())

	if buildOnRight {
		table := indexByKey(rightKeys)
		for l := 0; l < left.RowCount(); l++ {
			for _, r := range table[string(leftKeys[l])] {
				leftIdx = append(leftIdx, l)
				rightIdx = append(rightIdx, r)
				leftMatched[l] = true
				rightMatched[r] = true
			}
		}
	} else {
		table := indexByKey(leftKeys)
		for r := 0; r < right.RowCount(); r++ {
			for _, l := range table[string(rightKeys[r])] {
				leftIdx = append(leftIdx, l)
				rightIdx = append(rightIdx, r)
				leftMatched[l] = true
				rightMatched[r] = true
			}
		}
	}

	if j.kind == JoinLeft || j.kind == JoinFull {
		for l := 0; l < left.RowCount(); l++ {
			if !leftMatched[l] {
				leftIdx = append(leftIdx, l)
				rightIdx = append(rightIdx, -1)
			}
		}
	}
	if j.kind == JoinRight || j.kind == JoinFull {
		for r := 0; r < right.RowCount(); r++ {
			if !rightMatched[r] {
				leftIdx = append(leftIdx, -1)
				rightIdx = append(rightIdx, r)
			}
		}
	}
	return leftIdx, rightIdx, nil
}

func indexByKey(keys [][]byte) map[string][]int {
	table := make(map[string][]int, len(keys))
	for i, k := range keys {
		sk := string(k)
		table[sk] = append(table[sk], i)
	}
	return table
}

func keyExprs(keys []JoinKey, left bool) []evalcontract.Expr {
	names := make([]string, len(keys))
	for i, k := range keys {
		if left {
			names[i] = k.LeftName
		} else {
			names[i] = k.RightName
		}
	}
	return identityExprs(names)
}

// mergeJoined builds the joined output batch: leftIdx[i]/rightIdx[i]
// name the source row on each side for output row i, with -1 meaning
// "no row" (outer-join padding, filled with each column's zero
// value — this engine has no null bitmap, see DESIGN.md). USING keys
// coalesce to one output column; every other name collision is
// resolved by prefixing with the owning table alias.
func mergeJoined(left, right *batchvec.Batch, leftIdx, rightIdx []int, keys []JoinKey, leftAlias, rightAlias string) (*batchvec.Batch, error) {
	using := map[string]bool{}
	for _, k := range keys {
		if k.LeftName == k.RightName {
			using[k.LeftName] = true
		}
	}

	rightNames := map[string]bool{}
	for _, c := range right.Columns() {
		rightNames[c.Meta.Name] = true
	}
	leftNames := map[string]bool{}
	for _, c := range left.Columns() {
		leftNames[c.Meta.Name] = true
	}

	var cols []batchvec.Column
	for _, c := range left.Columns() {
		padded := padColumn(c, leftIdx)
		if using[c.Meta.Name] {
			// Coalesce with the right side's copy of the same key.
			if rc, ok := right.Column(c.Meta.Name); ok {
				padded = coalesceColumns(padded, padColumn(rc, rightIdx))
			}
			cols = append(cols, padded.Rename(c.Meta.Name))
			continue
		}
		if rightNames[c.Meta.Name] {
			padded = padded.Rename(leftAlias + "." + c.Meta.Name).WithTable(leftAlias)
		}
		cols = append(cols, padded)
	}
	for _, c := range right.Columns() {
		if using[c.Meta.Name] {
			continue // already emitted from the left side, coalesced
		}
		padded := padColumn(c, rightIdx)
		if leftNames[c.Meta.Name] {
			padded = padded.Rename(rightAlias + "." + c.Meta.Name).WithTable(rightAlias)
		}
		cols = append(cols, padded)
	}
	return batchvec.New(cols)
}

// padColumn reindexes col by idx, substituting the column's zero
// value wherever idx[i] == -1.
func padColumn(col batchvec.Column, idx []int) batchvec.Column {
	switch v := col.Data.(type) {
	case batchvec.StringVector:
		out := make(batchvec.StringVector, len(idx))
		for i, k := range idx {
			if k >= 0 {
				out[i] = v[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: out}
	case batchvec.Int64Vector:
		out := make(batchvec.Int64Vector, len(idx))
		for i, k := range idx {
			if k >= 0 {
				out[i] = v[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: out}
	case batchvec.Float64Vector:
		out := make(batchvec.Float64Vector, len(idx))
		for i, k := range idx {
			if k >= 0 {
				out[i] = v[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: out}
	case batchvec.BoolVector:
		out := make(batchvec.BoolVector, len(idx))
		for i, k := range idx {
			if k >= 0 {
				out[i] = v[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: out}
	case batchvec.TimestampVector:
		out := make([]int64, len(idx))
		for i, k := range idx {
			if k >= 0 {
				out[i] = v.Values[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: batchvec.NewTimestamp(out, batchvec.KindTimestampUS)}
	case batchvec.ListVector:
		out := make([][]any, len(idx))
		for i, k := range idx {
			if k >= 0 {
				out[i] = v.Rows[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: batchvec.ListVector{Rows: out, ElemKind: v.ElemKind}}
	default:
		sv, _ := col.Data.(batchvec.StructVector)
		out := make(batchvec.StructVector, len(idx))
		for i, k := range idx {
			if k >= 0 && k < len(sv) {
				out[i] = sv[k]
			}
		}
		return batchvec.Column{Meta: col.Meta, Data: out}
	}
}

// coalesceColumns returns a's value at each row unless it is the zero
// value, in which case b's value is used instead -- the USING-join
// merge rule for a row that only matched on one side.
func coalesceColumns(a, b batchvec.Column) batchvec.Column {
	switch av := a.Data.(type) {
	case batchvec.Int64Vector:
		bv := b.Data.(batchvec.Int64Vector)
		out := make(batchvec.Int64Vector, len(av))
		for i := range av {
			if av[i] != 0 {
				out[i] = av[i]
			} else {
				out[i] = bv[i]
			}
		}
		return batchvec.Column{Meta: a.Meta, Data: out}
	case batchvec.StringVector:
		bv := b.Data.(batchvec.StringVector)
		out := make(batchvec.StringVector, len(av))
		for i := range av {
			if av[i] != "" {
				out[i] = av[i]
			} else {
				out[i] = bv[i]
			}
		}
		return batchvec.Column{Meta: a.Meta, Data: out}
	default:
		return a
	}
}

// UnnestJoin implements the correlated cross join used by `CROSS JOIN
// UNNEST(col)` (spec.md §4.13): for every left row, the list column
// named ListColumn is exploded into one output row per element,
// combined with that row's other columns.
type UnnestJoin struct {
	base
	listColumn string
	outputName string
}

func NewUnnestJoin(listColumn, outputName string) *UnnestJoin {
	return &UnnestJoin{base: newBase("UnnestJoin", 1), listColumn: listColumn, outputName: outputName}
}

func (u *UnnestJoin) Config() string {
	return fmt.Sprintf("unnest=%s as %s", u.listColumn, u.outputName)
}

func (u *UnnestJoin) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	in, err := u.producers[0].Execute(ctx, st)
	if err != nil {
		return nil, err
	}

	return func() (*batchvec.Batch, error) {
		b, err := in()
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, nil
		}
		listCol, ok := b.Column(u.listColumn)
		if !ok {
			return nil, fmt.Errorf("plan: unnest column %q not found", u.listColumn)
		}
		lv, ok := listCol.Data.(batchvec.ListVector)
		if !ok {
			return nil, fmt.Errorf("plan: unnest column %q is not a list", u.listColumn)
		}

		var sourceIdx []int
		var elems []any
		for i, row := range lv.Rows {
			for _, e := range row {
				sourceIdx = append(sourceIdx, i)
				elems = append(elems, e)
			}
		}

		picked := b.Take(sourceIdx)
		exploded := columnFromValues(u.outputName, elems)
		return picked.WithColumn(exploded), nil
	}, nil
}
