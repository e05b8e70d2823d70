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

// Distinct hashes each row's rendered value vector and emits only the
// first occurrence of each distinct key (spec.md §4.12).
type Distinct struct {
	base
	keys []evalcontract.Expr // nil means "every output column"
	eval evalcontract.Evaluator
}

func NewDistinct(keys []evalcontract.Expr, eval evalcontract.Evaluator) *Distinct {
	return &Distinct{base: newBase("Distinct", 1), keys: keys, eval: eval}
}

func (d *Distinct) Config() string { return "distinct" }

func (d *Distinct) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	in, err := d.producers[0].Execute(ctx, st)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	return func() (*batchvec.Batch, error) {
		for {
			b, err := in()
			if err != nil {
				return nil, err
			}
			if b == nil {
				return nil, nil
			}

			keyExprs := d.keys
			if keyExprs == nil {
				keyExprs = identityExprs(b.Names())
			}
			keys, err := d.eval.RenderKeys(keyExprs, b)
			if err != nil {
				return nil, fmt.Errorf("plan: rendering distinct keys: %w", err)
			}

			var indices []int
			for i, k := range keys {
				sk := string(k)
				if seen[sk] {
					continue
				}
				seen[sk] = true
				indices = append(indices, i)
			}
			if len(indices) == 0 {
				continue
			}
			return b.Take(indices), nil
		}
	}, nil
}

// identityExprs builds one column-reference expression per name, used
// when the caller has not supplied distinct/group-key/join-key
// expressions and the named columns should be used as-is.
func identityExprs(names []string) []evalcontract.Expr {
	out := make([]evalcontract.Expr, len(names))
	for i, n := range names {
		out[i] = evalcontract.ColumnRef{Name: n}
	}
	return out
}

// Limit passes through at most N rows total, cutting the final batch
// mid-stream (spec.md §4.12).
type Limit struct {
	base
	n         int64
	remaining int64
}

func NewLimit(n int64) *Limit {
	return &Limit{base: newBase("Limit", 1), n: n, remaining: n}
}

func (l *Limit) Config() string { return fmt.Sprintf("limit=%d", l.n) }

func (l *Limit) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	in, err := l.producers[0].Execute(ctx, st)
	if err != nil {
		return nil, err
	}
	remaining := l.n

	return func() (*batchvec.Batch, error) {
		if remaining <= 0 {
			return nil, nil
		}
		b, err := in()
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, nil
		}
		if int64(b.RowCount()) <= remaining {
			remaining -= int64(b.RowCount())
			return b, nil
		}
		indices := make([]int, remaining)
		for i := range indices {
			indices[i] = i
		}
		remaining = 0
		return b.Take(indices), nil
	}, nil
}

// Offset discards the first K rows, then streams the rest
// (spec.md §4.12).
type Offset struct {
	base
	k int64
}

func NewOffset(k int64) *Offset {
	return &Offset{base: newBase("Offset", 1), k: k}
}

func (o *Offset) Config() string { return fmt.Sprintf("offset=%d", o.k) }

func (o *Offset) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	in, err := o.producers[0].Execute(ctx, st)
	if err != nil {
		return nil, err
	}
	toSkip := o.k

	return func() (*batchvec.Batch, error) {
		for {
			b, err := in()
			if err != nil {
				return nil, err
			}
			if b == nil {
				return nil, nil
			}
			if toSkip == 0 {
				return b, nil
			}
			if int64(b.RowCount()) <= toSkip {
				toSkip -= int64(b.RowCount())
				continue
			}
			indices := make([]int, 0, int64(b.RowCount())-toSkip)
			for i := int(toSkip); i < b.RowCount(); i++ {
				indices = append(indices, i)
			}
			toSkip = 0
			return b.Take(indices), nil
		}
	}, nil
}
