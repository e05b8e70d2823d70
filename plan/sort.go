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
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/stats"
)

// SortKey is one ORDER BY term: an expression plus direction.
// Random, when set, overrides Expr and sorts by a fresh random key
// per row (ORDER BY RANDOM()).
type SortKey struct {
	Expr   evalcontract.Expr
	Desc   bool
	Random bool
}

// Sort is the sort operator (spec.md §4.11): materializes every
// producer batch, concatenates them, computes a stable permutation
// from the key expressions, and emits the result as a single batch.
type Sort struct {
	base
	keys []SortKey
	eval evalcontract.Evaluator
}

func NewSort(keys []SortKey, eval evalcontract.Evaluator) *Sort {
	return &Sort{base: newBase("Sort", 1), keys: keys, eval: eval}
}

func (s *Sort) Config() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		if k.Random {
			parts[i] = "random()"
			continue
		}
		parts[i] = fmt.Sprintf("%s %s", k.Expr.String(), dir)
	}
	return fmt.Sprintf("keys=[%s]", strings.Join(parts, ", "))
}

func (s *Sort) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	batches, err := pullAll(ctx, s.producers[0], st)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	whole, err := batchvec.Concat(batches...)
	if err != nil {
		return nil, fmt.Errorf("plan: concatenating sort input: %w", err)
	}

	perm, err := s.permutation(whole)
	if err != nil {
		return nil, err
	}
	sorted := whole.Take(perm)
	st.AddTimeOrderingNS(int64(time.Since(start)))

	done := false
	return func() (*batchvec.Batch, error) {
		if done {
			return nil, nil
		}
		done = true
		return sorted, nil
	}, nil
}

// permutation computes the row order satisfying s.keys, stable for
// equal keys.
func (s *Sort) permutation(b *batchvec.Batch) ([]int, error) {
	n := b.RowCount()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	type keyed struct {
		expr evalcontract.Expr
		desc bool
		vals [][]byte
	}
	var keyed_ []keyed
	for _, k := range s.keys {
		if k.Random {
			continue
		}
		vals, err := s.eval.RenderKeys([]evalcontract.Expr{k.Expr}, b)
		if err != nil {
			return nil, fmt.Errorf("plan: rendering sort keys: %w", err)
		}
		keyed_ = append(keyed_, keyed{expr: k.Expr, desc: k.Desc, vals: vals})
	}

	hasRandom := false
	for _, k := range s.keys {
		if k.Random {
			hasRandom = true
		}
	}
	var randomKeys []float64
	if hasRandom {
		randomKeys = make([]float64, n)
		for i := range randomKeys {
			randomKeys[i] = rand.Float64()
		}
	}

	sort.SliceStable(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		for _, k := range keyed_ {
			cmp := bytes.Compare(k.vals[a], k.vals[b])
			if cmp == 0 {
				continue
			}
			if k.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		if hasRandom {
			return randomKeys[a] < randomKeys[b]
		}
		return false
	})
	return perm, nil
}
