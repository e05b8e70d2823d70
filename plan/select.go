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
	"time"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/stats"
)

// Selection is the filter operator (spec.md §4.8): one producer, a
// predicate expression, and an Evaluator. A nil predicate passes
// every row through unchanged.
type Selection struct {
	base
	predicate evalcontract.Expr
	eval      evalcontract.Evaluator
}

func NewSelection(predicate evalcontract.Expr, eval evalcontract.Evaluator) *Selection {
	return &Selection{base: newBase("Selection", 1), predicate: predicate, eval: eval}
}

func (s *Selection) Config() string {
	if s.predicate == nil {
		return "predicate=<none>"
	}
	return fmt.Sprintf("predicate=%s", s.predicate.String())
}

func (s *Selection) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	in, err := s.producers[0].Execute(ctx, st)
	if err != nil {
		return nil, err
	}

	return func() (*batchvec.Batch, error) {
		for {
			b, err := in()
			if err != nil {
				return nil, err
			}
			if b == nil {
				return nil, nil
			}
			if s.predicate == nil {
				return b, nil
			}

			start := time.Now()
			result, err := s.eval.Evaluate(s.predicate, b)
			if err != nil {
				return nil, fmt.Errorf("plan: evaluating selection predicate: %w", err)
			}
			indices := maskToIndices(result.Mask)
			st.AddTimeSelectingNS(int64(time.Since(start)))
			return b.Take(indices), nil
		}
	}, nil
}

func maskToIndices(mask []bool) []int {
	indices := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			indices = append(indices, i)
		}
	}
	return indices
}
