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
	"strings"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/stats"
)

// OutputColumn is one output-column descriptor for Projection:
// (expression, name, alias?). A nil Expr with Identifier set is a
// zero-copy column pick (or a rename, if Name differs from
// Identifier); a non-nil Expr is a computed column.
type OutputColumn struct {
	Identifier string // source column name, for identifier/rename descriptors
	Expr       evalcontract.Expr
	Name       string // output display name
}

// Projection is the projection operator (spec.md §4.9): one producer,
// a list of OutputColumns evaluated against each input batch in turn.
type Projection struct {
	base
	outputs []OutputColumn
	eval    evalcontract.Evaluator
}

func NewProjection(outputs []OutputColumn, eval evalcontract.Evaluator) *Projection {
	return &Projection{base: newBase("Projection", 1), outputs: outputs, eval: eval}
}

func (p *Projection) Config() string {
	names := make([]string, len(p.outputs))
	for i, o := range p.outputs {
		names[i] = o.Name
	}
	return fmt.Sprintf("columns=[%s]", strings.Join(names, ", "))
}

func (p *Projection) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	in, err := p.producers[0].Execute(ctx, st)
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
		return p.project(b)
	}, nil
}

func (p *Projection) project(b *batchvec.Batch) (*batchvec.Batch, error) {
	cols := make([]batchvec.Column, 0, len(p.outputs))
	for _, out := range p.outputs {
		switch {
		case out.Expr == nil:
			// Identifier or rename-only descriptor: a zero-copy pick,
			// with a metadata update when the output name differs.
			src, ok := b.Column(out.Identifier)
			if !ok {
				return nil, fmt.Errorf("plan: projection column %q not found", out.Identifier)
			}
			if out.Name != "" && out.Name != src.Meta.Name {
				src = src.Rename(out.Name)
			}
			cols = append(cols, src)
		default:
			result, err := p.eval.Evaluate(out.Expr, b)
			if err != nil {
				return nil, fmt.Errorf("plan: evaluating projection column %q: %w", out.Name, err)
			}
			col := result.Column
			if out.Name != "" {
				col = col.Rename(out.Name)
			}
			cols = append(cols, col)
		}
	}
	return batchvec.New(cols)
}
