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

// Package evalcontract documents the boundary between the physical
// execution engine and the scalar expression evaluator. The lexer,
// parser, logical planner, and expression evaluator itself live
// outside this module's scope (spec.md §1); this package is the
// interface the plan operators are written against, plus a small
// reference Evaluator (Simple) used by the operator tests and the
// cmd/colsql demo, covering exactly the handful of expression shapes
// the seed scenarios in spec.md §8 exercise (column refs, literals,
// comparisons, boolean connectives, and LIST_CONTAINS).
package evalcontract

import "github.com/sandstonedb/sandstone/batchvec"

// Expr is an opaque expression-tree node produced by the (external)
// planner. The engine core never interprets Expr itself; it only
// passes it to an Evaluator.
type Expr interface {
	// String renders the expression for plan descriptions
	// (Op.Config/Op.String).
	String() string
}

// Result is what evaluating an Expr against a Batch produces: either
// a boolean mask (one entry per row, used by Selection and HAVING),
// or a computed Column (used by Projection and aggregate/group-key
// expressions).
type Result struct {
	Mask   []bool
	Column batchvec.Column
}

// Evaluator evaluates expression trees against batches. Selection
// converts a boolean Result into row indices; Projection appends or
// renames the Column it returns; Aggregate and Sort use RenderKeys to
// build per-row grouping/ordering keys.
type Evaluator interface {
	// Evaluate runs e against b. Implementations return a Result
	// with Mask set for predicate-shaped expressions, or Column
	// set for scalar/computed expressions.
	Evaluate(e Expr, b *batchvec.Batch) (Result, error)

	// RenderKeys renders one comparable byte-string key per row of
	// b, one key per expression in exprs, concatenated in order.
	// Used for GROUP BY keys, DISTINCT row keys, join equality
	// keys, and ORDER BY comparisons.
	RenderKeys(exprs []Expr, b *batchvec.Batch) ([][]byte, error)
}
