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

package evalcontract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandstonedb/sandstone/batchvec"
)

// ColumnRef identifies a column by name.
type ColumnRef struct{ Name string }

func (c ColumnRef) String() string { return c.Name }

// Literal is a constant scalar value (string, int64, float64, or bool).
type Literal struct{ Value any }

func (l Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// CompareOp enumerates the comparison operators Simple understands.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// Compare is a binary comparison between two expressions.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

func (c Compare) String() string { return fmt.Sprintf("(%s %d %s)", c.Left, c.Op, c.Right) }

// And, Or, Not are the boolean connectives.
type And struct{ Left, Right Expr }
type Or struct{ Left, Right Expr }
type Not struct{ Inner Expr }

func (a And) String() string { return fmt.Sprintf("(%s AND %s)", a.Left, a.Right) }
func (o Or) String() string  { return fmt.Sprintf("(%s OR %s)", o.Left, o.Right) }
func (n Not) String() string { return fmt.Sprintf("NOT %s", n.Inner) }

// Call is a named function call, e.g. LIST_CONTAINS(missions, 'Apollo 8').
type Call struct {
	Func string
	Args []Expr
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(parts, ", "))
}

// Simple is a reference Evaluator covering column references,
// literals, comparisons, boolean connectives, and a small function
// library (LIST_CONTAINS). It exists to exercise the operators in
// this module's own tests and the cmd/colsql demo; a production
// deployment supplies its own Evaluator backed by a real expression
// compiler (out of scope here, per spec.md §1).
type Simple struct{}

func (Simple) Evaluate(e Expr, b *batchvec.Batch) (Result, error) {
	switch v := e.(type) {
	case nil:
		mask := make([]bool, b.RowCount())
		for i := range mask {
			mask[i] = true
		}
		return Result{Mask: mask}, nil
	case ColumnRef:
		col, ok := b.Column(v.Name)
		if !ok {
			return Result{}, fmt.Errorf("evalcontract: unknown column %q", v.Name)
		}
		return Result{Column: col}, nil
	case Literal:
		return Result{Column: literalColumn(v, b.RowCount())}, nil
	case Compare:
		mask, err := evalCompare(v, b)
		return Result{Mask: mask}, err
	case And:
		l, err := Simple{}.Evaluate(v.Left, b)
		if err != nil {
			return Result{}, err
		}
		r, err := Simple{}.Evaluate(v.Right, b)
		if err != nil {
			return Result{}, err
		}
		return Result{Mask: boolAnd(l.Mask, r.Mask)}, nil
	case Or:
		l, err := Simple{}.Evaluate(v.Left, b)
		if err != nil {
			return Result{}, err
		}
		r, err := Simple{}.Evaluate(v.Right, b)
		if err != nil {
			return Result{}, err
		}
		return Result{Mask: boolOr(l.Mask, r.Mask)}, nil
	case Not:
		in, err := Simple{}.Evaluate(v.Inner, b)
		if err != nil {
			return Result{}, err
		}
		out := make([]bool, len(in.Mask))
		for i, m := range in.Mask {
			out[i] = !m
		}
		return Result{Mask: out}, nil
	case Call:
		return evalCall(v, b)
	default:
		return Result{}, fmt.Errorf("evalcontract: unsupported expression %T", e)
	}
}

func literalColumn(l Literal, rows int) batchvec.Column {
	switch v := l.Value.(type) {
	case int64:
		vals := make(batchvec.Int64Vector, rows)
		for i := range vals {
			vals[i] = v
		}
		return batchvec.Column{Data: vals}
	case float64:
		vals := make(batchvec.Float64Vector, rows)
		for i := range vals {
			vals[i] = v
		}
		return batchvec.Column{Data: vals}
	case bool:
		vals := make(batchvec.BoolVector, rows)
		for i := range vals {
			vals[i] = v
		}
		return batchvec.Column{Data: vals}
	default:
		s := fmt.Sprintf("%v", v)
		vals := make(batchvec.StringVector, rows)
		for i := range vals {
			vals[i] = s
		}
		return batchvec.Column{Data: vals}
	}
}

func evalCompare(c Compare, b *batchvec.Batch) ([]bool, error) {
	lr, err := Simple{}.Evaluate(c.Left, b)
	if err != nil {
		return nil, err
	}
	rr, err := Simple{}.Evaluate(c.Right, b)
	if err != nil {
		return nil, err
	}
	n := b.RowCount()
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		cmp, err := compareAt(lr.Column, rr.Column, i)
		if err != nil {
			return nil, err
		}
		switch c.Op {
		case OpEq:
			out[i] = cmp == 0
		case OpNe:
			out[i] = cmp != 0
		case OpLt:
			out[i] = cmp < 0
		case OpLe:
			out[i] = cmp <= 0
		case OpGt:
			out[i] = cmp > 0
		case OpGe:
			out[i] = cmp >= 0
		}
	}
	return out, nil
}

// compareAt returns -1/0/1 comparing row i of the two columns,
// coercing numeric kinds together and falling back to string
// comparison otherwise.
func compareAt(l, r batchvec.Column, i int) (int, error) {
	lf, lok := asFloat(l, i)
	rf, rok := asFloat(r, i)
	if lok && rok {
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	ls := asString(l, i)
	rs := asString(r, i)
	return strings.Compare(ls, rs), nil
}

func asFloat(c batchvec.Column, i int) (float64, bool) {
	switch v := c.Data.(type) {
	case batchvec.Int64Vector:
		return float64(v[i]), true
	case batchvec.Float64Vector:
		return v[i], true
	case batchvec.TimestampVector:
		return float64(v.Values[i]), true
	case batchvec.StringVector:
		f, err := strconv.ParseFloat(v[i], 64)
		return f, err == nil
	}
	return 0, false
}

func asString(c batchvec.Column, i int) string {
	switch v := c.Data.(type) {
	case batchvec.StringVector:
		return v[i]
	case batchvec.Int64Vector:
		return strconv.FormatInt(v[i], 10)
	case batchvec.Float64Vector:
		return strconv.FormatFloat(v[i], 'g', -1, 64)
	case batchvec.BoolVector:
		return strconv.FormatBool(v[i])
	default:
		return ""
	}
}

func boolAnd(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}

func boolOr(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] || b[i]
	}
	return out
}

func evalCall(c Call, b *batchvec.Batch) (Result, error) {
	switch strings.ToUpper(c.Func) {
	case "LIST_CONTAINS":
		if len(c.Args) != 2 {
			return Result{}, fmt.Errorf("evalcontract: LIST_CONTAINS wants 2 args, got %d", len(c.Args))
		}
		ref, ok := c.Args[0].(ColumnRef)
		if !ok {
			return Result{}, fmt.Errorf("evalcontract: LIST_CONTAINS first arg must be a column reference")
		}
		lit, ok := c.Args[1].(Literal)
		if !ok {
			return Result{}, fmt.Errorf("evalcontract: LIST_CONTAINS second arg must be a literal")
		}
		col, ok := b.Column(ref.Name)
		if !ok {
			return Result{}, fmt.Errorf("evalcontract: unknown column %q", ref.Name)
		}
		lv, ok := col.Data.(batchvec.ListVector)
		if !ok {
			return Result{}, fmt.Errorf("evalcontract: LIST_CONTAINS requires a list column, got %s", col.Kind())
		}
		needle := fmt.Sprintf("%v", lit.Value)
		mask := make([]bool, len(lv.Rows))
		for i, row := range lv.Rows {
			for _, elem := range row {
				if fmt.Sprintf("%v", elem) == needle {
					mask[i] = true
					break
				}
			}
		}
		return Result{Mask: mask}, nil
	default:
		return Result{}, fmt.Errorf("evalcontract: unsupported function %q", c.Func)
	}
}

// RenderKeys renders one key per row per expression, each key
// length-prefixed and concatenated, so that two rows compare equal
// under RenderKeys iff every expression yields an equal rendered
// value. Keys are returned in row order and are not sorted here;
// GROUP BY, DISTINCT and joins use them for equality only, while
// Sort compares them bytewise.
func (Simple) RenderKeys(exprs []Expr, b *batchvec.Batch) ([][]byte, error) {
	n := b.RowCount()
	cols := make([]batchvec.Column, len(exprs))
	for i, e := range exprs {
		r, err := Simple{}.Evaluate(e, b)
		if err != nil {
			return nil, err
		}
		cols[i] = r.Column
	}
	keys := make([][]byte, n)
	var buf strings.Builder
	for row := 0; row < n; row++ {
		buf.Reset()
		for _, c := range cols {
			s := asString(c, row)
			buf.WriteString(strconv.Itoa(len(s)))
			buf.WriteByte(':')
			buf.WriteString(s)
			buf.WriteByte(',')
		}
		keys[row] = []byte(buf.String())
	}
	return keys, nil
}
