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

package batchvec

import "fmt"

// Batch is an immutable, columnar slice of a result set: an ordered
// list of named, typed Columns that all share the same row count.
// Operators never mutate a Batch in place; every transformation
// (Take, Project, Concat, ...) produces a new Batch.
type Batch struct {
	cols []Column
	rows int
}

// New builds a Batch from cols, validating that every column has the
// same length. An empty column list produces a zero-row, zero-column
// Batch.
func New(cols []Column) (*Batch, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	for i := range cols {
		if cols[i].Len() != rows {
			return nil, fmt.Errorf("batchvec: column %q has %d rows, want %d", cols[i].Meta.Name, cols[i].Len(), rows)
		}
	}
	return &Batch{cols: append([]Column(nil), cols...), rows: rows}, nil
}

// MustNew is New, panicking on error. It exists for constructing
// literal/sample tables where the column lengths are known statically.
func MustNew(cols []Column) *Batch {
	b, err := New(cols)
	if err != nil {
		panic(err)
	}
	return b
}

// RowCount returns the number of rows in the batch.
func (b *Batch) RowCount() int {
	if b == nil {
		return 0
	}
	return b.rows
}

// Columns returns the batch's columns in schema order. The returned
// slice must not be mutated by the caller.
func (b *Batch) Columns() []Column {
	if b == nil {
		return nil
	}
	return b.cols
}

// NumBytes estimates the in-memory footprint of the batch, used to
// populate Batch byte-footprint bookkeeping (spec'd statistics such
// as bytes_processed_data).
func (b *Batch) NumBytes() int64 {
	if b == nil {
		return 0
	}
	var n int64
	for _, c := range b.cols {
		switch v := c.Data.(type) {
		case StringVector:
			for _, s := range v {
				n += int64(len(s))
			}
		case Int64Vector:
			n += int64(len(v)) * 8
		case Float64Vector:
			n += int64(len(v)) * 8
		case BoolVector:
			n += int64(len(v))
		case TimestampVector:
			n += int64(len(v.Values)) * 8
		case ListVector:
			n += int64(len(v.Rows)) * 16
		case StructVector:
			n += int64(len(v)) * 32
		}
	}
	return n
}

// Column looks up a column by display name, matching the first
// occurrence in schema order.
func (b *Batch) Column(name string) (Column, bool) {
	if b == nil {
		return Column{}, false
	}
	for _, c := range b.cols {
		if c.Meta.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the display names of the batch's columns, in order.
func (b *Batch) Names() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.cols))
	for i, c := range b.cols {
		out[i] = c.Meta.Name
	}
	return out
}

// Take returns a new Batch containing only the rows at the given
// indices, in the given order. Take is the mechanism by which
// Selection, Sort, Distinct, and the join operators reshape a batch's
// row set without mutating the source.
func (b *Batch) Take(indices []int) *Batch {
	if b == nil {
		return nil
	}
	cols := make([]Column, len(b.cols))
	for i, c := range b.cols {
		cols[i] = c.take(indices)
	}
	return &Batch{cols: cols, rows: len(indices)}
}

// Project returns a new Batch containing exactly the named columns,
// in the given order, dropping any column not named. A requested
// name with no matching column is skipped silently, so the result
// can hold fewer columns than names. Used to implement the "drop
// columns not in the first batch's schema" reader rule and `SELECT`
// column lists once the planner has already resolved identifiers.
func (b *Batch) Project(names []string) *Batch {
	if b == nil {
		return nil
	}
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		if c, ok := b.Column(name); ok {
			cols = append(cols, c)
		}
	}
	return &Batch{cols: cols, rows: b.rows}
}

// AttachTable returns a new Batch with every column tagged with the
// given table alias and source path, used by the blob reader and
// internal dataset operators to stamp provenance onto a freshly
// decoded batch.
func (b *Batch) AttachTable(table, source string) *Batch {
	if b == nil {
		return nil
	}
	cols := make([]Column, len(b.cols))
	for i, c := range b.cols {
		cols[i] = c.WithTable(table).WithSource(source)
	}
	return &Batch{cols: cols, rows: b.rows}
}

// WithColumn returns a new Batch with col appended (or, if a column
// of the same name already exists, replacing it in place).
func (b *Batch) WithColumn(col Column) *Batch {
	cols := append([]Column(nil), b.Columns()...)
	for i := range cols {
		if cols[i].Meta.Name == col.Meta.Name {
			cols[i] = col
			rows := b.rows
			if rows == 0 {
				rows = col.Len()
			}
			return &Batch{cols: cols, rows: rows}
		}
	}
	cols = append(cols, col)
	rows := b.rows
	if len(b.cols) == 0 {
		rows = col.Len()
	}
	return &Batch{cols: cols, rows: rows}
}

// Concat joins the rows of the given batches into one Batch, in
// argument order, requiring that every non-nil batch share the same
// column names (in the same order); nil batches are skipped and no
// batches at all yield an empty Batch. Used by the Sort
// and Aggregate operators, which must materialize their entire
// producer stream before they can emit output.
func Concat(batches ...*Batch) (*Batch, error) {
	batches = nonEmpty(batches)
	if len(batches) == 0 {
		return MustNew(nil), nil
	}
	first := batches[0]
	names := first.Names()
	totalRows := 0
	for _, b := range batches {
		if len(b.Names()) != len(names) {
			return nil, fmt.Errorf("batchvec: concat schema mismatch: %v vs %v", names, b.Names())
		}
		for i, n := range b.Names() {
			if n != names[i] {
				return nil, fmt.Errorf("batchvec: concat schema mismatch: %v vs %v", names, b.Names())
			}
		}
		totalRows += b.RowCount()
	}
	cols := make([]Column, len(names))
	for ci, name := range names {
		cols[ci] = concatColumn(name, first.cols[ci].Meta, batches, ci)
	}
	return &Batch{cols: cols, rows: totalRows}, nil
}

func nonEmpty(batches []*Batch) []*Batch {
	out := batches[:0:0]
	for _, b := range batches {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

func concatColumn(name string, meta Meta, batches []*Batch, ci int) Column {
	switch batches[0].cols[ci].Data.(type) {
	case StringVector:
		var out StringVector
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(StringVector)...)
		}
		return Column{Meta: meta, Data: out}
	case Int64Vector:
		var out Int64Vector
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(Int64Vector)...)
		}
		return Column{Meta: meta, Data: out}
	case Float64Vector:
		var out Float64Vector
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(Float64Vector)...)
		}
		return Column{Meta: meta, Data: out}
	case BoolVector:
		var out BoolVector
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(BoolVector)...)
		}
		return Column{Meta: meta, Data: out}
	case TimestampVector:
		var out []int64
		kind := batches[0].cols[ci].Data.(TimestampVector).kind
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(TimestampVector).Values...)
		}
		return Column{Meta: meta, Data: TimestampVector{Values: out, kind: kind}}
	case ListVector:
		var out [][]any
		elemKind := batches[0].cols[ci].Data.(ListVector).ElemKind
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(ListVector).Rows...)
		}
		return Column{Meta: meta, Data: ListVector{Rows: out, ElemKind: elemKind}}
	default:
		var out StructVector
		for _, b := range batches {
			out = append(out, b.cols[ci].Data.(StructVector)...)
		}
		return Column{Meta: meta, Data: out}
	}
}
