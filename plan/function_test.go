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
	"testing"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/stats"
)

func runOneBatch(t *testing.T, op Op) *batchvec.Batch {
	t.Helper()
	stream, err := op.Execute(context.Background(), stats.New())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	b, err := stream()
	if err != nil {
		t.Fatalf("stream(): %v", err)
	}
	if b == nil {
		t.Fatalf("stream() returned nil batch")
	}
	next, err := stream()
	if err != nil || next != nil {
		t.Fatalf("second pull = (%v, %v), want (nil, nil)", next, err)
	}
	return b
}

func TestGenerateSeriesNumeric(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{Name: "generate_series", Args: []any{int64(1), int64(5), int64(1)}})
	b := runOneBatch(t, f)
	if b.RowCount() != 5 {
		t.Fatalf("RowCount = %d, want 5", b.RowCount())
	}
}

func TestGenerateSeriesDateRange(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{
		Name: "generate_series",
		Args: []any{"2024-01-01", "2024-01-05", "1 day"},
	})
	b := runOneBatch(t, f)
	if b.RowCount() != 5 {
		t.Fatalf("RowCount = %d, want 5", b.RowCount())
	}
	col, ok := b.Column("generate_series")
	if !ok {
		t.Fatalf("missing generate_series column")
	}
	if col.Kind() != batchvec.KindTimestampUS {
		t.Fatalf("kind = %v, want timestamp[us]", col.Kind())
	}
}

func TestUnnestLiteralList(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{Name: "unnest", Args: []any{[]any{int64(1), int64(2), int64(3)}}})
	b := runOneBatch(t, f)
	if b.RowCount() != 3 {
		t.Fatalf("RowCount = %d, want 3", b.RowCount())
	}
}

func TestValuesConstructor(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{
		Name: "values",
		Rows: [][]any{{int64(1), "a"}, {int64(2), "b"}},
	})
	b := runOneBatch(t, f)
	if b.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", b.RowCount())
	}
	if len(b.Names()) != 2 {
		t.Fatalf("columns = %d, want 2", len(b.Names()))
	}
}

func TestValuesRejectsRaggedRows(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{
		Name: "values",
		Rows: [][]any{{int64(1), "a"}, {int64(2)}},
	})
	stream, err := f.Execute(context.Background(), stats.New())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := stream(); err == nil {
		t.Fatalf("want error for ragged VALUES rows, got nil")
	}
}

func TestFakeGeneratesDeterministicSchema(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{
		Name: "fake",
		Args: []any{int64(10), map[string]string{"n": "int", "s": "string", "f": "float", "b": "bool"}},
	})
	b1 := runOneBatch(t, f)

	f2 := NewFunctionDataset(FunctionCall{
		Name: "fake",
		Args: []any{int64(10), map[string]string{"n": "int", "s": "string", "f": "float", "b": "bool"}},
	})
	b2 := runOneBatch(t, f2)

	if b1.RowCount() != 10 || b2.RowCount() != 10 {
		t.Fatalf("RowCount = %d/%d, want 10/10", b1.RowCount(), b2.RowCount())
	}
	names1, names2 := b1.Names(), b2.Names()
	if len(names1) != 4 {
		t.Fatalf("columns = %d, want 4", len(names1))
	}
	for i := range names1 {
		if names1[i] != names2[i] {
			t.Fatalf("column order not deterministic: %v vs %v", names1, names2)
		}
	}
	nCol, _ := b1.Column("n")
	ints := nCol.Data.(batchvec.Int64Vector)
	for i, v := range ints {
		if v != int64(i) {
			t.Fatalf("fake int column not deterministic at row %d: %d", i, v)
		}
	}
}

func TestFunctionDatasetUnknownFunction(t *testing.T) {
	f := NewFunctionDataset(FunctionCall{Name: "not_a_real_function"})
	stream, err := f.Execute(context.Background(), stats.New())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := stream(); err == nil {
		t.Fatalf("want error for unknown function, got nil")
	}
}
