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
	"testing"

	"github.com/sandstonedb/sandstone/batchvec"
)

func testBatch(t *testing.T) *batchvec.Batch {
	t.Helper()
	return batchvec.MustNew([]batchvec.Column{
		{Meta: batchvec.Meta{Name: "id"}, Data: batchvec.Int64Vector{1, 2, 3}},
		{Meta: batchvec.Meta{Name: "missions"}, Data: batchvec.ListVector{
			Rows: [][]any{
				{"Apollo 8", "Gemini 7"},
				{"Apollo 11"},
				{"Apollo 8"},
			},
			ElemKind: batchvec.KindString,
		}},
	})
}

func TestCompareEq(t *testing.T) {
	b := testBatch(t)
	r, err := Simple{}.Evaluate(Compare{Op: OpEq, Left: ColumnRef{"id"}, Right: Literal{int64(2)}}, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true, false}
	for i := range want {
		if r.Mask[i] != want[i] {
			t.Fatalf("mask[%d] = %v, want %v", i, r.Mask[i], want[i])
		}
	}
}

func TestListContains(t *testing.T) {
	b := testBatch(t)
	r, err := Simple{}.Evaluate(Call{Func: "LIST_CONTAINS", Args: []Expr{ColumnRef{"missions"}, Literal{"Apollo 8"}}}, b)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, m := range r.Mask {
		if m {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("matched %d rows, want 2", count)
	}
}

func TestRenderKeysGroupsEqualRows(t *testing.T) {
	b := batchvec.MustNew([]batchvec.Column{
		{Meta: batchvec.Meta{Name: "g"}, Data: batchvec.StringVector{"a", "b", "a"}},
	})
	keys, err := Simple{}.RenderKeys([]Expr{ColumnRef{"g"}}, b)
	if err != nil {
		t.Fatal(err)
	}
	if string(keys[0]) != string(keys[2]) {
		t.Fatalf("expected rows 0 and 2 to share a key")
	}
	if string(keys[0]) == string(keys[1]) {
		t.Fatalf("expected rows 0 and 1 to differ")
	}
}
