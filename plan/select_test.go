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
	"testing"

	"github.com/sandstonedb/sandstone/evalcontract"
)

func TestSelectionFiltersRows(t *testing.T) {
	src, err := NewInternalDataset("$planets", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	pred := evalcontract.Compare{
		Op:    evalcontract.OpGt,
		Left:  evalcontract.ColumnRef{Name: "numberOfMoons"},
		Right: evalcontract.Literal{Value: int64(10)},
	}
	sel := NewSelection(pred, evalcontract.Simple{})
	if err := sel.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	b := runOneBatch(t, sel)
	// Jupiter (95), Saturn (146), Uranus (28), Neptune (16) exceed 10 moons.
	if b.RowCount() != 4 {
		t.Fatalf("RowCount = %d, want 4", b.RowCount())
	}
}

func TestSelectionNoMatchesIsEmptyNotSkipped(t *testing.T) {
	src, err := NewInternalDataset("$planets", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	pred := evalcontract.Compare{
		Op:    evalcontract.OpGt,
		Left:  evalcontract.ColumnRef{Name: "numberOfMoons"},
		Right: evalcontract.Literal{Value: int64(100000)},
	}
	sel := NewSelection(pred, evalcontract.Simple{})
	if err := sel.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	b := runOneBatch(t, sel)
	if b.RowCount() != 0 {
		t.Fatalf("RowCount = %d, want 0", b.RowCount())
	}
	if len(b.Names()) != 21 {
		t.Fatalf("columns = %d, want 21 (schema preserved on empty result)", len(b.Names()))
	}
}

func TestSelectionNilPredicatePassesEverything(t *testing.T) {
	src, err := NewInternalDataset("$planets", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	sel := NewSelection(nil, evalcontract.Simple{})
	if err := sel.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	b := runOneBatch(t, sel)
	if b.RowCount() != 9 {
		t.Fatalf("RowCount = %d, want 9", b.RowCount())
	}
}

func TestSelectionListContains(t *testing.T) {
	src, err := NewInternalDataset("$astronauts", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	pred := evalcontract.Call{
		Func: "LIST_CONTAINS",
		Args: []evalcontract.Expr{
			evalcontract.ColumnRef{Name: "missions"},
			evalcontract.Literal{Value: "Apollo 8"},
		},
	}
	sel := NewSelection(pred, evalcontract.Simple{})
	if err := sel.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	b := runOneBatch(t, sel)
	if b.RowCount() != 3 {
		t.Fatalf("RowCount = %d, want 3", b.RowCount())
	}
}
