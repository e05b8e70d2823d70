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

package main

import (
	"testing"

	"github.com/sandstonedb/sandstone/evalcontract"
)

func TestParsePredicateBuildsCompare(t *testing.T) {
	e, err := parsePredicate("numberOfMoons > 10")
	if err != nil {
		t.Fatalf("parsePredicate: %v", err)
	}
	cmp, ok := e.(evalcontract.Compare)
	if !ok {
		t.Fatalf("got %T, want evalcontract.Compare", e)
	}
	if cmp.Op != evalcontract.OpGt {
		t.Fatalf("op = %v, want OpGt", cmp.Op)
	}
	ref, ok := cmp.Left.(evalcontract.ColumnRef)
	if !ok || ref.Name != "numberOfMoons" {
		t.Fatalf("left = %#v, want ColumnRef{numberOfMoons}", cmp.Left)
	}
	lit, ok := cmp.Right.(evalcontract.Literal)
	if !ok || lit.Value != int64(10) {
		t.Fatalf("right = %#v, want Literal{int64(10)}", cmp.Right)
	}
}

func TestParsePredicateRejectsMalformedInput(t *testing.T) {
	if _, err := parsePredicate("name"); err == nil {
		t.Fatal("expected error for too-few fields")
	}
	if _, err := parsePredicate("name ~~ foo"); err == nil {
		t.Fatal("expected error for unsupported operator")
	}
}

func TestLiteralValueCoercesNarrowestType(t *testing.T) {
	if v := literalValue("42"); v != int64(42) {
		t.Fatalf("got %#v, want int64(42)", v)
	}
	if v := literalValue("3.5"); v != 3.5 {
		t.Fatalf("got %#v, want 3.5", v)
	}
	if v := literalValue("true"); v != true {
		t.Fatalf("got %#v, want true", v)
	}
	if v := literalValue("Mercury"); v != "Mercury" {
		t.Fatalf("got %#v, want \"Mercury\"", v)
	}
}

func TestBuildPlanWiresSelectionProjectionAndLimit(t *testing.T) {
	dashd, dashwhere, dashselect, dashorder, dashlimit, dashoffset = "$planets", "numberOfMoons > 10", "name,numberOfMoons", "", 2, 0
	defer func() { dashd, dashwhere, dashselect, dashorder, dashlimit, dashoffset = "$planets", "", "", "", 0, 0 }()

	op, err := buildPlan()
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	if op.Name() != "Limit" {
		t.Fatalf("root op = %s, want Limit", op.Name())
	}
}
