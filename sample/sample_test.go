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

package sample

import (
	"testing"

	"github.com/sandstonedb/sandstone/batchvec"
)

func TestSatellitesShape(t *testing.T) {
	b := Satellites()
	if b.RowCount() != 177 {
		t.Fatalf("got %d rows, want 177", b.RowCount())
	}
	if len(b.Columns()) != 8 {
		t.Fatalf("got %d columns, want 8", len(b.Columns()))
	}
}

func TestSatellitesSevenDistinctPlanets(t *testing.T) {
	b := Satellites()
	col, ok := b.Column("planetId")
	if !ok {
		t.Fatal("missing planetId column")
	}
	seen := map[int64]bool{}
	for _, v := range col.Data.(batchvec.Int64Vector) {
		seen[v] = true
	}
	if len(seen) != 7 {
		t.Fatalf("got %d distinct planetIds, want 7: %v", len(seen), seen)
	}
}

func TestPlanetsShape(t *testing.T) {
	b := Planets()
	if b.RowCount() != 9 {
		t.Fatalf("got %d rows, want 9", b.RowCount())
	}
	if len(b.Columns()) != 21 {
		t.Fatalf("got %d columns, want 21", len(b.Columns()))
	}
}

func TestAstronautsApollo8CrewCount(t *testing.T) {
	b := Astronauts()
	col, ok := b.Column("missions")
	if !ok {
		t.Fatal("missing missions column")
	}
	lv := col.Data.(batchvec.ListVector)
	count := 0
	for _, row := range lv.Rows {
		for _, v := range row {
			if v == "Apollo 8" {
				count++
				break
			}
		}
	}
	if count != 3 {
		t.Fatalf("got %d astronauts with Apollo 8, want 3", count)
	}
}

func TestNoTableSingleCell(t *testing.T) {
	b := NoTable()
	if b.RowCount() != 1 || len(b.Columns()) != 1 {
		t.Fatalf("got %d rows x %d cols, want 1x1", b.RowCount(), len(b.Columns()))
	}
}

func TestRegistryCoversAllDatasets(t *testing.T) {
	for _, name := range []string{"$planets", "$satellites", "$astronauts", "$no_table"} {
		if _, ok := Registry[name]; !ok {
			t.Fatalf("registry missing %s", name)
		}
	}
}
