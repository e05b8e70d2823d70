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
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/stats"
)

func TestProjectionPicksAndRenames(t *testing.T) {
	src, err := NewInternalDataset("$planets", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	proj := NewProjection([]OutputColumn{
		{Identifier: "name", Name: "planet"},
		{Identifier: "numberOfMoons", Name: "numberOfMoons"},
	}, evalcontract.Simple{})
	if err := proj.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	b := runOneBatch(t, proj)
	if len(b.Names()) != 2 {
		t.Fatalf("columns = %d, want 2", len(b.Names()))
	}
	if _, ok := b.Column("planet"); !ok {
		t.Fatalf("missing renamed column planet")
	}
	if _, ok := b.Column("name"); ok {
		t.Fatalf("original name 'name' should not survive the rename")
	}
}

func TestProjectionComputedColumn(t *testing.T) {
	src, err := NewInternalDataset("$planets", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	proj := NewProjection([]OutputColumn{
		{Expr: evalcontract.Literal{Value: int64(1)}, Name: "one"},
	}, evalcontract.Simple{})
	if err := proj.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	b := runOneBatch(t, proj)
	col, ok := b.Column("one")
	if !ok {
		t.Fatalf("missing computed column one")
	}
	vals := col.Data.(batchvec.Int64Vector)
	for i, v := range vals {
		if v != 1 {
			t.Fatalf("row %d = %d, want 1", i, v)
		}
	}
}

func TestProjectionMissingColumnErrors(t *testing.T) {
	src, err := NewInternalDataset("$planets", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	proj := NewProjection([]OutputColumn{{Identifier: "nope"}}, evalcontract.Simple{})
	if err := proj.SetProducers([]Op{src}); err != nil {
		t.Fatalf("SetProducers: %v", err)
	}
	stream, err := proj.Execute(context.Background(), stats.New())
	if err != nil {
		t.Fatalf("Execute should not fail eagerly: %v", err)
	}
	if _, err := stream(); err == nil {
		t.Fatalf("want error for missing projection column, got nil")
	}
}
