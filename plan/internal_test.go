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

	"github.com/sandstonedb/sandstone/stats"
)

func TestNewInternalDatasetRejectsUnknownDataset(t *testing.T) {
	if _, err := NewInternalDataset("$bogus", ""); err == nil {
		t.Fatalf("want error for unknown dataset, got nil")
	}
}

func TestNewInternalDatasetCaseInsensitive(t *testing.T) {
	if _, err := NewInternalDataset("$PLANETS", ""); err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
}

func TestInternalDatasetYieldsExactlyOneBatch(t *testing.T) {
	d, err := NewInternalDataset("$satellites", "")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	st := stats.New()
	stream, err := d.Execute(context.Background(), st)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	b, err := stream()
	if err != nil {
		t.Fatalf("stream(): %v", err)
	}
	if b.RowCount() != 177 {
		t.Fatalf("RowCount = %d, want 177", b.RowCount())
	}
	if len(b.Names()) != 8 {
		t.Fatalf("columns = %d, want 8", len(b.Names()))
	}
	next, err := stream()
	if err != nil || next != nil {
		t.Fatalf("second pull = (%v, %v), want (nil, nil)", next, err)
	}
}

func TestInternalDatasetStampsTableAlias(t *testing.T) {
	d, err := NewInternalDataset("$planets", "p")
	if err != nil {
		t.Fatalf("NewInternalDataset: %v", err)
	}
	st := stats.New()
	stream, err := d.Execute(context.Background(), st)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	b, err := stream()
	if err != nil {
		t.Fatalf("stream(): %v", err)
	}
	col, ok := b.Column("id")
	if !ok {
		t.Fatalf("missing id column")
	}
	if col.Meta.Table != "p" {
		t.Fatalf("table = %q, want %q", col.Meta.Table, "p")
	}
}
