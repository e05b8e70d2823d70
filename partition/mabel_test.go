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

package partition

import (
	"testing"

	"github.com/sandstonedb/sandstone/storage"
)

func TestMabelPartitionsOneFolderPerDay(t *testing.T) {
	start, _ := storage.ParseDate("2020-02-01")
	end, _ := storage.ParseDate("2020-02-28")
	parts := Mabel{}.Partitions("satellites", start, end)
	if len(parts) != 28 {
		t.Fatalf("got %d partitions, want 28", len(parts))
	}
	if parts[0] != "satellites/year_2020/month_02/day_01/" {
		t.Fatalf("first partition = %q", parts[0])
	}
}

func TestMabelFilterBlobsPicksLatestFrame(t *testing.T) {
	blobs := []string{
		"p/as_at_100/a.jsonl",
		"p/as_at_100/b.jsonl",
		"p/as_at_200/a.jsonl",
		"p/.ignore",
	}
	out := Mabel{}.FilterBlobs(blobs)
	if len(out) != 2 {
		t.Fatalf("got %v", out)
	}
	for _, b := range out {
		if b != "p/as_at_200/a.jsonl" && b != "p/.ignore" {
			t.Fatalf("unexpected surviving blob %s", b)
		}
	}
}

func TestMabelFilterBlobsNoFramesPassesThrough(t *testing.T) {
	blobs := []string{"p/a.jsonl", "p/b.jsonl"}
	out := Mabel{}.FilterBlobs(blobs)
	if len(out) != 2 {
		t.Fatalf("got %v, want unchanged", out)
	}
}

func TestSelectHonorsNoPartitionHint(t *testing.T) {
	s := Select("mabel", true)
	if _, ok := s.(Default); !ok {
		t.Fatalf("expected Default when NO_PARTITION hint set, got %T", s)
	}
}

func TestSelectMabel(t *testing.T) {
	s := Select("mabel", false)
	if _, ok := s.(Mabel); !ok {
		t.Fatalf("expected Mabel, got %T", s)
	}
}
