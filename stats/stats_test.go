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

package stats

import (
	"sync"
	"testing"
)

func TestConcurrentCounterAdds(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncDataBlobsRead()
			s.AddBytesReadData(10)
		}()
	}
	wg.Wait()
	if s.CountDataBlobsRead != 100 {
		t.Fatalf("CountDataBlobsRead = %d, want 100", s.CountDataBlobsRead)
	}
	if s.BytesReadData != 1000 {
		t.Fatalf("BytesReadData = %d, want 1000", s.BytesReadData)
	}
}

func TestWarnDeduplicates(t *testing.T) {
	s := New()
	s.Warn("ignored frame")
	s.Warn("ignored frame")
	s.Warn("other")
	if len(s.Warnings()) != 2 {
		t.Fatalf("warnings = %v", s.Warnings())
	}
	if !s.HasWarnings() {
		t.Fatal("expected HasWarnings true")
	}
}

func TestNewStampsDistinctQueryIDs(t *testing.T) {
	a, b := New(), New()
	if a.QueryID == "" || b.QueryID == "" {
		t.Fatal("expected non-empty QueryID")
	}
	if a.QueryID == b.QueryID {
		t.Fatalf("expected distinct QueryIDs, both got %q", a.QueryID)
	}
	if a.Snapshot()["query_id"] != a.QueryID {
		t.Fatalf("Snapshot query_id = %v, want %q", a.Snapshot()["query_id"], a.QueryID)
	}
}

func TestSnapshotConvertsNanosecondsToSeconds(t *testing.T) {
	s := New()
	s.AddTimeSelectingNS(2_500_000_000)
	snap := s.Snapshot()
	if got := snap["time_selecting"].(float64); got != 2.5 {
		t.Fatalf("time_selecting = %v, want 2.5", got)
	}
}
