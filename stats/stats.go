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

// Package stats implements the process-local statistics record that
// is created per query, mutated by every operator and worker in the
// pipeline, and read by the caller once execution completes.
//
// Every counter is a plain int64 mutated exclusively through the
// Add/Inc helpers below, which route through sync/atomic: the blob
// reader's parallel read+decode pipeline mutates the same *Stats from
// multiple worker goroutines, so per-field atomicity is the cheapest
// way to satisfy that without introducing a lock that would otherwise
// serialize the workers on every counter bump.
package stats

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Stats aggregates counters and timers across a single query's
// execution. The zero value is ready to use, though New is the usual
// constructor since it stamps QueryID.
type Stats struct {
	// QueryID identifies this execution for log correlation; it has
	// no bearing on query semantics. Stamped by New, empty on a bare
	// zero-valued Stats.
	QueryID string

	CountBlobsFound           int64
	CountDataBlobsRead        int64
	CountBlobsIgnoredFrames   int64
	CountControlBlobsFound    int64
	CountUnknownBlobTypeFound int64
	ReadErrors                int64

	BytesReadData      int64
	BytesReadControl   int64
	BytesProcessedData int64
	RowsRead           int64
	ColumnsRead        int64

	PartitionsFound          int64
	PartitionsScanned        int64
	PartitionsRead           int64
	TimeScanningPartitionsNS int64

	CacheHits     int64
	CacheMisses   int64
	CacheOversize int64
	CacheErrors   int64

	TimePlanningNS    int64
	TimeSelectingNS   int64
	TimeAggregatingNS int64
	TimeOrderingNS    int64

	StartTimeNS int64
	EndTimeNS   int64

	warnMu   sync.Mutex
	warnings []string
	warnSeen map[string]bool
}

// New returns a ready-to-use Stats record for a new query, stamped
// with a fresh QueryID.
func New() *Stats { return &Stats{QueryID: uuid.NewString()} }

func add(p *int64, n int64) { atomic.AddInt64(p, n) }

func (s *Stats) AddBlobsFound(n int64)           { add(&s.CountBlobsFound, n) }
func (s *Stats) IncDataBlobsRead()               { add(&s.CountDataBlobsRead, 1) }
func (s *Stats) AddBlobsIgnoredFrames(n int64)   { add(&s.CountBlobsIgnoredFrames, n) }
func (s *Stats) IncControlBlobsFound()           { add(&s.CountControlBlobsFound, 1) }
func (s *Stats) IncUnknownBlobTypeFound()        { add(&s.CountUnknownBlobTypeFound, 1) }
func (s *Stats) IncReadErrors()                  { add(&s.ReadErrors, 1) }
func (s *Stats) AddBytesReadData(n int64)        { add(&s.BytesReadData, n) }
func (s *Stats) AddBytesReadControl(n int64)     { add(&s.BytesReadControl, n) }
func (s *Stats) AddBytesProcessedData(n int64)   { add(&s.BytesProcessedData, n) }
func (s *Stats) AddRowsRead(n int64)             { add(&s.RowsRead, n) }
func (s *Stats) AddColumnsRead(n int64)          { add(&s.ColumnsRead, n) }
func (s *Stats) AddPartitionsFound(n int64)      { add(&s.PartitionsFound, n) }
func (s *Stats) IncPartitionsScanned()           { add(&s.PartitionsScanned, 1) }
func (s *Stats) IncPartitionsRead()              { add(&s.PartitionsRead, 1) }
func (s *Stats) SetTimeScanningPartitionsNS(n int64) { atomic.StoreInt64(&s.TimeScanningPartitionsNS, n) }
func (s *Stats) IncCacheHits()                   { add(&s.CacheHits, 1) }
func (s *Stats) IncCacheMisses()                 { add(&s.CacheMisses, 1) }
func (s *Stats) IncCacheOversize()               { add(&s.CacheOversize, 1) }
func (s *Stats) IncCacheErrors()                 { add(&s.CacheErrors, 1) }
func (s *Stats) AddTimePlanningNS(n int64)       { add(&s.TimePlanningNS, n) }
func (s *Stats) AddTimeSelectingNS(n int64)      { add(&s.TimeSelectingNS, n) }
func (s *Stats) AddTimeAggregatingNS(n int64)    { add(&s.TimeAggregatingNS, n) }
func (s *Stats) AddTimeOrderingNS(n int64)       { add(&s.TimeOrderingNS, n) }

// Warn records a warning, deduplicated by exact text, mirroring the
// original engine's warning side-channel (restored in SPEC_FULL.md
// §4). No operator or partition scheme in this module calls it.
func (s *Stats) Warn(text string) {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	if s.warnSeen == nil {
		s.warnSeen = make(map[string]bool)
	}
	if s.warnSeen[text] {
		return
	}
	s.warnSeen[text] = true
	s.warnings = append(s.warnings, text)
}

// HasWarnings reports whether any warning has been recorded.
func (s *Stats) HasWarnings() bool {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	return len(s.warnings) > 0
}

// Warnings returns a copy of the collected warning texts, in the
// order first recorded.
func (s *Stats) Warnings() []string {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	return append([]string(nil), s.warnings...)
}

func nsToS(ns int64) float64 {
	if ns == 0 {
		return 0
	}
	return float64(ns) / 1e9
}

// Snapshot returns the statistics record as a map, with nanosecond
// timers converted to fractional seconds, matching the external
// statistics-output contract in spec.md §6.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"query_id":                      s.QueryID,
		"count_blobs_found":             atomic.LoadInt64(&s.CountBlobsFound),
		"count_data_blobs_read":         atomic.LoadInt64(&s.CountDataBlobsRead),
		"count_blobs_ignored_frames":    atomic.LoadInt64(&s.CountBlobsIgnoredFrames),
		"count_control_blobs_found":     atomic.LoadInt64(&s.CountControlBlobsFound),
		"count_unknown_blob_type_found": atomic.LoadInt64(&s.CountUnknownBlobTypeFound),
		"read_errors":                   atomic.LoadInt64(&s.ReadErrors),
		"bytes_read_data":               atomic.LoadInt64(&s.BytesReadData),
		"bytes_read_control":            atomic.LoadInt64(&s.BytesReadControl),
		"bytes_processed_data":          atomic.LoadInt64(&s.BytesProcessedData),
		"rows_read":                     atomic.LoadInt64(&s.RowsRead),
		"columns_read":                  atomic.LoadInt64(&s.ColumnsRead),
		"partitions_found":              atomic.LoadInt64(&s.PartitionsFound),
		"partitions_scanned":            atomic.LoadInt64(&s.PartitionsScanned),
		"partitions_read":               atomic.LoadInt64(&s.PartitionsRead),
		"time_scanning_partitions":      nsToS(atomic.LoadInt64(&s.TimeScanningPartitionsNS)),
		"cache_hits":                    atomic.LoadInt64(&s.CacheHits),
		"cache_misses":                  atomic.LoadInt64(&s.CacheMisses),
		"cache_oversize":                atomic.LoadInt64(&s.CacheOversize),
		"cache_errors":                  atomic.LoadInt64(&s.CacheErrors),
		"time_planning":                 nsToS(atomic.LoadInt64(&s.TimePlanningNS)),
		"time_selecting":                nsToS(atomic.LoadInt64(&s.TimeSelectingNS)),
		"time_aggregating":              nsToS(atomic.LoadInt64(&s.TimeAggregatingNS)),
		"time_ordering":                 nsToS(atomic.LoadInt64(&s.TimeOrderingNS)),
		"time_total":                    nsToS(atomic.LoadInt64(&s.EndTimeNS) - atomic.LoadInt64(&s.StartTimeNS)),
	}
}
