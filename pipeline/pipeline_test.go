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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/blobcache"
	"github.com/sandstonedb/sandstone/decode"
	"github.com/sandstonedb/sandstone/stats"
)

func fakeDecoder(data []byte, _ decode.Projection) (*batchvec.Batch, error) {
	return batchvec.MustNew([]batchvec.Column{
		{Meta: batchvec.Meta{Name: "raw"}, Data: batchvec.StringVector{string(data)}},
	}), nil
}

func TestRunProducesAllResults(t *testing.T) {
	var tasks []Task
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("blob-%d", i)
		tasks = append(tasks, Task{
			Path: path,
			Read: func(_ context.Context, p string) ([]byte, error) {
				return []byte(p), nil
			},
			Decode: fakeDecoder,
		})
	}

	st := stats.New()
	seen := map[string]bool{}
	for r := range Run(context.Background(), tasks, st, Options{Parallel: 4}) {
		if r.Err != nil {
			t.Fatalf("unexpected error: %v", r.Err)
		}
		seen[r.Path] = true
	}
	if len(seen) != len(tasks) {
		t.Fatalf("got %d distinct results, want %d", len(seen), len(tasks))
	}
}

func TestRunSurfacesDecodeErrors(t *testing.T) {
	boom := errors.New("bad bytes")
	tasks := []Task{{
		Path: "broken",
		Read: func(_ context.Context, p string) ([]byte, error) { return []byte("x"), nil },
		Decode: func(_ []byte, _ decode.Projection) (*batchvec.Batch, error) {
			return nil, boom
		},
	}}

	st := stats.New()
	var got Result
	for r := range Run(context.Background(), tasks, st, Options{}) {
		got = r
	}
	if got.Err == nil || !errors.Is(got.Err, boom) {
		t.Fatalf("expected wrapped decode error, got %v", got.Err)
	}
}

func TestFetchUsesCacheThenPopulatesOnMiss(t *testing.T) {
	cache := blobcache.NewMem()
	reads := 0
	task := Task{
		Path: "p/a.jsonl",
		Read: func(_ context.Context, p string) ([]byte, error) {
			reads++
			return []byte("hello"), nil
		},
		Decode: fakeDecoder,
		Cache:  cache,
	}

	st := stats.New()
	r1 := readAndDecode(context.Background(), task, st, Options{})
	if r1.Err != nil {
		t.Fatalf("unexpected error: %v", r1.Err)
	}
	r2 := readAndDecode(context.Background(), task, st, Options{})
	if r2.Err != nil {
		t.Fatalf("unexpected error: %v", r2.Err)
	}
	if reads != 1 {
		t.Fatalf("got %d direct reads, want 1 (second call should hit cache)", reads)
	}
	snap := st.Snapshot()
	if snap["cache_misses"].(int64) != 1 || snap["cache_hits"].(int64) != 1 {
		t.Fatalf("unexpected cache counters: %+v", snap)
	}
}

type collectLogger struct{ lines []string }

func (c *collectLogger) Printf(f string, args ...any) {
	c.lines = append(c.lines, fmt.Sprintf(f, args...))
}

func TestRunLogsDecodeErrors(t *testing.T) {
	boom := errors.New("bad bytes")
	tasks := []Task{{
		Path: "broken",
		Read: func(_ context.Context, p string) ([]byte, error) { return []byte("x"), nil },
		Decode: func(_ []byte, _ decode.Projection) (*batchvec.Batch, error) {
			return nil, boom
		},
	}}

	st := stats.New()
	log := &collectLogger{}
	for range Run(context.Background(), tasks, st, Options{Logger: log}) {
	}
	if len(log.lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %v", len(log.lines), log.lines)
	}
}

func TestFetchSkipsCacheWhenOversize(t *testing.T) {
	cache := blobcache.NewMem()
	task := Task{
		Path:   "p/big.jsonl",
		Read:   func(_ context.Context, p string) ([]byte, error) { return make([]byte, 10), nil },
		Decode: fakeDecoder,
		Cache:  cache,
	}

	st := stats.New()
	_ = readAndDecode(context.Background(), task, st, Options{MaxCacheItemSize: 4})
	if cache.Len() != 0 {
		t.Fatalf("oversize blob should not be cached, cache has %d entries", cache.Len())
	}
	snap := st.Snapshot()
	if snap["cache_oversize"].(int64) != 1 {
		t.Fatalf("expected one oversize counter, got %+v", snap)
	}
}
