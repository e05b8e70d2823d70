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

// Package pipeline implements the parallel read+decode worker pool
// that drives blob bytes into decoded batches for the blob reader
// operator (spec.md §4.6). Each task is a single blob: fetch its
// bytes (cache-aware), then decode them into a columnar batch. Tasks
// run on an unordered worker pool -- results arrive in completion
// order, not submission order -- matching the "no guaranteed
// ordering between blobs" rule in spec.md §5.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/blobcache"
	"github.com/sandstonedb/sandstone/decode"
	"github.com/sandstonedb/sandstone/stats"
)

// ReadFunc fetches the full bytes of the blob at path.
type ReadFunc func(ctx context.Context, path string) ([]byte, error)

// Task describes one blob to be read and decoded.
type Task struct {
	Path       string
	Read       ReadFunc
	Decode     decode.Decoder
	Cache      blobcache.Cache // nil disables caching for this task
	Projection decode.Projection
}

// Result is what one Task produces: either a decoded Batch, or an
// error recorded against the originating path. Per spec.md §4.6,
// decoder failures must surface as a failed task, not a silently
// dropped blob.
type Result struct {
	Elapsed   time.Duration
	BlobBytes int
	Batch     *batchvec.Batch
	Path      string
	Err       error
}

// Logger is the injectable diagnostic sink for the worker pool,
// mirroring dcache.Cache.Logger: nil-safe, never a package global.
type Logger interface {
	Printf(f string, args ...any)
}

// Options configures the worker pool.
type Options struct {
	// Parallel bounds the number of concurrent workers. <= 0 means
	// runtime.GOMAXPROCS(0).
	Parallel int
	// MaxCacheItemSize is the per-item cache size cap; blobs larger
	// than this bypass the cache (cache_oversize). <= 0 means
	// blobcache.DefaultMaxItemSize.
	MaxCacheItemSize int64
	// Logger, if non-nil, receives a line for every cache transport
	// failure and decode error a worker encounters.
	Logger Logger
}

func logf(l Logger, f string, args ...any) {
	if l != nil {
		l.Printf(f, args...)
	}
}

// Run dispatches tasks across a bounded worker pool and returns a
// channel of Results, one per task, in completion order. The channel
// is closed once every task has produced a result. Run does not block;
// callers drain the returned channel to pull results.
func Run(ctx context.Context, tasks []Task, st *stats.Stats, opt Options) <-chan Result {
	parallel := opt.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	if parallel > len(tasks) && len(tasks) > 0 {
		parallel = len(tasks)
	}
	if parallel < 1 {
		parallel = 1
	}

	in := make(chan Task)
	out := make(chan Result, len(tasks))

	done := make(chan struct{})
	for i := 0; i < parallel; i++ {
		go func() {
			for t := range in {
				out <- readAndDecode(ctx, t, st, opt)
			}
			done <- struct{}{}
		}()
	}
	go func() {
		for _, t := range tasks {
			in <- t
		}
		close(in)
		for i := 0; i < parallel; i++ {
			<-done
		}
		close(out)
	}()
	return out
}

// readAndDecode implements one task's fetch+decode sequence,
// including the cache-miss/cache-hit/oversize/error bookkeeping
// specified in spec.md §4.3 and §4.6.
func readAndDecode(ctx context.Context, t Task, st *stats.Stats, opt Options) Result {
	start := time.Now()
	maxItem := opt.MaxCacheItemSize
	if maxItem <= 0 {
		maxItem = blobcache.DefaultMaxItemSize
	}

	data, err := fetch(ctx, t, st, maxItem, opt.Logger)
	if err != nil {
		return Result{Path: t.Path, Err: fmt.Errorf("pipeline: reading %s: %w", t.Path, err)}
	}

	batch, err := t.Decode(data, t.Projection)
	if err != nil {
		logf(opt.Logger, "pipeline: decoding %s failed: %v", t.Path, err)
		return Result{Path: t.Path, Err: fmt.Errorf("pipeline: decoding %s: %w", t.Path, err)}
	}

	return Result{
		Elapsed:   time.Since(start),
		BlobBytes: len(data),
		Batch:     batch,
		Path:      t.Path,
	}
}

// fetch implements the cache-aware byte fetch: consult the cache,
// fall back to a direct read on miss or transport failure, and
// populate the cache on a successful direct read (unless the result
// is oversize).
func fetch(ctx context.Context, t Task, st *stats.Stats, maxItem int64, logger Logger) ([]byte, error) {
	cache := t.Cache
	key := ""
	if cache != nil {
		key = blobcache.Key(t.Path)
		data, err := cache.Get(key)
		if err != nil {
			// Transport failure: disable the cache for the rest of
			// this task and fall back to a direct read.
			logf(logger, "pipeline: cache get %s failed: %v", t.Path, err)
			st.IncCacheErrors()
			cache = nil
		} else if data != nil {
			st.IncCacheHits()
			return data, nil
		} else {
			st.IncCacheMisses()
		}
	}

	data, err := t.Read(ctx, t.Path)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if int64(len(data)) > maxItem {
			st.IncCacheOversize()
		} else if err := cache.Set(key, data); err != nil {
			logf(logger, "pipeline: cache set %s failed: %v", t.Path, err)
			st.IncCacheErrors()
		}
	}
	return data, nil
}
