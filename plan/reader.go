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
	"fmt"
	"path"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/blobcache"
	"github.com/sandstonedb/sandstone/decode"
	"github.com/sandstonedb/sandstone/enginerr"
	"github.com/sandstonedb/sandstone/partition"
	"github.com/sandstonedb/sandstone/pipeline"
	"github.com/sandstonedb/sandstone/stats"
	"github.com/sandstonedb/sandstone/storage"
)

// Hints carries the WITH (...) directives that tweak a single blob
// scan, per spec.md §6.
type Hints struct {
	NoCache           bool
	NoPartition       bool
	NoPushProjection  bool
}

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	Dataset    string
	Alias      string
	Adapter    storage.Adapter
	Scheme     partition.Scheme
	Cache      blobcache.Cache
	Projection decode.Projection
	Start, End storage.Date
	Hints      Hints
	Parallel   int
	// Logger, if non-nil, receives pipeline diagnostics (cache
	// transport failures, decode errors) as they happen.
	Logger pipeline.Logger
}

type scannedBlob struct {
	path   string
	decode decode.Decoder
}

type scannedPartition struct {
	partition string
	blobs     []scannedBlob
}

// Reader is the blob reader operator (spec.md §4.5): a leaf operator
// that drives partition discovery, dispatches the surviving blobs to
// the parallel read+decode pipeline, and reconciles each decoded
// batch's schema against the first batch it produced.
type Reader struct {
	base
	cfg ReaderConfig

	partitions    []scannedPartition
	estimatedRows int64
}

// NewReader scans cfg's dataset immediately, matching the "on
// construction, invokes the scanner" rule in spec.md §4.5, and fails
// with *enginerr.DatasetNotFoundError if no partition survives with
// at least one DATA blob.
func NewReader(ctx context.Context, cfg ReaderConfig, st *stats.Stats) (*Reader, error) {
	r := &Reader{base: newBase(fmt.Sprintf("Reader(%s)", cfg.Dataset), 0), cfg: cfg}
	partitions, err := scan(ctx, cfg, st)
	if err != nil {
		return nil, err
	}
	r.partitions = partitions
	return r, nil
}

func (r *Reader) Config() string {
	return fmt.Sprintf("dataset=%s partitions=%d", r.cfg.Dataset, len(r.partitions))
}

// EstimatedRows returns num_rows(first batch) × surviving_blob_count,
// populated once the first batch has been pulled from Execute's
// stream. Zero before that.
func (r *Reader) EstimatedRows() int64 { return r.estimatedRows }

// scan implements spec.md §4.5 steps 1-4.
func scan(ctx context.Context, cfg ReaderConfig, st *stats.Stats) ([]scannedPartition, error) {
	candidates, err := cfg.Adapter.GetPartitions(ctx, cfg.Dataset, cfg.Scheme.Format(), cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("plan: listing partitions for %s: %w", cfg.Dataset, err)
	}
	st.AddPartitionsFound(int64(len(candidates)))

	var out []scannedPartition
	for _, p := range candidates {
		st.IncPartitionsScanned()

		blobs, err := cfg.Adapter.GetBlobList(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("plan: listing blobs for partition %s: %w", p, err)
		}

		stripped := stripDirectoryMarkers(blobs)
		st.AddBlobsFound(int64(len(stripped)))

		framed := cfg.Scheme.FilterBlobs(stripped)
		st.AddBlobsIgnoredFrames(int64(len(stripped) - len(framed)))

		var data []scannedBlob
		for _, b := range framed {
			entry, ok := decode.Lookup(extension(b))
			if !ok {
				st.IncUnknownBlobTypeFound()
				continue
			}
			switch entry.Kind {
			case decode.KindControl:
				st.IncControlBlobsFound()
			case decode.KindData:
				st.IncDataBlobsRead()
				data = append(data, scannedBlob{path: b, decode: entry.Decode})
			}
		}

		if len(data) == 0 {
			continue
		}
		st.IncPartitionsRead()
		out = append(out, scannedPartition{partition: p, blobs: data})
	}

	if len(out) == 0 {
		return nil, &enginerr.DatasetNotFoundError{Dataset: cfg.Dataset}
	}
	return out, nil
}

func stripDirectoryMarkers(blobs []string) []string {
	out := make([]string, 0, len(blobs))
	for _, b := range blobs {
		if strings.HasSuffix(b, "/") {
			continue
		}
		out = append(out, b)
	}
	return out
}

func extension(p string) string {
	ext := path.Ext(p)
	return strings.TrimPrefix(ext, ".")
}

// Execute dispatches every surviving partition's blobs to the
// parallel read+decode pipeline, sorted by path within each
// partition for deterministic dispatch order, and reconciles each
// resulting batch's schema per spec.md §4.5 steps 1-5.
func (r *Reader) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	var tasks []pipeline.Task
	totalBlobs := 0
	for _, p := range r.partitions {
		blobs := append([]scannedBlob(nil), p.blobs...)
		slices.SortFunc(blobs, func(a, b scannedBlob) bool { return a.path < b.path })
		totalBlobs += len(blobs)
		for _, b := range blobs {
			cache := r.cfg.Cache
			if r.cfg.Hints.NoCache {
				cache = nil
			}
			proj := r.cfg.Projection
			if r.cfg.Hints.NoPushProjection {
				proj = nil
			}
			tasks = append(tasks, pipeline.Task{
				Path:       b.path,
				Read:       r.cfg.Adapter.ReadBlob,
				Decode:     b.decode,
				Cache:      cache,
				Projection: proj,
			})
		}
	}

	results := pipeline.Run(ctx, tasks, st, pipeline.Options{Parallel: r.cfg.Parallel, Logger: r.cfg.Logger})

	first := true
	var firstSchema []string

	return func() (*batchvec.Batch, error) {
		for res := range results {
			if res.Err != nil {
				st.IncReadErrors()
				return nil, res.Err
			}

			batch := res.Batch
			st.AddBytesReadData(int64(res.BlobBytes))
			st.AddRowsRead(int64(batch.RowCount()))

			if first {
				first = false
				firstSchema = batch.Names()
				st.AddColumnsRead(int64(len(firstSchema)))
				r.estimatedRows = int64(batch.RowCount()) * int64(totalBlobs)
				batch = batch.AttachTable(r.tableAlias(), res.Path)
				batch = batchvec.Normalize(batch)
				return batch, nil
			}

			batch, err := r.applyMetadata(batch, res.Path, st)
			if err != nil {
				return nil, err
			}
			batch = batchvec.IntersectSchema(batch, firstSchema)
			batch = batchvec.Normalize(batch)
			return batch, nil
		}
		return nil, nil
	}, nil
}

func (r *Reader) tableAlias() string {
	if r.cfg.Alias != "" {
		return r.cfg.Alias
	}
	return r.cfg.Dataset
}

// applyMetadata tags batch with table provenance, rematerializing and
// retrying once on failure (recording read_errors), per spec.md §4.5
// step 2. In this implementation metadata attachment is a pure
// struct-field copy and cannot itself fail, but the retry path is
// kept so a future decoder that returns partially-built batches is
// handled the way the spec requires.
func (r *Reader) applyMetadata(batch *batchvec.Batch, path string, st *stats.Stats) (*batchvec.Batch, error) {
	tagged := batch.AttachTable(r.tableAlias(), path)
	if tagged == nil {
		st.IncReadErrors()
		retried := batchvec.MustNew(batch.Columns()).AttachTable(r.tableAlias(), path)
		if retried == nil {
			return nil, fmt.Errorf("plan: reapplying metadata for %s: %w", path, &enginerr.DecodeError{Path: path})
		}
		return retried, nil
	}
	return tagged, nil
}
