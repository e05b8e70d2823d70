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
	"strings"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/enginerr"
	"github.com/sandstonedb/sandstone/sample"
	"github.com/sandstonedb/sandstone/stats"
)

// InternalDataset is the internal dataset operator (spec.md §4.7): a
// leaf that maps a "$"-prefixed dataset identifier to a sample.Factory,
// normalizes its output, and yields exactly one batch.
type InternalDataset struct {
	base
	dataset string
	alias   string
}

// NewInternalDataset fails fast with *enginerr.DatasetNotFoundError if
// dataset is not a recognised sample table, matching the blob
// reader's fail-fast-on-construction behavior.
func NewInternalDataset(dataset, alias string) (*InternalDataset, error) {
	key := strings.ToLower(dataset)
	if _, ok := sample.Registry[key]; !ok {
		return nil, &enginerr.DatasetNotFoundError{Dataset: dataset}
	}
	return &InternalDataset{base: newBase(fmt.Sprintf("InternalDataset(%s)", dataset), 0), dataset: key, alias: alias}, nil
}

func (d *InternalDataset) Config() string { return fmt.Sprintf("dataset=%s", d.dataset) }

func (d *InternalDataset) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	factory, ok := sample.Registry[d.dataset]
	if !ok {
		return nil, &enginerr.DatasetNotFoundError{Dataset: d.dataset}
	}

	done := false
	return func() (*batchvec.Batch, error) {
		if done {
			return nil, nil
		}
		done = true

		batch := factory()
		batch = batchvec.Normalize(batch)
		alias := d.alias
		if alias == "" {
			alias = d.dataset
		}
		batch = batch.AttachTable(alias, d.dataset)

		st.AddRowsRead(int64(batch.RowCount()))
		st.AddColumnsRead(int64(len(batch.Names())))
		return batch, nil
	}, nil
}
