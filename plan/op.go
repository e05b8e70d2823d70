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

// Package plan implements the physical execution engine: a pull-based
// pipeline of operators that a logical planner (an external
// collaborator, out of scope here) wires together into a tree. Every
// operator holds zero or more producer operators and exposes a
// lazy Stream of batches; interior operators pull from their
// producers on demand rather than being pushed batches.
package plan

import (
	"context"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/enginerr"
	"github.com/sandstonedb/sandstone/stats"
)

// Stream is a finite, pull-based sequence of batches. Calling it
// again after it returns (nil, nil) is undefined; operators are
// one-shot per query, matching the re-entrancy contract in spec.md
// §4.1. A non-nil error ends the stream permanently.
type Stream func() (*batchvec.Batch, error)

// Op is implemented by every physical plan node.
type Op interface {
	// Execute returns this operator's output stream. It may pull one
	// or more batches from its producers eagerly (e.g. Sort and
	// Aggregate, which must materialize their input) or lazily.
	Execute(ctx context.Context, st *stats.Stats) (Stream, error)

	// Config returns a short, human-readable summary of this
	// operator's configuration, for EXPLAIN-style output.
	Config() string

	// Name is this operator's display label, e.g. "Selection".
	Name() string

	// SetProducers wires this operator's inputs. It fails with
	// *enginerr.InvalidPlanError if producers has the wrong length
	// for this operator kind.
	SetProducers(producers []Op) error

	// Producers returns the producers last set by SetProducers.
	Producers() []Op
}

// base implements the producer-count bookkeeping shared by every Op,
// leaving Execute and Config to each concrete operator.
type base struct {
	name      string
	want      int
	producers []Op
}

func newBase(name string, want int) base {
	return base{name: name, want: want}
}

func (b *base) Name() string { return b.name }

func (b *base) Producers() []Op { return b.producers }

func (b *base) SetProducers(producers []Op) error {
	if len(producers) != b.want {
		return &enginerr.InvalidPlanError{Op: b.name, Want: b.want, Got: len(producers)}
	}
	b.producers = producers
	return nil
}

// pullAll drains a producer's stream into a single slice of batches,
// used by operators (Sort, Aggregate, Join) that must see
// their whole input before producing output.
func pullAll(ctx context.Context, op Op, st *stats.Stats) ([]*batchvec.Batch, error) {
	s, err := op.Execute(ctx, st)
	if err != nil {
		return nil, err
	}
	var out []*batchvec.Batch
	for {
		b, err := s()
		if err != nil {
			return nil, err
		}
		if b == nil {
			return out, nil
		}
		out = append(out, b)
	}
}
