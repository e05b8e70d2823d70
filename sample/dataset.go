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

// Package sample implements the in-memory "$"-prefixed datasets
// (spec.md §4.7): small, self-contained tables usable without any
// storage adapter, handy for demos, tests, and ad-hoc queries.
package sample

import "github.com/sandstonedb/sandstone/batchvec"

// Factory builds one sample table on demand. Tables are built lazily
// so a query that never references a given dataset never pays to
// construct it.
type Factory func() *batchvec.Batch

// Registry maps a "$"-prefixed dataset identifier, lowercased, to its
// Factory.
var Registry = map[string]Factory{
	"$planets":    Planets,
	"$satellites": Satellites,
	"$astronauts": Astronauts,
	"$no_table":   NoTable,
}

// NoTable returns a single row, single column table, useful for
// queries that select only literals and constant expressions (`SELECT
// 1 FROM $no_table`).
func NoTable() *batchvec.Batch {
	return batchvec.MustNew([]batchvec.Column{
		col("unused", batchvec.Int64Vector{1}),
	})
}

// col builds a Column with bare metadata (no table/source yet
// assigned); the internal dataset operator stamps table metadata in
// once the factory has run.
func col(name string, data batchvec.Vector) batchvec.Column {
	return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: data}
}
