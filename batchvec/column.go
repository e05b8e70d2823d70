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

// Package batchvec implements the columnar batch abstraction shared by
// every physical operator: an immutable table of named, typed columns
// with a fixed row count and per-column provenance metadata.
package batchvec

import "fmt"

// Kind identifies the runtime type of a column's values.
type Kind int

const (
	KindString Kind = iota
	KindInt64
	KindFloat64
	KindBool
	KindTimestampUS // microseconds since the Unix epoch, the canonical temporal kind
	KindDate32      // pre-normalization only; cast to KindTimestampUS on ingress
	KindDate64      // pre-normalization only
	KindTimestampS  // pre-normalization only
	KindTimestampMS // pre-normalization only
	KindListNull    // pre-normalization only; cast to KindList(String) on ingress
	KindList
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindTimestampUS:
		return "timestamp[us]"
	case KindDate32:
		return "date32"
	case KindDate64:
		return "date64"
	case KindTimestampS:
		return "timestamp[s]"
	case KindTimestampMS:
		return "timestamp[ms]"
	case KindListNull:
		return "list<null>"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// temporal reports whether k is one of the pre-normalization
// temporal kinds that must be cast to KindTimestampUS on ingress.
func (k Kind) temporal() bool {
	switch k {
	case KindDate32, KindDate64, KindTimestampS, KindTimestampMS:
		return true
	}
	return false
}

// Vector is a homogeneous, fixed-length run of column values.
// Implementations are immutable: Take always produces a new Vector.
type Vector interface {
	Kind() Kind
	Len() int
	// Take returns a new Vector containing the values at the
	// given row indices, in the order given.
	Take(indices []int) Vector
}

// Meta carries the provenance of a single column: its display
// name, the alias of the table it was sourced from (used to resolve
// `t.*` and USING/ON collisions in joins), and the source blob path
// that produced it (used to re-key column metadata across batches
// in the blob reader, see plan.Reader).
type Meta struct {
	Name  string
	Table string
	Source string
}

// Column pairs a Vector with its Meta.
type Column struct {
	Meta Meta
	Data Vector
}

func (c Column) Kind() Kind { return c.Data.Kind() }
func (c Column) Len() int   { return c.Data.Len() }

func (c Column) take(indices []int) Column {
	return Column{Meta: c.Meta, Data: c.Data.Take(indices)}
}

// Rename returns a copy of c with a new display name.
func (c Column) Rename(name string) Column {
	c.Meta.Name = name
	return c
}

// WithTable returns a copy of c tagged with the given table alias.
func (c Column) WithTable(table string) Column {
	c.Meta.Table = table
	return c
}

// WithSource returns a copy of c tagged with the given source blob
// path.
func (c Column) WithSource(source string) Column {
	c.Meta.Source = source
	return c
}
