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

package sample

import "github.com/sandstonedb/sandstone/batchvec"

type astronautRow struct {
	id       int64
	name     string
	year     int64
	missions []any
}

var astronautRows = []astronautRow{
	{1, "Neil Armstrong", 1969, []any{"Gemini 8", "Apollo 11"}},
	{2, "Buzz Aldrin", 1969, []any{"Gemini 12", "Apollo 11"}},
	{3, "Michael Collins", 1969, []any{"Gemini 10", "Apollo 11"}},
	{4, "Frank Borman", 1968, []any{"Gemini 7", "Apollo 8"}},
	{5, "James Lovell", 1970, []any{"Gemini 7", "Gemini 12", "Apollo 8", "Apollo 13"}},
	{6, "William Anders", 1968, []any{"Apollo 8"}},
	{7, "Jim McDivitt", 1969, []any{"Gemini 4", "Apollo 9"}},
	{8, "David Scott", 1971, []any{"Gemini 8", "Apollo 9", "Apollo 15"}},
	{9, "Pete Conrad", 1969, []any{"Gemini 5", "Gemini 11", "Apollo 12"}},
	{10, "Alan Shepard", 1971, []any{"Mercury 3", "Apollo 14"}},
	{11, "John Young", 1972, []any{"Gemini 3", "Gemini 10", "Apollo 10", "Apollo 16"}},
	{12, "Eugene Cernan", 1972, []any{"Gemini 9", "Apollo 10", "Apollo 17"}},
}

// Astronauts returns the $astronauts sample table, including a
// missions list column used to exercise list-valued predicates such
// as LIST_CONTAINS.
func Astronauts() *batchvec.Batch {
	n := len(astronautRows)
	id := make(batchvec.Int64Vector, n)
	name := make(batchvec.StringVector, n)
	year := make(batchvec.Int64Vector, n)
	missions := batchvec.ListVector{Rows: make([][]any, n), ElemKind: batchvec.KindString}

	for i, r := range astronautRows {
		id[i] = r.id
		name[i] = r.name
		year[i] = r.year
		missions.Rows[i] = r.missions
	}

	return batchvec.MustNew([]batchvec.Column{
		col("id", id),
		col("name", name),
		col("year", year),
		col("missions", missions),
	})
}
