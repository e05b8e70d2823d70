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

package batchvec

// Normalize casts temporal columns (date32, date64, timestamp[s],
// timestamp[ms]) to timestamp[us], and empty-typed list columns
// (list<null>) to list<string>, matching the ingress schema
// normalization every reader applies on its way out of decode.
func Normalize(b *Batch) *Batch {
	if b == nil {
		return nil
	}
	cols := b.Columns()
	out := make([]Column, len(cols))
	changed := false
	for i, c := range cols {
		switch v := c.Data.(type) {
		case TimestampVector:
			if v.kind.temporal() {
				out[i] = Column{Meta: c.Meta, Data: v.Normalized()}
				changed = true
				continue
			}
		case ListVector:
			if v.ElemKind == KindListNull {
				out[i] = Column{Meta: c.Meta, Data: v.Normalized()}
				changed = true
				continue
			}
		}
		out[i] = c
	}
	if !changed {
		return b
	}
	return &Batch{cols: out, rows: b.rows}
}

// IntersectSchema drops any column in b that is not present (by
// name) in refNames, preserving refNames' order. This implements the
// reader rule: "subsequent batches are reduced to the intersection
// of columns with the first batch's schema; new columns appearing
// later are dropped."
func IntersectSchema(b *Batch, refNames []string) *Batch {
	if b == nil {
		return nil
	}
	present := make(map[string]bool, len(b.cols))
	for _, c := range b.cols {
		present[c.Meta.Name] = true
	}
	keep := make([]string, 0, len(refNames))
	for _, n := range refNames {
		if present[n] {
			keep = append(keep, n)
		}
	}
	return b.Project(keep)
}
