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

package partition

import "github.com/sandstonedb/sandstone/storage"

// Default is the non-temporal partition scheme: the dataset path is
// emitted unchanged, with no date expansion, and no blob is ever
// filtered out.
type Default struct {
	formatStr string
}

func (d Default) Format() string { return d.formatStr }

func (d Default) Partitions(dataset string, _, _ storage.Date) []string {
	return []string{dataset}
}

func (d Default) FilterBlobs(blobs []string) []string {
	return append([]string(nil), blobs...)
}
