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

// Package partition implements the policy objects that decide which
// partition folders a dataset scan should visit for a given date
// range, and which blobs within a partition belong to the chosen
// "frame" (spec.md §4.4). The scheme is a policy object rather than
// hard-coded scan logic, per the REDESIGN FLAG in spec.md §9.
package partition

import "github.com/sandstonedb/sandstone/storage"

// Scheme is implemented by Default and Mabel.
type Scheme interface {
	// Format returns the partitioning format string passed through
	// to storage.Adapter.GetPartitions.
	Format() string

	// Partitions returns the candidate partition paths for dataset
	// across [start, end] inclusive.
	Partitions(dataset string, start, end storage.Date) []string

	// FilterBlobs narrows blobs (already stripped of directory
	// markers) down to the single frame this scheme selects. It
	// never mutates its input and returns a new slice.
	FilterBlobs(blobs []string) []string
}

// Select returns the Scheme to use given the NO_PARTITION hint and
// the dataset's configured scheme name ("" for none, "mabel" for
// Mabel, or any other string to use as a literal Default format).
// NO_PARTITION always forces Default regardless of configuration,
// per spec.md §4.4.
func Select(configured string, noPartitionHint bool) Scheme {
	if noPartitionHint || configured == "" {
		return Default{formatStr: ""}
	}
	if configured != "mabel" {
		return Default{formatStr: configured}
	}
	return Mabel{}
}
