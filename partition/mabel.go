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

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sandstonedb/sandstone/storage"
)

// Mabel is the temporal partition scheme: partitions are rendered as
// <dataset>/year_YYYY/month_MM/day_DD/ for every date in the
// requested range, and blobs within a partition are filtered down to
// a single "frame" -- the snapshot taken the last time the partition
// was written -- by a naming convention where the frame identifier
// is a path segment matching "as_at_<digits>".
type Mabel struct{}

func (Mabel) Format() string { return "year_{yyyy}/month_{mm}/day_{dd}" }

func (Mabel) Partitions(dataset string, start, end storage.Date) []string {
	var out []string
	for d := start; d.Before(end) || d.Equal(end); d = d.AddDays(1) {
		out = append(out, renderPartition(dataset, d))
	}
	return out
}

func renderPartition(dataset string, d storage.Date) string {
	return fmt.Sprintf("%syear_%04d/month_%02d/day_%02d/", ensureTrailingSlash(dataset), d.Year, d.Month, d.Day)
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

var frameSegment = regexp.MustCompile(`^as_at_[0-9]+$`)

// FilterBlobs groups blobs by their "as_at_<digits>" path segment (if
// any) and keeps only the blobs belonging to the lexicographically
// greatest frame -- later "as_at_" timestamps sort greater, so this
// selects the most recent snapshot. Blobs with no frame segment
// (partition-root control markers, or datasets that don't use
// frames at all) pass through unfiltered.
func (Mabel) FilterBlobs(blobs []string) []string {
	type grouped struct {
		frame string
		blob  string
	}
	var framed []grouped
	var unframed []string
	frames := map[string]bool{}

	for _, b := range blobs {
		frame := ""
		for _, part := range strings.Split(b, "/") {
			if frameSegment.MatchString(part) {
				frame = part
				break
			}
		}
		if frame == "" {
			unframed = append(unframed, b)
			continue
		}
		framed = append(framed, grouped{frame: frame, blob: b})
		frames[frame] = true
	}

	if len(frames) == 0 {
		return append([]string(nil), blobs...)
	}

	chosen := ""
	keys := make([]string, 0, len(frames))
	for f := range frames {
		keys = append(keys, f)
	}
	sort.Strings(keys)
	chosen = keys[len(keys)-1]

	out := append([]string(nil), unframed...)
	for _, g := range framed {
		if g.frame == chosen {
			out = append(out, g.blob)
		}
	}
	return out
}
