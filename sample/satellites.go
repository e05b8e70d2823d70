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

import (
	"fmt"

	"github.com/sandstonedb/sandstone/batchvec"
)

// satellitesByPlanet gives the moon count for each planetId that has
// at least one known satellite, in the order satellites are emitted.
// Mercury (1) and Venus (2) have none and are absent, which is why
// GROUP BY planetId over $satellites yields 7 groups rather than 9.
var satellitesByPlanet = []struct {
	planetID int64
	name     string
	count    int
}{
	{3, "Earth", 1},
	{4, "Mars", 2},
	{5, "Jupiter", 67},
	{6, "Saturn", 61},
	{7, "Uranus", 27},
	{8, "Neptune", 14},
	{9, "Pluto", 5},
}

// namedSatellites overrides the generated name for a handful of
// well-known moons so the sample data reads naturally; every other
// moon falls back to "<planet> <n>".
var namedSatellites = map[string]string{
	"Earth-1": "Moon",
	"Mars-1":  "Phobos",
	"Mars-2":  "Deimos",
	"Jupiter-1": "Io",
	"Jupiter-2": "Europa",
	"Jupiter-3": "Ganymede",
	"Jupiter-4": "Callisto",
	"Saturn-1":  "Titan",
	"Saturn-2":  "Enceladus",
	"Uranus-1":  "Titania",
	"Uranus-2":  "Oberon",
	"Neptune-1": "Triton",
	"Pluto-1":   "Charon",
}

// Satellites returns the $satellites sample table: one row per known
// natural satellite, 177 rows total across 7 planets.
func Satellites() *batchvec.Batch {
	var id batchvec.Int64Vector
	var planetID batchvec.Int64Vector
	var name batchvec.StringVector
	var gm batchvec.Float64Vector
	var radius batchvec.Float64Vector
	var density batchvec.Float64Vector
	var magnitude batchvec.Float64Vector
	var albedo batchvec.Float64Vector

	nextID := int64(1)
	for _, p := range satellitesByPlanet {
		for i := 1; i <= p.count; i++ {
			key := fmt.Sprintf("%s-%d", p.name, i)
			n, ok := namedSatellites[key]
			if !ok {
				n = fmt.Sprintf("%s %d", p.name, i)
			}

			id = append(id, nextID)
			planetID = append(planetID, p.planetID)
			name = append(name, n)
			gm = append(gm, syntheticValue(nextID, 0.001, 9999.9))
			radius = append(radius, syntheticValue(nextID, 1.0, 2631.2))
			density = append(density, syntheticValue(nextID, 500, 3500))
			magnitude = append(magnitude, syntheticValue(nextID, -1.5, 25.0))
			albedo = append(albedo, syntheticValue(nextID, 0.02, 0.99))
			nextID++
		}
	}

	return batchvec.MustNew([]batchvec.Column{
		col("id", id),
		col("planetId", planetID),
		col("name", name),
		col("gm", gm),
		col("radius", radius),
		col("density", density),
		col("magnitude", magnitude),
		col("albedo", albedo),
	})
}

// syntheticValue derives a deterministic, plausible-looking value in
// [lo, hi] from a row id, so the sample data is reproducible across
// runs without pulling in a random source.
func syntheticValue(id int64, lo, hi float64) float64 {
	frac := float64((id*2654435761)%1000) / 1000.0
	return lo + frac*(hi-lo)
}
