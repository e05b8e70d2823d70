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

type planetRow struct {
	id                 int64
	name               string
	mass               float64
	diameter           float64
	density            float64
	gravity            float64
	escapeVelocity     float64
	rotationPeriod     float64
	lengthOfDay        float64
	distanceFromSun    float64
	perihelion         float64
	aphelion           float64
	orbitalPeriod      float64
	orbitalVelocity    float64
	orbitalInclination float64
	orbitalEccentricity float64
	obliquityToOrbit   float64
	meanTemperature    float64
	surfacePressure    float64
	numberOfMoons      int64
	hasRingSystem      bool
}

var planetRows = []planetRow{
	{1, "Mercury", 0.330, 4879, 5427, 3.7, 4.3, 1407.6, 4222.6, 57.9, 46.0, 69.8, 88.0, 47.4, 0.0, 0.205, 0.03, 167, 0, 0, false},
	{2, "Venus", 4.87, 12104, 5243, 8.9, 10.4, -5832.5, 2802.0, 108.2, 107.5, 108.9, 224.7, 35.0, 177.4, 0.007, 177.4, 464, 92, 0, false},
	{3, "Earth", 5.97, 12756, 5514, 9.8, 11.2, 23.9, 24.0, 149.6, 147.1, 152.1, 365.2, 29.8, 23.4, 0.017, 23.4, 15, 1, 1, false},
	{4, "Mars", 0.642, 6792, 3933, 3.7, 5.0, 24.6, 24.7, 227.9, 206.6, 249.2, 687.0, 24.1, 25.2, 0.094, 25.2, -65, 0.01, 2, false},
	{5, "Jupiter", 1898, 142984, 1326, 23.1, 59.5, 9.9, 9.9, 778.6, 740.5, 816.6, 4331.0, 13.1, 3.1, 0.049, 3.1, -110, 0, 95, true},
	{6, "Saturn", 568, 120536, 687, 9.0, 35.5, 10.7, 10.7, 1433.5, 1352.6, 1514.5, 10747.0, 9.7, 26.7, 0.052, 26.7, -140, 0, 146, true},
	{7, "Uranus", 86.8, 51118, 1271, 8.7, 21.3, -17.2, 17.2, 2872.5, 2741.3, 3003.6, 30589.0, 6.8, 97.8, 0.047, 97.8, -195, 0, 28, true},
	{8, "Neptune", 102, 49528, 1638, 11.0, 23.5, 16.1, 16.1, 4495.1, 4444.5, 4545.7, 59800.0, 5.4, 28.3, 0.010, 28.3, -200, 0, 16, true},
	{9, "Pluto", 0.0146, 2370, 1854, 0.7, 1.3, -153.3, 153.3, 5906.4, 4436.8, 7375.9, 90560.0, 4.7, 122.5, 0.244, 122.5, -225, 0.00001, 5, false},
}

// Planets returns the classic nine-row planetary-facts sample table
// used as the $planets dataset.
func Planets() *batchvec.Batch {
	n := len(planetRows)
	id := make(batchvec.Int64Vector, n)
	name := make(batchvec.StringVector, n)
	mass := make(batchvec.Float64Vector, n)
	diameter := make(batchvec.Float64Vector, n)
	density := make(batchvec.Float64Vector, n)
	gravity := make(batchvec.Float64Vector, n)
	escapeVelocity := make(batchvec.Float64Vector, n)
	rotationPeriod := make(batchvec.Float64Vector, n)
	lengthOfDay := make(batchvec.Float64Vector, n)
	distanceFromSun := make(batchvec.Float64Vector, n)
	perihelion := make(batchvec.Float64Vector, n)
	aphelion := make(batchvec.Float64Vector, n)
	orbitalPeriod := make(batchvec.Float64Vector, n)
	orbitalVelocity := make(batchvec.Float64Vector, n)
	orbitalInclination := make(batchvec.Float64Vector, n)
	orbitalEccentricity := make(batchvec.Float64Vector, n)
	obliquityToOrbit := make(batchvec.Float64Vector, n)
	meanTemperature := make(batchvec.Float64Vector, n)
	surfacePressure := make(batchvec.Float64Vector, n)
	numberOfMoons := make(batchvec.Int64Vector, n)
	hasRingSystem := make(batchvec.BoolVector, n)

	for i, r := range planetRows {
		id[i] = r.id
		name[i] = r.name
		mass[i] = r.mass
		diameter[i] = r.diameter
		density[i] = r.density
		gravity[i] = r.gravity
		escapeVelocity[i] = r.escapeVelocity
		rotationPeriod[i] = r.rotationPeriod
		lengthOfDay[i] = r.lengthOfDay
		distanceFromSun[i] = r.distanceFromSun
		perihelion[i] = r.perihelion
		aphelion[i] = r.aphelion
		orbitalPeriod[i] = r.orbitalPeriod
		orbitalVelocity[i] = r.orbitalVelocity
		orbitalInclination[i] = r.orbitalInclination
		orbitalEccentricity[i] = r.orbitalEccentricity
		obliquityToOrbit[i] = r.obliquityToOrbit
		meanTemperature[i] = r.meanTemperature
		surfacePressure[i] = r.surfacePressure
		numberOfMoons[i] = r.numberOfMoons
		hasRingSystem[i] = r.hasRingSystem
	}

	return batchvec.MustNew([]batchvec.Column{
		col("id", id),
		col("name", name),
		col("mass", mass),
		col("diameter", diameter),
		col("density", density),
		col("gravity", gravity),
		col("escapeVelocity", escapeVelocity),
		col("rotationPeriod", rotationPeriod),
		col("lengthOfDay", lengthOfDay),
		col("distanceFromSun", distanceFromSun),
		col("perihelion", perihelion),
		col("aphelion", aphelion),
		col("orbitalPeriod", orbitalPeriod),
		col("orbitalVelocity", orbitalVelocity),
		col("orbitalInclination", orbitalInclination),
		col("orbitalEccentricity", orbitalEccentricity),
		col("obliquityToOrbit", obliquityToOrbit),
		col("meanTemperature", meanTemperature),
		col("surfacePressure", surfacePressure),
		col("numberOfMoons", numberOfMoons),
		col("hasRingSystem", hasRingSystem),
	})
}
