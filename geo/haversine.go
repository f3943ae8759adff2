// Package geo holds great-circle helpers shared by the heuristic and the loaders.
//
// Distances are computed with the haversine formula on a sphere of radius
// EarthRadiusKm and are returned in kilometres. Edge lengths elsewhere in the
// module are meters; use MetersPerKm to convert.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0

	// MetersPerKm converts Haversine output to edge-length units.
	MetersPerKm = 1000.0
)

// Haversine returns the great-circle distance in kilometres between
// (lat1, lon1) and (lat2, lon2), all in degrees.
//
//	h = sin²(Δφ/2) + cos φ1 · cos φ2 · sin²(Δλ/2)
//	d = 2R · atan2(√h, √(1−h))
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HaversinePoints is Haversine over orb points, which are (lon, lat).
func HaversinePoints(a, b orb.Point) float64 {
	return Haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// LineLengthMeters sums the haversine length of consecutive points of ls, in meters.
func LineLengthMeters(ls orb.LineString) float64 {
	var total float64
	for i := 1; i < len(ls); i++ {
		total += HaversinePoints(ls[i-1], ls[i])
	}

	return total * MetersPerKm
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
