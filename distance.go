package geobases

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadius is the mean Earth radius in kilometers used by Distance.
const EarthRadius = 6371.0

// InfiniteDistance is returned by Distance when a coordinate is unusable.
// It keeps every distance comparison total: a bad point simply sorts last.
const InfiniteDistance = 1e14

// latLng converts degrees to an s2.LatLng and reports whether it is usable.
// NaN, infinities and out-of-range values all fail s2's validity check.
func latLng(lat, lng float64) (s2.LatLng, bool) {
	ll := s2.LatLngFromDegrees(lat, lng)
	return ll, ll.IsValid()
}

// Distance returns the great-circle distance in kilometers between two
// points given in degrees, using the haversine formula.
//
// Invalid coordinates return InfiniteDistance instead of an error.
func Distance(lat0, lng0, lat1, lng1 float64) float64 {
	p0, ok0 := latLng(lat0, lng0)
	p1, ok1 := latLng(lat1, lng1)
	if !ok0 || !ok1 {
		return InfiniteDistance
	}

	dLat := p1.Lat.Radians() - p0.Lat.Radians()
	dLng := p1.Lng.Radians() - p0.Lng.Radians()

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	// The cosine product is formed first so swapping the points gives the
	// same bits.
	cosLats := math.Cos(p0.Lat.Radians()) * math.Cos(p1.Lat.Radians())
	h := sinLat*sinLat + sinLng*sinLng*cosLats

	// Antipodal points can round just above 1.
	h = math.Min(h, 1)

	d := 2 * EarthRadius * math.Asin(math.Sqrt(h))
	if math.IsNaN(d) {
		return InfiniteDistance
	}
	return d
}
