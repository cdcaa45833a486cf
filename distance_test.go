package geobases

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
)

func TestDistanceSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{43.6584, 7.2159},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}
	for _, p := range points {
		if d := Distance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Distance(%v, %v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := []struct {
		lat0, lng0, lat1, lng1 float64
	}{
		{48.8566, 2.3522, 51.5074, -0.1278},
		{43.6584, 7.2159, 43.5853, 7.1192},
		{-33.8688, 151.2093, 40.7128, -74.0060},
		{0, 179.9, 0, -179.9},
	}
	for _, p := range pairs {
		a := Distance(p.lat0, p.lng0, p.lat1, p.lng1)
		b := Distance(p.lat1, p.lng1, p.lat0, p.lng0)
		if a != b {
			t.Errorf("Distance not symmetric for %+v: %v vs %v", p, a, b)
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat0, lng0, lat1, lng1 float64
		want                   float64
		tolerance              float64
	}{
		{"Paris to London", 48.8566, 2.3522, 51.5074, -0.1278, 343.5, 1},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.01},
		{"antimeridian", 0, 179.5, 0, -179.5, 111.19, 0.01},
		{"antipodes", 0, 0, 0, 180, math.Pi * EarthRadius, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat0, tt.lng0, tt.lat1, tt.lng1)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceAgreesWithS2(t *testing.T) {
	a := s2.LatLngFromDegrees(45.7256, 5.0811)
	b := s2.LatLngFromDegrees(45.5406, 4.2964)
	want := a.Distance(b).Radians() * EarthRadius

	got := Distance(45.7256, 5.0811, 45.5406, 4.2964)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Distance = %v, s2 says %v", got, want)
	}
}

func TestDistanceBadCoordinates(t *testing.T) {
	tests := []struct {
		name                   string
		lat0, lng0, lat1, lng1 float64
	}{
		{"NaN latitude", math.NaN(), 0, 0, 0},
		{"NaN longitude", 0, 0, 0, math.NaN()},
		{"infinite", math.Inf(1), 0, 0, 0},
		{"latitude out of range", 91, 0, 0, 0},
		{"longitude out of range", 0, 0, 0, -181},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.lat0, tt.lng0, tt.lat1, tt.lng1); got != InfiniteDistance {
				t.Errorf("Distance = %v, want InfiniteDistance", got)
			}
		})
	}
}
