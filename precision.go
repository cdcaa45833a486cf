package geobases

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidPrecision is returned for a geohash precision outside the table.
	ErrInvalidPrecision = errors.New("geobases: invalid geohash precision")
	// ErrInvalidRadius is returned for a negative or non-finite grid radius.
	ErrInvalidRadius = errors.New("geobases: invalid grid radius")
)

// geohashPrecision documents the cell size of one geohash length.
type geohashPrecision struct {
	precision int
	latBits   int
	lngBits   int
	latErr    float64 // degrees
	lngErr    float64 // degrees
	kmErr     float64
}

// geohashPrecisions is ordered from coarsest to finest.
var geohashPrecisions = [...]geohashPrecision{
	{1, 2, 3, 23, 23, 2500},
	{2, 5, 5, 2.8, 5.6, 630},
	{3, 7, 8, 0.70, 0.70, 78},
	{4, 10, 10, 0.087, 0.18, 20},
	{5, 12, 13, 0.022, 0.022, 2.4},
	{6, 15, 15, 0.0027, 0.0055, 0.61},
	{7, 17, 18, 0.00068, 0.00068, 0.076},
	{8, 20, 20, 0.000085, 0.00017, 0.019},
}

const (
	// MinPrecision and MaxPrecision bound the geohash lengths a Grid accepts.
	MinPrecision = 1
	MaxPrecision = 8
)

// PrecisionForRadius picks the coarsest geohash precision whose km error
// does not exceed radius, and returns it with its km error. Radius 50
// gives precision 4 (20 km) rather than precision 3 (78 km).
//
// A radius smaller than every entry falls back to MaxPrecision.
func PrecisionForRadius(radius float64) (int, float64, error) {
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}

	best := geohashPrecisions[len(geohashPrecisions)-1]
	bestDiff := math.Inf(1)
	for _, p := range geohashPrecisions {
		diff := radius - p.kmErr
		if diff < 0 {
			continue
		}
		if diff < bestDiff {
			best, bestDiff = p, diff
		}
	}
	return best.precision, best.kmErr, nil
}

// AvgRadiusForPrecision returns the km error of a fixed precision.
func AvgRadiusForPrecision(precision int) (float64, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return 0, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidPrecision, precision, MinPrecision, MaxPrecision)
	}
	return geohashPrecisions[precision-1].kmErr, nil
}
