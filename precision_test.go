package geobases

import (
	"errors"
	"math"
	"testing"
)

func TestPrecisionForRadius(t *testing.T) {
	tests := []struct {
		radius        float64
		wantPrecision int
		wantAvg       float64
	}{
		{50, 4, 20},
		{20, 4, 20},
		{19.9, 5, 2.4},
		{100, 3, 78},
		{700, 2, 630},
		{10000, 1, 2500},
		{1, 6, 0.61},
		{0.05, 8, 0.019},
		{0, 8, 0.019},
	}
	for _, tt := range tests {
		p, avg, err := PrecisionForRadius(tt.radius)
		if err != nil {
			t.Fatalf("PrecisionForRadius(%v): %v", tt.radius, err)
		}
		if p != tt.wantPrecision || avg != tt.wantAvg {
			t.Errorf("PrecisionForRadius(%v) = (%d, %v), want (%d, %v)",
				tt.radius, p, avg, tt.wantPrecision, tt.wantAvg)
		}
	}
}

func TestPrecisionForRadiusInvalid(t *testing.T) {
	for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, _, err := PrecisionForRadius(r); !errors.Is(err, ErrInvalidRadius) {
			t.Errorf("PrecisionForRadius(%v) error = %v, want ErrInvalidRadius", r, err)
		}
	}
}

func TestAvgRadiusForPrecision(t *testing.T) {
	for _, p := range geohashPrecisions {
		avg, err := AvgRadiusForPrecision(p.precision)
		if err != nil {
			t.Fatalf("AvgRadiusForPrecision(%d): %v", p.precision, err)
		}
		if avg != p.kmErr {
			t.Errorf("AvgRadiusForPrecision(%d) = %v, want %v", p.precision, avg, p.kmErr)
		}
	}
	for _, p := range []int{0, 9, -1} {
		if _, err := AvgRadiusForPrecision(p); !errors.Is(err, ErrInvalidPrecision) {
			t.Errorf("AvgRadiusForPrecision(%d) error = %v, want ErrInvalidPrecision", p, err)
		}
	}
}
