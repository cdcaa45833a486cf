package geobases

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/mmcloughlin/geohash"
	"go.uber.org/zap"
)

var (
	// ErrBadCoordinate is returned when a latitude/longitude pair cannot be
	// placed on the grid (non-finite or out of range).
	ErrBadCoordinate = errors.New("geobases: bad coordinate")
	// ErrUnknownKey is returned when a key-based query names a key that was
	// never indexed.
	ErrUnknownKey = errors.New("geobases: unknown key")
)

// Match is one query result: a key and its distance in kilometers from the
// query point. Unchecked grid queries report a zero distance.
type Match struct {
	Distance float64
	Key      string
}

type gridPoint struct {
	cell string
	lat  float64
	lng  float64
}

// Grid buckets points into geohash cells of a fixed precision and answers
// radius and K-nearest queries by expanding rings of neighbouring cells.
//
// A Grid is not safe for concurrent use. Populate it fully before querying,
// or serialize Add against queries.
type Grid struct {
	precision int
	avgRadius float64
	points    map[string]gridPoint
	cells     map[string][]string
	logger    *zap.Logger
	ringCap   int // rings expanded before ErrRingOverflow
}

// NewGrid returns an empty grid with a fixed geohash precision (1..8).
func NewGrid(precision int, logger *zap.Logger) (*Grid, error) {
	avg, err := AvgRadiusForPrecision(precision)
	if err != nil {
		return nil, err
	}
	return newGrid(precision, avg, logger), nil
}

// NewGridForRadius returns an empty grid whose precision suits queries of
// the given radius in kilometers. See PrecisionForRadius.
func NewGridForRadius(radius float64, logger *zap.Logger) (*Grid, error) {
	precision, avg, err := PrecisionForRadius(radius)
	if err != nil {
		return nil, err
	}
	return newGrid(precision, avg, logger), nil
}

func newGrid(precision int, avgRadius float64, logger *zap.Logger) *Grid {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("grid precision selected",
		zap.Int("precision", precision),
		zap.Float64("avg_radius_km", avgRadius))
	return &Grid{
		precision: precision,
		avgRadius: avgRadius,
		points:    make(map[string]gridPoint),
		cells:     make(map[string][]string),
		logger:    logger,
		ringCap:   maxRingExpansions,
	}
}

// Precision returns the geohash length of the grid cells.
func (g *Grid) Precision() int { return g.precision }

// AvgRadius returns the average cell radius in kilometers.
func (g *Grid) AvgRadius() float64 { return g.avgRadius }

// Len returns the number of indexed points.
func (g *Grid) Len() int { return len(g.points) }

// Cell returns the geohash cell holding key.
func (g *Grid) Cell(key string) (string, bool) {
	p, ok := g.points[key]
	return p.cell, ok
}

// Location returns the coordinates key was indexed with.
func (g *Grid) Location(key string) (lat, lng float64, ok bool) {
	p, ok := g.points[key]
	return p.lat, p.lng, ok
}

// Keys returns the keys bucketed in cell, in insertion order.
func (g *Grid) Keys(cell string) []string {
	return slices.Clone(g.cells[cell])
}

// cellOf encodes a coordinate at the grid precision.
func (g *Grid) cellOf(lat, lng float64) (string, bool) {
	if _, ok := latLng(lat, lng); !ok {
		return "", false
	}
	return geohash.EncodeWithPrecision(lat, lng, uint(g.precision)), true
}

// Add indexes key at (lat, lng). Bad coordinates leave the grid untouched,
// log a warning and return ErrBadCoordinate. Adding an existing key moves
// it to the cell of its new coordinates.
func (g *Grid) Add(key string, lat, lng float64) error {
	cell, ok := g.cellOf(lat, lng)
	if !ok {
		g.logger.Warn("skipping point with bad coordinates",
			zap.String("key", key),
			zap.Float64("lat", lat),
			zap.Float64("lng", lng))
		return fmt.Errorf("%w: key %q (%v, %v)", ErrBadCoordinate, key, lat, lng)
	}

	if old, exists := g.points[key]; exists {
		g.removeFromCell(old.cell, key)
	}
	g.points[key] = gridPoint{cell: cell, lat: lat, lng: lng}
	g.cells[cell] = append(g.cells[cell], key)
	return nil
}

func (g *Grid) removeFromCell(cell, key string) {
	keys := g.cells[cell]
	if i := slices.Index(keys, key); i >= 0 {
		keys = slices.Delete(keys, i, i+1)
	}
	if len(keys) == 0 {
		delete(g.cells, cell)
		return
	}
	g.cells[cell] = keys
}

// ringCount is the number of rings a radius query expands: enough to cover
// radius with two rings of slack, and never fewer than the origin plus its
// first-order neighbours.
func (g *Grid) ringCount(radius float64) int {
	return max(2, int(math.Ceil(radius/g.avgRadius))+2)
}

// FindNearPoint returns the keys within radius kilometers of (lat, lng).
//
// With doubleCheck the candidates are filtered by exact distance and sorted
// ascending. Without it every key in the expanded rings is returned with a
// zero distance, in discovery order.
func (g *Grid) FindNearPoint(lat, lng, radius float64, doubleCheck bool) ([]Match, error) {
	if len(g.points) == 0 {
		return nil, nil
	}
	origin, ok := g.cellOf(lat, lng)
	if !ok {
		return nil, nil
	}

	var candidates []string
	for ring, err := range rings(origin, g.ringCount(radius), g.ringCap) {
		if err != nil {
			g.logger.Error("radius search aborted", zap.Error(err), zap.Float64("radius_km", radius))
			return nil, err
		}
		candidates = g.collect(candidates, ring, nil)
	}

	if !doubleCheck {
		return unchecked(candidates), nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, key := range candidates {
		p := g.points[key]
		if d := Distance(lat, lng, p.lat, p.lng); d <= radius {
			matches = append(matches, Match{Distance: d, Key: key})
		}
	}
	sortMatches(matches)
	return matches, nil
}

// FindNearKey is FindNearPoint from the indexed coordinates of key. The key
// itself is part of the result.
func (g *Grid) FindNearKey(key string, radius float64, doubleCheck bool) ([]Match, error) {
	p, ok := g.points[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return g.FindNearPoint(p.lat, p.lng, radius, doubleCheck)
}

// FindClosestFromPoint returns the n keys closest to (lat, lng).
//
// Rings are expanded until at least n candidates were found and the last
// ring held more than one cell. This is a heuristic: on strongly non-uniform
// data the n-th result may not be the true n-th neighbour.
//
// fromKeys, when non-nil, restricts the search to those keys. With
// doubleCheck the candidates are ranked by exact distance and cut to n;
// otherwise the whole candidate set is returned with zero distances.
func (g *Grid) FindClosestFromPoint(lat, lng float64, n int, doubleCheck bool, fromKeys []string) ([]Match, error) {
	if n <= 0 || len(g.points) == 0 {
		return nil, nil
	}
	origin, ok := g.cellOf(lat, lng)
	if !ok {
		return nil, nil
	}

	var allowed map[string]struct{}
	limit := len(g.points)
	if fromKeys != nil {
		allowed = make(map[string]struct{}, len(fromKeys))
		for _, k := range fromKeys {
			if _, indexed := g.points[k]; indexed {
				allowed[k] = struct{}{}
			}
		}
		limit = len(allowed)
	}
	n = min(n, limit)
	if n == 0 {
		return nil, nil
	}

	var candidates []string
	for ring, err := range rings(origin, 0, g.ringCap) {
		if err != nil {
			g.logger.Error("closest search aborted", zap.Error(err), zap.Int("n", n))
			return nil, err
		}
		candidates = g.collect(candidates, ring, allowed)
		if len(candidates) >= n && len(ring) > 1 {
			break
		}
	}

	if !doubleCheck {
		return unchecked(candidates), nil
	}

	matches := make([]Match, len(candidates))
	for i, key := range candidates {
		p := g.points[key]
		matches[i] = Match{Distance: Distance(lat, lng, p.lat, p.lng), Key: key}
	}
	sortMatches(matches)
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// FindClosestFromKey is FindClosestFromPoint from the indexed coordinates
// of key. The key itself is a candidate.
func (g *Grid) FindClosestFromKey(key string, n int, doubleCheck bool, fromKeys []string) ([]Match, error) {
	p, ok := g.points[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return g.FindClosestFromPoint(p.lat, p.lng, n, doubleCheck, fromKeys)
}

// collect appends the keys of ring's cells to dst, keeping only allowed keys
// when allowed is non-nil. Rings never repeat a cell and a key lives in
// exactly one cell, so no key is appended twice.
func (g *Grid) collect(dst []string, ring []string, allowed map[string]struct{}) []string {
	for _, cell := range ring {
		for _, key := range g.cells[cell] {
			if allowed != nil {
				if _, ok := allowed[key]; !ok {
					continue
				}
			}
			dst = append(dst, key)
		}
	}
	return dst
}

func unchecked(keys []string) []Match {
	matches := make([]Match, len(keys))
	for i, k := range keys {
		matches[i] = Match{Key: k}
	}
	return matches
}

// sortMatches orders by ascending distance, keeping discovery order on ties.
func sortMatches(matches []Match) {
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
}
