// Package geobases indexes a fixed set of geographic records in memory and
// answers three kinds of queries without scanning every record: points
// within a radius, the K nearest points, and the record whose name best
// matches a free-text query.
//
// Proximity queries go through a geohash grid searched by expanding rings
// of neighbouring cells; name queries go through a memoized fuzzy matcher
// over normalized tokens.
//
// Example:
//
//	data := geobases.NewMemoryDataset()
//	data.Set("NCE", map[string]string{"name": "Nice Côte d'Azur", "lat": "43.658", "lng": "7.216"})
//	g, err := geobases.New(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	near, _ := g.FindNearPoint(43.7, 7.26, 20, true)
//	best, _ := g.FuzzyGet("nice cote azur", "name")
package geobases

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Point is an indexed record location.
type Point struct {
	Key string
	Lat float64
	Lng float64
}

// GeoBase binds a grid and a fuzzy cache to a Dataset. It is the only part
// of the package that reads coordinates out of the records.
//
// A GeoBase is not safe for concurrent use; fuzzy queries write to a memo.
type GeoBase struct {
	data   Dataset
	config Config
	logger *zap.Logger

	points []Point
	index  map[string]int // key -> position in points
	grid   *Grid          // nil when proximity queries scan linearly
	fuzzy  *FuzzyCache
}

// New indexes every record of data whose coordinates parse. Records with
// missing or malformed coordinates are skipped with a warning and stay
// available to fuzzy queries.
func New(data Dataset, opts ...Option) (*GeoBase, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.LatField == "" {
		cfg.LatField = "lat"
	}
	if cfg.LngField == "" {
		cfg.LngField = "lng"
	}
	if cfg.TokenCacheSize <= 0 {
		cfg.TokenCacheSize = DefaultTokenCacheSize
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &GeoBase{
		data:   data,
		config: cfg,
		logger: logger,
		index:  make(map[string]int),
	}
	g.loadPoints()

	if !cfg.DisableGrid && len(g.points) >= cfg.LinearScanBelow {
		grid, err := g.newGrid()
		if err != nil {
			return nil, err
		}
		for _, p := range g.points {
			// Coordinates were validated by loadPoints.
			_ = grid.Add(p.Key, p.Lat, p.Lng)
		}
		g.grid = grid
	}

	fuzzy, err := NewFuzzyCache(data,
		FuzzyWithNormalizer(cfg.normalizer),
		FuzzyWithScorer(cfg.scorer),
		FuzzyWithLogger(logger),
		FuzzyWithTokenCacheSize(cfg.TokenCacheSize),
	)
	if err != nil {
		return nil, err
	}
	g.fuzzy = fuzzy

	logger.Info("geobase loaded",
		zap.Int("points", len(g.points)),
		zap.Bool("grid", g.grid != nil))
	return g, nil
}

func (g *GeoBase) newGrid() (*Grid, error) {
	if g.config.GridPrecision > 0 {
		grid, err := NewGrid(g.config.GridPrecision, g.logger)
		if err != nil {
			return nil, fmt.Errorf("creating grid: %w", err)
		}
		return grid, nil
	}
	grid, err := NewGridForRadius(g.config.GridRadius, g.logger)
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}
	return grid, nil
}

func (g *GeoBase) loadPoints() {
	for key := range g.data.Keys() {
		lat, lng, err := g.coordinates(key)
		if err != nil {
			g.logger.Warn("skipping record without usable coordinates",
				zap.String("key", key), zap.Error(err))
			continue
		}
		if _, dup := g.index[key]; dup {
			g.points[g.index[key]] = Point{Key: key, Lat: lat, Lng: lng}
			continue
		}
		g.index[key] = len(g.points)
		g.points = append(g.points, Point{Key: key, Lat: lat, Lng: lng})
	}
}

// coordinates reads and validates the coordinates of one record.
func (g *GeoBase) coordinates(key string) (float64, float64, error) {
	rawLat, okLat := g.data.Get(key, g.config.LatField)
	rawLng, okLng := g.data.Get(key, g.config.LngField)
	if !okLat || !okLng {
		return 0, 0, fmt.Errorf("%w: key %q has no %s/%s fields", ErrBadCoordinate, key, g.config.LatField, g.config.LngField)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(rawLng), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, fmt.Errorf("%w: key %q (%q, %q)", ErrBadCoordinate, key, rawLat, rawLng)
	}
	if _, ok := latLng(lat, lng); !ok {
		return 0, 0, fmt.Errorf("%w: key %q (%v, %v)", ErrBadCoordinate, key, lat, lng)
	}
	return lat, lng, nil
}

// Len returns the number of records with usable coordinates.
func (g *GeoBase) Len() int { return len(g.points) }

// HasGrid reports whether proximity queries use the geohash grid.
func (g *GeoBase) HasGrid() bool { return g.grid != nil }

// Grid returns the underlying grid, or nil when scanning linearly.
func (g *GeoBase) Grid() *Grid { return g.grid }

// Get returns one field of one record.
func (g *GeoBase) Get(key, field string) (string, bool) {
	return g.data.Get(key, field)
}

// Location returns the parsed coordinates of key.
func (g *GeoBase) Location(key string) (Point, bool) {
	i, ok := g.index[key]
	if !ok {
		return Point{}, false
	}
	return g.points[i], true
}

// FindNearPoint returns the records within radius km of (lat, lng). See
// Grid.FindNearPoint; the linear scan always checks exact distances.
func (g *GeoBase) FindNearPoint(lat, lng, radius float64, doubleCheck bool) ([]Match, error) {
	if g.grid != nil {
		return g.grid.FindNearPoint(lat, lng, radius, doubleCheck)
	}
	return g.linearNear(lat, lng, radius), nil
}

// FindNearKey returns the records within radius km of key.
func (g *GeoBase) FindNearKey(key string, radius float64, doubleCheck bool) ([]Match, error) {
	p, ok := g.Location(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return g.FindNearPoint(p.Lat, p.Lng, radius, doubleCheck)
}

// FindClosestFromPoint returns the n records closest to (lat, lng),
// optionally restricted to fromKeys. See Grid.FindClosestFromPoint.
func (g *GeoBase) FindClosestFromPoint(lat, lng float64, n int, doubleCheck bool, fromKeys []string) ([]Match, error) {
	if g.grid != nil {
		return g.grid.FindClosestFromPoint(lat, lng, n, doubleCheck, fromKeys)
	}
	return g.linearClosest(lat, lng, n, fromKeys), nil
}

// FindClosestFromKey returns the n records closest to key, key included.
func (g *GeoBase) FindClosestFromKey(key string, n int, doubleCheck bool, fromKeys []string) ([]Match, error) {
	p, ok := g.Location(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return g.FindClosestFromPoint(p.Lat, p.Lng, n, doubleCheck, fromKeys)
}

// FuzzyGet returns the record whose field best matches query.
func (g *GeoBase) FuzzyGet(query, field string) (FuzzyMatch, bool) {
	return g.fuzzy.Get(query, field)
}

// FuzzyFind returns up to limit records whose field scores at least
// minScore against query, best first.
func (g *GeoBase) FuzzyFind(query, field string, limit int, minScore float64) []FuzzyMatch {
	return g.fuzzy.Find(query, field, limit, minScore)
}

// SetBias pins the answer of FuzzyGet(query, field).
func (g *GeoBase) SetBias(query, field, key string, score float64) {
	g.fuzzy.SetBias(query, field, key, score)
}

// ClearFuzzyCache forgets memoized fuzzy results.
func (g *GeoBase) ClearFuzzyCache() {
	g.fuzzy.Clear()
}
