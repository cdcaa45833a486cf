package geobases

import "go.uber.org/zap"

// DefaultGridRadius is the query radius, in kilometers, the grid precision
// is tuned for when nothing else is configured.
const DefaultGridRadius = 50.0

// Config contains configuration options for a GeoBase.
type Config struct {
	LatField        string  `mapstructure:"lat_field"`         // Field holding latitude (default: "lat")
	LngField        string  `mapstructure:"lng_field"`         // Field holding longitude (default: "lng")
	GridRadius      float64 `mapstructure:"grid_radius"`       // Radius (km) the grid precision is chosen for
	GridPrecision   int     `mapstructure:"grid_precision"`    // Fixed geohash precision; overrides GridRadius when > 0
	DisableGrid     bool    `mapstructure:"disable_grid"`      // Always answer proximity queries by linear scan
	LinearScanBelow int     `mapstructure:"linear_scan_below"` // Linear scan when fewer points than this are indexed
	TokenCacheSize  int     `mapstructure:"token_cache_size"`  // Bound of the normalized-value memo

	logger     *zap.Logger
	normalizer *Normalizer
	scorer     *Scorer
}

// Option is a functional option for configuring a GeoBase.
type Option func(*Config)

// WithConfig replaces the exported settings with cfg, keeping any logger,
// normalizer or scorer already set.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		logger, normalizer, scorer := c.logger, c.normalizer, c.scorer
		*c = cfg
		if c.logger == nil {
			c.logger = logger
		}
		if c.normalizer == nil {
			c.normalizer = normalizer
		}
		if c.scorer == nil {
			c.scorer = scorer
		}
	}
}

// WithLatLngFields sets the fields coordinates are read from.
func WithLatLngFields(lat, lng string) Option {
	return func(c *Config) {
		c.LatField = lat
		c.LngField = lng
	}
}

// WithGridRadius tunes the grid precision for queries of about radius km.
func WithGridRadius(radius float64) Option {
	return func(c *Config) {
		c.GridRadius = radius
		c.GridPrecision = 0
	}
}

// WithGridPrecision fixes the geohash precision of the grid.
func WithGridPrecision(precision int) Option {
	return func(c *Config) {
		c.GridPrecision = precision
	}
}

// WithoutGrid answers every proximity query with a linear scan.
func WithoutGrid() Option {
	return func(c *Config) {
		c.DisableGrid = true
	}
}

// WithLinearScanBelow scans linearly when fewer than n points are indexed.
func WithLinearScanBelow(n int) Option {
	return func(c *Config) {
		c.LinearScanBelow = n
	}
}

// WithTokenCacheSize bounds the normalized-value memo of the fuzzy cache.
func WithTokenCacheSize(size int) Option {
	return func(c *Config) {
		c.TokenCacheSize = size
	}
}

// WithLogger sets the logger shared by the grid and the fuzzy cache.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithNormalizer sets the text normalizer used by fuzzy queries.
func WithNormalizer(n *Normalizer) Option {
	return func(c *Config) {
		c.normalizer = n
	}
}

// WithScorer sets the similarity scorer used by fuzzy queries.
func WithScorer(s *Scorer) Option {
	return func(c *Config) {
		c.scorer = s
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LatField:       "lat",
		LngField:       "lng",
		GridRadius:     DefaultGridRadius,
		TokenCacheSize: DefaultTokenCacheSize,
	}
}
