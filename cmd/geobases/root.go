package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	geobases "github.com/opentraveldata/geobases-sub000"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
	base   *geobases.GeoBase
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "geobases",
		Short: "proximity and fuzzy-name queries over geographic records",
		Long: `
geobases loads a delimited file of records carrying coordinates and names,
indexes them in memory, and answers radius, nearest-neighbour and fuzzy
name queries.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setUp()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("data", "", "delimited data file with a header row")
	flags.String("delimiter", "^", "field delimiter of the data file")
	flags.String("key-column", "iata_code", "column holding the record key")
	flags.String("lat-field", "lat", "column holding the latitude")
	flags.String("lng-field", "lng", "column holding the longitude")
	flags.Float64("grid-radius", geobases.DefaultGridRadius, "radius (km) the grid precision is tuned for")
	flags.Int("grid-precision", 0, "fixed geohash precision 1..8 (overrides --grid-radius)")
	flags.Bool("no-grid", false, "answer proximity queries by linear scan")
	flags.BoolP("verbose", "v", false, "log debug information")

	for key, flag := range map[string]string{
		"data":           "data",
		"delimiter":      "delimiter",
		"key_column":     "key-column",
		"lat_field":      "lat-field",
		"lng_field":      "lng-field",
		"grid_radius":    "grid-radius",
		"grid_precision": "grid-precision",
		"disable_grid":   "no-grid",
		"verbose":        "verbose",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	a.v.SetEnvPrefix("GEOBASES")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlag("config", flags.Lookup("config"))

	root.AddCommand(newNearCmd(a), newClosestCmd(a), newFuzzyCmd(a))
	return root
}

func (a *app) setUp() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	logger, err := newLogger(a.v.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger

	path := a.v.GetString("data")
	if path == "" {
		return errors.New("no data file: set --data or GEOBASES_DATA")
	}
	delim, _ := utf8.DecodeRuneInString(a.v.GetString("delimiter"))
	if delim == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q", a.v.GetString("delimiter"))
	}

	data, err := loadFile(path, csvFormat{
		Delimiter: delim,
		KeyColumn: a.v.GetString("key_column"),
	}, a.v.GetBool("verbose"))
	if err != nil {
		return err
	}

	cfg := geobases.DefaultConfig()
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	a.base, err = geobases.New(data, geobases.WithConfig(cfg), geobases.WithLogger(logger))
	return err
}

// newLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
