package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	geobases "github.com/opentraveldata/geobases-sub000"
)

func parseLatLng(args []string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", args[0], err)
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", args[1], err)
	}
	return lat, lng, nil
}

func newNearCmd(a *app) *cobra.Command {
	var (
		radius  float64
		noCheck bool
		show    string
	)
	cmd := &cobra.Command{
		Use:   "near LAT LNG",
		Short: "list records within a radius of a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseLatLng(args)
			if err != nil {
				return err
			}
			matches, err := a.base.FindNearPoint(lat, lng, radius, !noCheck)
			if err != nil {
				return err
			}
			return writeMatches(cmd.OutOrStdout(), a.base, matches, show)
		},
	}
	cmd.Flags().Float64VarP(&radius, "radius", "r", 50, "search radius in km")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "skip exact distance filtering")
	cmd.Flags().StringVar(&show, "show", "name", "field printed next to each key")
	return cmd
}

func newClosestCmd(a *app) *cobra.Command {
	var (
		n       int
		noCheck bool
		show    string
	)
	cmd := &cobra.Command{
		Use:   "closest LAT LNG",
		Short: "list the records closest to a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseLatLng(args)
			if err != nil {
				return err
			}
			matches, err := a.base.FindClosestFromPoint(lat, lng, n, !noCheck, nil)
			if err != nil {
				return err
			}
			return writeMatches(cmd.OutOrStdout(), a.base, matches, show)
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", 5, "number of records")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "skip exact distance ranking")
	cmd.Flags().StringVar(&show, "show", "name", "field printed next to each key")
	return cmd
}

func newFuzzyCmd(a *app) *cobra.Command {
	var (
		field    string
		limit    int
		minScore float64
	)
	cmd := &cobra.Command{
		Use:   "fuzzy QUERY",
		Short: "find the records whose field best matches a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var matches []geobases.FuzzyMatch
			if limit <= 1 {
				m, ok := a.base.FuzzyGet(args[0], field)
				if ok && m.Score >= minScore {
					matches = append(matches, m)
				}
			} else {
				matches = a.base.FuzzyFind(args[0], field, limit, minScore)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range matches {
				value, _ := a.base.Get(m.Key, field)
				fmt.Fprintf(w, "%.3f\t%s\t%s\n", m.Score, m.Key, value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "name", "field matched against the query")
	cmd.Flags().IntVarP(&limit, "limit", "l", 1, "number of ranked results")
	cmd.Flags().Float64Var(&minScore, "min", 0, "minimum score of printed results")
	return cmd
}

func writeMatches(out io.Writer, base *geobases.GeoBase, matches []geobases.Match, show string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, m := range matches {
		value, _ := base.Get(m.Key, show)
		fmt.Fprintf(w, "%.3f\t%s\t%s\n", m.Distance, m.Key, value)
	}
	return w.Flush()
}
