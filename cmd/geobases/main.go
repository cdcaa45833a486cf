// Command geobases loads a delimited file of geographic records and runs
// proximity and fuzzy-name queries against it.
//
// Usage:
//
//	geobases --data ori_por.csv near 43.7 7.26 --radius 20
//	geobases --data ori_por.csv closest 48.85 2.35 -n 5
//	geobases --data ori_por.csv fuzzy "st etienne" --field name
//
// Settings may also come from a config file (--config) or GEOBASES_*
// environment variables, e.g. GEOBASES_GRID_RADIUS=20.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
