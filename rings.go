package geobases

import (
	"errors"
	"fmt"
	"iter"

	"github.com/mmcloughlin/geohash"
)

// maxRingExpansions caps ring expansion. Reaching it means either the
// adjacency is broken or the query asked for far more rings than any
// realistic dataset needs at this precision.
const maxRingExpansions = 5000

// ErrRingOverflow is yielded when ring expansion exceeds its iteration cap,
// maxRingExpansions for grid queries.
var ErrRingOverflow = errors.New("geobases: ring expansion exceeded iteration cap")

// rings yields concentric rings of geohash cells around origin. Ring 0 is
// the origin itself; ring i holds the cells i hops away through the
// 8-neighbour adjacency that no smaller ring contains.
//
// With limit > 0 at most limit rings are yielded; otherwise expansion runs
// until the caller stops or the frontier empties (every reachable cell was
// visited). Expanding past iterationCap rings yields a final
// (nil, ErrRingOverflow) pair.
func rings(origin string, limit, iterationCap int) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		interior := map[string]struct{}{origin: {}}
		frontier := []string{origin}

		for i := 0; limit <= 0 || i < limit; i++ {
			if i >= iterationCap {
				yield(nil, fmt.Errorf("%w: origin %q after %d rings", ErrRingOverflow, origin, i))
				return
			}
			if len(frontier) == 0 {
				return
			}
			if !yield(frontier, nil) {
				return
			}

			var next []string
			for _, cell := range frontier {
				for _, n := range geohash.Neighbors(cell) {
					if _, seen := interior[n]; seen {
						continue
					}
					interior[n] = struct{}{}
					next = append(next, n)
				}
			}
			frontier = next
		}
	}
}
