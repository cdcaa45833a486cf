package geobases

import "container/heap"

// linearNear checks every indexed point against the radius.
func (g *GeoBase) linearNear(lat, lng, radius float64) []Match {
	if _, ok := latLng(lat, lng); !ok {
		return nil
	}
	var matches []Match
	for _, p := range g.points {
		if d := Distance(lat, lng, p.Lat, p.Lng); d <= radius {
			matches = append(matches, Match{Distance: d, Key: p.Key})
		}
	}
	sortMatches(matches)
	return matches
}

// linearClosest keeps the n closest points seen so far in a max-heap on
// distance: a closer point evicts the current farthest. n is clamped to the
// number of candidate points.
func (g *GeoBase) linearClosest(lat, lng float64, n int, fromKeys []string) []Match {
	if n <= 0 {
		return nil
	}
	if _, ok := latLng(lat, lng); !ok {
		return nil
	}

	var allowed map[string]struct{}
	limit := len(g.points)
	if fromKeys != nil {
		allowed = make(map[string]struct{}, len(fromKeys))
		for _, k := range fromKeys {
			if _, indexed := g.index[k]; indexed {
				allowed[k] = struct{}{}
			}
		}
		limit = len(allowed)
	}
	n = min(n, limit)
	if n == 0 {
		return nil
	}

	h := make(farthestFirst, 0, n)
	for _, p := range g.points {
		if allowed != nil {
			if _, ok := allowed[p.Key]; !ok {
				continue
			}
		}
		m := Match{Distance: Distance(lat, lng, p.Lat, p.Lng), Key: p.Key}
		if h.Len() < n {
			heap.Push(&h, m)
			continue
		}
		if m.Distance < h[0].Distance {
			h[0] = m
			heap.Fix(&h, 0)
		}
	}

	matches := []Match(h)
	sortMatches(matches)
	return matches
}

// farthestFirst is a max-heap of matches on distance.
type farthestFirst []Match

func (h farthestFirst) Len() int           { return len(h) }
func (h farthestFirst) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h farthestFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *farthestFirst) Push(x any) { *h = append(*h, x.(Match)) }

func (h *farthestFirst) Pop() any {
	old := *h
	n := len(old)
	m := old[n-1]
	*h = old[:n-1]
	return m
}
