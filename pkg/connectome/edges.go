package connectome

import "sort"

// pair is an unordered region pair stored with lo < hi.
type pair struct {
	lo, hi int
}

func newPair(u, v int) pair {
	if u > v {
		u, v = v, u
	}
	return pair{lo: u, hi: v}
}

// edgeAccumulator counts co-visited region pairs during a single build pass.
// Each worker owns one; they are merged once all workers finish.
type edgeAccumulator struct {
	counts map[pair]int
}

func newEdgeAccumulator() *edgeAccumulator {
	return &edgeAccumulator{counts: make(map[pair]int)}
}

func (a *edgeAccumulator) add(u, v, w int) {
	a.counts[newPair(u, v)] += w
}

// addVisited adds one to every unordered pair of distinct regions in
// regions, which must hold no duplicates. k regions yield k*(k-1)/2 pairs.
func (a *edgeAccumulator) addVisited(regions []int) {
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			a.add(regions[i], regions[j], 1)
		}
	}
}

func (a *edgeAccumulator) merge(other *edgeAccumulator) {
	for p, c := range other.counts {
		a.counts[p] += c
	}
}

// graph freezes the accumulated counts. The node set is the union of
// declared and every edge endpoint.
func (a *edgeAccumulator) graph(declared []int) *Structural {
	edges := make([]Edge, 0, len(a.counts))
	ids := make([]int, 0, len(declared)+2*len(a.counts))
	ids = append(ids, declared...)
	for p, c := range a.counts {
		if c <= 0 {
			continue
		}
		edges = append(edges, Edge{Source: p.lo, Target: p.hi, Weight: c})
		ids = append(ids, p.lo, p.hi)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	index := make(map[pair]int, len(edges))
	for i, e := range edges {
		index[pair{lo: e.Source, hi: e.Target}] = i
	}
	return &Structural{nodes: sortedUnique(ids), edges: edges, index: index}
}
