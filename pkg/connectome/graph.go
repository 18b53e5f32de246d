// Package connectome builds region-level brain graphs from tractography
// streamlines (structural connectomes) and regional timeseries
// (functional connectomes).
package connectome

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Kind distinguishes the two graph variants. Each kind has its own
// on-disk representation.
type Kind int

const (
	// KindStructural graphs come from streamlines and carry integer
	// co-visitation counts.
	KindStructural Kind = iota
	// KindFunctional graphs come from timeseries and carry absolute
	// Pearson correlations.
	KindFunctional
)

// String returns the modality tag used in file names and configuration.
func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "dwi"
	case KindFunctional:
		return "func"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Graph is the read-only view shared by both graph variants.
type Graph interface {
	Kind() Kind
	// Nodes returns the region ids in the graph's canonical order.
	Nodes() []int
	// Weight returns the weight between regions u and v, 0 when absent.
	Weight(u, v int) float64
	// Adjacency returns the weighted adjacency matrix in Nodes() order,
	// or nil for a graph without nodes.
	Adjacency() *mat.SymDense
}

// Edge is one undirected weighted edge with Source < Target.
type Edge struct {
	Source int
	Target int
	Weight int
}

// Structural is an immutable undirected graph over region ids with integer
// edge weights. It never contains self-loops.
type Structural struct {
	nodes []int
	edges []Edge
	index map[pair]int
}

var _ Graph = (*Structural)(nil)

// NewStructural assembles a structural graph from an edge list. Edge
// endpoints are canonicalized so that Source < Target, duplicate pairs are
// summed, and the node set is the union of nodes and every edge endpoint.
func NewStructural(nodes []int, edges []Edge) (*Structural, error) {
	acc := newEdgeAccumulator()
	for _, e := range edges {
		if e.Source == e.Target {
			return nil, fmt.Errorf("self-loop on region %d: %w", e.Source, ErrEdge)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("edge (%d,%d) weight %d: %w", e.Source, e.Target, e.Weight, ErrEdge)
		}
		acc.add(e.Source, e.Target, e.Weight)
	}
	return acc.graph(nodes), nil
}

// Kind implements Graph.
func (g *Structural) Kind() Kind { return KindStructural }

// Nodes returns the sorted region ids. The slice must not be modified.
func (g *Structural) Nodes() []int { return g.nodes }

// Edges returns a copy of the edges sorted by (Source, Target).
func (g *Structural) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeCount returns the number of distinct region pairs with weight > 0.
func (g *Structural) EdgeCount() int { return len(g.edges) }

// Weight implements Graph.
func (g *Structural) Weight(u, v int) float64 {
	if i, ok := g.index[newPair(u, v)]; ok {
		return float64(g.edges[i].Weight)
	}
	return 0
}

// Adjacency implements Graph.
func (g *Structural) Adjacency() *mat.SymDense {
	if len(g.nodes) == 0 {
		return nil
	}
	pos := positions(g.nodes)
	a := mat.NewSymDense(len(g.nodes), nil)
	for _, e := range g.edges {
		a.SetSym(pos[e.Source], pos[e.Target], float64(e.Weight))
	}
	return a
}

// Dense returns the adjacency matrix laid out over an arbitrary node order.
// Nodes absent from the graph get empty rows; this is how graphs built
// against different atlases or subjects are aligned for comparison.
func (g *Structural) Dense(nodes []int) *mat.Dense {
	if len(nodes) == 0 {
		return nil
	}
	pos := positions(nodes)
	d := mat.NewDense(len(nodes), len(nodes), nil)
	for _, e := range g.edges {
		i, ok1 := pos[e.Source]
		j, ok2 := pos[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		w := float64(e.Weight)
		d.Set(i, j, w)
		d.Set(j, i, w)
	}
	return d
}

// Functional is a complete weighted graph whose weights are absolute
// correlations. The diagonal is kept.
type Functional struct {
	nodes []int
	pos   map[int]int
	w     *mat.SymDense
}

var _ Graph = (*Functional)(nil)

// NewFunctional wraps a symmetric weight matrix whose rows follow nodes.
func NewFunctional(nodes []int, w *mat.SymDense) (*Functional, error) {
	if w == nil || len(nodes) == 0 {
		return nil, fmt.Errorf("empty functional graph: %w", ErrShape)
	}
	if n := w.SymmetricDim(); n != len(nodes) {
		return nil, fmt.Errorf("%d node ids for a %dx%d matrix: %w", len(nodes), n, n, ErrShape)
	}
	pos := positions(nodes)
	if len(pos) != len(nodes) {
		return nil, fmt.Errorf("duplicate region ids: %w", ErrShape)
	}
	ids := make([]int, len(nodes))
	copy(ids, nodes)
	cp := mat.NewSymDense(len(nodes), nil)
	cp.CopySym(w)
	return &Functional{nodes: ids, pos: pos, w: cp}, nil
}

// Kind implements Graph.
func (g *Functional) Kind() Kind { return KindFunctional }

// Nodes returns region ids in input order. The slice must not be modified.
func (g *Functional) Nodes() []int { return g.nodes }

// Weight implements Graph.
func (g *Functional) Weight(u, v int) float64 {
	i, ok1 := g.pos[u]
	j, ok2 := g.pos[v]
	if !ok1 || !ok2 {
		return 0
	}
	return g.w.At(i, j)
}

// Adjacency implements Graph. The returned matrix is a copy.
func (g *Functional) Adjacency() *mat.SymDense {
	a := mat.NewSymDense(len(g.nodes), nil)
	a.CopySym(g.w)
	return a
}

// Matrix exposes the weight matrix read-only.
func (g *Functional) Matrix() mat.Symmetric { return g.w }

func positions(nodes []int) map[int]int {
	pos := make(map[int]int, len(nodes))
	for i, n := range nodes {
		pos[n] = i
	}
	return pos
}

func sortedUnique(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	j := 0
	for i, v := range out {
		if i == 0 || v != out[j-1] {
			out[j] = v
			j++
		}
	}
	return out[:j]
}
