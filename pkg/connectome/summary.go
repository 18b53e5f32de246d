package connectome

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// Summary describes the size and density of a graph. Diagonal entries of
// functional graphs are not counted as edges.
type Summary struct {
	Kind        Kind
	Nodes       int
	Edges       int
	Isolated    int
	Density     float64
	MeanDegree  float64
	TotalWeight float64
	MaxWeight   float64
}

// String renders the summary the way it is printed by the CLI.
func (s Summary) String() string {
	return fmt.Sprintf("Type: %s\nNumber of nodes: %d\nNumber of edges: %d\nIsolated nodes: %d\nAverage degree: %.4f\nDensity: %.4f\nTotal weight: %g\nMax weight: %g",
		s.Kind, s.Nodes, s.Edges, s.Isolated, s.MeanDegree, s.Density, s.TotalWeight, s.MaxWeight)
}

// Summarize loads g into a gonum weighted undirected graph and reports
// node, edge and weight statistics.
func Summarize(g Graph) Summary {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	nodes := g.Nodes()
	for _, id := range nodes {
		wg.AddNode(simple.Node(int64(id)))
	}
	for i, u := range nodes {
		for _, v := range nodes[i+1:] {
			if w := g.Weight(u, v); w > 0 {
				wg.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(int64(u)), T: simple.Node(int64(v)), W: w})
			}
		}
	}

	s := Summary{Kind: g.Kind(), Nodes: wg.Nodes().Len(), Edges: wg.Edges().Len()}
	it := wg.WeightedEdges()
	for it.Next() {
		w := it.WeightedEdge().Weight()
		s.TotalWeight += w
		s.MaxWeight = math.Max(s.MaxWeight, w)
	}
	for _, id := range nodes {
		if wg.From(int64(id)).Len() == 0 {
			s.Isolated++
		}
	}
	if s.Nodes > 0 {
		s.MeanDegree = 2 * float64(s.Edges) / float64(s.Nodes)
	}
	if s.Nodes > 1 {
		s.Density = 2 * float64(s.Edges) / float64(s.Nodes*(s.Nodes-1))
	}
	return s
}

// TopEigenvalues returns the k eigenvalues of g's adjacency matrix with the
// largest magnitude, largest first. k <= 0 or k > n returns all n values.
func TopEigenvalues(g Graph, k int) ([]float64, error) {
	a := g.Adjacency()
	if a == nil {
		return nil, ErrEmptyGraph
	}
	var es mat.EigenSym
	if ok := es.Factorize(a, false); !ok {
		return nil, fmt.Errorf("connectome: eigendecomposition did not converge")
	}
	vals := es.Values(nil)
	sort.Slice(vals, func(i, j int) bool {
		return math.Abs(vals[i]) > math.Abs(vals[j])
	})
	if k <= 0 || k > len(vals) {
		k = len(vals)
	}
	return vals[:k], nil
}
