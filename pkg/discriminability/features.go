package discriminability

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"connectome/pkg/connectome"
)

// FeatureMatrix flattens graphs into one row each so they can be passed to
// Compute with the Euclidean measure. Every row holds the upper triangle
// (diagonal excluded) of the adjacency over the sorted union of all node ids,
// so graphs missing a region still line up. The union is returned alongside.
func FeatureMatrix(graphs []connectome.Graph) (*mat.Dense, []int, error) {
	if len(graphs) == 0 {
		return nil, nil, fmt.Errorf("no graphs: %w", ErrShape)
	}
	seen := make(map[int]struct{})
	for _, g := range graphs {
		for _, id := range g.Nodes() {
			seen[id] = struct{}{}
		}
	}
	nodes := make([]int, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)

	n := len(nodes)
	width := n * (n - 1) / 2
	if width == 0 {
		return nil, nil, fmt.Errorf("graphs span %d region(s): %w", n, ErrShape)
	}
	x := mat.NewDense(len(graphs), width, nil)
	for r, g := range graphs {
		col := 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				x.Set(r, col, g.Weight(nodes[i], nodes[j]))
				col++
			}
		}
	}
	return x, nodes, nil
}
