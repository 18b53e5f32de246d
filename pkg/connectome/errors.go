package connectome

import "errors"

var (
	// ErrNoRegions is returned when a streamline build is attempted without a
	// region lookup (no label volume was supplied).
	ErrNoRegions = errors.New("connectome: region lookup is required")

	// ErrShape indicates a timeseries matrix or node list with an unusable shape.
	ErrShape = errors.New("connectome: invalid input shape")

	// ErrEdge indicates an edge that violates the structural graph invariants
	// (self-loop or non-positive weight).
	ErrEdge = errors.New("connectome: invalid edge")

	// ErrEmptyGraph is returned by spectral helpers on graphs with no nodes.
	ErrEmptyGraph = errors.New("connectome: graph has no nodes")
)
