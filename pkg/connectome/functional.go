package connectome

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrelationBuilder turns a regions x timepoints matrix into a functional
// graph of absolute Pearson correlations.
type CorrelationBuilder struct {
	opts options
}

// NewCorrelationBuilder creates a builder. Only WithLogger has an effect.
func NewCorrelationBuilder(opts ...Option) *CorrelationBuilder {
	return &CorrelationBuilder{opts: buildOptions(opts)}
}

// Build correlates every pair of rows in ts. regionIDs names the rows in
// order; nil numbers them 1..n. The result is complete and keeps the
// diagonal. Rows with zero variance get weight 0 everywhere, diagonal
// included.
func (b *CorrelationBuilder) Build(ts mat.Matrix, regionIDs []int) (*Functional, error) {
	if ts == nil {
		return nil, fmt.Errorf("nil timeseries: %w", ErrShape)
	}
	rows, cols := ts.Dims()
	if rows < 1 || cols < 2 {
		return nil, fmt.Errorf("timeseries is %dx%d, need at least 1 region and 2 timepoints: %w", rows, cols, ErrShape)
	}
	if regionIDs == nil {
		regionIDs = make([]int, rows)
		for i := range regionIDs {
			regionIDs[i] = i + 1
		}
	}
	if len(regionIDs) != rows {
		return nil, fmt.Errorf("%d region ids for %d rows: %w", len(regionIDs), rows, ErrShape)
	}

	log := b.opts.logger.WithComponent("correlation-graph")
	log.Info("estimating correlation matrix",
		slog.Int("rois", rows),
		slog.Int("timepoints", cols),
	)

	// stat treats columns as variables
	corr := mat.NewSymDense(rows, nil)
	stat.CorrelationMatrix(corr, ts.T(), nil)

	constant := make([]bool, rows)
	for i := 0; i < rows; i++ {
		constant[i] = isConstantRow(ts, i, cols)
	}
	for i := 0; i < rows; i++ {
		for j := i; j < rows; j++ {
			v := math.Abs(corr.At(i, j))
			switch {
			case constant[i] || constant[j]:
				v = 0
			case math.IsNaN(v) || math.IsInf(v, 0):
				v = 0
			case v > 1:
				v = 1
			}
			corr.SetSym(i, j, v)
		}
	}

	return NewFunctional(regionIDs, corr)
}

func isConstantRow(m mat.Matrix, i, cols int) bool {
	first := m.At(i, 0)
	for t := 1; t < cols; t++ {
		if m.At(i, t) != first {
			return false
		}
	}
	return true
}
