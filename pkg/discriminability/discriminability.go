// Package discriminability measures how reproducibly a pipeline separates
// subjects: repeated scans of one subject should be closer to each other
// than to scans of any other subject.
package discriminability

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrSingleSubject is returned when fewer than two labels occur more
	// than once, which leaves the statistic undefined.
	ErrSingleSubject = errors.New("discriminability: only a single unique sample id has repeated measurements")

	// ErrDissimilarity indicates an unknown dissimilarity measure.
	ErrDissimilarity = errors.New("discriminability: unsupported dissimilarity")

	// ErrShape indicates a matrix that does not match the label vector.
	ErrShape = errors.New("discriminability: invalid input shape")
)

// Dissimilarity selects how X is turned into pairwise distances.
type Dissimilarity string

const (
	// Euclidean treats X as samples x features.
	Euclidean Dissimilarity = "euclidean"
	// Precomputed treats X as a square dissimilarity matrix.
	Precomputed Dissimilarity = "precomputed"
)

// ParseDissimilarity validates a measure name from configuration or flags.
func ParseDissimilarity(s string) (Dissimilarity, error) {
	switch d := Dissimilarity(s); d {
	case Euclidean, Precomputed:
		return d, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrDissimilarity)
	}
}

// Result holds the statistic and, when requested, the reliability
// distribution for each retained sample.
type Result struct {
	// Stat is the mean of every reliability fraction, in [0, 1].
	Stat float64
	// Labels are the labels of the retained samples, in input order.
	Labels []string
	// RDFs holds one fraction per within-subject neighbor for each
	// retained sample. It is nil unless WithRDFs was given.
	RDFs [][]float64
}

type config struct {
	removeIsolates bool
	dissimilarity  Dissimilarity
	returnRDFs     bool
}

// Option adjusts Compute.
type Option func(*config)

// WithIsolates controls whether samples whose label occurs exactly once are
// dropped before computing distances. The default is to drop them.
func WithIsolates(remove bool) Option {
	return func(c *config) { c.removeIsolates = remove }
}

// WithDissimilarity sets the dissimilarity measure. The default is Euclidean.
func WithDissimilarity(d Dissimilarity) Option {
	return func(c *config) { c.dissimilarity = d }
}

// WithRDFs asks Compute to return per-sample reliability fractions.
func WithRDFs() Option {
	return func(c *config) { c.returnRDFs = true }
}

// Compute returns the discriminability of X given one label per row.
//
// For every retained sample i and every other sample j sharing i's label,
// the fraction of between-label distances from i that are not smaller than
// d(i,j) is recorded, counting ties as one half. The statistic is the mean of
// all recorded fractions.
func Compute(X mat.Matrix, labels []string, opts ...Option) (Result, error) {
	cfg := config{removeIsolates: true, dissimilarity: Euclidean}
	for _, fn := range opts {
		fn(&cfg)
	}
	if _, err := ParseDissimilarity(string(cfg.dissimilarity)); err != nil {
		return Result{}, err
	}
	if X == nil {
		return Result{}, fmt.Errorf("nil input: %w", ErrShape)
	}
	rows, cols := X.Dims()
	if rows != len(labels) {
		return Result{}, fmt.Errorf("%d rows for %d labels: %w", rows, len(labels), ErrShape)
	}
	if cfg.dissimilarity == Precomputed && rows != cols {
		return Result{}, fmt.Errorf("precomputed dissimilarities are %dx%d: %w", rows, cols, ErrShape)
	}

	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}
	repeated := 0
	for _, c := range counts {
		if c > 1 {
			repeated++
		}
	}
	if repeated <= 1 {
		return Result{}, ErrSingleSubject
	}

	keep := make([]int, 0, rows)
	for i, l := range labels {
		if !cfg.removeIsolates || counts[l] > 1 {
			keep = append(keep, i)
		}
	}
	kept := make([]string, len(keep))
	for k, i := range keep {
		kept[k] = labels[i]
	}

	var d mat.Matrix
	if cfg.dissimilarity == Euclidean {
		d = pairwiseEuclidean(X, keep)
	} else {
		d = subBlock(X, keep)
	}

	rdfs := reliability(d, kept)
	var all []float64
	for _, r := range rdfs {
		all = append(all, r...)
	}
	res := Result{Stat: stat.Mean(all, nil), Labels: kept}
	if cfg.returnRDFs {
		res.RDFs = rdfs
	}
	return res, nil
}

// EuclideanDistances returns the samples x samples matrix of Euclidean
// distances between the rows of X.
func EuclideanDistances(X mat.Matrix) *mat.SymDense {
	rows, _ := X.Dims()
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	return pairwiseEuclidean(X, idx)
}

func pairwiseEuclidean(X mat.Matrix, rows []int) *mat.SymDense {
	_, cols := X.Dims()
	vecs := make([][]float64, len(rows))
	for k, i := range rows {
		vecs[k] = mat.Row(make([]float64, cols), i, X)
	}
	d := mat.NewSymDense(len(rows), nil)
	for i := range vecs {
		for j := i + 1; j < len(vecs); j++ {
			d.SetSym(i, j, floats.Distance(vecs[i], vecs[j], 2))
		}
	}
	return d
}

func subBlock(X mat.Matrix, idx []int) *mat.Dense {
	d := mat.NewDense(len(idx), len(idx), nil)
	for a, i := range idx {
		for b, j := range idx {
			d.Set(a, b, X.At(i, j))
		}
	}
	return d
}

// reliability computes the per-sample fractions over the dissimilarity
// matrix d whose rows follow labels.
func reliability(d mat.Matrix, labels []string) [][]float64 {
	n := len(labels)
	rdfs := make([][]float64, n)
	between := make([]float64, 0, n)
	for i, label := range labels {
		between = between[:0]
		var within []float64
		for j := 0; j < n; j++ {
			switch {
			case labels[j] != label:
				between = append(between, d.At(i, j))
			case j != i:
				within = append(within, d.At(i, j))
			}
		}

		rdf := make([]float64, 0, len(within))
		for _, w := range within {
			var less, ties float64
			for _, b := range between {
				if b < w {
					less++
				} else if b == w {
					ties++
				}
			}
			rdf = append(rdf, 1-(less+0.5*ties)/float64(len(between)))
		}
		rdfs[i] = rdf
	}
	return rdfs
}
