package connectome

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"connectome/internal/models"
	"connectome/pkg/region"
)

// graphName is recorded in build logs as the graph's provenance.
const graphName = "Generated by connectome"

// StreamlineBuilder turns tractography streamlines into a structural graph.
//
// Edge semantics are co-visitation: a streamline that passes through regions
// {a, b, c} in any order adds one to each of (a,b), (a,c) and (b,c), not only
// to consecutive regions along the path. Repeat visits to a region within one
// streamline count once.
type StreamlineBuilder struct {
	opts options
}

// NewStreamlineBuilder creates a builder. A builder holds no per-build state
// and may be reused and shared between goroutines.
func NewStreamlineBuilder(opts ...Option) *StreamlineBuilder {
	return &StreamlineBuilder{opts: buildOptions(opts)}
}

// BuildFromVolume validates vol and builds the graph against it.
func (b *StreamlineBuilder) BuildFromVolume(ctx context.Context, streamlines []models.Streamline, vol *models.LabelVolume) (*Structural, error) {
	lookup, err := region.NewLookup(vol)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, streamlines, lookup)
}

// Build processes every streamline once and returns the accumulated graph.
// Points outside the volume are skipped. Only context cancellation or a
// missing lookup produce an error.
func (b *StreamlineBuilder) Build(ctx context.Context, streamlines []models.Streamline, lookup *region.Lookup) (*Structural, error) {
	if lookup == nil {
		return nil, ErrNoRegions
	}
	log := b.opts.logger.WithComponent("streamline-graph")
	start := time.Now()

	n := len(streamlines)
	log.Info("building structural graph",
		slog.String("name", graphName),
		slog.String("sensor", KindStructural.String()),
		slog.Int("streamlines", n),
		slog.Int("vcount", len(lookup.IDs())),
	)

	workers := b.opts.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	// report roughly every 5% of streamlines
	every := n / 20
	if every < 1 {
		every = 1
	}
	var done atomic.Int64

	accs := make([]*edgeAccumulator, workers)
	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		acc := newEdgeAccumulator()
		accs[w] = acc
		g.Go(func() error {
			seen := make(map[int]struct{})
			visited := make([]int, 0, 16)
			for i := lo; i < hi; i++ {
				if (i-lo)%every == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				visited = visitedRegions(streamlines[i], lookup, seen, visited[:0])
				acc.addVisited(visited)
				if d := done.Add(1); d%int64(every) == 0 {
					log.Progress(gctx, "streamlines processed", int(d), n)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("structural graph build: %w", err)
	}

	total := accs[0]
	for _, acc := range accs[1:] {
		total.merge(acc)
	}

	var declared []int
	if b.opts.keepIsolates {
		declared = lookup.IDs()
	}
	graph := total.graph(declared)

	log.Info("structural graph built",
		slog.Int("vcount", len(graph.Nodes())),
		slog.Int("ecount", graph.EdgeCount()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return graph, nil
}

// visitedRegions appends the distinct region ids touched by s to dst in
// ascending order. seen is scratch space and is cleared on entry.
func visitedRegions(s models.Streamline, lookup *region.Lookup, seen map[int]struct{}, dst []int) []int {
	clear(seen)
	for _, p := range s {
		id, ok := lookup.RegionAt(p)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	sort.Ints(dst)
	return dst
}
