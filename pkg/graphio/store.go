// Package graphio persists connectomes. Structural graphs are written as a
// headerless weighted edge list "source,target,weight" sorted by
// (source, target); functional graphs are written as a dense matrix whose
// first line holds the region ids.
package graphio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"connectome/pkg/connectome"
)

// ParseModality maps a modality tag to a graph kind.
func ParseModality(tag string) (connectome.Kind, error) {
	switch strings.ToLower(tag) {
	case "dwi":
		return connectome.KindStructural, nil
	case "func":
		return connectome.KindFunctional, nil
	default:
		return 0, fmt.Errorf("%q: %w", tag, ErrModality)
	}
}

// Write serializes g in the format of its kind.
func Write(w io.Writer, g connectome.Graph) error {
	switch g := g.(type) {
	case *connectome.Structural:
		return writeEdgeList(w, g)
	case *connectome.Functional:
		return writeMatrix(w, g)
	default:
		return fmt.Errorf("graph type %T: %w", g, ErrModality)
	}
}

// Save writes g to path, creating parent directories as needed.
func Save(g connectome.Graph, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, g); err != nil {
		f.Close()
		if errors.Is(err, ErrModality) {
			return err
		}
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// SaveAs is Save for callers that carry a modality tag. The tag must name
// the kind of g.
func SaveAs(g connectome.Graph, modality, path string) error {
	kind, err := ParseModality(modality)
	if err != nil {
		return err
	}
	if kind != g.Kind() {
		return fmt.Errorf("%s graph saved as %q: %w", g.Kind(), modality, ErrModality)
	}
	return Save(g, path)
}

// Load reads a graph of the given modality from path.
func Load(path, modality string) (connectome.Graph, error) {
	kind, err := ParseModality(modality)
	if err != nil {
		return nil, err
	}
	if kind == connectome.KindFunctional {
		return LoadFunctional(path)
	}
	return LoadStructural(path)
}

// LoadStructural reads an edge list written by Save. The node set is the
// set of edge endpoints.
func LoadStructural(path string) (*connectome.Structural, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	g, err := ReadStructural(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadStructural parses an edge list.
func ReadStructural(r io.Reader) (*connectome.Structural, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var edges []connectome.Edge
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrFormat)
		}
		src, err1 := strconv.Atoi(rec[0])
		dst, err2 := strconv.Atoi(rec[1])
		w, err3 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %q: %w", line, strings.Join(rec, ","), ErrFormat)
		}
		if w != math.Trunc(w) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: non-integer weight %v: %w", line, w, ErrFormat)
		}
		edges = append(edges, connectome.Edge{Source: src, Target: dst, Weight: int(w)})
	}

	g, err := connectome.NewStructural(nil, edges)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrFormat)
	}
	return g, nil
}

// LoadFunctional reads a matrix written by Save.
func LoadFunctional(path string) (*connectome.Functional, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	g, err := ReadFunctional(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadFunctional parses a dense matrix with a region id header.
func ReadFunctional(r io.Reader) (*connectome.Functional, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v: %w", err, ErrFormat)
	}
	ids := make([]int, len(header))
	for i, h := range header {
		// np.savetxt headers may carry a leading comment marker
		id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(h, "#")))
		if err != nil {
			return nil, fmt.Errorf("header field %q: %w", h, ErrFormat)
		}
		ids[i] = id
	}

	n := len(ids)
	data := make([]float64, 0, n*n)
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrFormat)
		}
		for _, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %q: %w", rows+1, field, ErrFormat)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows != n {
		return nil, fmt.Errorf("%d rows for %d header ids: %w", rows, n, ErrFormat)
	}

	dense := mat.NewDense(n, n, data)
	w := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if dense.At(i, j) != dense.At(j, i) {
				return nil, fmt.Errorf("matrix is not symmetric at (%d,%d): %w", i, j, ErrFormat)
			}
			w.SetSym(i, j, dense.At(i, j))
		}
	}
	g, err := connectome.NewFunctional(ids, w)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrFormat)
	}
	return g, nil
}

func writeEdgeList(w io.Writer, g *connectome.Structural) error {
	cw := csv.NewWriter(w)
	for _, e := range g.Edges() {
		rec := []string{strconv.Itoa(e.Source), strconv.Itoa(e.Target), strconv.Itoa(e.Weight)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMatrix(w io.Writer, g *connectome.Functional) error {
	cw := csv.NewWriter(w)
	nodes := g.Nodes()
	rec := make([]string, len(nodes))
	for i, id := range nodes {
		rec[i] = strconv.Itoa(id)
	}
	if err := cw.Write(rec); err != nil {
		return err
	}
	m := g.Matrix()
	for i := range nodes {
		for j := range nodes {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
