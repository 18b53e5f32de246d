// Package ingest reads the already-materialized outputs of the upstream
// collaborators (tractography, atlas registration, timeseries extraction)
// into the in-memory types the graph builders consume.
package ingest

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"connectome/internal/models"
)

// ErrFormat indicates an input file that cannot be parsed.
var ErrFormat = errors.New("ingest: malformed input")

// maxVoxels bounds the label volume header so a corrupt file cannot trigger
// a huge allocation (512^3).
const maxVoxels = 1 << 27

// ReadStreamlines parses rows of "streamline,x,y,z". Consecutive rows with
// the same streamline number form one streamline. A first row whose leading
// field is not a number is treated as a header.
func ReadStreamlines(r io.Reader) ([]models.Streamline, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var (
		out     []models.Streamline
		current models.Streamline
		lastID  = -1
		row     = 0
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrFormat)
		}
		row++
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("row %d: streamline %q: %w", row, rec[0], ErrFormat)
		}
		var p [3]float64
		for k := 0; k < 3; k++ {
			if p[k], err = strconv.ParseFloat(rec[k+1], 64); err != nil {
				return nil, fmt.Errorf("row %d: coordinate %q: %w", row, rec[k+1], ErrFormat)
			}
		}
		if id != lastID && current != nil {
			out = append(out, current)
			current = nil
		}
		lastID = id
		current = append(current, models.Point3D{X: p[0], Y: p[1], Z: p[2]})
	}
	if current != nil {
		out = append(out, current)
	}
	return out, nil
}

// LoadStreamlines opens path and parses it with ReadStreamlines.
func LoadStreamlines(path string) ([]models.Streamline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open streamlines: %w", err)
	}
	defer f.Close()
	s, err := ReadStreamlines(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadLabelVolume decodes a raw label volume: three little-endian uint32
// dimensions (width, height, depth) followed by width*height*depth
// little-endian int32 region ids with x varying fastest.
func ReadLabelVolume(r io.Reader) (*models.LabelVolume, error) {
	var dims [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("header: %v: %w", err, ErrFormat)
	}
	n := uint64(dims[0]) * uint64(dims[1]) * uint64(dims[2])
	if n == 0 || n > maxVoxels {
		return nil, fmt.Errorf("dimensions %dx%dx%d: %w", dims[0], dims[1], dims[2], ErrFormat)
	}
	vol := models.NewLabelVolume(int(dims[0]), int(dims[1]), int(dims[2]))
	if err := binary.Read(r, binary.LittleEndian, vol.Data); err != nil {
		return nil, fmt.Errorf("voxels: %v: %w", err, ErrFormat)
	}
	return vol, nil
}

// WriteLabelVolume encodes vol in the format read by ReadLabelVolume.
func WriteLabelVolume(w io.Writer, vol *models.LabelVolume) error {
	dims := [3]uint32{uint32(vol.Width), uint32(vol.Height), uint32(vol.Depth)}
	if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, vol.Data)
}

// LoadLabelVolume opens path and parses it with ReadLabelVolume.
func LoadLabelVolume(path string) (*models.LabelVolume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label volume: %w", err)
	}
	defer f.Close()
	vol, err := ReadLabelVolume(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vol, nil
}

// ReadTimeseries parses one region per row: "regionID,v1,v2,...". Row
// order is kept and becomes the node order of the functional graph.
func ReadTimeseries(r io.Reader) (*mat.Dense, []int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var (
		ids  []int
		data []float64
		cols int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%v: %w", err, ErrFormat)
		}
		if len(rec) < 2 {
			return nil, nil, fmt.Errorf("row %d has no samples: %w", len(ids)+1, ErrFormat)
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: region %q: %w", len(ids)+1, rec[0], ErrFormat)
		}
		for _, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: sample %q: %w", len(ids)+1, field, ErrFormat)
			}
			data = append(data, v)
		}
		cols = len(rec) - 1
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("no regions: %w", ErrFormat)
	}
	return mat.NewDense(len(ids), cols, data), ids, nil
}

// LoadTimeseries opens path and parses it with ReadTimeseries.
func LoadTimeseries(path string) (*mat.Dense, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open timeseries: %w", err)
	}
	defer f.Close()
	ts, ids, err := ReadTimeseries(bufio.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, ids, nil
}
