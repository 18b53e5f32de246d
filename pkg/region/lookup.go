// Package region maps voxel-space coordinates to atlas region ids.
package region

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"connectome/internal/models"
)

// ErrBadVolume is returned when the label volume is missing or is not a
// well-formed 3D array.
var ErrBadVolume = errors.New("region: label volume must be a non-empty 3D array")

// None is the id reported for background voxels and for points that fall
// outside the volume.
const None = 0

// Lookup resolves points against a label volume. It never mutates the volume.
type Lookup struct {
	vol *models.LabelVolume
	ids []int
}

// NewLookup validates the volume and precomputes its sorted region id set.
func NewLookup(vol *models.LabelVolume) (*Lookup, error) {
	if vol == nil {
		return nil, fmt.Errorf("nil volume: %w", ErrBadVolume)
	}
	if vol.Width <= 0 || vol.Height <= 0 || vol.Depth <= 0 {
		return nil, fmt.Errorf("dimensions %dx%dx%d: %w", vol.Width, vol.Height, vol.Depth, ErrBadVolume)
	}
	if len(vol.Data) != vol.Width*vol.Height*vol.Depth {
		return nil, fmt.Errorf("have %d voxels, dimensions need %d: %w",
			len(vol.Data), vol.Width*vol.Height*vol.Depth, ErrBadVolume)
	}

	seen := make(map[int32]struct{})
	for _, id := range vol.Data {
		if id > 0 {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	return &Lookup{vol: vol, ids: ids}, nil
}

// RegionAt rounds p to the nearest voxel and returns the region id found
// there. ok is false when the voxel is background or lies outside the
// volume; streamlines routinely leave the brain mask, so this is not an error.
func (l *Lookup) RegionAt(p models.Point3D) (id int, ok bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) ||
		math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsInf(p.Z, 0) {
		return None, false
	}
	x, y, z := p.Round()
	if x < 0 || y < 0 || z < 0 || x >= l.vol.Width || y >= l.vol.Height || z >= l.vol.Depth {
		return None, false
	}
	v := l.vol.Data[l.vol.Index(x, y, z)]
	if v <= 0 {
		return None, false
	}
	return int(v), true
}

// IDs returns the distinct positive region ids in ascending order.
// The returned slice must not be modified.
func (l *Lookup) IDs() []int {
	return l.ids
}

// Dims returns the volume dimensions
func (l *Lookup) Dims() (width, height, depth int) {
	return l.vol.Width, l.vol.Height, l.vol.Depth
}
