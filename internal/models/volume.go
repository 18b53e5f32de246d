package models

import "math"

// Point3D is a coordinate in voxel space of the label volume
type Point3D struct {
	X, Y, Z float64
}

// Round returns the nearest integer voxel coordinate of the point.
// Halves round to even.
func (p Point3D) Round() (x, y, z int) {
	return int(math.RoundToEven(p.X)), int(math.RoundToEven(p.Y)), int(math.RoundToEven(p.Z))
}

// Streamline represents one reconstructed fiber path as an ordered
// sequence of points. Streamlines are produced by tractography and
// are treated as read-only once handed to a graph builder.
type Streamline []Point3D

// LabelVolume represents a 3D atlas parcellation aligned to the
// diffusion image
type LabelVolume struct {
	// Data holds one region id per voxel as a 1D array with x varying
	// fastest, then y, then z. Zero marks background.
	Data []int32

	// Width, Height, Depth are the dimensions of the volume in voxels
	Width  int
	Height int
	Depth  int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize struct {
		X, Y, Z float64
	}
}

// NewLabelVolume allocates an empty (all background) label volume
func NewLabelVolume(width, height, depth int) *LabelVolume {
	v := &LabelVolume{
		Data:   make([]int32, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.VoxelSize.X, v.VoxelSize.Y, v.VoxelSize.Z = 1, 1, 1
	return v
}

// Index returns the flat offset of voxel (x, y, z). It does not check bounds.
func (v *LabelVolume) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// Set assigns a region id to voxel (x, y, z)
func (v *LabelVolume) Set(x, y, z int, id int32) {
	v.Data[v.Index(x, y, z)] = id
}
