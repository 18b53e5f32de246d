package region

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectome/internal/models"
)

func TestLookupRegionAt(t *testing.T) {
	vol := models.NewLabelVolume(3, 3, 3)
	vol.Set(0, 0, 0, 5)
	vol.Set(2, 1, 0, 2)
	vol.Set(1, 1, 2, 9)

	l, err := NewLookup(vol)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 9}, l.IDs())

	tests := []struct {
		name   string
		p      models.Point3D
		wantID int
		wantOK bool
	}{
		{"exact voxel", models.Point3D{X: 0, Y: 0, Z: 0}, 5, true},
		{"rounds to nearest", models.Point3D{X: 1.6, Y: 0.7, Z: -0.2}, 2, true},
		{"half rounds to even", models.Point3D{X: 0.5, Y: 0.5, Z: 0.5}, 5, true},
		{"background", models.Point3D{X: 1, Y: 1, Z: 1}, None, false},
		{"negative index", models.Point3D{X: -1, Y: 0, Z: 0}, None, false},
		{"past upper bound", models.Point3D{X: 3, Y: 0, Z: 0}, None, false},
		{"far outside", models.Point3D{X: 1e12, Y: -1e12, Z: 0}, None, false},
		{"nan", models.Point3D{X: math.NaN(), Y: 0, Z: 0}, None, false},
		{"inf", models.Point3D{X: 0, Y: math.Inf(1), Z: 0}, None, false},
		{"z axis", models.Point3D{X: 1.2, Y: 0.9, Z: 1.8}, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := l.RegionAt(tt.p)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNewLookupRejectsBadVolumes(t *testing.T) {
	_, err := NewLookup(nil)
	assert.ErrorIs(t, err, ErrBadVolume)

	_, err = NewLookup(&models.LabelVolume{Width: 4, Height: 4})
	assert.ErrorIs(t, err, ErrBadVolume)

	_, err = NewLookup(&models.LabelVolume{Data: make([]int32, 7), Width: 2, Height: 2, Depth: 2})
	assert.ErrorIs(t, err, ErrBadVolume)
}

func TestLookupEmptyAtlas(t *testing.T) {
	l, err := NewLookup(models.NewLabelVolume(2, 2, 2))
	require.NoError(t, err)
	assert.Empty(t, l.IDs())

	w, h, d := l.Dims()
	assert.Equal(t, []int{2, 2, 2}, []int{w, h, d})
}
