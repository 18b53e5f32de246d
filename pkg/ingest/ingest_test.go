package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectome/internal/models"
)

func TestReadStreamlines(t *testing.T) {
	in := "streamline,x,y,z\n0,1,2,3\n0,1.5,2,3\n1,4,4,4\n2,0,0,0\n2,1,1,1\n2,2,2,2\n"
	lines, err := ReadStreamlines(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, models.Streamline{{X: 1, Y: 2, Z: 3}, {X: 1.5, Y: 2, Z: 3}}, lines[0])
	assert.Len(t, lines[1], 1)
	assert.Len(t, lines[2], 3)

	_, err = ReadStreamlines(strings.NewReader("0,1,2\n"))
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadStreamlines(strings.NewReader("0,1,2,3\nx,1,2,3\n"))
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadStreamlines(strings.NewReader("0,1,nan?,3\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLabelVolumeRoundTrip(t *testing.T) {
	vol := models.NewLabelVolume(3, 2, 2)
	vol.Set(2, 1, 1, 17)
	vol.Set(0, 0, 0, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteLabelVolume(&buf, vol))
	assert.Equal(t, 12+4*12, buf.Len())

	back, err := ReadLabelVolume(&buf)
	require.NoError(t, err)
	assert.Equal(t, vol.Data, back.Data)
	assert.Equal(t, 3, back.Width)
	assert.Equal(t, 2, back.Depth)

	_, err = ReadLabelVolume(bytes.NewReader([]byte{1, 0, 0, 0}))
	assert.ErrorIs(t, err, ErrFormat)

	zero := []byte{0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}
	_, err = ReadLabelVolume(bytes.NewReader(zero))
	assert.ErrorIs(t, err, ErrFormat)

	truncated := []byte{2, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 5, 0, 0, 0}
	_, err = ReadLabelVolume(bytes.NewReader(truncated))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadTimeseries(t *testing.T) {
	ts, ids, err := ReadTimeseries(strings.NewReader("42,1,2,3\n7,3,2,1\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{42, 7}, ids)
	r, c := ts.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, ts.At(1, 2))

	_, _, err = ReadTimeseries(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrFormat)
	_, _, err = ReadTimeseries(strings.NewReader("1\n"))
	assert.ErrorIs(t, err, ErrFormat)
	_, _, err = ReadTimeseries(strings.NewReader("1,2,3\n2,3\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "streamlines.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,1,1,1\n0,2,2,2\n"), 0644))

	lines, err := LoadStreamlines(path)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	_, err = LoadStreamlines(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
