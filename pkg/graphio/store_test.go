package graphio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"connectome/pkg/connectome"
)

func structuralFixture(t *testing.T) *connectome.Structural {
	t.Helper()
	g, err := connectome.NewStructural(nil, []connectome.Edge{
		{Source: 1, Target: 3, Weight: 1},
		{Source: 1, Target: 2, Weight: 3},
	})
	require.NoError(t, err)
	return g
}

func TestStructuralRoundTrip(t *testing.T) {
	g := structuralFixture(t)
	path := filepath.Join(t.TempDir(), "sub-01", "graph_adj.csv")

	require.NoError(t, Save(g, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3\n1,3,1\n", string(raw))

	back, err := LoadStructural(path)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(), back.Edges())
	assert.Equal(t, g.Nodes(), back.Nodes())
}

func TestFunctionalRoundTrip(t *testing.T) {
	w := mat.NewSymDense(3, []float64{
		1, 0.123456789012345, 0,
		0.123456789012345, 1, 1.0 / 3,
		0, 1.0 / 3, 0,
	})
	g, err := connectome.NewFunctional([]int{12, 4, 7}, w)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	assert.True(t, strings.HasPrefix(buf.String(), "12,4,7\n"))

	back, err := ReadFunctional(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	assert.True(t, mat.Equal(g.Matrix(), back.Matrix()))
}

func TestSaveAsModality(t *testing.T) {
	dir := t.TempDir()
	g := structuralFixture(t)

	err := SaveAs(g, "fmri", filepath.Join(dir, "a_adj.csv"))
	assert.ErrorIs(t, err, ErrModality)

	err = SaveAs(g, "func", filepath.Join(dir, "b_adj.csv"))
	assert.ErrorIs(t, err, ErrModality)

	path := filepath.Join(dir, "c_adj.csv")
	require.NoError(t, SaveAs(g, "dwi", path))

	loaded, err := Load(path, "dwi")
	require.NoError(t, err)
	assert.Equal(t, connectome.KindStructural, loaded.Kind())
	assert.Equal(t, 3.0, loaded.Weight(2, 1))

	_, err = Load(path, "bold")
	assert.ErrorIs(t, err, ErrModality)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadStructural(filepath.Join(dir, "missing.csv"))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cases := map[string]string{
		"too few fields":   "1,2\n",
		"non-integer node": "a,2,3\n",
		"fractional":       "1,2,0.5\n",
		"self loop":        "2,2,1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadStructural(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}

	_, err = ReadFunctional(strings.NewReader("1,2\n1,0\n"))
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadFunctional(strings.NewReader("1,2\n1,0.5\n0.4,1\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestSaveReportsIOFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := Save(structuralFixture(t), filepath.Join(blocker, "g_adj.csv"))
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestEmptyStructuralRoundTrip(t *testing.T) {
	g, err := connectome.NewStructural(nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	assert.Zero(t, buf.Len())

	back, err := ReadStructural(&buf)
	require.NoError(t, err)
	assert.Zero(t, back.EdgeCount())
}
