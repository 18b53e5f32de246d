package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectome/internal/models"
	"connectome/pkg/graphio"
	"connectome/pkg/ingest"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeAtlas writes a 10x4x4 volume with four regions striped along x.
func writeAtlas(t *testing.T, path string) {
	t.Helper()
	vol := models.NewLabelVolume(10, 4, 4)
	for z := 0; z < 4; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 8; x++ {
				vol.Set(x, y, z, int32(x/2+1))
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, ingest.WriteLabelVolume(&buf, vol))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// writeStreamlines writes n straight streamlines along x from x0 to x1.
func writeStreamlines(t *testing.T, path string, n int, x0, x1 float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("streamline,x,y,z\n")
	for i := 0; i < n; i++ {
		for x := x0; x <= x1; x += 0.5 {
			fmt.Fprintf(&b, "%d,%g,1,1\n", i, x)
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
}

func TestDWIAndDiscriminability(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "connectome.yaml")
	atlas := filepath.Join(dir, "desikan.lbl")
	writeAtlas(t, atlas)

	root := filepath.Join(dir, "derivatives")
	scans := []struct {
		sub, ses string
		n        int
		x0, x1   float64
	}{
		{"A", "1", 10, 0, 3},
		{"A", "2", 11, 0, 3},
		{"B", "1", 10, 4, 7},
		{"B", "2", 12, 4, 7},
	}
	for _, s := range scans {
		streams := filepath.Join(dir, fmt.Sprintf("sub-%s_ses-%s_streamlines.csv", s.sub, s.ses))
		writeStreamlines(t, streams, s.n, s.x0, s.x1)

		out, err := runCLI(t, "dwi",
			"--config", cfgPath,
			"--streamlines", streams,
			"--labels", atlas,
			"--outdir", filepath.Join(root, "sub-"+s.sub, "ses-"+s.ses),
			"--prefix", fmt.Sprintf("sub-%s_ses-%s", s.sub, s.ses),
			"--workers", "2",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "Number of edges: 1")
	}

	graphPath := filepath.Join(root, "sub-A", "ses-2", "desikan", "sub-A_ses-2_desikan_adj.csv")
	g, err := graphio.LoadStructural(graphPath)
	require.NoError(t, err)
	assert.Equal(t, 11.0, g.Weight(1, 2))

	out, err := runCLI(t, "discrim", root, "--config", cfgPath, "--atlas", "desikan", "--rdfs")
	require.NoError(t, err)
	assert.Contains(t, out, "Graphs: 4 (4 regions)")
	assert.Contains(t, out, "Discriminability: 1.0000")
	assert.Contains(t, out, "sub-A: [1]")

	out, err = runCLI(t, "summary", graphPath, "--config", cfgPath, "--eigenvalues", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Number of nodes: 2")
	assert.Contains(t, out, "Top 2 eigenvalues:")
	assert.Contains(t, out, "11.000000")
}

func TestDiscrimNeedsRepeatedSubjects(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "connectome.yaml")
	for _, sub := range []string{"A", "B", "C"} {
		p := filepath.Join(dir, "sub-"+sub, "sub-"+sub+"_desikan_adj.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("1,2,3\n"), 0644))
	}

	_, err := runCLI(t, "discrim", dir, "--config", cfgPath)
	assert.ErrorContains(t, err, "single unique sample id")
}

func TestFuncCommand(t *testing.T) {
	dir := t.TempDir()
	ts := filepath.Join(dir, "ts.csv")
	require.NoError(t, os.WriteFile(ts, []byte("5,1,2,3,4\n9,4,3,2,1\n2,1,1,1,1\n"), 0644))
	dest := filepath.Join(dir, "out", "func_adj.csv")

	_, err := runCLI(t, "func", "--config", filepath.Join(dir, "c.yaml"), "--timeseries", ts, "--out", dest)
	require.NoError(t, err)

	g, err := graphio.LoadFunctional(dest)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 9, 2}, g.Nodes())
	assert.InDelta(t, 1.0, g.Weight(5, 9), 1e-12)
	assert.Zero(t, g.Weight(2, 2))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectome.yaml")
	out, err := runCLI(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "removeIsolates: true")
}

func TestLabelName(t *testing.T) {
	assert.Equal(t, "desikan", labelName("/atlases/desikan.nii.gz"))
	assert.Equal(t, "sub-1_desikan_adj.csv", graphFileName("sub-1", "desikan"))
	assert.Equal(t, "aal_adj.csv", graphFileName("", "aal"))
}
