package readfiles

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/notargets/gofe/FE2D"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLasGrid(t *testing.T, dir, res, nodes, ien, bdry string) {
	nodesFile, ienFile, bdryFile := LasGridFiles(dir, res)
	require.NoError(t, os.WriteFile(nodesFile, []byte(nodes), 0644))
	require.NoError(t, os.WriteFile(ienFile, []byte(ien), 0644))
	require.NoError(t, os.WriteFile(bdryFile, []byte(bdry), 0644))
}

func TestReadLasGrid(t *testing.T) {
	var (
		nodes = "0.000000000000000000e+00 0.000000000000000000e+00\n" +
			"1.000000000000000000e+00 0.000000000000000000e+00\n" +
			"1.000000000000000000e+00 1.000000000000000000e+00\n" +
			"0.000000000000000000e+00 1.000000000000000000e+00\n"
		ien  = "0.000000000000000000e+00 1.000000000000000000e+00 2.000000000000000000e+00\n0 2 3"
		bdry = "# boundary\n0\n1\n\n2\n3\n"
	)
	{
		dir := t.TempDir()
		writeLasGrid(t, dir, "5", nodes, ien, bdry)
		m, err := ReadLasGrid(dir, "5", false)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 1, 0}, m.VX)
		assert.Equal(t, []float64{0, 0, 1, 1}, m.VY)
		assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.EToV)
		assert.Equal(t, []int{0, 1, 2, 3}, m.BoundaryNodes)
	}
	{ // Missing resolution
		_, err := ReadLasGrid(t.TempDir(), "40", false)
		assert.Error(t, err)
	}
	{ // Fractional index
		dir := t.TempDir()
		writeLasGrid(t, dir, "5", nodes, "0 1 2.5\n0 2 3\n", bdry)
		_, err := ReadLasGrid(dir, "5", false)
		assert.Error(t, err)
	}
	{ // Connectivity past the node list
		dir := t.TempDir()
		writeLasGrid(t, dir, "5", nodes, "0 1 2\n0 2 4\n", bdry)
		_, err := ReadLasGrid(dir, "5", false)
		assert.True(t, errors.Is(err, FE2D.ErrIndexOutOfRange))
	}
	{
		_, err := readColumns(strings.NewReader("1 2\n3\n"), 2)
		assert.Error(t, err)
		_, err = readColumns(strings.NewReader("1 x\n"), 2)
		assert.Error(t, err)
		rows, err := readColumns(strings.NewReader("  1   2  \n\n3 4"), 2)
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, rows)
	}
}
