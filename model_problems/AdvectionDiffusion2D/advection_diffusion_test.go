package AdvectionDiffusion2D

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/gofe/FE2D"
	"github.com/notargets/gofe/InputParameters"
	"github.com/notargets/gofe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare(t *testing.T) *FE2D.Mesh {
	m, err := FE2D.NewMesh(
		[]float64{0, 1, 1, 0},
		[]float64{0, 0, 1, 1},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		[]int{0, 1, 2, 3},
	)
	require.NoError(t, err)
	return m
}

// gridMesh triangulates [0,Lx]x[0,Ly] with nx by ny cells.
func gridMesh(t *testing.T, nx, ny int, Lx, Ly float64) *FE2D.Mesh {
	var (
		VX, VY   []float64
		EToV     [][3]int
		boundary []int
	)
	node := func(i, j int) int { return i + j*(nx+1) }
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			VX = append(VX, Lx*float64(i)/float64(nx))
			VY = append(VY, Ly*float64(j)/float64(ny))
			if i == 0 || i == nx || j == 0 || j == ny {
				boundary = append(boundary, node(i, j))
			}
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			EToV = append(EToV,
				[3]int{node(i, j), node(i+1, j), node(i+1, j+1)},
				[3]int{node(i, j), node(i+1, j+1), node(i, j+1)})
		}
	}
	m, err := FE2D.NewMesh(VX, VY, EToV, boundary)
	require.NoError(t, err)
	return m
}

func TestSolveUnitSquare(t *testing.T) {
	m := unitSquare(t)
	origin := func(x, y float64) bool { return x == 0 && y == 0 }
	{
		res, err := Solve(ConstantSource(1), 0, 1, m, origin)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, res.FixedNodes)
		ans := []float64{0, 2. / 3., 1, 2. / 3.}
		for i := range ans {
			assert.InDelta(t, ans[i], res.Psi[i], 1.e-12)
		}
		val, err := res.Sample(0.5, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, val, 1.e-12)
		val, err = res.Sample(1, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 5./6., val, 1.e-12)
		_, err = res.Sample(2, 2)
		assert.True(t, errors.Is(err, ErrOutsideMesh))
		node, peak := res.Peak()
		assert.Equal(t, 2, node)
		assert.InDelta(t, 1., peak, 1.e-12)
	}
	{ // Pure Neumann
		_, err := Solve(ConstantSource(1), 0, 1, m, func(x, y float64) bool { return false })
		assert.True(t, errors.Is(err, FE2D.ErrSingularSystem))
	}
	{ // Meshes built by hand are checked before use
		bad := &FE2D.Mesh{
			VX:            []float64{0, 1, 1, 0},
			VY:            []float64{0, 0, 1, 1},
			EToV:          [][3]int{{0, 1, 2}, {0, 2, 3}},
			BoundaryNodes: []int{0, 1, 7},
		}
		_, err := Solve(ConstantSource(1), 0, 1, bad, AllBoundary())
		assert.True(t, errors.Is(err, FE2D.ErrIndexOutOfRange))

		bad.BoundaryNodes = []int{0, 1}
		bad.EToV = [][3]int{{0, 1, 2}, {0, 2, -3}}
		_, err = NewAdvectionDiffusion(ConstantSource(1), 0, 1, bad, map[int]float64{0: 0}, false).
			Solve(context.Background())
		assert.True(t, errors.Is(err, FE2D.ErrIndexOutOfRange))

		bad.EToV = [][3]int{{0, 1, 2}, {0, 2, 0}}
		_, err = Solve(ConstantSource(1), 0, 1, bad, AllBoundary())
		assert.True(t, errors.Is(err, FE2D.ErrDegenerateElement))
	}
	{
		res := &Result{Mesh: m, Psi: []float64{1, 1, 1, 1}}
		integral, err := res.Integral()
		require.NoError(t, err)
		assert.InDelta(t, 1., integral, 1.e-14)
		res.Psi = []float64{0, 1, 1, 0} // psi = x
		integral, err = res.Integral()
		require.NoError(t, err)
		assert.InDelta(t, 0.5, integral, 1.e-14)
	}
}

func TestSolvePlume(t *testing.T) {
	var (
		m      = gridMesh(t, 24, 16, 3000, 2000)
		S      = GaussianSource(800, 1000, 150)
		u0, D  = 0.05, 20.
		bottom = NorthingBelow(0)
	)
	res, err := Solve(S, u0, D, m, bottom)
	require.NoError(t, err)
	assert.True(t, utils.IsFinite(res.Psi))
	assert.Len(t, res.FixedNodes, 25)
	for _, v := range res.FixedNodes {
		assert.Equal(t, 0., m.VY[v])
		assert.Equal(t, 0., res.Psi[v])
	}
	// Downwind of the source carries more than the same distance upwind
	down, err := res.Sample(1400, 1000)
	require.NoError(t, err)
	up, err := res.Sample(200, 1000)
	require.NoError(t, err)
	assert.Greater(t, down, up)

	{ // Sharded assembly reproduces the serial field
		c := NewAdvectionDiffusion(S, u0, D, m, FE2D.HomogeneousDirichlet(m.BoundaryWhere(bottom)), false)
		c.Workers = 5
		par, err := c.Solve(context.Background())
		require.NoError(t, err)
		for i := range res.Psi {
			assert.InDelta(t, res.Psi[i], par.Psi[i], 1.e-9*math.Max(1, math.Abs(res.Psi[i])))
		}
	}
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := SolveContext(ctx, S, u0, D, m, bottom)
		assert.True(t, errors.Is(err, context.Canceled))
	}
	{ // Output round trip
		fileName := filepath.Join(t.TempDir(), "plume.bin")
		require.NoError(t, res.SaveOutput(fileName))
		back, err := ReadOutput(fileName)
		require.NoError(t, err)
		assert.Equal(t, m.VX, back.Mesh.VX)
		assert.Equal(t, m.VY, back.Mesh.VY)
		assert.Equal(t, m.EToV, back.Mesh.EToV)
		assert.Equal(t, res.Psi, back.Psi)
	}
}

func TestSources(t *testing.T) {
	S := GaussianSource(442365, 115483, 100)
	assert.Equal(t, 1., S([2]float64{442365, 115483}))
	assert.InDelta(t, math.Exp(-0.5), S([2]float64{442465, 115483}), 1.e-15)
	assert.Equal(t, 3., ConstantSource(3)([2]float64{1, 2}))
	assert.True(t, NorthingBelow(110000)(0, 110000))
	assert.False(t, NorthingBelow(110000)(0, 110001))
	assert.True(t, AllBoundary()(5, 5))
}

const squareSU2 = `NDIME= 2
NELEM= 2
5 0 1 2 0
5 0 2 3 1
NPOIN= 4
0 0 0
1 0 1
1 1 2
0 1 3
NMARK= 3
MARKER_TAG= bottom
MARKER_ELEMS= 1
3 0 1
MARKER_TAG= dirichlet-top
MARKER_ELEMS= 1
3 2 3
MARKER_TAG= sides
MARKER_ELEMS= 2
3 1 2
3 3 0
`

func TestNewFromParameters(t *testing.T) {
	dir := t.TempDir()
	gridFile := filepath.Join(dir, "square.su2")
	require.NoError(t, os.WriteFile(gridFile, []byte(squareSU2), 0644))
	{ // Marker boundaries, the Dirichlet typed marker is fixed at zero
		ip := InputParameters.NewInputParameters2D()
		require.NoError(t, ip.Parse([]byte(`
GridFile: ` + gridFile + `
Boundary: markers
FixedMarkers:
  bottom: 2
U0: 0
D: 1
Source:
  Type: constant
  Value: 0
`)))
		c, err := NewFromParameters(ip, false)
		require.NoError(t, err)
		assert.Equal(t, map[int]float64{0: 2, 1: 2, 2: 0, 3: 0}, c.Fixed)
		res, err := c.Solve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 2, 0, 0}, res.Psi)
	}
	{ // Unknown marker
		ip := InputParameters.NewInputParameters2D()
		require.NoError(t, ip.Parse([]byte("GridFile: " + gridFile + "\nBoundary: markers\nFixedMarkers: {left: 1}\n")))
		_, err := NewFromParameters(ip, false)
		assert.Error(t, err)
	}
	{ // Las grid with the northing boundary
		for name, data := range map[string]string{
			"las_nodes_5k.txt": "0 0\n1 0\n1 1\n0 1\n",
			"las_IEN_5k.txt":   "0 1 2\n0 2 3\n",
			"las_bdry_5k.txt":  "0\n1\n2\n3\n",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
		}
		ip := InputParameters.NewInputParameters2D()
		require.NoError(t, ip.Parse([]byte("GridDir: "+dir+"\nNorthingThreshold: 0\nU0: 0\nD: 1\nSource: {Type: constant, Value: 1}\n")))
		c, err := NewFromParameters(ip, false)
		require.NoError(t, err)
		assert.Equal(t, map[int]float64{0: 0, 1: 0}, c.Fixed)
		res, err := c.Solve(context.Background())
		require.NoError(t, err)
		assert.True(t, utils.IsFinite(res.Psi))
		assert.Greater(t, res.Psi[2], 0.)
	}
}

func TestReadOutputCorrupt(t *testing.T) {
	encode := func(data ...interface{}) []byte {
		var buf bytes.Buffer
		for _, d := range data {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, d))
		}
		return buf.Bytes()
	}
	read := func(b []byte) error {
		_, err := readOutput(bytes.NewReader(b), int64(len(b)))
		return err
	}
	var (
		tri = []int64{0, 1, 2}
		xy  = []float64{0, 0, 1, 0, 0, 1}
		psi = []float64{1, 2, 3}
	)
	{ // A well formed file reads back
		b := encode(int64(2), int64(3), tri, int64(3), xy, int64(3), psi)
		assert.Len(t, b, 128)
		res, err := readOutput(bytes.NewReader(b), int64(len(b)))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 0}, res.Mesh.VX)
		assert.Equal(t, psi, res.Psi)
	}
	assert.Error(t, read(encode(int64(3))))
	assert.Error(t, read(encode(int64(2), int64(1)<<62)))
	assert.Error(t, read(encode(int64(2), int64(-3))))
	assert.Error(t, read(encode(int64(2), int64(3), tri, int64(1)<<61)))
	assert.Error(t, read(encode(int64(2), int64(2), []int64{0, 1})))
	assert.Error(t, read(encode(int64(2), int64(3), tri, int64(3), xy, int64(2), psi[:2])))
	// Connectivity past the vertex list
	err := read(encode(int64(2), int64(3), []int64{0, 1, 5}, int64(3), xy, int64(3), psi))
	assert.True(t, errors.Is(err, FE2D.ErrIndexOutOfRange))
	// Truncated data
	assert.Error(t, read(encode(int64(2), int64(3), tri, int64(3), xy, int64(3), psi)[:100]))
}

func TestPeakEmpty(t *testing.T) {
	node, _ := (&Result{Mesh: &FE2D.Mesh{}}).Peak()
	assert.Equal(t, -1, node)
}
