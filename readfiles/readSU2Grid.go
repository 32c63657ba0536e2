package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/notargets/gofe/FE2D"
	"github.com/notargets/gofe/types"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
)

// SU2Grid is a 2D triangle mesh with its boundary markers. Each marker holds
// its line elements in file order.
type SU2Grid struct {
	VX, VY  []float64
	EToV    [][3]int
	BCEdges map[types.BCTAG][]types.EdgeInt
}

func ReadSU2(filename string, verbose bool) (grid *SU2Grid, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading SU2 file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	if grid, err = readSU2(bufio.NewReader(file), verbose); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
	}
	return
}

func readSU2(reader *bufio.Reader, verbose bool) (grid *SU2Grid, err error) {
	var (
		dimensionality int
	)
	if dimensionality, err = readNumber(reader); err != nil {
		return
	}
	if dimensionality != 2 {
		err = fmt.Errorf("only 2 dimensional meshes are supported, have NDIME= %d", dimensionality)
		return
	}
	grid = &SU2Grid{}
	if grid.EToV, err = readElements(reader); err != nil {
		return nil, err
	}
	if grid.VX, grid.VY, err = readVertices(reader); err != nil {
		return nil, err
	}
	if grid.BCEdges, err = readBCs(reader, len(grid.VX)); err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("Read file with %d elements, %d vertices and %d boundary markers\n",
			len(grid.EToV), len(grid.VX), len(grid.BCEdges))
	}
	return
}

// Tags returns the marker tags in sorted order.
func (g *SU2Grid) Tags() (tags []types.BCTAG) {
	for tag := range g.BCEdges {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}

// NodesWhere returns the sorted nodes of every marker accepted by match.
func (g *SU2Grid) NodesWhere(match func(tag types.BCTAG) bool) (nodes []int) {
	var edges []types.EdgeInt
	for _, tag := range g.Tags() {
		if match(tag) {
			edges = append(edges, g.BCEdges[tag]...)
		}
	}
	return types.EdgeNodes(edges)
}

func (g *SU2Grid) BoundaryNodes() []int {
	return g.NodesWhere(func(types.BCTAG) bool { return true })
}

// Mesh converts the grid into a validated FE mesh.
func (g *SU2Grid) Mesh() (*FE2D.Mesh, error) {
	return FE2D.NewMesh(g.VX, g.VY, g.EToV, g.BoundaryNodes())
}

func readBCs(reader *bufio.Reader, nVerts int) (BCEdges map[types.BCTAG][]types.EdgeInt, err error) {
	var (
		nType, v1, v2 int
		NBCs, nEdges  int
		label, line   string
	)
	if NBCs, err = readNumber(reader); err != nil {
		return
	}
	BCEdges = make(map[types.BCTAG][]types.EdgeInt, NBCs)
	for n := 0; n < NBCs; n++ {
		if label, err = readLabel(reader); err != nil {
			return
		}
		key := types.NewBCTAG(label)
		if nEdges, err = readNumber(reader); err != nil {
			return
		}
		// Repeated tags, periodic pairs for instance, share one slice
		for i := 0; i < nEdges; i++ {
			if line, err = getLine(reader); err != nil {
				return
			}
			if _, err = fmt.Sscanf(line, "%d %d %d", &nType, &v1, &v2); err != nil {
				err = fmt.Errorf("marker %s line [%s]: %w", label, line, err)
				return
			}
			if SU2ElementType(nType) != ELType_LINE {
				err = fmt.Errorf("marker %s: BCs should only contain line elements in 2D, have type %d",
					label, nType)
				return
			}
			if v1 < 0 || v1 >= nVerts || v2 < 0 || v2 >= nVerts {
				err = fmt.Errorf("marker %s: edge (%d,%d) references a vertex outside 0..%d",
					label, v1, v2, nVerts-1)
				return
			}
			BCEdges[key] = append(BCEdges[key], types.NewEdgeInt([2]int{v1, v2}))
		}
	}
	return
}

func readVertices(reader *bufio.Reader) (VX, VY []float64, err error) {
	var (
		Nv   int
		x, y float64
		line string
	)
	if Nv, err = readNumber(reader); err != nil {
		return
	}
	// Counts come from the file, storage grows with the lines actually read
	VX, VY = make([]float64, 0, minInt(Nv, preallocLimit)), make([]float64, 0, minInt(Nv, preallocLimit))
	for i := 0; i < Nv; i++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		if _, err = fmt.Sscanf(line, "%f %f", &x, &y); err != nil {
			err = fmt.Errorf("unable to read coordinates from [%s]: %w", line, err)
			return
		}
		VX, VY = append(VX, x), append(VY, y)
	}
	return
}

func readElements(reader *bufio.Reader) (EToV [][3]int, err error) {
	var (
		K                 int
		nType, v1, v2, v3 int
		line              string
	)
	if K, err = readNumber(reader); err != nil {
		return
	}
	EToV = make([][3]int, 0, minInt(K, preallocLimit))
	for k := 0; k < K; k++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		if _, err = fmt.Sscanf(line, "%d %d %d %d", &nType, &v1, &v2, &v3); err != nil {
			err = fmt.Errorf("unable to read vertices from [%s]: %w", line, err)
			return
		}
		if SU2ElementType(nType) != ELType_Triangle {
			err = fmt.Errorf("element %d has type %d, only triangles are supported", k, nType)
			return
		}
		EToV = append(EToV, [3]int{v1, v2, v3})
	}
	return
}

func getToken(reader *bufio.Reader) (token string, err error) {
	var (
		line string
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("badly formed input line [%s], should have an =", line)
		return
	}
	token = line[ind+1:]
	return
}

func readLabel(reader *bufio.Reader) (label string, err error) {
	var (
		token string
	)
	if token, err = getToken(reader); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%s", &label); err != nil {
		err = fmt.Errorf("unable to read label from token: [%s]", token)
	}
	return
}

// readNumber reads a count, which must be non negative.
func readNumber(reader *bufio.Reader) (num int, err error) {
	var (
		token string
	)
	if token, err = getToken(reader); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
		return
	}
	if num < 0 {
		err = fmt.Errorf("negative count %d in [%s]", num, strings.TrimSpace(token))
	}
	return
}

const preallocLimit = 1 << 16

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// getLineNoComments skips blank lines and lines starting with %.
func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if len(line) != 0 && line[0] != '%' {
			return
		}
	}
}
