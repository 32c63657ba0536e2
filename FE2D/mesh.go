package FE2D

import (
	"fmt"
	"math"
	"sort"
)

// Mesh is an unstructured triangle mesh. EToV holds the three node indices of
// each element in local node order 0,1,2.
type Mesh struct {
	VX, VY        []float64
	EToV          [][3]int
	BoundaryNodes []int
}

// NewMesh builds and validates a mesh.
func NewMesh(VX, VY []float64, EToV [][3]int, boundaryNodes []int) (m *Mesh, err error) {
	m = &Mesh{
		VX:            VX,
		VY:            VY,
		EToV:          EToV,
		BoundaryNodes: boundaryNodes,
	}
	if err = m.Validate(); err != nil {
		m = nil
	}
	return
}

func (m *Mesh) NumNodes() int    { return len(m.VX) }
func (m *Mesh) NumElements() int { return len(m.EToV) }

// Validate checks every connectivity and boundary index, then every element
// Jacobian. The first failure is returned.
func (m *Mesh) Validate() (err error) {
	var (
		Nv = len(m.VX)
	)
	if len(m.VY) != Nv {
		err = fmt.Errorf("%w: have %d x coordinates and %d y coordinates",
			ErrIndexOutOfRange, Nv, len(m.VY))
		return
	}
	for k, verts := range m.EToV {
		for a, v := range verts {
			if v < 0 || v >= Nv {
				err = fmt.Errorf("%w: element %d local node %d references node %d, have %d nodes",
					ErrIndexOutOfRange, k, a, v, Nv)
				return
			}
		}
	}
	for i, v := range m.BoundaryNodes {
		if v < 0 || v >= Nv {
			err = fmt.Errorf("%w: boundary entry %d references node %d, have %d nodes",
				ErrIndexOutOfRange, i, v, Nv)
			return
		}
	}
	for k := range m.EToV {
		if _, _, err = checkedJacobian(m.ElementCoords(k)); err != nil {
			err = fmt.Errorf("element %d: %w", k, err)
			return
		}
	}
	return
}

// ElementCoords gathers the physical coordinates of element k.
func (m *Mesh) ElementCoords(k int) (xe ElementCoords) {
	for a, v := range m.EToV[k] {
		xe[0][a], xe[1][a] = m.VX[v], m.VY[v]
	}
	return
}

// BoundaryWhere returns the sorted, de-duplicated boundary nodes that satisfy
// the predicate.
func (m *Mesh) BoundaryWhere(predicate func(x, y float64) bool) (nodes []int) {
	seen := make(map[int]struct{}, len(m.BoundaryNodes))
	for _, v := range m.BoundaryNodes {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if predicate(m.VX[v], m.VY[v]) {
			nodes = append(nodes, v)
		}
	}
	sort.Ints(nodes)
	return
}

// FindElement locates the element containing point x, returning its index and
// the reference coordinate of x within it. k is -1 when no element contains x.
func (m *Mesh) FindElement(x [2]float64) (k int, xi RefCoord) {
	const tol = 1.e-10
	for kk := range m.EToV {
		xe := m.ElementCoords(kk)
		if x[0] < minOf3(xe[0])-tol*math.Abs(x[0]) || x[0] > maxOf3(xe[0])+tol*math.Abs(x[0]) ||
			x[1] < minOf3(xe[1])-tol*math.Abs(x[1]) || x[1] > maxOf3(xe[1])+tol*math.Abs(x[1]) {
			continue
		}
		var err error
		if xi, err = InversePositionMap(xe, x); err != nil {
			continue
		}
		if InReferenceTriangle(xi, tol) {
			return kk, xi
		}
	}
	return -1, RefCoord{}
}

func minOf3(a [3]float64) float64 { return math.Min(a[0], math.Min(a[1], a[2])) }
func maxOf3(a [3]float64) float64 { return math.Max(a[0], math.Max(a[1], a[2])) }
