package FE2D

import (
	"fmt"
	"sort"
)

// Fixed marks a node whose value is prescribed and carries no equation.
const Fixed = -1

/*
Numbering is the ID array: for each node either its equation index or Fixed.
Free nodes are numbered contiguously from zero in increasing node order, so
for any two free nodes i < j, ID[i] < ID[j].

A Numbering is immutable once built and may be shared between goroutines.
*/
type Numbering struct {
	id        []int
	values    map[int]float64
	fixed     []int
	equations int
}

// NewNumbering numbers nNodes nodes, treating the keys of fixed as Dirichlet
// nodes with the mapped prescribed values.
func NewNumbering(nNodes int, fixed map[int]float64) (n *Numbering, err error) {
	n = &Numbering{
		id:     make([]int, nNodes),
		values: make(map[int]float64, len(fixed)),
		fixed:  make([]int, 0, len(fixed)),
	}
	for node, val := range fixed {
		if node < 0 || node >= nNodes {
			err = fmt.Errorf("%w: fixed node %d, have %d nodes", ErrIndexOutOfRange, node, nNodes)
			n = nil
			return
		}
		n.values[node] = val
		n.fixed = append(n.fixed, node)
	}
	sort.Ints(n.fixed)
	for i := 0; i < nNodes; i++ {
		if _, isFixed := n.values[i]; isFixed {
			n.id[i] = Fixed
			continue
		}
		n.id[i] = n.equations
		n.equations++
	}
	return
}

// HomogeneousDirichlet maps each node to a prescribed value of zero.
func HomogeneousDirichlet(nodes []int) (fixed map[int]float64) {
	fixed = make(map[int]float64, len(nodes))
	for _, v := range nodes {
		fixed[v] = 0
	}
	return
}

func (n *Numbering) NumNodes() int     { return len(n.id) }
func (n *Numbering) NumEquations() int { return n.equations }

// Equation returns the equation index of node, or Fixed.
func (n *Numbering) Equation(node int) int { return n.id[node] }

func (n *Numbering) IsFixed(node int) bool { return n.id[node] == Fixed }

// Value returns the prescribed value of a fixed node, zero otherwise.
func (n *Numbering) Value(node int) float64 { return n.values[node] }

// FixedNodes returns the fixed node indices in increasing order.
func (n *Numbering) FixedNodes() (nodes []int) {
	nodes = make([]int, len(n.fixed))
	copy(nodes, n.fixed)
	return
}

// Reconstruct scatters the free solution back onto all nodes, filling fixed
// nodes with their prescribed values.
func (n *Numbering) Reconstruct(free []float64) (psi []float64, err error) {
	if len(free) != n.equations {
		err = fmt.Errorf("%w: solution has %d values, have %d equations",
			ErrIndexOutOfRange, len(free), n.equations)
		return
	}
	psi = make([]float64, len(n.id))
	for i, eq := range n.id {
		if eq == Fixed {
			psi[i] = n.values[i]
			continue
		}
		psi[i] = free[eq]
	}
	return
}

// LocationMap holds, per element and local node, the equation index or Fixed.
type LocationMap [][3]int

func NewLocationMap(m *Mesh, n *Numbering) (lm LocationMap, err error) {
	if m.NumNodes() != n.NumNodes() {
		err = fmt.Errorf("%w: mesh has %d nodes, numbering has %d",
			ErrIndexOutOfRange, m.NumNodes(), n.NumNodes())
		return
	}
	lm = make(LocationMap, m.NumElements())
	for k, verts := range m.EToV {
		for a, v := range verts {
			if v < 0 || v >= n.NumNodes() {
				err = fmt.Errorf("%w: element %d local node %d references node %d",
					ErrIndexOutOfRange, k, a, v)
				lm = nil
				return
			}
			lm[k][a] = n.id[v]
		}
	}
	return
}
