package types

import (
	"fmt"
	"math"
	"sort"
)

// EdgeKey packs an undirected edge into one uint64, smaller vertex in the low
// 32 bits, so that [4,0] and [0,4] compare equal.
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (ek EdgeKey) {
	for _, v := range verts {
		if v < 0 || v > math.MaxUint32 {
			panic(fmt.Errorf("edge vertices %v do not fit in 32 bits", verts))
		}
	}
	lo, hi := verts[0], verts[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	ek = EdgeKey(uint64(lo) | uint64(hi)<<32)
	return
}

// GetVertices returns the vertices in ascending order, or descending if rev.
func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0], verts[1] = int(ek&math.MaxUint32), int(ek>>32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// EdgeInt is a directed edge. The magnitude is the EdgeKey packing with 31 bit
// vertices and the sign records whether the vertices arrived in descending order.
type EdgeInt int64

func NewEdgeInt(verts [2]int) (e EdgeInt) {
	const limit = math.MaxUint32 >> 1
	for _, v := range verts {
		if v < 0 || v > limit {
			panic(fmt.Errorf("edge vertices %v do not fit in 31 bits", verts))
		}
	}
	e = EdgeInt(NewEdgeKey(verts))
	if verts[0] > verts[1] {
		e = -e
	}
	return
}

// GetVertices returns the vertices in their original order.
func (e EdgeInt) GetVertices() (verts [2]int) {
	if e < 0 {
		return EdgeKey(-e).GetVertices(true)
	}
	return EdgeKey(e).GetVertices(false)
}

func (e EdgeInt) GetKey() EdgeKey {
	if e < 0 {
		return EdgeKey(-e)
	}
	return EdgeKey(e)
}

// EdgeNodes returns the distinct vertices touched by a set of edges, sorted.
func EdgeNodes(edges []EdgeInt) (nodes []int) {
	seen := make(map[int]struct{}, len(edges)+1)
	for _, e := range edges {
		for _, v := range e.GetVertices() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				nodes = append(nodes, v)
			}
		}
	}
	sort.Ints(nodes)
	return
}
