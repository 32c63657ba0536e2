package AdvectionDiffusion2D

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/notargets/gofe/FE2D"
)

var ErrOutsideMesh = errors.New("point is outside the mesh")

// Result is the nodal field over every mesh node. Fixed nodes carry their
// prescribed values.
type Result struct {
	Mesh       *FE2D.Mesh
	FixedNodes []int
	Psi        []float64
}

// Sample interpolates psi at (x,y) with the shape functions of the element
// containing the point.
func (r *Result) Sample(x, y float64) (val float64, err error) {
	k, xi := r.Mesh.FindElement([2]float64{x, y})
	if k < 0 {
		err = fmt.Errorf("%w: (%v,%v)", ErrOutsideMesh, x, y)
		return
	}
	N := FE2D.ShapeFunctions(xi)
	for a, v := range r.Mesh.EToV[k] {
		val += N[a] * r.Psi[v]
	}
	return
}

// Integral returns the integral of psi over the mesh, the sum over elements of
// 1^T M_e psi_e.
func (r *Result) Integral() (sum float64, err error) {
	var (
		M [3][3]float64
	)
	for k, verts := range r.Mesh.EToV {
		if M, err = FE2D.Mass(r.Mesh.ElementCoords(k)); err != nil {
			return
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				sum += M[a][b] * r.Psi[verts[b]]
			}
		}
	}
	return
}

// Peak returns the node holding the largest value.
func (r *Result) Peak() (node int, val float64) {
	node = -1
	for i, p := range r.Psi {
		if node < 0 || p > val {
			node, val = i, p
		}
	}
	return
}

/*
SaveOutput writes the mesh and field as little endian binary:

	int64 nDimensions (2)
	int64 lenTriVerts, []int64 triangle vertices, 3 per element
	int64 lenVerts, []float64 x,y pairs
	int64 lenField, []float64 psi
*/
func (r *Result) SaveOutput(fileName string) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	if err = r.writeOutput(w); err != nil {
		return
	}
	return w.Flush()
}

func (r *Result) writeOutput(w io.Writer) (err error) {
	var (
		m        = r.Mesh
		triVerts = make([]int64, 3*m.NumElements())
		xy       = make([]float64, 2*m.NumNodes())
	)
	for k, verts := range m.EToV {
		for a, v := range verts {
			triVerts[3*k+a] = int64(v)
		}
	}
	for i := range m.VX {
		xy[2*i], xy[2*i+1] = m.VX[i], m.VY[i]
	}
	for _, data := range []interface{}{
		int64(2),
		int64(len(triVerts)), triVerts,
		int64(m.NumNodes()), xy,
		int64(len(r.Psi)), r.Psi,
	} {
		if err = binary.Write(w, binary.LittleEndian, data); err != nil {
			return
		}
	}
	return
}

// ReadOutput reads a file written by SaveOutput.
func ReadOutput(fileName string) (res *Result, err error) {
	var (
		file *os.File
		info os.FileInfo
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	if info, err = file.Stat(); err != nil {
		return
	}
	return readOutput(bufio.NewReader(file), info.Size())
}

// readOutput decodes size bytes of output. Every array length is checked
// against the bytes left before anything is allocated.
func readOutput(rd io.Reader, size int64) (res *Result, err error) {
	var (
		nDim, n   int64
		remaining = size
		mesh      *FE2D.Mesh
	)
	readLen := func(perItem int64) (l int64, err error) {
		if err = binary.Read(rd, binary.LittleEndian, &l); err != nil {
			return
		}
		remaining -= 8
		switch {
		case l < 0:
			err = fmt.Errorf("negative length %d in output file", l)
		case perItem > 0 && l > remaining/perItem:
			err = fmt.Errorf("length %d in output file exceeds the %d bytes remaining", l, remaining)
		default:
			remaining -= l * perItem
		}
		return
	}
	if nDim, err = readLen(0); err != nil {
		return
	}
	if nDim != 2 {
		err = fmt.Errorf("expected 2 dimensions, have %d", nDim)
		return
	}
	if n, err = readLen(8); err != nil {
		return
	}
	if n%3 != 0 {
		err = fmt.Errorf("%d triangle vertices is not a multiple of 3", n)
		return
	}
	triVerts := make([]int64, n)
	if err = binary.Read(rd, binary.LittleEndian, triVerts); err != nil {
		return
	}
	if n, err = readLen(16); err != nil {
		return
	}
	xy := make([]float64, 2*n)
	if err = binary.Read(rd, binary.LittleEndian, xy); err != nil {
		return
	}
	if n, err = readLen(8); err != nil {
		return
	}
	if nv := int64(len(xy) / 2); n != nv {
		err = fmt.Errorf("field has %d values for %d vertices", n, nv)
		return
	}
	psi := make([]float64, n)
	if err = binary.Read(rd, binary.LittleEndian, psi); err != nil {
		return
	}
	var (
		nv   = len(xy) / 2
		VX   = make([]float64, nv)
		VY   = make([]float64, nv)
		EToV = make([][3]int, len(triVerts)/3)
	)
	for i := 0; i < nv; i++ {
		VX[i], VY[i] = xy[2*i], xy[2*i+1]
	}
	for k := range EToV {
		for a := 0; a < 3; a++ {
			EToV[k][a] = int(triVerts[3*k+a])
		}
	}
	if mesh, err = FE2D.NewMesh(VX, VY, EToV, nil); err != nil {
		err = fmt.Errorf("output mesh: %w", err)
		return
	}
	res = &Result{
		Mesh: mesh,
		Psi:  psi,
	}
	return
}
