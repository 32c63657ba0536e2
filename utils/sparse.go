package utils

import (
	"errors"
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularMatrix is returned by CSR.Solve when elimination meets a pivot
// that is zero relative to the largest matrix entry.
var ErrSingularMatrix = errors.New("matrix is singular")

// DOK is the insertion side of the global matrix lifecycle. Entries are
// accumulated with AddAt during assembly, then the matrix is converted once
// with ToCSR for the solve.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// AddAt accumulates val into entry (i,j). Contributions are summed, never
// overwritten.
func (m DOK) AddAt(i, j int, val float64) DOK { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	if i < 0 || i >= nr || j < 0 || j >= nc {
		panic(fmt.Errorf("index [%d,%d] out of bounds for %dx%d matrix \"%s\"", i, j, nr, nc, m.name))
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

// Merge sums every stored entry of other into the receiver.
func (m DOK) Merge(other DOK) (err error) { // Changes receiver
	var (
		nr, nc   = m.Dims()
		onr, onc = other.Dims()
	)
	if nr != onr || nc != onc {
		err = fmt.Errorf("dimension mismatch merging %dx%d into %dx%d", onr, onc, nr, nc)
		return
	}
	m.checkWritable()
	other.M.DoNonZero(func(i, j int, v float64) {
		m.M.Set(i, j, m.M.At(i, j)+v)
	})
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

// CSR is the solve side of the global matrix lifecycle, with cheap row access.
type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

// DoRowNonZero calls fn for each stored entry of row i, in column order.
func (m CSR) DoRowNonZero(i int, fn func(j int, v float64)) {
	raw := m.RawMatrix()
	for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
		fn(raw.Ind[p], raw.Data[p])
	}
}

// MulVec returns m*x.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("vector length %d does not match %d columns", len(x), nc))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		m.DoRowNonZero(i, func(j int, v float64) {
			sum += v * x[j]
		})
		y[i] = sum
	}
	return
}

// ToDense is intended for small systems and diagnostics.
func (m CSR) ToDense() (R *mat.Dense) {
	var (
		nr, nc = m.Dims()
	)
	R = mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		m.DoRowNonZero(i, func(j int, v float64) {
			R.Set(i, j, R.At(i, j)+v)
		})
	}
	return
}
