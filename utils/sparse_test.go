package utils

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// laplacian2D returns the 5 point operator on an n x n grid with a skew term,
// numbered in a scrambled order so that the ordering has work to do.
func laplacian2D(n int, skew float64, rng *rand.Rand) (A DOK) {
	var (
		N     = n * n
		order = rng.Perm(N)
	)
	A = NewDOK(N, N)
	idx := func(i, j int) int { return order[i+j*n] }
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p := idx(i, j)
			A.AddAt(p, p, 4)
			if i > 0 {
				A.AddAt(p, idx(i-1, j), -1-skew)
			}
			if i < n-1 {
				A.AddAt(p, idx(i+1, j), -1+skew)
			}
			if j > 0 {
				A.AddAt(p, idx(i, j-1), -1)
			}
			if j < n-1 {
				A.AddAt(p, idx(i, j+1), -1)
			}
		}
	}
	return
}

func bandwidth(m CSR, perm []int) (bw int) {
	nr, _ := m.Dims()
	inv := make([]int, nr)
	for k, p := range perm {
		inv[p] = k
	}
	for i := 0; i < nr; i++ {
		m.DoRowNonZero(i, func(j int, v float64) {
			d := inv[i] - inv[j]
			if d < 0 {
				d = -d
			}
			if d > bw {
				bw = d
			}
		})
	}
	return
}

func TestDOK(t *testing.T) {
	{ // Contributions accumulate
		A := NewDOK(3, 3)
		A.AddAt(0, 1, 1.5)
		A.AddAt(0, 1, 2.5)
		A.AddAt(2, 2, -1)
		assert.Equal(t, 4., A.At(0, 1))
		assert.Equal(t, -1., A.At(2, 2))
		assert.Equal(t, 2, A.NNZ())
		assert.Panics(t, func() { A.AddAt(3, 0, 1) })
		assert.Panics(t, func() { A.AddAt(0, -1, 1) })
	}
	{ // Merge sums partials
		A, B := NewDOK(2, 2), NewDOK(2, 2)
		A.AddAt(0, 0, 1)
		B.AddAt(0, 0, 2)
		B.AddAt(1, 0, 3)
		require.NoError(t, A.Merge(B))
		assert.Equal(t, 3., A.At(0, 0))
		assert.Equal(t, 3., A.At(1, 0))
		assert.Error(t, A.Merge(NewDOK(3, 2)))
	}
	{ // Read only matrices refuse writes
		A := NewDOK(2, 2)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.AddAt(0, 0, 1) })
	}
	{ // Conversion keeps every entry
		A := NewDOK(3, 4)
		A.AddAt(0, 3, 1)
		A.AddAt(2, 0, 2)
		A.AddAt(1, 1, 3)
		C := A.ToCSR()
		nr, nc := C.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 4, nc)
		assert.Equal(t, 3, C.NNZ())
		assert.True(t, mat.Equal(A, C.ToDense()))
		assert.Equal(t, []float64{1, 3, 2}, C.MulVec([]float64{1, 1, 1, 1}))
		var cols []int
		C.DoRowNonZero(0, func(j int, v float64) { cols = append(cols, j) })
		assert.Equal(t, []int{3}, cols)
	}
}

func TestSparseSolve(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	{ // Compare with a dense LU solve
		for _, skew := range []float64{0, 0.4} {
			var (
				A = laplacian2D(7, skew, rng).ToCSR()
				N = 49
				b = make([]float64, N)
			)
			for i := range b {
				b[i] = rng.Float64() - 0.5
			}
			x, err := A.Solve(b)
			require.NoError(t, err)
			var xd mat.VecDense
			require.NoError(t, xd.SolveVec(A.ToDense(), mat.NewVecDense(N, b)))
			assert.True(t, floats.EqualApprox(xd.RawVector().Data, x, 1.e-12))
			// Residual
			r := A.MulVec(x)
			floats.Sub(r, b)
			assert.Less(t, floats.Norm(r, 2), 1.e-12)
		}
	}
	{ // A zero diagonal needs pivoting
		A := NewDOK(3, 3)
		A.AddAt(0, 1, 2)
		A.AddAt(1, 0, 1)
		A.AddAt(1, 2, 1)
		A.AddAt(2, 2, 4)
		x, err := A.ToCSR().Solve([]float64{4, 3, 8})
		require.NoError(t, err)
		assert.True(t, floats.EqualApprox([]float64{1, 2, 2}, x, 1.e-14), "x = %v", x)
	}
	{ // Singular matrices
		A := NewDOK(3, 3)
		A.AddAt(0, 0, 1)
		A.AddAt(0, 1, -1)
		A.AddAt(1, 0, -1)
		A.AddAt(1, 1, 1)
		A.AddAt(2, 2, 1)
		_, err := A.ToCSR().Solve([]float64{0, 0, 1})
		assert.True(t, errors.Is(err, ErrSingularMatrix))

		Z := NewDOK(2, 2)
		Z.AddAt(0, 0, 1)
		_, err = Z.ToCSR().Solve([]float64{1, 1})
		assert.True(t, errors.Is(err, ErrSingularMatrix))
	}
	{
		A := NewDOK(2, 2)
		A.AddAt(0, 0, 1)
		A.AddAt(1, 1, 1)
		_, err := A.ToCSR().Solve([]float64{1})
		assert.Error(t, err)
	}
	{ // Larger grids solve within the RCM band
		var (
			A = laplacian2D(60, 0.2, rng).ToCSR()
			b = make([]float64, 3600)
		)
		for i := range b {
			b[i] = rng.Float64()
		}
		x, err := A.Solve(b)
		require.NoError(t, err)
		r := A.MulVec(x)
		floats.Sub(r, b)
		assert.Less(t, floats.Norm(r, math.Inf(1)), 1.e-10)
	}
	{ // Repeated solves are bitwise identical
		A := laplacian2D(6, 0.3, rng).ToCSR()
		b := make([]float64, 36)
		for i := range b {
			b[i] = float64(i)
		}
		x1, err := A.Solve(b)
		require.NoError(t, err)
		x2, err := A.Solve(b)
		require.NoError(t, err)
		assert.Equal(t, x1, x2)
	}
}

func TestReverseCuthillMcKee(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	A := laplacian2D(10, 0, rng).ToCSR()
	perm := A.ReverseCuthillMcKee()
	{ // perm is a permutation
		seen := make(map[int]bool)
		for _, p := range perm {
			assert.False(t, seen[p])
			seen[p] = true
		}
		assert.Equal(t, 100, len(seen))
	}
	{ // The scrambled numbering has a wide band, the ordering recovers a narrow one
		identity := make([]int, 100)
		for i := range identity {
			identity[i] = i
		}
		assert.Greater(t, bandwidth(A, identity), 50)
		assert.LessOrEqual(t, bandwidth(A, perm), 20)
	}
	{ // Disconnected blocks
		B := NewDOK(5, 5)
		B.AddAt(0, 0, 2)
		B.AddAt(0, 1, -1)
		B.AddAt(1, 0, -1)
		B.AddAt(1, 1, 2)
		B.AddAt(2, 2, 1)
		B.AddAt(3, 3, 2)
		B.AddAt(3, 4, 1)
		B.AddAt(4, 4, 2)
		C := B.ToCSR()
		assert.Equal(t, 3, C.ConnectedComponents())
		assert.Len(t, C.ReverseCuthillMcKee(), 5)
		x, err := C.Solve([]float64{1, 1, 1, 3, 2})
		require.NoError(t, err)
		assert.True(t, floats.EqualApprox([]float64{1, 1, 1, 1, 1}, x, 1.e-14), "x = %v", x)
	}
}
