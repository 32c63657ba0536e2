package utils

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Pivots at or below SingularTol*max|A| are treated as zero
const SingularTol = 1.e-12

// SparsityGraph returns the symmetrized adjacency graph of the matrix pattern,
// one node per row with IDs 0..n-1. Diagonal entries are not edges.
func (m CSR) SparsityGraph() (g *simple.UndirectedGraph) {
	var (
		nr, _ = m.Dims()
	)
	g = simple.NewUndirectedGraph()
	for i := 0; i < nr; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < nr; i++ {
		m.DoRowNonZero(i, func(j int, v float64) {
			if i == j || v == 0 {
				return
			}
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
		})
	}
	return
}

// ConnectedComponents counts the independent blocks of the matrix pattern.
func (m CSR) ConnectedComponents() int {
	return len(topo.ConnectedComponents(m.SparsityGraph()))
}

// ReverseCuthillMcKee returns a bandwidth reducing ordering, where perm[k] is
// the original row placed at position k. Ties are broken by degree, then by
// index, so the ordering is deterministic.
func (m CSR) ReverseCuthillMcKee() (perm []int) {
	var (
		g       = m.SparsityGraph()
		nr, _   = m.Dims()
		degree  = make([]int, nr)
		visited = make([]bool, nr)
	)
	neighbors := func(i int) (nbrs []int) {
		nodes := graph.NodesOf(g.From(int64(i)))
		nbrs = make([]int, 0, len(nodes))
		for _, n := range nodes {
			nbrs = append(nbrs, int(n.ID()))
		}
		sort.Slice(nbrs, func(a, b int) bool {
			if degree[nbrs[a]] != degree[nbrs[b]] {
				return degree[nbrs[a]] < degree[nbrs[b]]
			}
			return nbrs[a] < nbrs[b]
		})
		return
	}
	for i := 0; i < nr; i++ {
		degree[i] = g.From(int64(i)).Len()
	}
	perm = make([]int, 0, nr)
	for len(perm) < nr {
		// Start each component from its lowest degree vertex
		start := -1
		for i := 0; i < nr; i++ {
			if !visited[i] && (start == -1 || degree[i] < degree[start]) {
				start = i
			}
		}
		visited[start] = true
		queue := []int{start}
		for len(queue) != 0 {
			cur := queue[0]
			queue = queue[1:]
			perm = append(perm, cur)
			for _, nbr := range neighbors(cur) {
				if !visited[nbr] {
					visited[nbr] = true
					queue = append(queue, nbr)
				}
			}
		}
	}
	for i, j := 0, len(perm)-1; i < j; i, j = i+1, j-1 {
		perm[i], perm[j] = perm[j], perm[i]
	}
	return
}

// Solve computes x such that m*x = b with a direct sparse elimination. The
// unknowns are first reordered with ReverseCuthillMcKee, which packs each row
// into a narrow band, then eliminated with row partial pivoting. A pivot below
// SingularTol*max|A| returns ErrSingularMatrix.
func (m CSR) Solve(b []float64) (x []float64, err error) {
	var (
		nr, nc = m.Dims()
		amax   float64
	)
	if nr != nc {
		err = fmt.Errorf("matrix must be square, have %dx%d", nr, nc)
		return
	}
	if len(b) != nr {
		err = fmt.Errorf("length of RHS %d does not match matrix dimension %d", len(b), nr)
		return
	}
	if nr == 0 {
		return
	}
	// Row r of the permuted matrix is stored densely from its first nonzero
	// column on and joins the active set when elimination reaches that column.
	// Each elimination step drops the leading entry of every active row.
	var (
		n      = nr
		perm   = m.ReverseCuthillMcKee()
		inv    = make([]int, n)
		band   = make([][]float64, n)
		rhs    = make([]float64, n)
		pivot  = make([]int, n)
		starts = make([][]int, n)
		active []int
	)
	for k, p := range perm {
		inv[p] = k
	}
	for i := 0; i < n; i++ {
		var (
			ri       = inv[i]
			cLo, cHi = n, -1
		)
		m.DoRowNonZero(i, func(j int, v float64) {
			if v == 0 {
				return
			}
			cj := inv[j]
			if cj < cLo {
				cLo = cj
			}
			if cj > cHi {
				cHi = cj
			}
		})
		rhs[ri] = b[i]
		if cHi < 0 {
			continue
		}
		band[ri] = make([]float64, cHi-cLo+1)
		m.DoRowNonZero(i, func(j int, v float64) {
			if v == 0 {
				return
			}
			band[ri][inv[j]-cLo] += v
			amax = math.Max(amax, math.Abs(v))
		})
		starts[cLo] = append(starts[cLo], ri)
	}
	lead := func(r int) float64 {
		if len(band[r]) == 0 {
			return 0
		}
		return band[r][0]
	}
	tol := SingularTol * amax
	for k := 0; k < n; k++ {
		active = append(active, starts[k]...)
		// Every active row now begins at column k
		pi, pv := -1, 0.
		for i, r := range active {
			v := lead(r)
			if math.Abs(v) > math.Abs(pv) || (math.Abs(v) == math.Abs(pv) && pi != -1 && r < active[pi]) {
				pi, pv = i, v
			}
		}
		if pi == -1 || math.Abs(pv) <= tol {
			err = fmt.Errorf("%w: pivot %8.5e in column %d is below tolerance %8.5e",
				ErrSingularMatrix, pv, perm[k], tol)
			return
		}
		pr := active[pi]
		pivot[k] = pr
		active = append(active[:pi], active[pi+1:]...)
		prow := band[pr]
		for _, r := range active {
			if f := lead(r) / pv; f != 0 {
				if len(band[r]) < len(prow) {
					band[r] = append(band[r], make([]float64, len(prow)-len(band[r]))...)
				}
				row := band[r]
				for j := 1; j < len(prow); j++ {
					row[j] -= f * prow[j]
				}
				rhs[r] -= f * rhs[pr]
			}
			if len(band[r]) != 0 {
				band[r] = band[r][1:]
			}
		}
	}
	// Back substitution, pivot row pivot[k] holds U from column k on
	y := make([]float64, n)
	for k := n - 1; k >= 0; k-- {
		var (
			row = band[pivot[k]]
			sum = rhs[pivot[k]]
		)
		for j := 1; j < len(row); j++ {
			sum -= row[j] * y[k+j]
		}
		y[k] = sum / row[0]
	}
	x = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = y[inv[i]]
	}
	return
}
