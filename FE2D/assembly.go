package FE2D

import (
	"fmt"

	"github.com/notargets/gofe/utils"
)

// System is the reduced global system K psi = F over the free nodes.
type System struct {
	K         utils.DOK
	F         []float64
	Numbering *Numbering
}

func newSystem(n *Numbering) *System {
	neq := n.NumEquations()
	return &System{
		K:         utils.NewDOK(neq, neq),
		F:         make([]float64, neq),
		Numbering: n,
	}
}

// Assemble loops over every element, scattering the local stiffness and
// force into the global system. Rows and columns of fixed nodes are never
// written; a fixed column with prescribed value g moves k_e[a][b]*g to the
// right hand side.
func Assemble(m *Mesh, n *Numbering, lm LocationMap, op ElementOperator) (sys *System, err error) {
	if err = checkLocationMap(m, lm); err != nil {
		return
	}
	sys = newSystem(n)
	if err = assembleRange(m, n, lm, op, 0, m.NumElements(), sys.K, sys.F); err != nil {
		sys = nil
	}
	return
}

// AssembleParallel shards the elements across nWorkers, assembles each shard
// into its own partial system, then sums the partials in shard order. The
// result matches Assemble to round off.
func AssembleParallel(m *Mesh, n *Numbering, lm LocationMap, op ElementOperator,
	nWorkers int) (sys *System, err error) {
	var (
		neq = n.NumEquations()
		pm  = utils.NewPartitionMap(nWorkers, m.NumElements())
	)
	if err = checkLocationMap(m, lm); err != nil {
		return
	}
	var (
		partK = make([]utils.DOK, pm.ParallelDegree)
		partF = make([][]float64, pm.ParallelDegree)
		errs  = make([]error, pm.ParallelDegree)
	)
	pm.ForEachBucket(func(bn, kMin, kMax int) {
		partK[bn] = utils.NewDOK(neq, neq)
		partF[bn] = make([]float64, neq)
		errs[bn] = assembleRange(m, n, lm, op, kMin, kMax, partK[bn], partF[bn])
	})
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		if errs[bn] != nil {
			err = errs[bn]
			return
		}
	}
	sys = newSystem(n)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		if err = sys.K.Merge(partK[bn]); err != nil {
			sys = nil
			return
		}
		for i, f := range partF[bn] {
			sys.F[i] += f
		}
	}
	return
}

func checkLocationMap(m *Mesh, lm LocationMap) (err error) {
	if len(lm) != m.NumElements() {
		err = fmt.Errorf("%w: location map has %d elements, mesh has %d",
			ErrIndexOutOfRange, len(lm), m.NumElements())
	}
	return
}

func assembleRange(m *Mesh, n *Numbering, lm LocationMap, op ElementOperator,
	kMin, kMax int, K utils.DOK, F []float64) (err error) {
	var (
		ke [3][3]float64
		fe [3]float64
	)
	for k := kMin; k < kMax; k++ {
		xe := m.ElementCoords(k)
		if ke, err = op.Stiffness(xe); err != nil {
			return fmt.Errorf("element %d: %w", k, err)
		}
		if fe, err = op.Force(xe); err != nil {
			return fmt.Errorf("element %d: %w", k, err)
		}
		for a := 0; a < 3; a++ {
			A := lm[k][a]
			if A == Fixed {
				continue
			}
			for b := 0; b < 3; b++ {
				B := lm[k][b]
				if B == Fixed {
					if g := n.Value(m.EToV[k][b]); g != 0 {
						F[A] -= ke[a][b] * g
					}
					continue
				}
				K.AddAt(A, B, ke[a][b])
			}
			F[A] += fe[a]
		}
	}
	return
}
