package FE2D

import (
	"errors"
	"fmt"

	"github.com/notargets/gofe/utils"
)

// Solve converts the assembled matrix to CSR, solves for the free nodes and
// reconstructs the field over every node of the mesh.
func (sys *System) Solve() (psi []float64, err error) {
	var (
		neq  = sys.Numbering.NumEquations()
		free []float64
	)
	if neq == 0 {
		return sys.Numbering.Reconstruct(nil)
	}
	K := sys.K.ToCSR()
	if free, err = K.Solve(sys.F); err != nil {
		if errors.Is(err, utils.ErrSingularMatrix) {
			err = fmt.Errorf("%w: %d equations in %d connected blocks: %w",
				ErrSingularSystem, neq, K.ConnectedComponents(), err)
		}
		return
	}
	if !utils.IsFinite(free) {
		err = fmt.Errorf("%w: non finite values in solution", ErrSingularSystem)
		return
	}
	return sys.Numbering.Reconstruct(free)
}
