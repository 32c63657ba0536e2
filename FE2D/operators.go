package FE2D

import (
	"fmt"
	"math"
)

// DiffusionStiffness returns K_ij = integral(grad N_i . grad N_j) over the element.
func DiffusionStiffness(xe ElementCoords) (K [3][3]float64, err error) {
	var (
		dxN [2][3]float64
		f   [NQuad]float64
	)
	if dxN, err = GlobalShapeFunctionGradients(xe); err != nil {
		return
	}
	absDetJ := math.Abs(JacobianDet(xe))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			g := dxN[0][i]*dxN[0][j] + dxN[1][i]*dxN[1][j]
			for q := 0; q < NQuad; q++ {
				f[q] = g
			}
			K[i][j] = quadratureSum(absDetJ, &f)
		}
	}
	return
}

// AdvectionStiffness returns A_ij = integral((velocity . grad N_i) N_j) over
// the element. The gradient is taken on the row (test function) index.
func AdvectionStiffness(xe ElementCoords, velocity [2]float64) (A [3][3]float64, err error) {
	var (
		dxN [2][3]float64
		f   [NQuad]float64
	)
	if dxN, err = GlobalShapeFunctionGradients(xe); err != nil {
		return
	}
	absDetJ := math.Abs(JacobianDet(xe))
	for i := 0; i < 3; i++ {
		vGrad := velocity[0]*dxN[0][i] + velocity[1]*dxN[1][i]
		for j := 0; j < 3; j++ {
			for q := 0; q < NQuad; q++ {
				f[q] = vGrad * quadShape[q][j]
			}
			A[i][j] = quadratureSum(absDetJ, &f)
		}
	}
	return
}

// StiffnessVelocity returns D*K - A(velocity), the element operator for
// velocity . grad(psi) = S + D laplacian(psi)
func StiffnessVelocity(xe ElementCoords, D float64, velocity [2]float64) (S [3][3]float64, err error) {
	var (
		K, A [3][3]float64
	)
	if K, err = DiffusionStiffness(xe); err != nil {
		return
	}
	if A, err = AdvectionStiffness(xe, velocity); err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] = D*K[i][j] - A[i][j]
		}
	}
	return
}

// Stiffness is the x-directed wind case of StiffnessVelocity, with wind
// speed u0.
func Stiffness(xe ElementCoords, D, u0 float64) ([3][3]float64, error) {
	return StiffnessVelocity(xe, D, [2]float64{u0, 0})
}

// Mass returns M_ij = integral(N_i N_j), which for the linear triangle is
// (area/12) * [[2,1,1],[1,2,1],[1,1,2]].
func Mass(xe ElementCoords) (M [3][3]float64, err error) {
	var (
		detJ float64
		f    [NQuad]float64
	)
	if _, detJ, err = checkedJacobian(xe); err != nil {
		return
	}
	absDetJ := math.Abs(detJ)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for q := 0; q < NQuad; q++ {
				f[q] = quadShape[q][i] * quadShape[q][j]
			}
			M[i][j] = quadratureSum(absDetJ, &f)
		}
	}
	return
}

// Force returns F_i = integral(S(x) N_i). S is sampled once per quadrature point.
func Force(xe ElementCoords, S func(x [2]float64) float64) (F [3]float64, err error) {
	var (
		detJ float64
		sq   [NQuad]float64
		f    [NQuad]float64
	)
	if _, detJ, err = checkedJacobian(xe); err != nil {
		return
	}
	absDetJ := math.Abs(detJ)
	for q, xi := range QuadraturePoints {
		sq[q] = S(PositionMap(xe, xi))
	}
	for i := 0; i < 3; i++ {
		for q := 0; q < NQuad; q++ {
			f[q] = sq[q] * quadShape[q][i]
		}
		F[i] = quadratureSum(absDetJ, &f)
	}
	return
}

// ElementOperator produces the local stiffness and force of one element.
type ElementOperator interface {
	Stiffness(xe ElementCoords) ([3][3]float64, error)
	Force(xe ElementCoords) ([3]float64, error)
}

// AdvectionDiffusion is the steady operator velocity . grad(psi) = S + D laplacian(psi)
type AdvectionDiffusion struct {
	D        float64
	Velocity [2]float64
	Source   func(x [2]float64) float64
}

// NewAdvectionDiffusion returns the operator for u0 d(psi)/dx = S + D laplacian(psi)
func NewAdvectionDiffusion(S func(x [2]float64) float64, u0, D float64) *AdvectionDiffusion {
	return &AdvectionDiffusion{
		D:        D,
		Velocity: [2]float64{u0, 0},
		Source:   S,
	}
}

func (ad *AdvectionDiffusion) Stiffness(xe ElementCoords) ([3][3]float64, error) {
	return StiffnessVelocity(xe, ad.D, ad.Velocity)
}

func (ad *AdvectionDiffusion) Force(xe ElementCoords) (F [3]float64, err error) {
	if ad.Source == nil {
		err = fmt.Errorf("advection diffusion operator has no source function")
		return
	}
	return Force(xe, ad.Source)
}
