package FE2D

import (
	"fmt"
	"math"

	"github.com/notargets/gofe/utils"
)

/*
Linear triangle on the reference element with vertices (0,0), (1,0), (0,1)

	N0 = 1 - xi1 - xi2,  N1 = xi1,  N2 = xi2

Physical element coordinates are stored as a 2x3 array, row 0 holds the x
coordinates and row 1 the y coordinates of local nodes 0,1,2.
*/
type RefCoord [2]float64

type ElementCoords [2][3]float64

func NewElementCoords(x, y [3]float64) (xe ElementCoords) {
	xe[0], xe[1] = x, y
	return
}

// ShapeFunctions returns N0,N1,N2 at reference coordinate xi.
func ShapeFunctions(xi RefCoord) (N [3]float64) {
	N[0] = 1 - xi[0] - xi[1]
	N[1] = xi[0]
	N[2] = xi[1]
	return
}

// ShapeFunctionGradients returns dN_a/dxi_j, indexed [j][a]. The gradient is
// independent of xi for linear elements.
func ShapeFunctionGradients() (dN [2][3]float64) {
	dN[0] = [3]float64{-1, 1, 0}
	dN[1] = [3]float64{-1, 0, 1}
	return
}

// PositionMap maps a reference coordinate into the physical element.
func PositionMap(xe ElementCoords, xi RefCoord) (x [2]float64) {
	N := ShapeFunctions(xi)
	for i := 0; i < 2; i++ {
		x[i] = xe[i][0]*N[0] + xe[i][1]*N[1] + xe[i][2]*N[2]
	}
	return
}

// Jacobian returns J[i][j] = sum_a xe[i][a] * dN_a/dxi_j
func Jacobian(xe ElementCoords) (J [2][2]float64) {
	dN := ShapeFunctionGradients()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			J[i][j] = xe[i][0]*dN[j][0] + xe[i][1]*dN[j][1] + xe[i][2]*dN[j][2]
		}
	}
	return
}

func JacobianDet(xe ElementCoords) float64 {
	J := Jacobian(xe)
	return J[0][0]*J[1][1] - J[0][1]*J[1][0]
}

// Area is |det J| / 2, the reference triangle having area 1/2.
func Area(xe ElementCoords) float64 {
	return 0.5 * math.Abs(JacobianDet(xe))
}

// checkedJacobian returns the Jacobian and its determinant, failing when the
// determinant vanishes relative to the element's own length scale.
func checkedJacobian(xe ElementCoords) (J [2][2]float64, detJ float64, err error) {
	var (
		scale float64
	)
	J = Jacobian(xe)
	detJ = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			scale = math.Max(scale, math.Abs(J[i][j]))
		}
	}
	if scale == 0 || math.Abs(detJ) <= utils.NODETOL*scale*scale {
		err = fmt.Errorf("%w: det(J) = %8.5e for element %v", ErrDegenerateElement, detJ, xe)
	}
	return
}

func invert2x2(J [2][2]float64, detJ float64) (Jinv [2][2]float64) {
	oodet := 1. / detJ
	Jinv[0][0] = J[1][1] * oodet
	Jinv[0][1] = -J[0][1] * oodet
	Jinv[1][0] = -J[1][0] * oodet
	Jinv[1][1] = J[0][0] * oodet
	return
}

// GlobalShapeFunctionGradients returns the physical gradient of each shape
// function, indexed [i][a] = dN_a/dx_i, computed as inv(J)^T * dN/dxi.
func GlobalShapeFunctionGradients(xe ElementCoords) (dxN [2][3]float64, err error) {
	var (
		J    [2][2]float64
		detJ float64
		dN   = ShapeFunctionGradients()
	)
	if J, detJ, err = checkedJacobian(xe); err != nil {
		return
	}
	Jinv := invert2x2(J, detJ)
	for i := 0; i < 2; i++ {
		for a := 0; a < 3; a++ {
			dxN[i][a] = Jinv[0][i]*dN[0][a] + Jinv[1][i]*dN[1][a]
		}
	}
	return
}

// InversePositionMap returns the reference coordinate of physical point x.
// The map is affine, so points outside the element map outside the
// reference triangle.
func InversePositionMap(xe ElementCoords, x [2]float64) (xi RefCoord, err error) {
	var (
		J    [2][2]float64
		detJ float64
	)
	if J, detJ, err = checkedJacobian(xe); err != nil {
		return
	}
	Jinv := invert2x2(J, detJ)
	dx, dy := x[0]-xe[0][0], x[1]-xe[1][0]
	xi[0] = Jinv[0][0]*dx + Jinv[0][1]*dy
	xi[1] = Jinv[1][0]*dx + Jinv[1][1]*dy
	return
}

// InReferenceTriangle reports whether xi lies in the reference triangle
// within tolerance tol.
func InReferenceTriangle(xi RefCoord, tol float64) bool {
	return xi[0] >= -tol && xi[1] >= -tol && xi[0]+xi[1] <= 1+tol
}
