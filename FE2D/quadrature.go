package FE2D

import (
	"math"
)

const NQuad = 3

// Three point Gauss rule on the reference triangle, exact for polynomials of
// total degree 2. The weights sum to the reference area 1/2.
var (
	QuadraturePoints = [NQuad]RefCoord{
		{1. / 6., 1. / 6.},
		{2. / 3., 1. / 6.},
		{1. / 6., 2. / 3.},
	}
	QuadratureWeights = [NQuad]float64{1. / 6., 1. / 6., 1. / 6.}

	// Shape function values at each quadrature point, [q][a]
	quadShape = func() (N [NQuad][3]float64) {
		for q, xi := range QuadraturePoints {
			N[q] = ShapeFunctions(xi)
		}
		return
	}()
)

// LocalQuadrature integrates f over the reference triangle.
func LocalQuadrature(f func(xi RefCoord) float64) (sum float64) {
	for q, xi := range QuadraturePoints {
		sum += QuadratureWeights[q] * f(xi)
	}
	return
}

// GlobalQuadrature integrates phi over the physical element xe by pulling
// it back to the reference triangle and scaling by |det J|.
func GlobalQuadrature(xe ElementCoords, phi func(x [2]float64) float64) (sum float64, err error) {
	var (
		detJ float64
	)
	if _, detJ, err = checkedJacobian(xe); err != nil {
		return
	}
	absDetJ := math.Abs(detJ)
	sum = LocalQuadrature(func(xi RefCoord) float64 {
		return absDetJ * phi(PositionMap(xe, xi))
	})
	return
}

// quadratureSum applies the rule to integrand values already sampled at the
// quadrature points. The element operators use this form so that the hot
// loops pass plain values instead of building a closure per matrix entry.
func quadratureSum(absDetJ float64, f *[NQuad]float64) (sum float64) {
	for q := 0; q < NQuad; q++ {
		sum += QuadratureWeights[q] * f[q]
	}
	return absDetJ * sum
}
