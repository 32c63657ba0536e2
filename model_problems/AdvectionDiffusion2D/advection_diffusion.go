package AdvectionDiffusion2D

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/notargets/gofe/FE2D"
	"github.com/notargets/gofe/InputParameters"
	"github.com/notargets/gofe/readfiles"
	"github.com/notargets/gofe/types"
	"github.com/notargets/gofe/utils"
)

/*
Steady advection diffusion with an x directed wind

	u0 d(psi)/dx = S + D laplacian(psi)

on linear triangles. Dirichlet nodes hold prescribed values, every other
boundary node carries the natural (zero flux) condition.
*/
type AdvectionDiffusion struct {
	U0, D   float64
	Source  Source
	Mesh    *FE2D.Mesh
	Fixed   map[int]float64
	Workers int // Element shards used in assembly, serial when <= 1
	verbose bool
}

type Source func(x [2]float64) float64

// GaussianSource is a unit height plume centred on (x0,y0).
func GaussianSource(x0, y0, sigma float64) Source {
	oo2s2 := 1. / (2 * sigma * sigma)
	return func(x [2]float64) float64 {
		dx, dy := x[0]-x0, x[1]-y0
		return math.Exp(-oo2s2 * (dx*dx + dy*dy))
	}
}

func ConstantSource(v float64) Source {
	return func(x [2]float64) float64 { return v }
}

// BoundaryPredicate selects which boundary nodes are held at zero.
type BoundaryPredicate func(x, y float64) bool

// NorthingBelow fixes boundary nodes with y <= threshold, the southern coast
// of the las grids for a threshold of 110000.
func NorthingBelow(threshold float64) BoundaryPredicate {
	return func(x, y float64) bool { return y <= threshold }
}

func AllBoundary() BoundaryPredicate {
	return func(x, y float64) bool { return true }
}

func NewAdvectionDiffusion(S Source, u0, D float64, mesh *FE2D.Mesh, fixed map[int]float64,
	verbose bool) *AdvectionDiffusion {
	return &AdvectionDiffusion{
		U0:      u0,
		D:       D,
		Source:  S,
		Mesh:    mesh,
		Fixed:   fixed,
		Workers: 1,
		verbose: verbose,
	}
}

// Solve runs the solver with homogeneous Dirichlet values on the boundary
// nodes accepted by predicate.
func Solve(S Source, u0, D float64, mesh *FE2D.Mesh, predicate BoundaryPredicate) (*Result, error) {
	return SolveContext(context.Background(), S, u0, D, mesh, predicate)
}

func SolveContext(ctx context.Context, S Source, u0, D float64, mesh *FE2D.Mesh,
	predicate BoundaryPredicate) (*Result, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	fixed := FE2D.HomogeneousDirichlet(mesh.BoundaryWhere(predicate))
	return NewAdvectionDiffusion(S, u0, D, mesh, fixed, false).Solve(ctx)
}

// NewFromParameters loads the mesh named by the input parameters and builds
// the source and the Dirichlet node set they describe.
func NewFromParameters(ip *InputParameters.InputParameters2D, verbose bool) (c *AdvectionDiffusion, err error) {
	var (
		mesh  *FE2D.Mesh
		grid  *readfiles.SU2Grid
		fixed map[int]float64
		S     Source
	)
	if err = ip.Validate(); err != nil {
		return
	}
	if ip.GridFile != "" {
		if grid, err = readfiles.ReadSU2(ip.GridFile, verbose); err != nil {
			return
		}
		if mesh, err = grid.Mesh(); err != nil {
			return
		}
	} else {
		if mesh, err = readfiles.ReadLasGrid(ip.GridDir, ip.Resolution, verbose); err != nil {
			return
		}
	}
	switch ip.Boundary {
	case "northing":
		fixed = FE2D.HomogeneousDirichlet(mesh.BoundaryWhere(NorthingBelow(ip.NorthingThreshold)))
	case "all":
		fixed = FE2D.HomogeneousDirichlet(mesh.BoundaryWhere(AllBoundary()))
	case "markers":
		if fixed, err = markerValues(grid, ip.FixedMarkers); err != nil {
			return
		}
	}
	switch ip.Source.Type {
	case "gaussian":
		S = GaussianSource(ip.Source.X0, ip.Source.Y0, ip.Source.Sigma)
	case "constant":
		S = ConstantSource(ip.Source.Value)
	}
	c = NewAdvectionDiffusion(S, ip.U0, ip.D, mesh, fixed, verbose)
	c.Workers = ip.Workers
	return
}

// markerValues fixes the nodes of each named marker, and of every marker whose
// type is Dirichlet. Named markers are applied in sorted order, so a node
// shared by two markers takes the value of the later name.
func markerValues(grid *readfiles.SU2Grid, markers map[string]float64) (fixed map[int]float64, err error) {
	fixed = make(map[int]float64)
	for _, tag := range grid.Tags() {
		if _, named := markers[string(tag)]; named {
			continue
		}
		if tag.GetFLAG() == types.BC_Dirichlet {
			for _, v := range grid.NodesWhere(func(t types.BCTAG) bool { return t == tag }) {
				fixed[v] = 0
			}
		}
	}
	for _, tag := range grid.Tags() {
		val, named := markers[string(tag)]
		if !named {
			continue
		}
		for _, v := range grid.NodesWhere(func(t types.BCTAG) bool { return t == tag }) {
			fixed[v] = val
		}
	}
	for name := range markers {
		if _, present := grid.BCEdges[types.NewBCTAG(name)]; !present {
			err = fmt.Errorf("marker [%s] is not in the mesh, have %v", name, grid.Tags())
			return
		}
	}
	return
}

// Solve assembles and solves the system. The context bounds the whole solve;
// on expiry the result is discarded and ctx.Err() returned.
func (c *AdvectionDiffusion) Solve(ctx context.Context) (res *Result, err error) {
	type outcome struct {
		res *Result
		err error
	}
	if err = ctx.Err(); err != nil {
		return
	}
	done := make(chan outcome, 1)
	go func() {
		r, e := c.solve()
		done <- outcome{r, e}
	}()
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case o := <-done:
		res, err = o.res, o.err
	}
	return
}

func (c *AdvectionDiffusion) solve() (res *Result, err error) {
	var (
		n     *FE2D.Numbering
		lm    FE2D.LocationMap
		sys   *FE2D.System
		psi   []float64
		op    = FE2D.NewAdvectionDiffusion(c.Source, c.U0, c.D)
		start = time.Now()
	)
	if err = c.Mesh.Validate(); err != nil {
		return
	}
	if n, err = FE2D.NewNumbering(c.Mesh.NumNodes(), c.Fixed); err != nil {
		return
	}
	if lm, err = FE2D.NewLocationMap(c.Mesh, n); err != nil {
		return
	}
	if c.Workers > 1 {
		sys, err = FE2D.AssembleParallel(c.Mesh, n, lm, op, c.Workers)
	} else {
		sys, err = FE2D.Assemble(c.Mesh, n, lm, op)
	}
	if err != nil {
		return
	}
	if c.verbose {
		fmt.Printf("Assembled %d equations from %d elements, %d fixed nodes, nnz = %d in %v\n",
			n.NumEquations(), c.Mesh.NumElements(), len(c.Fixed), sys.K.NNZ(), time.Since(start))
	}
	if psi, err = sys.Solve(); err != nil {
		return
	}
	if c.verbose {
		fmt.Printf("Solved in %v, %s\n", time.Since(start), utils.GetMemUsage())
	}
	res = &Result{
		Mesh:       c.Mesh,
		FixedNodes: n.FixedNodes(),
		Psi:        psi,
	}
	return
}
