package ShallowWater1D

import (
	"fmt"
	"math"
	"time"
)

/*
Non linear 1D shallow water equations in characteristic form

	Q1 = ( u + sqrt(g h)) / 2
	Q2 = (-u + sqrt(g h)) / 2

Q1 moves right and is stepped forward in time, backward in space (FTBS), Q2
moves left and is stepped forward in time, forward in space (FTFS). The
domain is x in [-1,1] on NX+1 points.
*/
type SWECharacteristic struct {
	NX           int
	G, H         float64
	FinalTime    float64
	LogFrequency int
	X, Q1, Q2    []float64
	dx           float64
	Time         float64
	Steps        int
}

// DefaultDepth is the initial hump h0(x) = 1 + exp(-10 x^2).
func DefaultDepth(x float64) float64 { return 1 + math.Exp(-10*x*x) }

func NewSWECharacteristic(NX int, FinalTime, G, H float64, h0, u0 func(x float64) float64) (c *SWECharacteristic) {
	c = &SWECharacteristic{
		NX:           NX,
		G:            G,
		H:            H,
		FinalTime:    FinalTime,
		LogFrequency: 10,
		X:            make([]float64, NX+1),
		Q1:           make([]float64, NX+1),
		Q2:           make([]float64, NX+1),
		dx:           1. / float64(NX),
	}
	for j := range c.X {
		c.X[j] = -1 + 2*float64(j)/float64(NX)
		h, u := h0(c.X[j]), u0(c.X[j])
		c.Q1[j] = 0.5 * (u + math.Sqrt(G*h))
		c.Q2[j] = 0.5 * (-u + math.Sqrt(G*h))
	}
	return
}

// StableDt is the step for a Courant number of 0.99 against the linear wave
// speed 2 sqrt(g H).
func (c *SWECharacteristic) StableDt() float64 {
	return 0.99 * c.dx / (2 * math.Sqrt(c.G*c.H))
}

// Step advances both characteristic variables by dt.
func (c *SWECharacteristic) Step(dt float64) {
	var (
		N   = c.NX
		r   = 2 * dt / c.dx
		Q1  = c.Q1
		Q2  = c.Q2
		Q1n = make([]float64, N+1)
		Q2n = make([]float64, N+1)
	)
	copy(Q1n, Q1)
	copy(Q2n, Q2)
	for j := 1; j <= N; j++ {
		Q1n[j] = Q1[j] - r*Q1[j]*(Q1[j]-Q1[j-1])
	}
	for j := 0; j < N; j++ {
		Q2n[j] = Q2[j] + r*Q2[j]*(Q2[j+1]-Q2[j])
	}
	c.Q1, c.Q2 = Q1n, Q2n
	c.Time += dt
	c.Steps++
}

// Run steps to FinalTime, shortening the last step to land on it exactly.
func (c *SWECharacteristic) Run(verbose bool) {
	var (
		dt        = c.StableDt()
		start     = time.Now()
		frequency = c.LogFrequency
	)
	if frequency < 1 {
		frequency = 1
	}
	for last := c.Time >= c.FinalTime; !last; {
		step := dt
		if c.Time+step >= c.FinalTime {
			step, last = c.FinalTime-c.Time, true
		}
		c.Step(step)
		if last {
			c.Time = c.FinalTime
		}
		if verbose && (c.Steps%frequency == 0 || last) {
			fmt.Printf("t=%d, dt=%8.5f, current_time=%8.3f, CFL=%5.2f\n",
				c.Steps, step, c.Time, 2*math.Sqrt(c.G*c.H)*step/c.dx)
		}
	}
	if verbose {
		fmt.Printf("Finished %d steps in %v\n", c.Steps, time.Since(start))
	}
}

// Primitive converts back to depth and velocity, h = (Q1+Q2)^2/g, u = Q1-Q2.
func (c *SWECharacteristic) Primitive() (h, u []float64) {
	h, u = make([]float64, c.NX+1), make([]float64, c.NX+1)
	for j := range h {
		s := c.Q1[j] + c.Q2[j]
		h[j] = s * s / c.G
		u[j] = c.Q1[j] - c.Q2[j]
	}
	return
}
