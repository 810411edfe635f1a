package integrators

import "github.com/finitewave/bocf/internal/cell"

// RK4 is the classic fixed-step fourth-order Runge-Kutta scheme, offered
// as a higher-accuracy alternative behind the same Integrator contract.
// The stimulus current is held constant across the substages of a step.
type RK4 struct {
	k1, k2, k3, k4 cell.State
	scratch        cell.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(cell.State, n)
		r.k2 = make(cell.State, n)
		r.k3 = make(cell.State, n)
		r.k4 = make(cell.State, n)
		r.scratch = make(cell.State, n)
	}
}

func (r *RK4) Step(sys cell.System, x cell.State, iStim, t, dt float64) cell.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, iStim, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, iStim, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, iStim, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, iStim, t+dt))

	next := make(cell.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return next
}
