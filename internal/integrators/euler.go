// Package integrators provides fixed-step time integration schemes for
// cell.System right-hand sides.
package integrators

import "github.com/finitewave/bocf/internal/cell"

// Euler is the explicit forward Euler scheme: one derivative evaluation
// per step, simultaneous update of every state component. It is the
// model's reference integration scheme.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys cell.System, x cell.State, iStim, t, dt float64) cell.State {
	dx := sys.Derive(x, iStim, t)
	next := make(cell.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}
