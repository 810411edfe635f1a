package integrators

import (
	"math"
	"testing"

	"github.com/finitewave/bocf/internal/cell"
)

// oscillator is the harmonic oscillator x'' = -x as a first-order pair,
// with known solution x0(t) = cos(t), x1(t) = -sin(t) from (1, 0).
type oscillator struct{}

func (oscillator) Derive(x cell.State, _ float64, _ float64) cell.State {
	return cell.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

// decay is x' = -x + iStim, exposing the stimulus term to the scheme.
type decay struct{}

func (decay) Derive(x cell.State, iStim float64, _ float64) cell.State {
	return cell.State{-x[0] + iStim}
}

func (decay) StateDim() int { return 1 }

func TestEulerSingleStep(t *testing.T) {
	integ := NewEuler()
	x := cell.State{1.0, 0.0}
	dt := 0.1

	next := integ.Step(oscillator{}, x, 0, 0, dt)

	// x + dt*f(x) exactly: {1 + 0.1*0, 0 + 0.1*(-1)}
	if next[0] != 1.0 || next[1] != -0.1 {
		t.Errorf("expected {1, -0.1}, got %v", next)
	}
}

func TestEulerStimulusEntersDerivative(t *testing.T) {
	integ := NewEuler()
	x := cell.State{0.0}

	next := integ.Step(decay{}, x, 5.0, 0, 0.1)

	if math.Abs(next[0]-0.5) > 1e-15 {
		t.Errorf("expected 0.5, got %v", next[0])
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	for _, integ := range []cell.Integrator{NewEuler(), NewRK4()} {
		x := cell.State{1.0, 0.0}
		integ.Step(oscillator{}, x, 0, 0, 0.1)
		if x[0] != 1.0 || x[1] != 0.0 {
			t.Errorf("%T mutated its input: %v", integ, x)
		}
	}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	x := cell.State{1.0, 0.0}
	dt := 0.001
	steps := 1000

	for k := 0; k < steps; k++ {
		x = integ.Step(oscillator{}, x, 0, float64(k)*dt, dt)
	}

	tEnd := float64(steps) * dt
	if math.Abs(x[0]-math.Cos(tEnd)) > 1e-6 {
		t.Errorf("x0: got %v, want %v", x[0], math.Cos(tEnd))
	}
	if math.Abs(x[1]+math.Sin(tEnd)) > 1e-6 {
		t.Errorf("x1: got %v, want %v", x[1], -math.Sin(tEnd))
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	dt := 0.01
	steps := 100
	tEnd := float64(steps) * dt

	run := func(integ cell.Integrator) float64 {
		x := cell.State{1.0, 0.0}
		for k := 0; k < steps; k++ {
			x = integ.Step(oscillator{}, x, 0, float64(k)*dt, dt)
		}
		return math.Abs(x[0] - math.Cos(tEnd))
	}

	eulerErr := run(NewEuler())
	rk4Err := run(NewRK4())

	if rk4Err >= eulerErr {
		t.Errorf("RK4 error %v not below Euler error %v", rk4Err, eulerErr)
	}
}
