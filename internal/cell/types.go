package cell

import "math"

// State is the membrane state vector of an ionic model.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is a finite number.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an ionic model: a pure right-hand side evaluating the state
// derivatives given the current state, the external stimulus current and
// the simulation time (ms).
type System interface {
	Derive(x State, iStim, t float64) State
	StateDim() int
}

// Integrator advances a system state by one fixed time step.
type Integrator interface {
	Step(sys System, x State, iStim, t, dt float64) State
}

// Protocol is an external stimulus source, consulted once per step.
// The returned current adds to du/dt only.
type Protocol interface {
	Current(x State, t float64) float64
}

// Metric accumulates a scalar observation over a run.
type Metric interface {
	Name() string
	Observe(x State, iStim, t float64)
	Value() float64
	Reset()
}

// Observer is notified of every state before it is advanced.
type Observer interface {
	OnStep(x State, iStim, t float64)
}

// Config controls a single run. Steps wins over Duration when both are
// set; with neither set the run records only the initial condition.
type Config struct {
	Dt            float64
	Duration      float64
	Steps         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 500.0,
	}
}

// NumSteps resolves the step count from Steps or Duration.
func (c Config) NumSteps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	if c.Duration > 0 && c.Dt > 0 {
		return int(math.Round(c.Duration / c.Dt))
	}
	return 0
}

// Result is a completed trajectory: steps+1 samples with t_k = k*dt.
// Stim holds the current applied during each step, so len(Stim) equals
// StepsTaken.
type Result struct {
	States     []State
	Stim       []float64
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}
