// Package sim drives single-cell simulations: it owns the live state,
// advances it with a pluggable integrator, and assembles the trajectory.
package sim

import (
	"context"
	"fmt"

	"github.com/finitewave/bocf/internal/cell"
	"github.com/finitewave/bocf/internal/stim"
)

type Simulator struct {
	sys       cell.System
	integ     cell.Integrator
	protocol  cell.Protocol
	metrics   []cell.Metric
	observers []cell.Observer
}

// New builds a simulator. A nil protocol means no external stimulus.
func New(sys cell.System, integ cell.Integrator, protocol cell.Protocol) *Simulator {
	if protocol == nil {
		protocol = stim.None{}
	}
	return &Simulator{
		sys:      sys,
		integ:    integ,
		protocol: protocol,
	}
}

func (s *Simulator) AddMetric(m cell.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o cell.Observer) { s.observers = append(s.observers, o) }

// Run advances x0 through cfg.NumSteps() fixed steps and returns the
// trajectory, sample k at time k*dt, including the initial condition.
// Identical inputs always produce an identical trajectory.
//
// Non-finite states propagate into the trajectory unless
// cfg.ValidateState is set, in which case the run stops and the partial
// result is returned alongside an error wrapping cell.ErrUnstable.
func (s *Simulator) Run(ctx context.Context, x0 cell.State, cfg cell.Config) (*cell.Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := cfg.NumSteps()
	result := &cell.Result{
		States:  make([]cell.State, 0, steps+1),
		Stim:    make([]float64, 0, steps),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)

	for k := 0; k < steps; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(k) * cfg.Dt
		iStim := s.protocol.Current(x, t)

		for _, m := range s.metrics {
			m.Observe(x, iStim, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, iStim, t)
		}

		x = s.integ.Step(s.sys, x, iStim, t, cfg.Dt)
		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Stim = append(result.Stim, iStim)
		result.Times = append(result.Times, float64(k+1)*cfg.Dt)

		if cfg.ValidateState && !x.IsValid() {
			s.collect(result)
			return result, &cell.SimError{Step: k, Time: t, Wrapped: cell.ErrUnstable}
		}
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback streams samples instead of materializing a trajectory.
// The callback sees every state before it is advanced, starting with the
// initial condition; returning false stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 cell.State, cfg cell.Config, callback func(x cell.State, iStim, t float64) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	steps := cfg.NumSteps()
	x := x0.Clone()

	for k := 0; k < steps; k++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(k) * cfg.Dt
		iStim := s.protocol.Current(x, t)

		if !callback(x, iStim, t) {
			return nil
		}

		x = s.integ.Step(s.sys, x, iStim, t, cfg.Dt)

		if cfg.ValidateState && !x.IsValid() {
			return &cell.SimError{Step: k, Time: t, Wrapped: cell.ErrUnstable}
		}
	}

	callback(x, 0, float64(steps)*cfg.Dt)
	return nil
}

func (s *Simulator) validate(x0 cell.State, cfg cell.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("step count must be non-negative, got %d", cfg.Steps)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("duration must be non-negative, got %g", cfg.Duration)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("state has %d components, system wants %d: %w",
			len(x0), s.sys.StateDim(), cell.ErrDimensionMismatch)
	}
	return nil
}

func (s *Simulator) collect(result *cell.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
