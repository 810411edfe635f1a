// Package stim provides external stimulus protocols for single-cell
// runs. Each protocol implements cell.Protocol and contributes a current
// that adds to du/dt.
package stim

import "github.com/finitewave/bocf/internal/cell"

// None applies no stimulus.
type None struct{}

func (None) Current(_ cell.State, _ float64) float64 { return 0 }

// Pulse applies a constant current on the half-open window
// [Start, Start+Duration). Times are in ms, amplitude in units/ms.
type Pulse struct {
	Start     float64
	Duration  float64
	Amplitude float64
}

func (p Pulse) Current(_ cell.State, t float64) float64 {
	if t >= p.Start && t < p.Start+p.Duration {
		return p.Amplitude
	}
	return 0
}

// Train applies Count identical pulses, Period ms apart, starting at
// Start. A Count of zero disables the train.
type Train struct {
	Start     float64
	Period    float64
	Count     int
	Duration  float64
	Amplitude float64
}

func (tr Train) Current(_ cell.State, t float64) float64 {
	if tr.Count <= 0 || tr.Period <= 0 || t < tr.Start {
		return 0
	}
	elapsed := t - tr.Start
	k := int(elapsed / tr.Period)
	if k >= tr.Count {
		return 0
	}
	if elapsed-float64(k)*tr.Period < tr.Duration {
		return tr.Amplitude
	}
	return 0
}

// Multi sums the currents of several protocols.
type Multi []cell.Protocol

func (m Multi) Current(x cell.State, t float64) float64 {
	total := 0.0
	for _, p := range m {
		total += p.Current(x, t)
	}
	return total
}
