// Package metrics provides per-run scalar observations of the membrane
// potential trace, implementing the cell.Metric interface.
package metrics

import "github.com/finitewave/bocf/internal/cell"

// APD measures the action potential duration: the time u spends at or
// above a fixed threshold. Value reports the most recent completed
// excursion; an excursion still in progress at the end of a run does not
// count.
type APD struct {
	name      string
	threshold float64
	active    bool
	start     float64
	last      float64
}

func NewAPD(threshold float64) *APD {
	return &APD{
		name:      "apd",
		threshold: threshold,
	}
}

func (a *APD) Name() string { return a.name }

func (a *APD) Observe(x cell.State, _ float64, t float64) {
	u := x[0]
	switch {
	case !a.active && u >= a.threshold:
		a.active = true
		a.start = t
	case a.active && u < a.threshold:
		a.active = false
		a.last = t - a.start
	}
}

func (a *APD) Value() float64 { return a.last }

func (a *APD) Reset() {
	a.active = false
	a.start = 0
	a.last = 0
}

// Peak tracks the maximum membrane potential seen during a run.
type Peak struct {
	name    string
	max     float64
	samples int
}

func NewPeak() *Peak {
	return &Peak{name: "peak_u"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x cell.State, _ float64, _ float64) {
	if p.samples == 0 || x[0] > p.max {
		p.max = x[0]
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

// Upstroke tracks the maximum rate of rise of u, estimated by finite
// differences between consecutive observations.
type Upstroke struct {
	name    string
	max     float64
	prevU   float64
	prevT   float64
	samples int
}

func NewUpstroke() *Upstroke {
	return &Upstroke{name: "max_dudt"}
}

func (u *Upstroke) Name() string { return u.name }

func (u *Upstroke) Observe(x cell.State, _ float64, t float64) {
	if u.samples > 0 && t > u.prevT {
		rate := (x[0] - u.prevU) / (t - u.prevT)
		if rate > u.max {
			u.max = rate
		}
	}
	u.prevU = x[0]
	u.prevT = t
	u.samples++
}

func (u *Upstroke) Value() float64 { return u.max }

func (u *Upstroke) Reset() {
	u.max = 0
	u.prevU = 0
	u.prevT = 0
	u.samples = 0
}
