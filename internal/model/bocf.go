package model

import (
	"math"

	"github.com/finitewave/bocf/internal/cell"
)

// State vector indices.
const (
	VarU = 0 // transmembrane potential
	VarV = 1 // fast gating variable
	VarW = 2 // slow gating variable
	VarS = 3 // calcium-related slow variable
)

// VarNames are the state component names, in vector order.
var VarNames = []string{"u", "v", "w", "s"}

// RestingState is the canonical quiescent initial condition.
func RestingState() cell.State {
	return cell.State{0.0, 1.0, 1.0, 0.0}
}

// heav is the Heaviside gate H(x): 1 for x >= 0, else 0. The inclusive
// convention applies to every threshold comparison in the model.
func heav(x float64) float64 {
	if x >= 0 {
		return 1.0
	}
	return 0.0
}

// sigmoid is the (1 + tanh(k(u - c)))/2 blend used by the smooth time
// constants and the s steady state.
func sigmoid(u, k, c float64) float64 {
	return (1 + math.Tanh(k*(u-c))) / 2
}

// TauVMinus selects the v-gate recovery time constant below/above theta_v_m.
func (p Parameters) TauVMinus(u float64) float64 {
	h := heav(u - p.ThetaVMinus)
	return (1-h)*p.TauV1Minus + h*p.TauV2Minus
}

// TauWMinus blends the w-gate recovery time constant smoothly in u.
func (p Parameters) TauWMinus(u float64) float64 {
	return p.TauW1Minus + (p.TauW2Minus-p.TauW1Minus)*sigmoid(u, p.KWMinus, p.UWMinus)
}

// TauSo blends the slow outward time constant smoothly in u.
func (p Parameters) TauSo(u float64) float64 {
	return p.TauSo1 + (p.TauSo2-p.TauSo1)*sigmoid(u, p.KSo, p.USo)
}

// TauS selects the s time constant below/above theta_w.
func (p Parameters) TauS(u float64) float64 {
	h := heav(u - p.ThetaW)
	return (1-h)*p.TauS1 + h*p.TauS2
}

// TauO selects the outward time constant below/above theta_o.
func (p Parameters) TauO(u float64) float64 {
	h := heav(u - p.ThetaO)
	return (1-h)*p.TauO1 + h*p.TauO2
}

// VInf is the v-gate steady state: 1 below theta_v_m, 0 at and above.
func (p Parameters) VInf(u float64) float64 {
	return 1 - heav(u-p.ThetaVMinus)
}

// WInf is the w-gate steady state.
func (p Parameters) WInf(u float64) float64 {
	h := heav(u - p.ThetaO)
	return (1-h)*(1-u/p.TauWInf) + h*p.WInfStar
}

// Model is the BOCF equation set bound to one parameter bundle. It is
// stateless apart from the read-only bundle and implements cell.System.
type Model struct {
	p Parameters
}

// New constructs a model, rejecting invalid parameter bundles.
func New(p Parameters) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p}, nil
}

func (m *Model) StateDim() int { return 4 }

// Params returns a copy of the parameter bundle.
func (m *Model) Params() Parameters { return m.p }

// SetParam assigns a parameter by name, revalidating the bundle.
func (m *Model) SetParam(name string, value float64) error {
	p := m.p
	if err := p.Set(name, value); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	m.p = p
	return nil
}

// Currents evaluates the three transmembrane currents at a state.
func (m *Model) Currents(x cell.State) (jfi, jso, jsi float64) {
	p := m.p
	u, v, w, s := x[VarU], x[VarV], x[VarW], x[VarS]

	hv := heav(u - p.ThetaV)
	hw := heav(u - p.ThetaW)

	jfi = -v * hv * (u - p.ThetaV) * (p.Uu - u) / p.TauFi
	jso = (u-p.Uo)*(1-hw)/p.TauO(u) + hw/p.TauSo(u)
	jsi = -hw * w * s / p.TauSi
	return jfi, jso, jsi
}

// Derive evaluates the four derivatives at a state. The stimulus current
// adds to du/dt only.
func (m *Model) Derive(x cell.State, iStim, _ float64) cell.State {
	p := m.p
	u, v, w, s := x[VarU], x[VarV], x[VarW], x[VarS]

	hv := heav(u - p.ThetaV)
	hw := heav(u - p.ThetaW)

	jfi, jso, jsi := m.Currents(x)

	du := -(jfi + jso + jsi) + iStim
	dv := (1-hv)*(p.VInf(u)-v)/p.TauVMinus(u) - hv*v/p.TauVPlus
	dw := (1-hw)*(p.WInf(u)-w)/p.TauWMinus(u) - hw*w/p.TauWPlus
	ds := (sigmoid(u, p.KS, p.US) - s) / p.TauS(u)

	return cell.State{du, dv, dw, ds}
}
