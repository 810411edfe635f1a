package model

import (
	"fmt"

	"github.com/finitewave/bocf/internal/cell"
)

// Parameters is the immutable constant bundle defining one model
// instance. All time constants are in ms, potentials are dimensionless.
type Parameters struct {
	Uo          float64 // resting potential
	Uu          float64 // peak potential
	ThetaV      float64 // activation threshold for v dynamics and J_fi
	ThetaW      float64 // activation threshold for w dynamics, J_so, J_si
	ThetaVMinus float64 // switch threshold for tau_v^- and v_inf
	ThetaO      float64 // switch threshold for tau_o and w_inf
	TauV1Minus  float64
	TauV2Minus  float64
	TauVPlus    float64
	TauW1Minus  float64
	TauW2Minus  float64
	KWMinus     float64
	UWMinus     float64
	TauWPlus    float64
	TauFi       float64
	TauO1       float64
	TauO2       float64
	TauSo1      float64
	TauSo2      float64
	KSo         float64
	USo         float64
	TauS1       float64
	TauS2       float64
	KS          float64
	US          float64
	TauSi       float64
	TauWInf     float64
	WInfStar    float64
}

// Epi is the epicardial parameter set, the model's canonical reference
// configuration.
func Epi() Parameters {
	return Parameters{
		Uo:          0.0,
		Uu:          1.55,
		ThetaV:      0.3,
		ThetaW:      0.13,
		ThetaVMinus: 0.006,
		ThetaO:      0.006,
		TauV1Minus:  60.0,
		TauV2Minus:  1150.0,
		TauVPlus:    1.4506,
		TauW1Minus:  60.0,
		TauW2Minus:  15.0,
		KWMinus:     65.0,
		UWMinus:     0.03,
		TauWPlus:    200.0,
		TauFi:       0.11,
		TauO1:       400.0,
		TauO2:       6.0,
		TauSo1:      30.0181,
		TauSo2:      0.9957,
		KSo:         2.0458,
		USo:         0.65,
		TauS1:       2.7342,
		TauS2:       16.0,
		KS:          2.0994,
		US:          0.9087,
		TauSi:       1.8875,
		TauWInf:     0.07,
		WInfStar:    0.94,
	}
}

// Endo is the endocardial parameter set.
func Endo() Parameters {
	return Parameters{
		Uo:          0.0,
		Uu:          1.56,
		ThetaV:      0.3,
		ThetaW:      0.13,
		ThetaVMinus: 0.2,
		ThetaO:      0.006,
		TauV1Minus:  75.0,
		TauV2Minus:  10.0,
		TauVPlus:    1.4506,
		TauW1Minus:  6.0,
		TauW2Minus:  140.0,
		KWMinus:     200.0,
		UWMinus:     0.016,
		TauWPlus:    280.0,
		TauFi:       0.1,
		TauO1:       470.0,
		TauO2:       6.0,
		TauSo1:      40.0,
		TauSo2:      1.2,
		KSo:         2.0,
		USo:         0.65,
		TauS1:       2.7342,
		TauS2:       2.0,
		KS:          2.0994,
		US:          0.9087,
		TauSi:       2.9013,
		TauWInf:     0.0273,
		WInfStar:    0.78,
	}
}

// Mid is the mid-myocardial (M cell) parameter set.
func Mid() Parameters {
	return Parameters{
		Uo:          0.0,
		Uu:          1.61,
		ThetaV:      0.3,
		ThetaW:      0.13,
		ThetaVMinus: 0.1,
		ThetaO:      0.005,
		TauV1Minus:  80.0,
		TauV2Minus:  1.4506,
		TauVPlus:    1.4506,
		TauW1Minus:  70.0,
		TauW2Minus:  8.0,
		KWMinus:     200.0,
		UWMinus:     0.016,
		TauWPlus:    280.0,
		TauFi:       0.078,
		TauO1:       410.0,
		TauO2:       7.0,
		TauSo1:      91.0,
		TauSo2:      0.8,
		KSo:         2.1,
		USo:         0.6,
		TauS1:       2.7342,
		TauS2:       4.0,
		KS:          2.0994,
		US:          0.9087,
		TauSi:       3.3849,
		TauWInf:     0.01,
		WInfStar:    0.5,
	}
}

// ParamSet returns a named parameter set: "epi", "endo" or "mid".
func ParamSet(name string) (Parameters, error) {
	switch name {
	case "", "epi":
		return Epi(), nil
	case "endo":
		return Endo(), nil
	case "mid":
		return Mid(), nil
	}
	return Parameters{}, fmt.Errorf("unknown parameter set: %s", name)
}

// ParamSetNames lists the available named parameter sets.
func ParamSetNames() []string {
	return []string{"epi", "endo", "mid"}
}

// Validate rejects bundles that would put a zero or negative value in a
// divisor, which would let the equation set silently produce non-finite
// derivatives.
func (p Parameters) Validate() error {
	taus := []struct {
		name string
		val  float64
	}{
		{"tau_v1_m", p.TauV1Minus},
		{"tau_v2_m", p.TauV2Minus},
		{"tau_v_p", p.TauVPlus},
		{"tau_w1_m", p.TauW1Minus},
		{"tau_w2_m", p.TauW2Minus},
		{"tau_w_p", p.TauWPlus},
		{"tau_fi", p.TauFi},
		{"tau_o1", p.TauO1},
		{"tau_o2", p.TauO2},
		{"tau_so1", p.TauSo1},
		{"tau_so2", p.TauSo2},
		{"tau_s1", p.TauS1},
		{"tau_s2", p.TauS2},
		{"tau_si", p.TauSi},
		{"tau_w_inf", p.TauWInf},
	}
	for _, tau := range taus {
		if tau.val <= 0 {
			return fmt.Errorf("%s = %g: %w", tau.name, tau.val, cell.ErrParameterBounds)
		}
	}
	if p.Uu <= p.Uo {
		return fmt.Errorf("u_u (%g) must exceed u_o (%g): %w", p.Uu, p.Uo, cell.ErrParameterBounds)
	}
	return nil
}

// Map returns the bundle as a flat name-to-value mapping, using the
// conventional parameter names from the published model.
func (p Parameters) Map() map[string]float64 {
	return map[string]float64{
		"u_o":       p.Uo,
		"u_u":       p.Uu,
		"theta_v":   p.ThetaV,
		"theta_w":   p.ThetaW,
		"theta_v_m": p.ThetaVMinus,
		"theta_o":   p.ThetaO,
		"tau_v1_m":  p.TauV1Minus,
		"tau_v2_m":  p.TauV2Minus,
		"tau_v_p":   p.TauVPlus,
		"tau_w1_m":  p.TauW1Minus,
		"tau_w2_m":  p.TauW2Minus,
		"k_w_m":     p.KWMinus,
		"u_w_m":     p.UWMinus,
		"tau_w_p":   p.TauWPlus,
		"tau_fi":    p.TauFi,
		"tau_o1":    p.TauO1,
		"tau_o2":    p.TauO2,
		"tau_so1":   p.TauSo1,
		"tau_so2":   p.TauSo2,
		"k_so":      p.KSo,
		"u_so":      p.USo,
		"tau_s1":    p.TauS1,
		"tau_s2":    p.TauS2,
		"k_s":       p.KS,
		"u_s":       p.US,
		"tau_si":    p.TauSi,
		"tau_w_inf": p.TauWInf,
		"w_inf_":    p.WInfStar,
	}
}

// Set assigns a parameter by its conventional name.
func (p *Parameters) Set(name string, value float64) error {
	switch name {
	case "u_o":
		p.Uo = value
	case "u_u":
		p.Uu = value
	case "theta_v":
		p.ThetaV = value
	case "theta_w":
		p.ThetaW = value
	case "theta_v_m":
		p.ThetaVMinus = value
	case "theta_o":
		p.ThetaO = value
	case "tau_v1_m":
		p.TauV1Minus = value
	case "tau_v2_m":
		p.TauV2Minus = value
	case "tau_v_p":
		p.TauVPlus = value
	case "tau_w1_m":
		p.TauW1Minus = value
	case "tau_w2_m":
		p.TauW2Minus = value
	case "k_w_m":
		p.KWMinus = value
	case "u_w_m":
		p.UWMinus = value
	case "tau_w_p":
		p.TauWPlus = value
	case "tau_fi":
		p.TauFi = value
	case "tau_o1":
		p.TauO1 = value
	case "tau_o2":
		p.TauO2 = value
	case "tau_so1":
		p.TauSo1 = value
	case "tau_so2":
		p.TauSo2 = value
	case "k_so":
		p.KSo = value
	case "u_so":
		p.USo = value
	case "tau_s1":
		p.TauS1 = value
	case "tau_s2":
		p.TauS2 = value
	case "k_s":
		p.KS = value
	case "u_s":
		p.US = value
	case "tau_si":
		p.TauSi = value
	case "tau_w_inf":
		p.TauWInf = value
	case "w_inf_":
		p.WInfStar = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
