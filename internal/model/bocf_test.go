package model_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finitewave/bocf/internal/cell"
	"github.com/finitewave/bocf/internal/model"
)

var _ = Describe("Parameters", func() {
	It("accepts every published parameter set", func() {
		for _, name := range model.ParamSetNames() {
			p, err := model.ParamSet(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Validate()).To(Succeed(), "set %q", name)
		}
	})

	It("rejects a zero time constant", func() {
		p := model.Epi()
		p.TauFi = 0
		Expect(p.Validate()).To(MatchError(cell.ErrParameterBounds))
	})

	It("rejects a negative time constant", func() {
		p := model.Epi()
		p.TauSi = -1.8875
		Expect(p.Validate()).To(MatchError(cell.ErrParameterBounds))
	})

	It("rejects a peak potential at or below rest", func() {
		p := model.Epi()
		p.Uu = p.Uo
		Expect(p.Validate()).To(MatchError(cell.ErrParameterBounds))
	})

	It("round-trips every named parameter through Map and Set", func() {
		p := model.Epi()
		for name, val := range p.Map() {
			var q model.Parameters
			Expect(q.Set(name, val)).To(Succeed())
			Expect(q.Map()[name]).To(Equal(val))
		}
	})

	It("refuses unknown parameter names", func() {
		p := model.Epi()
		Expect(p.Set("tau_bogus", 1.0)).To(HaveOccurred())
	})
})

var _ = Describe("Model construction", func() {
	It("fails fast on an invalid bundle", func() {
		p := model.Epi()
		p.TauWInf = 0
		_, err := model.New(p)
		Expect(err).To(MatchError(cell.ErrParameterBounds))
	})

	It("revalidates on SetParam", func() {
		m, err := model.New(model.Epi())
		Expect(err).NotTo(HaveOccurred())

		Expect(m.SetParam("tau_si", 3.0)).To(Succeed())
		Expect(m.Params().TauSi).To(Equal(3.0))

		Expect(m.SetParam("tau_si", 0)).NotTo(Succeed())
		Expect(m.Params().TauSi).To(Equal(3.0), "rejected value must not stick")
	})
})

var _ = Describe("Equation set", func() {
	var m *model.Model
	var p model.Parameters

	BeforeEach(func() {
		p = model.Epi()
		var err error
		m, err = model.New(p)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("at the resting state", func() {
		rest := model.RestingState()

		It("holds u, v and w exactly still", func() {
			dx := m.Derive(rest, 0, 0)
			Expect(dx[model.VarU]).To(BeZero())
			Expect(dx[model.VarV]).To(BeZero())
			Expect(dx[model.VarW]).To(BeZero())
		})

		It("lets s relax slowly toward its small quiescent value", func() {
			dx := m.Derive(rest, 0, 0)
			Expect(dx[model.VarS]).To(BeNumerically(">", 0))
			Expect(dx[model.VarS]).To(BeNumerically("<", 0.01))
		})

		It("carries no transmembrane current", func() {
			jfi, jso, jsi := m.Currents(rest)
			Expect(jfi).To(BeZero())
			Expect(jso).To(BeZero())
			Expect(jsi).To(BeZero())
		})
	})

	Context("threshold gates at exact equality", func() {
		It("selects the above branch of tau_v_minus at theta_v_m", func() {
			Expect(p.TauVMinus(p.ThetaVMinus)).To(Equal(p.TauV2Minus))
			Expect(p.TauVMinus(p.ThetaVMinus - 1e-12)).To(Equal(p.TauV1Minus))
		})

		It("selects the above branch of tau_s at theta_w", func() {
			Expect(p.TauS(p.ThetaW)).To(Equal(p.TauS2))
			Expect(p.TauS(p.ThetaW - 1e-12)).To(Equal(p.TauS1))
		})

		It("selects the above branch of tau_o at theta_o", func() {
			Expect(p.TauO(p.ThetaO)).To(Equal(p.TauO2))
			Expect(p.TauO(p.ThetaO - 1e-12)).To(Equal(p.TauO1))
		})

		It("switches v_inf to zero at theta_v_m", func() {
			Expect(p.VInf(p.ThetaVMinus)).To(BeZero())
			Expect(p.VInf(p.ThetaVMinus - 1e-12)).To(Equal(1.0))
		})

		It("switches w_inf to its plateau value at theta_o", func() {
			Expect(p.WInf(p.ThetaO)).To(Equal(p.WInfStar))
			below := 1 - (p.ThetaO-1e-9)/p.TauWInf
			Expect(p.WInf(p.ThetaO - 1e-9)).To(BeNumerically("~", below, 1e-12))
		})

		It("uses the decay branch of dv/dt at theta_v", func() {
			x := cell.State{p.ThetaV, 0.8, 1.0, 0.0}
			dx := m.Derive(x, 0, 0)
			Expect(dx[model.VarV]).To(BeNumerically("~", -0.8/p.TauVPlus, 1e-12))
		})

		It("uses the decay branch of dw/dt at theta_w", func() {
			x := cell.State{p.ThetaW, 1.0, 0.7, 0.0}
			dx := m.Derive(x, 0, 0)
			Expect(dx[model.VarW]).To(BeNumerically("~", -0.7/p.TauWPlus, 1e-12))
		})

		It("activates J_so's sigmoid branch at theta_w", func() {
			x := cell.State{p.ThetaW, 1.0, 1.0, 0.0}
			_, jso, _ := m.Currents(x)
			Expect(jso).To(BeNumerically("~", 1/p.TauSo(p.ThetaW), 1e-12))
		})

		It("activates J_si at theta_w", func() {
			x := cell.State{p.ThetaW, 1.0, 0.6, 0.5}
			_, _, jsi := m.Currents(x)
			Expect(jsi).To(BeNumerically("~", -0.6*0.5/p.TauSi, 1e-12))
		})

		It("keeps J_fi continuous through theta_v", func() {
			// The gate opens at theta_v but the (u - theta_v) factor
			// vanishes there, so the current itself is continuous.
			x := cell.State{p.ThetaV, 1.0, 1.0, 0.0}
			jfi, _, _ := m.Currents(x)
			Expect(jfi).To(BeZero())

			x[model.VarU] = p.ThetaV + 0.01
			jfi, _, _ = m.Currents(x)
			Expect(jfi).To(BeNumerically("<", 0), "inward current above threshold")
		})
	})

	Context("sigmoid time constant blends", func() {
		It("approaches tau_w1_m far below and tau_w2_m far above u_w_m", func() {
			Expect(p.TauWMinus(-1.0)).To(BeNumerically("~", p.TauW1Minus, 1e-6))
			Expect(p.TauWMinus(2.0)).To(BeNumerically("~", p.TauW2Minus, 1e-6))
		})

		It("sits at the midpoint of tau_w at u_w_m", func() {
			mid := (p.TauW1Minus + p.TauW2Minus) / 2
			Expect(p.TauWMinus(p.UWMinus)).To(BeNumerically("~", mid, 1e-12))
		})

		It("sits at the midpoint of tau_so at u_so", func() {
			mid := (p.TauSo1 + p.TauSo2) / 2
			Expect(p.TauSo(p.USo)).To(BeNumerically("~", mid, 1e-12))
		})
	})

	Context("derivative composition", func() {
		It("sums the currents into du/dt with opposite sign", func() {
			x := cell.State{0.5, 0.9, 0.8, 0.1}
			jfi, jso, jsi := m.Currents(x)
			dx := m.Derive(x, 0, 0)
			Expect(dx[model.VarU]).To(BeNumerically("~", -(jfi + jso + jsi), 1e-12))
		})

		It("adds the stimulus current to du/dt only", func() {
			x := cell.State{0.2, 0.9, 0.8, 0.1}
			base := m.Derive(x, 0, 0)
			stimmed := m.Derive(x, 5.0, 0)

			Expect(stimmed[model.VarU]).To(BeNumerically("~", base[model.VarU]+5.0, 1e-12))
			Expect(stimmed[model.VarV]).To(Equal(base[model.VarV]))
			Expect(stimmed[model.VarW]).To(Equal(base[model.VarW]))
			Expect(stimmed[model.VarS]).To(Equal(base[model.VarS]))
		})

		It("matches the published ds/dt form", func() {
			x := cell.State{0.5, 1.0, 1.0, 0.3}
			dx := m.Derive(x, 0, 0)
			want := ((1+math.Tanh(p.KS*(0.5-p.US)))/2 - 0.3) / p.TauS2
			Expect(dx[model.VarS]).To(BeNumerically("~", want, 1e-12))
		})

		It("is a pure function of its arguments", func() {
			x := cell.State{0.4, 0.9, 0.8, 0.1}
			first := m.Derive(x, 0, 0)
			second := m.Derive(x, 0, 0)
			Expect(first).To(Equal(second))
			Expect(x).To(Equal(cell.State{0.4, 0.9, 0.8, 0.1}), "input must not be mutated")
		})
	})
})
