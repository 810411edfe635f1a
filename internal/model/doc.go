// Package model implements the Bueno-Orovio-Cherry-Fenton (BOCF) minimal
// ionic model of the human ventricular action potential.
//
// The model has four variables: transmembrane potential u, fast gating
// variable v, slow gating variable w, and the calcium-related slow
// variable s. Three phenomenological currents (fast inward J_fi, slow
// outward J_so, slow inward J_si) drive u; the gates relax toward
// voltage-dependent steady states with piecewise or sigmoidal time
// constants.
//
// Reference: Bueno-Orovio, Cherry, Fenton (2008). Minimal model for
// human ventricular action potentials in tissue. J Theor Biol 253(3).
package model
