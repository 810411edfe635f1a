// Package cell provides core simulation primitives for single-cell
// cardiac electrophysiology models.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical integration of ionic models (dX/dt = f(X, Istim, t)):
//
//   - [State]: the membrane state vector
//   - [System]: interface for ionic models
//   - [Integrator]: numerical time-stepping interface
//   - [Protocol]: external stimulus current source
//   - [Metric]: per-run scalar observations
//
// # Thread Safety
//
// Simulators built on these types are NOT thread-safe; a run owns its
// state vector exclusively. Parameter bundles are read-only after
// construction and may be shared across runs.
package cell
