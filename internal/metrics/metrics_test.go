package metrics

import (
	"math"
	"testing"

	"github.com/finitewave/bocf/internal/cell"
)

func observeTrace(m cell.Metric, u []float64, dt float64) {
	for i, v := range u {
		m.Observe(cell.State{v, 1, 1, 0}, 0, float64(i)*dt)
	}
}

func TestAPDCompletedExcursion(t *testing.T) {
	m := NewAPD(0.5)

	// Above threshold for samples 2..5, dt = 1.
	observeTrace(m, []float64{0, 0.2, 0.8, 1.0, 0.9, 0.7, 0.3, 0.1}, 1.0)

	if got := m.Value(); math.Abs(got-4.0) > 1e-12 {
		t.Errorf("expected APD 4.0, got %v", got)
	}
}

func TestAPDIncompleteExcursion(t *testing.T) {
	m := NewAPD(0.5)

	observeTrace(m, []float64{0, 0.8, 1.0, 0.9}, 1.0)

	if got := m.Value(); got != 0 {
		t.Errorf("incomplete excursion should not count, got %v", got)
	}
}

func TestAPDReset(t *testing.T) {
	m := NewAPD(0.5)
	observeTrace(m, []float64{0, 1.0, 0}, 1.0)
	if m.Value() == 0 {
		t.Fatal("expected non-zero APD before reset")
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero APD after reset")
	}
}

func TestPeak(t *testing.T) {
	m := NewPeak()
	observeTrace(m, []float64{0, 0.5, 1.4, 0.9}, 1.0)

	if got := m.Value(); got != 1.4 {
		t.Errorf("expected peak 1.4, got %v", got)
	}
}

func TestPeakNegativeTrace(t *testing.T) {
	m := NewPeak()
	observeTrace(m, []float64{-3, -1, -2}, 1.0)

	if got := m.Value(); got != -1 {
		t.Errorf("expected peak -1, got %v", got)
	}
}

func TestUpstroke(t *testing.T) {
	m := NewUpstroke()
	observeTrace(m, []float64{0, 0.1, 0.6, 0.9, 1.0}, 1.0)

	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected max du/dt 0.5, got %v", got)
	}
}
