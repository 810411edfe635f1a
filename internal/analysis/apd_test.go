package analysis

import (
	"math"
	"testing"
)

// triangle builds a symmetric rise-and-fall pulse of the given height
// over 2n+1 samples at unit spacing.
func triangle(n int, height float64) (times, u []float64) {
	for i := 0; i <= 2*n; i++ {
		times = append(times, float64(i))
		if i <= n {
			u = append(u, height*float64(i)/float64(n))
		} else {
			u = append(u, height*float64(2*n-i)/float64(n))
		}
	}
	return times, u
}

func TestAmplitude(t *testing.T) {
	_, u := triangle(10, 1.4)
	if got := Amplitude(u); math.Abs(got-1.4) > 1e-12 {
		t.Errorf("expected amplitude 1.4, got %v", got)
	}
}

func TestAmplitudeFlatTrace(t *testing.T) {
	if got := Amplitude([]float64{0.2, 0.2, 0.2}); got != 0 {
		t.Errorf("expected zero amplitude, got %v", got)
	}
}

func TestAPDTriangle(t *testing.T) {
	times, u := triangle(10, 1.0)

	// Threshold at 0.1: crossed upward at index 1 (inclusive), first
	// sample strictly below again at index 20.
	apd, ok := APD(times, u, 0.9)
	if !ok {
		t.Fatal("expected a completed action potential")
	}
	if math.Abs(apd-19.0) > 1e-12 {
		t.Errorf("expected APD 19, got %v", apd)
	}
}

func TestAPDNoRepolarization(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	u := []float64{0, 0.5, 1.0, 1.0}

	if _, ok := APD(times, u, 0.9); ok {
		t.Error("expected no APD for a trace that never repolarizes")
	}
}

func TestAPDFlatTrace(t *testing.T) {
	times := []float64{0, 1, 2}
	u := []float64{0, 0, 0}

	if _, ok := APD(times, u, 0.9); ok {
		t.Error("expected no APD for a flat trace")
	}
}

func TestRestingDrift(t *testing.T) {
	if got := RestingDrift([]float64{0.0, 1.0, 0.02}); math.Abs(got-0.02) > 1e-12 {
		t.Errorf("expected drift 0.02, got %v", got)
	}
	if got := RestingDrift(nil); got != 0 {
		t.Errorf("expected zero drift for empty trace, got %v", got)
	}
}
