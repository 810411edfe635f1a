// Package analysis provides post-hoc measurements over completed
// membrane potential traces.
package analysis

// Amplitude returns the excursion of the trace above its first sample.
func Amplitude(u []float64) float64 {
	if len(u) == 0 {
		return 0
	}
	peak := u[0]
	for _, v := range u {
		if v > peak {
			peak = v
		}
	}
	return peak - u[0]
}

// APD measures the action potential duration at a repolarization
// fraction: the interval during which u stays above
// baseline + (1-frac)*amplitude. frac = 0.9 gives the conventional
// APD90. Returns false when the trace contains no completed action
// potential.
func APD(times, u []float64, frac float64) (float64, bool) {
	if len(u) != len(times) || len(u) < 3 {
		return 0, false
	}

	baseline := u[0]
	peak, peakIdx := u[0], 0
	for i, v := range u {
		if v > peak {
			peak, peakIdx = v, i
		}
	}
	amp := peak - baseline
	if amp <= 0 {
		return 0, false
	}
	threshold := baseline + (1-frac)*amp

	up := -1
	for i := 0; i <= peakIdx; i++ {
		if u[i] >= threshold {
			up = i
			break
		}
	}
	if up < 0 {
		return 0, false
	}

	for i := peakIdx; i < len(u); i++ {
		if u[i] < threshold {
			return times[i] - times[up], true
		}
	}
	return 0, false // never repolarized within the trace
}

// RestingDrift returns how far the final sample sits from the first,
// a cheap check that a trace returned to rest.
func RestingDrift(u []float64) float64 {
	if len(u) == 0 {
		return 0
	}
	d := u[len(u)-1] - u[0]
	if d < 0 {
		return -d
	}
	return d
}
