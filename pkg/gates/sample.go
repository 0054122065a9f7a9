package gates

const (
	// MinPitchHz is C0.
	MinPitchHz = 16.35
	// MaxPitchHz is B8.
	MaxPitchHz = 7902.08
)

// PitchToHz maps a normalized pitch sample onto a frequency.
func PitchToHz(p float32) float64 {
	return float64(p)*(MaxPitchHz-MinPitchHz) + MinPitchHz
}

// HzToPitch maps a frequency onto a normalized pitch sample.
func HzToPitch(hz float64) float32 {
	return float32((hz - MinPitchHz) / (MaxPitchHz - MinPitchHz))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
