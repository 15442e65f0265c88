package curve

import "math"

// Range is the participant-count operating window.
// Invariant: Min >= 1 and Max > Min. The configuration layer repairs
// violations before evaluation (config.Normalize); the engine itself
// only guards against the fallout via Clamp01.
type Range struct {
	Min int
	Max int
}

// Valid reports whether the range satisfies the Min >= 1, Max > Min invariant
func (r Range) Valid() bool {
	return r.Min >= 1 && r.Max > r.Min
}

// ValuePair holds the output bounds of one interpolated quantity.
// Start may exceed End: the mapping is monotonic in t, not in magnitude
// (e.g. audible distance shrinks from 25m to 10m as a room fills up).
type ValuePair struct {
	Start float64
	End   float64
}

// Clamp01 clamps t to [0,1]. NaN collapses to 0 so a misconfigured
// range upstream can never propagate a non-finite value downstream.
func Clamp01(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Progress maps a participant count onto shaped progress in [0,1].
//
// Counts at or below r.Min return exactly 0, counts at or above r.Max
// return exactly 1, for every curve. Outside-range counts are defined
// saturation behavior, never an error. Between the thresholds the
// linear fraction is passed through Shape.
func Progress(count int, r Range, k Kind) float64 {
	if count <= r.Min {
		return 0
	}
	if count >= r.Max {
		return 1
	}
	raw := float64(count-r.Min) / float64(r.Max-r.Min)
	return Shape(Clamp01(raw), k)
}

// Lerp interpolates between p.Start and p.End by t.
// t=0 yields exactly p.Start and t=1 exactly p.End; no clamping beyond
// the [0,1] guarantee Progress already provides.
func Lerp(p ValuePair, t float64) float64 {
	return p.Start + (p.End-p.Start)*t
}
