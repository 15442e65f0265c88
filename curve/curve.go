// Package curve implements the threshold-to-curve interpolation engine:
// a participant count inside a configured range is mapped to a normalized
// progress value through one of nine response curves, then interpolated
// onto arbitrary numeric output ranges (audible distance, gain boost).
//
// Every function is pure and stateless. Safe for concurrent use.
package curve

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects a response curve shape
type Kind int

const (
	// Linear applies no shaping, progress grows uniformly
	Linear Kind = iota

	// EaseIn starts slow, accelerates toward the upper threshold
	EaseIn

	// EaseOut starts fast, decelerates toward the upper threshold
	EaseOut

	// EaseInOut is a symmetric S-curve with breakpoint at t=0.5
	EaseInOut

	// Smoothstep is the classic cubic with zero first derivative at both ends
	Smoothstep

	// Smootherstep is the quintic with zero first and second derivative at both ends
	Smootherstep

	// Exponential grows as 2^t - 1, back-loaded
	Exponential

	// Diminishing grows as sqrt(t), front-loaded
	Diminishing

	// LogLike grows as ln(1 + t(e-1)), front-loaded but gentler than sqrt
	LogLike

	kindCount
)

var kindNames = [kindCount]string{
	"linear",
	"ease-in",
	"ease-out",
	"ease-in-out",
	"smoothstep",
	"smootherstep",
	"exponential",
	"diminishing",
	"log-like",
}

// String returns the canonical lowercase name of the curve
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the nine defined curves
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns all defined curves in declaration order
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a case-insensitive curve name to its Kind
func ParseKind(name string) (Kind, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == needle {
			return Kind(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown curve %q", name)
}

// Shape remaps linear progress t through the selected curve.
// Input is expected in [0,1]; every curve maps 0 to exactly 0 and
// 1 to exactly 1 so that values never jump at the configured thresholds.
func Shape(t float64, k Kind) float64 {
	switch k {
	case Linear:
		return t
	case EaseIn:
		return t * t
	case EaseOut:
		inv := 1 - t
		return 1 - inv*inv
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		inv := -2*t + 2
		return 1 - inv*inv/2
	case Smoothstep:
		return t * t * (3 - 2*t)
	case Smootherstep:
		return t * t * t * (t*(t*6-15) + 10)
	case Exponential:
		// Exp2(0)-1 = 0 and Exp2(1)-1 = 1, boundaries are exact
		return math.Exp2(t) - 1
	case Diminishing:
		return math.Sqrt(t)
	case LogLike:
		// ln(lerp(1, e, t)): Log(1) = 0 and Log(E) = 1, boundaries are exact
		return math.Log(1 + t*(math.E-1))
	default:
		return t
	}
}
