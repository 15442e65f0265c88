package parameter

import "time"

// Operating Range Defaults
const (
	// DefaultRangeMin is the participant count at or below which outputs
	// stay at their Start values
	DefaultRangeMin = 1

	// DefaultRangeMax is the participant count at or above which outputs
	// saturate at their End values
	DefaultRangeMax = 60
)

// Instance Ceilings
// Applied only by configuration tooling (tuner UI); the curve engine
// itself accepts any positive range
const (
	// InstanceCeiling is the participant cap of a standard instance
	InstanceCeiling = 80

	// ExtendedInstanceCeiling is the participant cap of an extended instance
	ExtendedInstanceCeiling = 100
)

// Voice Distance
const (
	// DefaultFarDistanceStart is the max audible distance in a sparse
	// instance, meters
	DefaultFarDistanceStart = 25.0

	// DefaultFarDistanceEnd is the max audible distance in a full
	// instance, meters
	DefaultFarDistanceEnd = 10.0
)

// Voice Gain
const (
	// DefaultGainStart is the voice gain boost in a sparse instance, dB
	DefaultGainStart = 15.0

	// DefaultGainEnd is the voice gain boost in a full instance, dB
	DefaultGainEnd = 6.0

	// GainFloor and GainCeiling bound the configurable gain pair, dB
	GainFloor   = 0.0
	GainCeiling = 24.0
)

// Re-evaluation Timing
const (
	// RefreshInterval is the periodic fallback tick; membership events
	// trigger evaluation immediately, the tick catches anything missed
	RefreshInterval = 10 * time.Second

	// DepartureDebounce delays evaluation after a leave event so a burst
	// of departures collapses into a single recomputation
	DepartureDebounce = 500 * time.Millisecond

	// PollInterval is the mixer loop cadence for draining the event queue
	// 50ms matches typical voice-update granularity, cheap to run idle
	PollInterval = 50 * time.Millisecond
)
