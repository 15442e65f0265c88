package mixer

import "log"

// Applier receives the computed falloff values for one remote
// participant. Implementations push them into the actual voice
// channel (platform audio API, beep demo applier, test recorder).
//
// Apply is called once per participant per evaluation, on the mixer
// loop goroutine. Implementations must not block.
type Applier interface {
	Apply(id string, distance, gain float64)
}

// NopApplier discards all values. Used when falloff output has no
// audio sink to drive.
type NopApplier struct{}

func (NopApplier) Apply(string, float64, float64) {}

// LogApplier prints every application, for simulations and debugging
type LogApplier struct{}

func (LogApplier) Apply(id string, distance, gain float64) {
	log.Printf("falloff: %s distance=%.2fm gain=%.2fdB", id, distance, gain)
}
