// Package audio is a beep-backed Applier: it renders each participant
// as a continuous tone whose volume tracks the computed falloff values.
// Real deployments replace this with the platform voice API; this
// backend exists so the falloff loop can be heard end to end.
package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/falloff/parameter"
)

const (
	// sampleRate for the demo voices
	sampleRate = beep.SampleRate(44100)

	// silenceThreshold below which a voice switches to Silent instead
	// of chasing -Inf exponents (math.Log2(0))
	silenceThreshold = 0.01

	// dbPerOctave converts gain dB to a base-2 volume exponent
	dbPerOctave = 6.0206
)

// BeepApplier drives one beep voice per participant.
// Handles graceful degradation when no audio device is available:
// speaker init failure sets the disabled flag and Apply becomes a no-op.
type BeepApplier struct {
	mu     sync.Mutex
	voices map[string]*effects.Volume

	// RefDistance is the audible distance treated as unity volume,
	// meters. Computed distances at or above it play at full scale.
	RefDistance float64

	disabled atomic.Bool
	started  atomic.Bool
}

// NewBeepApplier creates an applier with the default reference distance
func NewBeepApplier() *BeepApplier {
	return &BeepApplier{
		voices:      make(map[string]*effects.Volume),
		RefDistance: parameter.DefaultFarDistanceStart,
	}
}

// Name implements service.Service
func (a *BeepApplier) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (a *BeepApplier) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (a *BeepApplier) Init(args ...any) error {
	return nil
}

// Start implements service.Service
// Initializes the speaker; sets disabled flag on failure (no error returned)
func (a *BeepApplier) Start() error {
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.PollInterval)); err != nil {
		a.disabled.Store(true)
		return nil
	}
	a.started.Store(true)
	return nil
}

// Stop implements service.Service
func (a *BeepApplier) Stop() error {
	if a.started.CompareAndSwap(true, false) {
		speaker.Clear()
		speaker.Close()
	}
	a.mu.Lock()
	a.voices = make(map[string]*effects.Volume)
	a.mu.Unlock()
	return nil
}

// IsDisabled returns true if no audio device could be opened
func (a *BeepApplier) IsDisabled() bool {
	return a.disabled.Load()
}

// Apply implements mixer.Applier: retargets the participant's voice
// volume to the computed distance and gain
func (a *BeepApplier) Apply(id string, distance, gain float64) {
	if a.disabled.Load() || !a.started.Load() {
		return
	}

	vol := a.voice(id)
	exponent, silent := volumeExponent(distance, gain, a.RefDistance)

	speaker.Lock()
	vol.Volume = exponent
	vol.Silent = silent
	speaker.Unlock()
}

// Remove silences and drops a departed participant's voice
func (a *BeepApplier) Remove(id string) {
	a.mu.Lock()
	vol, ok := a.voices[id]
	if ok {
		delete(a.voices, id)
	}
	a.mu.Unlock()

	if ok && a.started.Load() {
		speaker.Lock()
		vol.Silent = true
		speaker.Unlock()
	}
}

// voice returns the participant's volume control, creating and playing
// the tone on first use
func (a *BeepApplier) voice(id string) *effects.Volume {
	a.mu.Lock()
	defer a.mu.Unlock()

	if vol, ok := a.voices[id]; ok {
		return vol
	}

	vol := &effects.Volume{
		Streamer: newTone(pitchFor(id), sampleRate),
		Base:     2,
		Silent:   true,
	}
	a.voices[id] = vol
	speaker.Play(vol)
	return vol
}

// volumeExponent maps falloff outputs to a beep base-2 volume exponent.
//
// Audibility scales linearly with the computed max distance relative to
// refDistance, then the dB gain boost shifts the exponent by
// gain/6.02 octaves. Returns silent=true when the combined level drops
// below the silence threshold.
func volumeExponent(distance, gain, refDistance float64) (exponent float64, silent bool) {
	if refDistance <= 0 {
		return 0, true
	}

	audibility := distance / refDistance
	if audibility > 1 {
		audibility = 1
	}
	if audibility <= silenceThreshold {
		return 0, true
	}

	return math.Log2(audibility) + gain/dbPerOctave, false
}
