package mixer

import (
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/falloff/config"
	"github.com/lixenwraith/falloff/curve"
	"github.com/lixenwraith/falloff/events"
	"github.com/lixenwraith/falloff/roster"
)

// recordingApplier captures every Apply call for assertions
type recordingApplier struct {
	mu    sync.Mutex
	calls []appliedValue
}

type appliedValue struct {
	id       string
	distance float64
	gain     float64
}

func (a *recordingApplier) Apply(id string, distance, gain float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, appliedValue{id: id, distance: distance, gain: gain})
}

func (a *recordingApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *recordingApplier) lastCall() (appliedValue, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.calls) == 0 {
		return appliedValue{}, false
	}
	return a.calls[len(a.calls)-1], true
}

// newTestMixer wires a roster, queue, recording applier and mock clock
func newTestMixer(t *testing.T, cfg *config.Config) (*Mixer, *roster.Roster, *recordingApplier, *MockTimeProvider) {
	t.Helper()
	q := events.NewQueue()
	r := roster.New(q)
	applier := &recordingApplier{}
	clock := NewMockTimeProvider(time.Unix(1000, 0))
	return New(cfg, r, q, applier, clock), r, applier, clock
}

// TestEvaluateAppliesToAllParticipants verifies one Apply per roster member
// with values matching the curve engine
func TestEvaluateAppliesToAllParticipants(t *testing.T) {
	m, r, applier, _ := newTestMixer(t, nil)
	r.Join("a")
	r.Join("b")
	r.Join("c")

	vals := m.Evaluate(true)

	if vals.Count != 3 {
		t.Errorf("Expected count 3, got %d", vals.Count)
	}
	if applier.count() != 3 {
		t.Errorf("Expected 3 applications, got %d", applier.count())
	}

	cfg := m.Config()
	wantT := curve.Progress(3, cfg.Range(), cfg.Curve)
	wantDist := curve.Lerp(cfg.Distance(), wantT)
	wantGain := curve.Lerp(cfg.Gain(), wantT)

	if vals.Progress != wantT || vals.Distance != wantDist || vals.Gain != wantGain {
		t.Errorf("Expected t=%g dist=%g gain=%g, got %+v", wantT, wantDist, wantGain, vals)
	}

	last, ok := applier.lastCall()
	if !ok || last.distance != wantDist || last.gain != wantGain {
		t.Errorf("Expected applied values %g/%g, got %+v", wantDist, wantGain, last)
	}
}

// TestJoinTriggersImmediateEvaluation verifies join events evaluate on the next step
func TestJoinTriggersImmediateEvaluation(t *testing.T) {
	m, r, applier, _ := newTestMixer(t, nil)

	r.Join("a")
	m.Step()

	if applier.count() != 1 {
		t.Fatalf("Expected 1 application after join, got %d", applier.count())
	}
	vals, ok := m.Last()
	if !ok || vals.Count != 1 {
		t.Errorf("Expected evaluated count 1, got %+v (ok=%v)", vals, ok)
	}
}

// TestDepartureDebounce verifies leave events wait out the debounce window
func TestDepartureDebounce(t *testing.T) {
	cfg := config.Default()
	cfg.DepartureDebounce = 500 * time.Millisecond

	m, r, applier, clock := newTestMixer(t, cfg)
	r.Join("a")
	r.Join("b")
	m.Step()
	baseline := applier.count()

	r.Leave("b")
	m.Step()
	if applier.count() != baseline {
		t.Error("Expected no evaluation inside the debounce window")
	}

	clock.Advance(499 * time.Millisecond)
	m.Step()
	if applier.count() != baseline {
		t.Error("Expected no evaluation 1ms before the debounce deadline")
	}

	clock.Advance(2 * time.Millisecond)
	m.Step()
	if applier.count() <= baseline {
		t.Error("Expected evaluation after the debounce window elapsed")
	}

	vals, _ := m.Last()
	if vals.Count != 1 {
		t.Errorf("Expected count 1 after departure, got %d", vals.Count)
	}
}

// TestJoinCutsDebounceShort verifies a join during a departure debounce
// evaluates immediately
func TestJoinCutsDebounceShort(t *testing.T) {
	m, r, applier, _ := newTestMixer(t, nil)
	r.Join("a")
	m.Step()
	baseline := applier.count()

	r.Leave("a")
	r.Join("b")
	r.Join("c")
	m.Step()

	if applier.count() <= baseline {
		t.Error("Expected immediate evaluation when join follows leave")
	}
	vals, _ := m.Last()
	if vals.Count != 2 {
		t.Errorf("Expected count 2, got %d", vals.Count)
	}
}

// TestEvaluateSkipsUnchangedCount verifies the redundancy cache
func TestEvaluateSkipsUnchangedCount(t *testing.T) {
	m, r, applier, _ := newTestMixer(t, nil)
	r.Join("a")
	m.Step()
	baseline := applier.count()

	// Same count, same config: unforced evaluation must skip
	m.Evaluate(false)
	if applier.count() != baseline {
		t.Error("Expected unchanged inputs to skip re-application")
	}

	// Forced evaluation always applies
	m.Evaluate(true)
	if applier.count() != baseline+1 {
		t.Errorf("Expected forced evaluation to apply, got %d calls", applier.count())
	}
}

// TestConfigUpdateTriggersEvaluation verifies SetConfig re-evaluates even
// with an unchanged count
func TestConfigUpdateTriggersEvaluation(t *testing.T) {
	m, r, applier, _ := newTestMixer(t, nil)
	r.Join("a")
	r.Join("b")
	m.Step()
	baseline := applier.count()

	next := m.Config()
	next.CurveName = curve.EaseIn.String()
	m.SetConfig(&next)
	m.Step()

	if applier.count() <= baseline {
		t.Error("Expected config update to trigger evaluation")
	}
	if m.Config().Curve != curve.EaseIn {
		t.Errorf("Expected ease-in after update, got %v", m.Config().Curve)
	}
}

// TestRefreshTrigger verifies the manual trigger converges on the same evaluation
func TestRefreshTrigger(t *testing.T) {
	m, r, applier, _ := newTestMixer(t, nil)
	r.Join("a")
	m.Step()
	baseline := applier.count()

	// Count and config unchanged: refresh requests evaluation, the
	// redundancy cache then skips the actual application
	m.Refresh()
	m.Step()
	if applier.count() != baseline {
		t.Error("Expected refresh with unchanged inputs to skip application")
	}

	// After a roster change the refresh picks up the new count
	r.Join("b")
	m.Refresh()
	m.Step()
	if applier.count() <= baseline {
		t.Error("Expected refresh to apply after roster change")
	}
}

// TestDisabledHoldsStartValues verifies disabled config pins t to 0
func TestDisabledHoldsStartValues(t *testing.T) {
	cfg := config.Default()
	cfg.Enabled = false

	m, r, _, _ := newTestMixer(t, cfg)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		r.Join(id)
	}

	vals := m.Evaluate(true)
	if vals.Progress != 0 {
		t.Errorf("Expected progress 0 while disabled, got %g", vals.Progress)
	}
	if vals.Distance != cfg.DistanceStart || vals.Gain != cfg.GainStart {
		t.Errorf("Expected start values %g/%g, got %g/%g", cfg.DistanceStart, cfg.GainStart, vals.Distance, vals.Gain)
	}
}

// TestSaturationThroughMixer verifies boundary saturation end to end
func TestSaturationThroughMixer(t *testing.T) {
	cfg := config.Default()
	cfg.RangeMin = 1
	cfg.RangeMax = 4

	m, r, _, _ := newTestMixer(t, cfg)

	vals := m.Evaluate(true)
	if vals.Progress != 0 || vals.Distance != cfg.DistanceStart {
		t.Errorf("Expected sparse saturation at count 0, got %+v", vals)
	}

	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		r.Join(id)
	}
	vals = m.Evaluate(true)
	if vals.Progress != 1 || vals.Distance != cfg.DistanceEnd {
		t.Errorf("Expected full saturation at count 6, got %+v", vals)
	}
}

// TestServiceLifecycle verifies Start/Stop are safe and idempotent
func TestServiceLifecycle(t *testing.T) {
	q := events.NewQueue()
	r := roster.New(q)
	m := New(nil, r, q, NopApplier{}, nil)

	if m.Name() != "mixer" {
		t.Errorf("Expected service name mixer, got %q", m.Name())
	}
	if m.Dependencies() != nil {
		t.Errorf("Expected no dependencies, got %v", m.Dependencies())
	}

	if err := m.Init(config.Default()); err != nil {
		t.Fatalf("Expected init to succeed, got: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Expected start to succeed, got: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Expected stop to succeed, got: %v", err)
	}
	// Second stop must be a no-op
	if err := m.Stop(); err != nil {
		t.Fatalf("Expected repeated stop to succeed, got: %v", err)
	}
}
