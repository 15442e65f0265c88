// Package mixer orchestrates falloff evaluation: it watches the
// participant roster through the event queue, re-evaluates the curve
// engine on membership changes, on a periodic fallback tick, and on
// manual request, and pushes the computed distance/gain values to an
// Applier.
//
// The three triggers converge on the same idempotent evaluation; the
// engine itself stays stateless, the mixer only caches the last
// evaluated count to skip redundant recomputation.
package mixer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/falloff/config"
	"github.com/lixenwraith/falloff/curve"
	"github.com/lixenwraith/falloff/events"
	"github.com/lixenwraith/falloff/parameter"
	"github.com/lixenwraith/falloff/roster"
)

// Values is one evaluation result snapshot
type Values struct {
	Count    int
	Progress float64
	Distance float64 // Max audible distance, meters
	Gain     float64 // Voice gain boost, dB
}

// Mixer drives falloff evaluation for one observing client
type Mixer struct {
	roster  *roster.Roster
	queue   *events.Queue
	router  *events.Router[*Mixer]
	applier Applier
	clock   Clock

	// Configuration snapshot, swapped whole on update
	cfgMu    sync.RWMutex
	cfg      config.Config
	revision uint64

	// Pending-evaluation state set by event handlers
	pendMu    sync.Mutex
	pending   bool
	notBefore time.Time

	// Last evaluation, for deduplication and UI readouts
	lastMu    sync.RWMutex
	last      Values
	lastRev   uint64
	evaluated bool

	// Loop lifecycle
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// New creates a mixer. A nil cfg uses defaults, a nil applier discards
// values, a nil clock uses real time. The queue must be the one the
// roster publishes to.
func New(cfg *config.Config, r *roster.Roster, queue *events.Queue, applier Applier, clock Clock) *Mixer {
	if cfg == nil {
		cfg = config.Default()
	}
	if applier == nil {
		applier = NopApplier{}
	}
	if clock == nil {
		clock = NewTimeProvider()
	}

	snapshot := *cfg
	snapshot.Normalize()

	m := &Mixer{
		roster:   r,
		queue:    queue,
		router:   events.NewRouter[*Mixer](queue),
		applier:  applier,
		clock:    clock,
		cfg:      snapshot,
		stopChan: make(chan struct{}),
	}
	m.router.Register(&membershipHandler{})
	return m
}

// Name implements service.Service
func (m *Mixer) Name() string {
	return "mixer"
}

// Dependencies implements service.Service
func (m *Mixer) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: optional *config.Config overriding the one passed to New
func (m *Mixer) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*config.Config); ok && cfg != nil {
			m.SetConfig(cfg)
			return nil
		}
		return fmt.Errorf("mixer: unexpected init arg %T", args[0])
	}
	return nil
}

// Start implements service.Service, launching the evaluation loop
func (m *Mixer) Start() error {
	if m.running.CompareAndSwap(false, true) {
		m.wg.Add(1)
		go m.loop()
	}
	return nil
}

// Stop implements service.Service, halting the evaluation loop
func (m *Mixer) Stop() error {
	m.stopOnce.Do(func() {
		if m.running.CompareAndSwap(true, false) {
			close(m.stopChan)
			m.wg.Wait()
		}
	})
	return nil
}

// Config returns the current configuration snapshot
func (m *Mixer) Config() config.Config {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()
	return m.cfg
}

// SetConfig normalizes and swaps the configuration, then queues a
// re-evaluation through the ConfigUpdated event
func (m *Mixer) SetConfig(cfg *config.Config) {
	snapshot := *cfg
	snapshot.Normalize()

	m.cfgMu.Lock()
	m.cfg = snapshot
	m.revision++
	rev := m.revision
	m.cfgMu.Unlock()

	if m.queue != nil {
		m.queue.Push(events.Event{
			Type:      events.EventConfigUpdated,
			Payload:   &events.ConfigUpdatedPayload{Revision: rev},
			Timestamp: m.clock.Now(),
		})
	}
}

// Refresh queues a manual re-evaluation, the third trigger next to
// membership events and the periodic tick
func (m *Mixer) Refresh() {
	if m.queue == nil {
		return
	}
	m.queue.Push(events.Event{
		Type:      events.EventRefreshRequest,
		Timestamp: m.clock.Now(),
	})
}

// Last returns the most recent evaluation, if any happened yet
func (m *Mixer) Last() (Values, bool) {
	m.lastMu.RLock()
	defer m.lastMu.RUnlock()
	return m.last, m.evaluated
}

// Step drains pending events and runs any due evaluation.
// Called by the loop every poll tick; exposed for deterministic tests
// and for hosts that drive the mixer from their own scheduler.
func (m *Mixer) Step() {
	m.router.DispatchAll(m)

	now := m.clock.Now()
	due := false

	m.pendMu.Lock()
	if m.pending && !now.Before(m.notBefore) {
		m.pending = false
		due = true
	}
	m.pendMu.Unlock()

	if due {
		m.Evaluate(false)
	}
}

// Evaluate runs one falloff evaluation and applies the results to
// every roster participant. Unless forced, it skips when neither the
// count nor the configuration changed since the last run. Idempotent:
// repeated calls with unchanged inputs produce identical values.
func (m *Mixer) Evaluate(force bool) Values {
	m.cfgMu.RLock()
	cfg := m.cfg
	rev := m.revision
	m.cfgMu.RUnlock()

	count := 0
	if m.roster != nil {
		count = m.roster.Count()
	}

	if !force {
		m.lastMu.RLock()
		skip := m.evaluated && m.last.Count == count && m.lastRev == rev
		last := m.last
		m.lastMu.RUnlock()
		if skip {
			return last
		}
	}

	// Disabled instances hold at the sparse-end values
	t := 0.0
	if cfg.Enabled {
		t = curve.Progress(count, cfg.Range(), cfg.Curve)
	}

	vals := Values{
		Count:    count,
		Progress: t,
		Distance: curve.Lerp(cfg.Distance(), t),
		Gain:     curve.Lerp(cfg.Gain(), t),
	}

	if m.roster != nil {
		for _, id := range m.roster.Participants() {
			m.applier.Apply(id, vals.Distance, vals.Gain)
		}
	}

	m.lastMu.Lock()
	m.last = vals
	m.lastRev = rev
	m.evaluated = true
	m.lastMu.Unlock()

	return vals
}

// requestEvaluation marks an evaluation as pending after delay.
// A shorter delay always wins over a pending longer one, so a join
// arriving during a departure debounce window evaluates immediately.
func (m *Mixer) requestEvaluation(delay time.Duration) {
	target := m.clock.Now().Add(delay)

	m.pendMu.Lock()
	if !m.pending || target.Before(m.notBefore) {
		m.notBefore = target
	}
	m.pending = true
	m.pendMu.Unlock()
}

// loop runs the poll/refresh cycle until Stop
func (m *Mixer) loop() {
	defer m.wg.Done()

	m.cfgMu.RLock()
	refreshInterval := m.cfg.RefreshInterval
	m.cfgMu.RUnlock()

	nextRefresh := m.clock.Now().Add(refreshInterval)

	timer := time.NewTimer(parameter.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-timer.C:
		}

		m.Step()

		now := m.clock.Now()
		if !now.Before(nextRefresh) {
			m.Evaluate(true)

			// Interval may have changed with the config
			m.cfgMu.RLock()
			refreshInterval = m.cfg.RefreshInterval
			m.cfgMu.RUnlock()
			nextRefresh = now.Add(refreshInterval)
		}

		timer.Reset(parameter.PollInterval)
	}
}

// membershipHandler routes roster and control events into pending
// evaluations. Departures are debounced, everything else is immediate.
type membershipHandler struct{}

func (membershipHandler) HandleEvent(ctx *Mixer, event events.Event) {
	switch event.Type {
	case events.EventParticipantLeft:
		ctx.cfgMu.RLock()
		debounce := ctx.cfg.DepartureDebounce
		ctx.cfgMu.RUnlock()
		ctx.requestEvaluation(debounce)
	default:
		ctx.requestEvaluation(0)
	}
}

func (membershipHandler) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventParticipantJoined,
		events.EventParticipantLeft,
		events.EventConfigUpdated,
		events.EventRefreshRequest,
	}
}
