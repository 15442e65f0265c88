// Package roster tracks the locally-visible participant set of one
// instance. It is the count source for falloff evaluation: joins and
// leaves mutate the set and push events for the mixer to react to.
package roster

import (
	"sync"
	"time"

	"github.com/lixenwraith/falloff/events"
)

// Roster is a thread-safe participant set keyed by ID.
// The zero count includes the local observer only when the host
// application chooses to Join it; the engine treats any non-negative
// count uniformly.
type Roster struct {
	mu      sync.RWMutex
	members map[string]struct{}
	queue   *events.Queue
}

// New creates an empty roster publishing membership events to queue.
// A nil queue is allowed; the roster then tracks membership silently.
func New(queue *events.Queue) *Roster {
	return &Roster{
		members: make(map[string]struct{}),
		queue:   queue,
	}
}

// Join adds a participant. Returns false if the ID was already present,
// in which case no event is published.
func (r *Roster) Join(id string) bool {
	r.mu.Lock()
	if _, exists := r.members[id]; exists {
		r.mu.Unlock()
		return false
	}
	r.members[id] = struct{}{}
	r.mu.Unlock()

	r.publish(events.EventParticipantJoined, id)
	return true
}

// Leave removes a participant. Returns false if the ID was not present,
// in which case no event is published.
func (r *Roster) Leave(id string) bool {
	r.mu.Lock()
	if _, exists := r.members[id]; !exists {
		r.mu.Unlock()
		return false
	}
	delete(r.members, id)
	r.mu.Unlock()

	r.publish(events.EventParticipantLeft, id)
	return true
}

// Count returns the current participant count snapshot
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Contains reports whether the participant is present
func (r *Roster) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// Participants returns a snapshot of all participant IDs.
// Order is unspecified.
func (r *Roster) Participants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}

func (r *Roster) publish(t events.EventType, id string) {
	if r.queue == nil {
		return
	}
	r.queue.Push(events.Event{
		Type:      t,
		Payload:   &events.ParticipantPayload{ID: id},
		Timestamp: time.Now(),
	})
}
