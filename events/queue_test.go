package events

import (
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/falloff/parameter"
)

// TestQueuePushConsume verifies FIFO ordering of a simple push/consume cycle
func TestQueuePushConsume(t *testing.T) {
	q := NewQueue()

	q.Push(Event{Type: EventParticipantJoined, Payload: &ParticipantPayload{ID: "a"}, Timestamp: time.Now()})
	q.Push(Event{Type: EventParticipantLeft, Payload: &ParticipantPayload{ID: "a"}, Timestamp: time.Now()})
	q.Push(Event{Type: EventRefreshRequest})

	got := q.Consume()
	if len(got) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(got))
	}
	if got[0].Type != EventParticipantJoined || got[1].Type != EventParticipantLeft || got[2].Type != EventRefreshRequest {
		t.Errorf("Expected FIFO order, got %v %v %v", got[0].Type, got[1].Type, got[2].Type)
	}
}

// TestQueueConsumeEmpty verifies consuming an empty queue returns nil
func TestQueueConsumeEmpty(t *testing.T) {
	q := NewQueue()
	if got := q.Consume(); got != nil {
		t.Errorf("Expected nil from empty queue, got %d events", len(got))
	}
}

// TestQueueOverflow verifies oldest events are overwritten when full
func TestQueueOverflow(t *testing.T) {
	q := NewQueue()

	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(Event{Type: EventRefreshRequest, Payload: &ParticipantPayload{ID: string(rune('0' + i%10))}})
	}

	got := q.Consume()
	if len(got) > parameter.EventQueueSize {
		t.Errorf("Expected at most %d events after overflow, got %d", parameter.EventQueueSize, len(got))
	}
	if len(got) == 0 {
		t.Error("Expected events to survive overflow")
	}
}

// TestQueueConcurrentProducers verifies no events are lost under concurrent pushes
// within queue capacity
func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 16 // 128 total, under capacity

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Event{Type: EventParticipantJoined})
			}
		}()
	}
	wg.Wait()

	total := 0
	for {
		batch := q.Consume()
		if batch == nil {
			break
		}
		total += len(batch)
	}

	if total != producers*perProducer {
		t.Errorf("Expected %d events, got %d", producers*perProducer, total)
	}
}

// TestRouterDispatch verifies events reach registered handlers in order
func TestRouterDispatch(t *testing.T) {
	q := NewQueue()
	r := NewRouter[*[]EventType](q)

	r.Register(&recordingHandler{types: []EventType{EventParticipantJoined, EventParticipantLeft}})

	q.Push(Event{Type: EventParticipantJoined})
	q.Push(Event{Type: EventRefreshRequest}) // No handler, dropped
	q.Push(Event{Type: EventParticipantLeft})

	var seen []EventType
	r.DispatchAll(&seen)

	if len(seen) != 2 {
		t.Fatalf("Expected 2 handled events, got %d", len(seen))
	}
	if seen[0] != EventParticipantJoined || seen[1] != EventParticipantLeft {
		t.Errorf("Expected join then leave, got %v %v", seen[0], seen[1])
	}

	if !r.HasHandlers(EventParticipantJoined) {
		t.Error("Expected handler registered for ParticipantJoined")
	}
	if r.HasHandlers(EventConfigUpdated) {
		t.Error("Expected no handler for ConfigUpdated")
	}
}

// recordingHandler appends every received event type to the context slice
type recordingHandler struct {
	types []EventType
}

func (h *recordingHandler) HandleEvent(ctx *[]EventType, event Event) {
	*ctx = append(*ctx, event.Type)
}

func (h *recordingHandler) EventTypes() []EventType {
	return h.types
}
