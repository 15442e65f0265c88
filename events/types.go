package events

import (
	"time"
)

// EventType represents the type of roster or control event
type EventType int

const (
	// EventParticipantJoined signals a participant entering the instance
	// Trigger: roster.Roster.Join
	// Consumer: mixer.Mixer (immediate re-evaluation) | Payload: *ParticipantPayload
	EventParticipantJoined EventType = iota

	// EventParticipantLeft signals a participant leaving the instance
	// Trigger: roster.Roster.Leave
	// Consumer: mixer.Mixer (debounced re-evaluation) | Payload: *ParticipantPayload
	EventParticipantLeft

	// EventConfigUpdated signals a live configuration change
	// Trigger: tuner UI or host application
	// Consumer: mixer.Mixer (swap config, re-evaluate) | Payload: *ConfigUpdatedPayload
	EventConfigUpdated

	// EventRefreshRequest signals an explicit manual re-evaluation
	// Trigger: host application
	// Consumer: mixer.Mixer | Payload: nil
	EventRefreshRequest

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	"ParticipantJoined",
	"ParticipantLeft",
	"ConfigUpdated",
	"RefreshRequest",
}

// String returns the event name for logging
func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "Unknown"
	}
	return eventNames[t]
}

// Event represents a single event with metadata
type Event struct {
	Type      EventType
	Payload   any
	Timestamp time.Time
}
