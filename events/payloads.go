package events

// ParticipantPayload identifies the participant behind a join/leave event
type ParticipantPayload struct {
	ID string
}

// ConfigUpdatedPayload carries the revision of the configuration that
// changed, for deduplication by consumers
type ConfigUpdatedPayload struct {
	Revision uint64
}
