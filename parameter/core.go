package parameter

// Event Infrastructure
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	// Must be power of 2 for mask arithmetic
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = EventQueueSize - 1
)
