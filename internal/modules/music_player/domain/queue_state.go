package domain

// QueueState represents the lifecycle state of a TenantQueue.
type QueueState int

const (
	QueueIdle     QueueState = iota // No driver loop is running
	QueuePlaying                    // Exactly one driver loop is iterating
	QueueStopping                   // Stop requested; the loop drains without playing cleared items
)

// String returns a human-readable representation of the queue state.
func (s QueueState) String() string {
	switch s {
	case QueuePlaying:
		return "playing"
	case QueueStopping:
		return "stopping"
	default:
		return "idle"
	}
}
