package usecases

import (
	"context"
	"time"

	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
)

// WaitOutcome describes why WaitUntilDoneOrInterrupted returned.
type WaitOutcome int

const (
	WaitFinished    WaitOutcome = iota // The session stopped streaming on its own
	WaitInterrupted                    // A skip or stop was observed
	WaitCancelled                      // The context was cancelled
)

// String returns a human-readable representation of the outcome.
func (o WaitOutcome) String() string {
	switch o {
	case WaitFinished:
		return "finished"
	case WaitInterrupted:
		return "interrupted"
	case WaitCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// WaitUntilDoneOrInterrupted polls session every pollInterval until it stops
// streaming or interrupted reports true. On interruption or cancellation the
// session is told to stop before returning.
func WaitUntilDoneOrInterrupted(
	ctx context.Context,
	session ports.Session,
	pollInterval time.Duration,
	interrupted func() bool,
) WaitOutcome {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if !session.IsActive() {
			return WaitFinished
		}
		if interrupted() {
			session.Interrupt()
			return WaitInterrupted
		}

		select {
		case <-ctx.Done():
			session.Interrupt()
			return WaitCancelled
		case <-ticker.C:
		}
	}
}
