package ports

import (
	"context"

	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// TransportService opens audio sessions to voice channels.
type TransportService interface {
	// Connect joins the destination and returns a session ready to play.
	Connect(ctx context.Context, destination domain.Destination) (Session, error)
}

// Session is one streaming audio connection to a destination.
type Session interface {
	// Play starts streaming the file at localPath. It returns once playback has started.
	Play(ctx context.Context, localPath string) error

	// IsActive reports whether audio is still being streamed.
	IsActive() bool

	// Interrupt stops the current playback without leaving the channel.
	Interrupt()

	// Disconnect leaves the channel and releases every handle held by the session.
	Disconnect(ctx context.Context) error
}
