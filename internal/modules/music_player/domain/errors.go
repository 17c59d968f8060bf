package domain

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// ResolutionErrorKind enumerates why a destination could not be determined.
type ResolutionErrorKind int

const (
	ResolutionUnknown          ResolutionErrorKind = iota // Lookup failed for another reason
	ResolutionNotFound                                    // No voice channel has the requested name
	ResolutionNoDefaultChannel                            // No name given and the requester is not in voice
)

// String returns a human-readable representation of the kind.
func (k ResolutionErrorKind) String() string {
	switch k {
	case ResolutionNotFound:
		return "not_found"
	case ResolutionNoDefaultChannel:
		return "no_default_channel"
	default:
		return "unknown"
	}
}

// ResolutionError is returned when no destination can be determined for a request.
// The item is never queued.
type ResolutionError struct {
	Kind        ResolutionErrorKind
	ChannelName string
	Err         error
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case ResolutionNotFound:
		return fmt.Sprintf("voice channel %q not found", e.ChannelName)
	case ResolutionNoDefaultChannel:
		return "requester is not in a voice channel and no channel was named"
	default:
		if e.Err != nil {
			return fmt.Sprintf("failed to resolve destination: %v", e.Err)
		}
		return "failed to resolve destination"
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a media reference cannot be resolved or downloaded.
type FetchError struct {
	Reference string
	Reason    string
	Err       error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %q: %s: %v", e.Reference, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to fetch %q: %s", e.Reference, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PlaybackError wraps a transport or decoder failure for one queue item.
// It is handled inside the driver loop and never stops the loop.
type PlaybackError struct {
	GuildID snowflake.ID
	ItemID  string
	Err     error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of item %s in guild %s failed: %v", e.ItemID, e.GuildID, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}
