package usecases

import (
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// ResolveDestinationInput contains the input for the Resolve use case.
type ResolveDestinationInput struct {
	GuildID     snowflake.ID
	UserID      snowflake.ID
	ChannelName string // Optional: exact voice channel name; empty means the user's channel
}

// DestinationService picks the voice channel a request plays in.
type DestinationService struct {
	directory ports.ChannelDirectory
}

// NewDestinationService creates a new DestinationService.
func NewDestinationService(directory ports.ChannelDirectory) *DestinationService {
	return &DestinationService{
		directory: directory,
	}
}

// Resolve returns the named voice channel, or the requester's current one when
// no name is given. Failures are returned as *domain.ResolutionError.
func (d *DestinationService) Resolve(input ResolveDestinationInput) (*domain.Destination, error) {
	name := strings.TrimSpace(input.ChannelName)

	if name == "" {
		destination, err := d.directory.UserVoiceChannel(input.GuildID, input.UserID)
		if err != nil {
			return nil, &domain.ResolutionError{Kind: domain.ResolutionUnknown, Err: err}
		}
		if !destination.IsValid() {
			return nil, &domain.ResolutionError{Kind: domain.ResolutionNoDefaultChannel}
		}
		return destination, nil
	}

	destination, err := d.directory.VoiceChannelByName(input.GuildID, name)
	if err != nil {
		return nil, &domain.ResolutionError{Kind: domain.ResolutionUnknown, ChannelName: name, Err: err}
	}
	if !destination.IsValid() {
		return nil, &domain.ResolutionError{Kind: domain.ResolutionNotFound, ChannelName: name}
	}
	return destination, nil
}
