package ports

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// ChannelDirectory looks up voice channels of a guild.
type ChannelDirectory interface {
	// UserVoiceChannel returns the voice channel the user is currently in.
	// Returns nil if the user is not in a voice channel.
	UserVoiceChannel(guildID, userID snowflake.ID) (*domain.Destination, error)

	// VoiceChannelByName returns the voice channel with exactly the given name.
	// Returns nil if no voice channel matches.
	VoiceChannelByName(guildID snowflake.ID, name string) (*domain.Destination, error)
}
