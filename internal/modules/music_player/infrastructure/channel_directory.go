package infrastructure

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// GuildState is the part of the discordgo state cache the directory reads.
type GuildState interface {
	Guild(guildID string) (*discordgo.Guild, error)
}

// ChannelDirectory resolves voice channels from the gateway state cache.
type ChannelDirectory struct {
	state GuildState
}

// NewChannelDirectory creates a new ChannelDirectory.
func NewChannelDirectory(state GuildState) *ChannelDirectory {
	return &ChannelDirectory{
		state: state,
	}
}

// UserVoiceChannel returns the voice channel that the user is currently in.
// Returns nil if the user is not in a voice channel.
func (d *ChannelDirectory) UserVoiceChannel(
	guildID, userID snowflake.ID,
) (*domain.Destination, error) {
	guild, err := d.state.Guild(guildID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get guild from state: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID != userID.String() || vs.ChannelID == "" {
			continue
		}
		return destinationFor(guild, guildID, vs.ChannelID)
	}

	return nil, nil
}

// VoiceChannelByName returns the first voice channel whose name equals name exactly.
// Returns nil if the guild has no such channel.
func (d *ChannelDirectory) VoiceChannelByName(
	guildID snowflake.ID,
	name string,
) (*domain.Destination, error) {
	guild, err := d.state.Guild(guildID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get guild from state: %w", err)
	}

	for _, channel := range guild.Channels {
		if channel.Type != discordgo.ChannelTypeGuildVoice || channel.Name != name {
			continue
		}
		channelID, err := snowflake.Parse(channel.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse channel ID: %w", err)
		}
		return &domain.Destination{GuildID: guildID, ChannelID: channelID, Name: channel.Name}, nil
	}

	return nil, nil
}

// destinationFor builds a destination for a channel ID, looking up its name in the guild.
func destinationFor(guild *discordgo.Guild, guildID snowflake.ID, channelID string) (*domain.Destination, error) {
	id, err := snowflake.Parse(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel ID: %w", err)
	}

	name := ""
	for _, channel := range guild.Channels {
		if channel.ID == channelID {
			name = channel.Name
			break
		}
	}

	return &domain.Destination{GuildID: guildID, ChannelID: id, Name: name}, nil
}

// Ensure ChannelDirectory implements ports.ChannelDirectory.
var _ ports.ChannelDirectory = (*ChannelDirectory)(nil)
