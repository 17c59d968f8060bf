package domain

import "github.com/disgoorg/snowflake/v2"

// Destination is the voice channel audio is streamed to.
type Destination struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	Name      string
}

// IsValid reports whether the destination names a channel.
func (d *Destination) IsValid() bool {
	return d != nil && d.ChannelID != 0
}
