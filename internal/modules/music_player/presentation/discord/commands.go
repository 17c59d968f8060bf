package discord

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the music player module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "p",
			Description: "Play a url or search term",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "URL or search term",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "channel_name",
					Description: "Voice channel to play in (defaults to your current channel)",
					Required:    false,
				},
			},
		},
		{
			Name:        "st",
			Description: "Stop playback and clear the queue",
		},
		{
			Name:        "sk",
			Description: "Skip the current item",
		},
		{
			Name:        "q",
			Description: "Show the queue",
		},
	}
}
