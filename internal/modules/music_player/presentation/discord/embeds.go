package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
	colorInfo    = 0x3498DB
)

// Requester is the user a reply is addressed to, shown as the embed author.
type Requester struct {
	Name      string
	AvatarURL string
}

// RequesterFrom builds a Requester from the member and user of a command.
// The display name prefers the guild nickname, then the global name.
func RequesterFrom(member *discordgo.Member, user *discordgo.User) Requester {
	if user == nil && member != nil {
		user = member.User
	}
	if user == nil {
		return Requester{}
	}

	name := user.Username
	if user.GlobalName != "" {
		name = user.GlobalName
	}
	if member != nil && member.Nick != "" {
		name = member.Nick
	}

	return Requester{
		Name:      name,
		AvatarURL: user.AvatarURL(""),
	}
}

// MessageEmbed renders a notification as a Discord embed.
func MessageEmbed(msg domain.Message, requester Requester) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       messageColor(msg.Kind),
	}

	if requester.Name != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    requester.Name,
			IconURL: requester.AvatarURL,
		}
	}

	for _, field := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  fieldValue(field.Value),
			Inline: field.Inline,
		})
	}

	return embed
}

func messageColor(kind domain.MessageKind) int {
	switch kind {
	case domain.MessageSuccess:
		return colorSuccess
	case domain.MessageError:
		return colorError
	default:
		return colorInfo
	}
}

// fieldValue substitutes a placeholder because Discord rejects empty field values.
func fieldValue(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
