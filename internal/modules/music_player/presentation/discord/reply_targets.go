package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// Compile-time interface checks.
var (
	_ domain.ReplyTarget = (*MessageReplyTarget)(nil)
	_ domain.ReplyTarget = (*InteractionReplyTarget)(nil)
)

// MessageReplyTarget answers in the text channel a prefix command came from.
type MessageReplyTarget struct {
	responder bot.MessageResponder
	requester Requester
}

// NewMessageReplyTarget creates a MessageReplyTarget.
func NewMessageReplyTarget(responder bot.MessageResponder, requester Requester) *MessageReplyTarget {
	return &MessageReplyTarget{responder: responder, requester: requester}
}

// Notify sends msg as an embed to the channel.
func (t *MessageReplyTarget) Notify(msg domain.Message) error {
	return t.responder.Reply(MessageEmbed(msg, t.requester))
}

// InteractionReplyTarget answers a deferred slash command with followup messages.
type InteractionReplyTarget struct {
	responder bot.Responder
	requester Requester
}

// NewInteractionReplyTarget creates an InteractionReplyTarget.
func NewInteractionReplyTarget(responder bot.Responder, requester Requester) *InteractionReplyTarget {
	return &InteractionReplyTarget{responder: responder, requester: requester}
}

// Notify sends msg as a followup to the interaction.
func (t *InteractionReplyTarget) Notify(msg domain.Message) error {
	return t.responder.Followup(&discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{MessageEmbed(msg, t.requester)},
	})
}
