package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/music_player/application/usecases"
)

// MessageHandlers handles the music prefix commands.
type MessageHandlers struct {
	runner runner
}

// NewMessageHandlers creates new MessageHandlers.
func NewMessageHandlers(ctx context.Context, controller QueueController) *MessageHandlers {
	return &MessageHandlers{runner: runner{ctx: ctx, controller: controller}}
}

// Commands returns the prefix commands with their aliases.
func (h *MessageHandlers) Commands() []bot.MessageCommand {
	return []bot.MessageCommand{
		{Name: "play", Aliases: []string{"p"}, Handler: h.HandlePlay},
		{Name: "stop", Aliases: []string{"st"}, Handler: h.HandleStop},
		{Name: "skip", Aliases: []string{"sk"}, Handler: h.HandleSkip},
		{Name: "queue", Aliases: []string{"q"}, Handler: h.HandleQueue},
	}
}

// HandlePlay handles `play <url> [channel name...]`.
func (h *MessageHandlers) HandlePlay(
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
) error {
	req, ok, err := begin(m, r)
	if !ok {
		return err
	}

	if len(args) > 0 {
		req.reference = args[0]
		req.channelName = strings.Join(args[1:], " ")
	}

	h.runner.play(req)
	return nil
}

// HandleStop handles `stop`.
func (h *MessageHandlers) HandleStop(
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
) error {
	req, ok, err := begin(m, r)
	if !ok {
		return err
	}

	h.runner.stop(req)
	return nil
}

// HandleSkip handles `skip`.
func (h *MessageHandlers) HandleSkip(
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
) error {
	req, ok, err := begin(m, r)
	if !ok {
		return err
	}

	h.runner.skip(req)
	return nil
}

// HandleQueue handles `queue`.
func (h *MessageHandlers) HandleQueue(
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
) error {
	req, ok, err := begin(m, r)
	if !ok {
		return err
	}

	return h.runner.queue(req)
}

func begin(m *discordgo.MessageCreate, r bot.MessageResponder) (req commandRequest, ok bool, err error) {
	if m.GuildID == "" || m.Author == nil {
		return req, false, replyError(r, usecases.ErrNotInGuild.Error())
	}

	req.guildID, err = snowflake.Parse(m.GuildID)
	if err != nil {
		return req, false, replyError(r, "Invalid guild")
	}
	req.userID, err = snowflake.Parse(m.Author.ID)
	if err != nil {
		return req, false, replyError(r, "Invalid user")
	}

	req.target = NewMessageReplyTarget(r, RequesterFrom(m.Member, m.Author))
	return req, true, nil
}

func replyError(r bot.MessageResponder, message string) error {
	return r.Reply(&discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	})
}
