package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/music_player/application/usecases"
)

// CommandHandlers handles the music slash commands.
type CommandHandlers struct {
	runner runner
}

// NewCommandHandlers creates new CommandHandlers.
// ctx bounds fetches started by commands and is cancelled on shutdown.
func NewCommandHandlers(ctx context.Context, controller QueueController) *CommandHandlers {
	return &CommandHandlers{runner: runner{ctx: ctx, controller: controller}}
}

// HandlePlay handles the /p command.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	req, ok, err := h.begin(i, r)
	if !ok {
		return err
	}

	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "url":
			req.reference = opt.StringValue()
		case "channel_name":
			req.channelName = opt.StringValue()
		}
	}

	h.runner.play(req)
	return nil
}

// HandleStop handles the /st command.
func (h *CommandHandlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	req, ok, err := h.begin(i, r)
	if !ok {
		return err
	}

	h.runner.stop(req)
	return nil
}

// HandleSkip handles the /sk command.
func (h *CommandHandlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	req, ok, err := h.begin(i, r)
	if !ok {
		return err
	}

	h.runner.skip(req)
	return nil
}

// HandleQueue handles the /q command.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	req, ok, err := h.begin(i, r)
	if !ok {
		return err
	}

	return h.runner.queue(req)
}

// begin validates the interaction and defers the response so replies can
// follow up once the request has been processed. ok is false when the
// command must not run; err is then the outcome of the error reply.
func (h *CommandHandlers) begin(
	i *discordgo.InteractionCreate,
	r bot.Responder,
) (req commandRequest, ok bool, err error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return req, false, respondError(r, usecases.ErrNotInGuild.Error())
	}

	req.guildID, err = snowflake.Parse(i.GuildID)
	if err != nil {
		return req, false, respondError(r, "Invalid guild")
	}
	req.userID, err = snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return req, false, respondError(r, "Invalid user")
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return req, false, fmt.Errorf("failed to defer response: %w", err)
	}

	req.target = NewInteractionReplyTarget(r, RequesterFrom(i.Member, i.Member.User))
	return req, true, nil
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}
