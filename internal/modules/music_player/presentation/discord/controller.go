package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// QueueController is the queue API the command handlers drive.
type QueueController interface {
	Play(ctx context.Context, input usecases.PlayInput) (*usecases.EnqueueOutput, error)
	Skip(input usecases.SkipInput) (*usecases.SkipOutput, error)
	Stop(input usecases.StopInput) *usecases.StopOutput
	Inspect(input usecases.InspectInput) []usecases.QueueEntryView
}

var _ QueueController = (*usecases.QueueService)(nil)

// commandRequest is a parsed command, independent of how it was issued.
type commandRequest struct {
	guildID     snowflake.ID
	userID      snowflake.ID
	reference   string
	channelName string
	target      domain.ReplyTarget
}

// runner executes commands against the controller. Both the slash and the
// prefix handlers share it.
type runner struct {
	ctx        context.Context
	controller QueueController
}

func (r *runner) play(req commandRequest) {
	output, err := r.controller.Play(r.ctx, usecases.PlayInput{
		GuildID:     req.guildID,
		RequesterID: req.userID,
		Reference:   req.reference,
		ChannelName: req.channelName,
		ReplyTarget: req.target,
	})
	if err != nil {
		// The requester was already told why.
		slog.Debug("play request rejected", "guild", req.guildID, "error", err)
		return
	}
	slog.Debug("play request accepted",
		"guild", req.guildID,
		"item", output.Item.ID,
		"position", output.Position,
	)
}

func (r *runner) skip(req commandRequest) {
	if _, err := r.controller.Skip(usecases.SkipInput{
		GuildID:     req.guildID,
		ReplyTarget: req.target,
	}); err != nil && !errors.Is(err, usecases.ErrNothingToSkip) {
		slog.Warn("failed to skip", "guild", req.guildID, "error", err)
	}
}

func (r *runner) stop(req commandRequest) {
	r.controller.Stop(usecases.StopInput{
		GuildID:     req.guildID,
		ReplyTarget: req.target,
	})
}

func (r *runner) queue(req commandRequest) error {
	entries := r.controller.Inspect(usecases.InspectInput{GuildID: req.guildID})
	for _, msg := range usecases.QueueMessages(entries) {
		if err := req.target.Notify(msg); err != nil {
			return err
		}
	}
	return nil
}
