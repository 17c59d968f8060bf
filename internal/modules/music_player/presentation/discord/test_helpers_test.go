package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// fakeController records the inputs it receives.
type fakeController struct {
	mu       sync.Mutex
	plays    []usecases.PlayInput
	skips    []usecases.SkipInput
	stops    []usecases.StopInput
	inspects []usecases.InspectInput

	playErr error
	skipErr error
	entries []usecases.QueueEntryView
}

func (c *fakeController) Play(ctx context.Context, input usecases.PlayInput) (*usecases.EnqueueOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plays = append(c.plays, input)
	if c.playErr != nil {
		return nil, c.playErr
	}
	return &usecases.EnqueueOutput{Item: &domain.QueueItem{ID: "item"}}, nil
}

func (c *fakeController) Skip(input usecases.SkipInput) (*usecases.SkipOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skips = append(c.skips, input)
	if c.skipErr != nil {
		return nil, c.skipErr
	}
	return &usecases.SkipOutput{}, nil
}

func (c *fakeController) Stop(input usecases.StopInput) *usecases.StopOutput {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops = append(c.stops, input)
	return &usecases.StopOutput{}
}

func (c *fakeController) Inspect(input usecases.InspectInput) []usecases.QueueEntryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inspects = append(c.inspects, input)
	return c.entries
}

func newInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "1",
			ChannelID: "5",
			Member: &discordgo.Member{
				Nick: "DJ",
				User: &discordgo.User{ID: "2", Username: "alice"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func newMessage(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			GuildID:   "1",
			ChannelID: "5",
			Content:   content,
			Author:    &discordgo.User{ID: "2", Username: "alice", GlobalName: "Alice"},
		},
	}
}
