package bot

import "github.com/bwmarrin/discordgo"

// Responder provides an abstraction for responding to Discord interactions.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Respond sends the initial response to an interaction.
	Respond(response *discordgo.InteractionResponse) error

	// Followup sends an additional message after the initial (possibly deferred) response.
	Followup(params *discordgo.WebhookParams) error
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Respond sends a response to the interaction via Discord API.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// Followup sends a followup message for the interaction.
func (r *DiscordResponder) Followup(params *discordgo.WebhookParams) error {
	_, err := r.session.FollowupMessageCreate(r.interaction, true, params)
	return err
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	LastResponse *discordgo.InteractionResponse
	Followups    []*discordgo.WebhookParams
	Err          error
}

// Respond records the response for testing.
func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.LastResponse = response
	return m.Err
}

// Followup records the followup for testing.
func (m *MockResponder) Followup(params *discordgo.WebhookParams) error {
	m.Followups = append(m.Followups, params)
	return m.Err
}

// MessageResponder replies to the channel a text command came from.
type MessageResponder interface {
	Reply(embed *discordgo.MessageEmbed) error
}

// DiscordMessageResponder implements MessageResponder using a live Discord session.
type DiscordMessageResponder struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordMessageResponder creates a responder bound to a text channel.
func NewDiscordMessageResponder(s *discordgo.Session, channelID string) *DiscordMessageResponder {
	return &DiscordMessageResponder{
		session:   s,
		channelID: channelID,
	}
}

// Reply sends an embed to the bound channel.
func (r *DiscordMessageResponder) Reply(embed *discordgo.MessageEmbed) error {
	_, err := r.session.ChannelMessageSendEmbed(r.channelID, embed)
	return err
}

// MockMessageResponder is a test double for MessageResponder.
type MockMessageResponder struct {
	Embeds []*discordgo.MessageEmbed
	Err    error
}

// Reply records the embed for testing.
func (m *MockMessageResponder) Reply(embed *discordgo.MessageEmbed) error {
	m.Embeds = append(m.Embeds, embed)
	return m.Err
}
