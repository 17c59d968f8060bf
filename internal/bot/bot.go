package bot

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// intents are the gateway intents the bot needs for text commands and voice.
const intents = discordgo.IntentGuilds |
	discordgo.IntentGuildMessages |
	discordgo.IntentGuildVoiceStates |
	discordgo.IntentMessageContent

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config          *Config
	session         *discordgo.Session
	modules         []Module
	handlers        map[string]InteractionHandler
	messageHandlers map[string]MessageHandler
}

// Compile-time interface checks.
var _ CommandSyncer = (*Bot)(nil)

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	return &Bot{
		config:          cfg,
		modules:         make([]Module, 0),
		handlers:        make(map[string]InteractionHandler),
		messageHandlers: make(map[string]MessageHandler),
	}
}

// LoadModules loads modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = Modules()
}

// Start initializes the bot, connects to Discord, and registers commands.
func (b *Bot) Start() error {
	if err := b.loadModuleConfigs(); err != nil {
		return fmt.Errorf("failed to load module config: %w", err)
	}

	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	b.session = session

	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	b.buildHandlerMap()
	b.buildMessageHandlerMap()

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)

	b.registerEventHandlers()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	slog.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
		"prefix", b.config.CommandPrefix(),
	)

	return nil
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// SyncCommands overwrites the application commands of a guild, or the global
// set when guildID is empty, with the commands of all loaded modules.
func (b *Bot) SyncCommands(guildID string) error {
	commands := b.collectCommands()
	if _, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID,
		guildID,
		commands,
	); err != nil {
		return fmt.Errorf("failed to sync commands: %w", err)
	}
	slog.Info("synced commands", "guild", guildID, "count", len(commands))
	return nil
}

// UnsyncCommands removes all application commands of a guild, or the global
// set when guildID is empty.
func (b *Bot) UnsyncCommands(guildID string) error {
	if _, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID,
		guildID,
		[]*discordgo.ApplicationCommand{},
	); err != nil {
		return fmt.Errorf("failed to unsync commands: %w", err)
	}
	slog.Info("unsynced commands", "guild", guildID)
	return nil
}

// loadModuleConfigs calls LoadConfig on every ConfigurableModule.
func (b *Bot) loadModuleConfigs() error {
	for _, mod := range b.modules {
		configurable, ok := mod.(ConfigurableModule)
		if !ok {
			continue
		}
		if err := configurable.LoadConfig(); err != nil {
			return fmt.Errorf("%s: %w", mod.Name(), err)
		}
	}
	return nil
}

// initModules initializes all loaded modules.
func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Session: b.session,
		Config:  b.config,
		Syncer:  b,
	}

	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// buildHandlerMap builds the command name to handler mapping.
func (b *Bot) buildHandlerMap() {
	for _, mod := range b.modules {
		maps.Copy(b.handlers, mod.CommandHandlers())
	}
}

// buildMessageHandlerMap maps every text command name and alias to its handler.
func (b *Bot) buildMessageHandlerMap() {
	for _, mod := range b.modules {
		for _, cmd := range mod.MessageCommands() {
			b.messageHandlers[strings.ToLower(cmd.Name)] = cmd.Handler
			for _, alias := range cmd.Aliases {
				b.messageHandlers[strings.ToLower(alias)] = cmd.Handler
			}
		}
	}
}

// registerEventHandlers registers all module event handlers with the session.
func (b *Bot) registerEventHandlers() {
	for _, mod := range b.modules {
		for _, handler := range mod.EventHandlers() {
			b.session.AddHandler(handler)
		}
	}
}

// collectCommands gathers all commands from loaded modules.
func (b *Bot) collectCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, mod := range b.modules {
		commands = append(commands, mod.Commands()...)
	}
	return commands
}

// registerCommands registers all module commands with Discord.
func (b *Bot) registerCommands() error {
	commands := b.collectCommands()

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string registers commands globally
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		slog.Debug("registered command", "command", cmd.Name)
	}

	return nil
}

// Embed colors for responses.
const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

// handleReady sets the presence once the gateway session is ready.
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	if b.config.Activity == "" {
		return
	}
	if err := s.UpdateGameStatus(0, b.config.Activity); err != nil {
		slog.Warn("failed to update presence", "error", err)
	}
	slog.Info("connected to Discord", "username", r.User.Username, "guilds", len(r.Guilds))
}

// handleInteraction routes incoming interactions to the appropriate handler.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmdName := i.ApplicationCommandData().Name
	handler, ok := b.handlers[cmdName]
	if !ok {
		slog.Warn("found no handler for command", "command", cmdName)
		b.respondWithEmbed(s, i, "Unknown Command", "This command is not recognized.", colorYellow)
		return
	}

	responder := NewDiscordResponder(s, i.Interaction)
	if err := handler(s, i, responder); err != nil {
		slog.Error("failed to handle command", "command", cmdName, "error", err)
		b.respondWithEmbed(s, i, "Error", "An error occurred while processing your command.",
			colorRed)
	}
}

// handleMessage routes prefixed text commands to the appropriate handler.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	name, args, ok := ParseCommand(b.config.CommandPrefix(), m.Content)
	if !ok {
		return
	}

	handler, ok := b.messageHandlers[name]
	if !ok {
		slog.Debug("found no handler for text command", "command", name)
		return
	}

	responder := NewDiscordMessageResponder(s, m.ChannelID)
	if err := handler(s, m, args, responder); err != nil {
		slog.Error("failed to handle text command", "command", name, "error", err)
		_ = responder.Reply(&discordgo.MessageEmbed{
			Title:       "Error",
			Description: "An error occurred while processing your command.",
			Color:       colorRed,
		})
	}
}

// ParseCommand splits a prefixed message into a lower-cased command name and its arguments.
// It reports false when content does not start with prefix or names no command.
func ParseCommand(prefix, content string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}

	return strings.ToLower(fields[0]), fields[1:], true
}

// respondWithEmbed sends an embed response to an interaction.
func (b *Bot) respondWithEmbed(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	title, description string,
	color int,
) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       title,
					Description: description,
					Color:       color,
				},
			},
		},
	})
	if err != nil {
		slog.Error("failed to send embed response", "error", err)
	}
}
