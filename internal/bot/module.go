package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler handles a Discord interaction and returns a response.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// MessageHandler handles a prefixed text command.
// args holds the whitespace-separated words that follow the command name.
type MessageHandler func(s *discordgo.Session, m *discordgo.MessageCreate, args []string, r MessageResponder) error

// MessageCommand binds a text command name and its aliases to a handler.
type MessageCommand struct {
	Name    string
	Aliases []string
	Handler MessageHandler
}

// EventHandler is a generic handler for any Discord event.
// It should be a function matching one of discordgo's handler signatures,
// e.g., func(s *discordgo.Session, m *discordgo.MessageCreate)
type EventHandler any

// CommandSyncer publishes or clears application commands.
// An empty guildID targets the global command set.
type CommandSyncer interface {
	SyncCommands(guildID string) error
	UnsyncCommands(guildID string) error
}

// ModuleDependencies provides dependencies that modules may need during initialization.
type ModuleDependencies struct {
	Session *discordgo.Session
	Config  *Config
	Syncer  CommandSyncer
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the slash commands that this module provides.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers returns a map of command names to their handlers.
	CommandHandlers() map[string]InteractionHandler

	// MessageCommands returns the prefixed text commands this module provides.
	MessageCommands() []MessageCommand

	// EventHandlers returns event handlers for this module.
	// Each handler should match a discordgo handler signature.
	EventHandlers() []EventHandler

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules that need configuration.
// Modules implementing this interface will have LoadConfig called before Init.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Called before Init() and before Discord connection is established.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}
