package music_player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/steve/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/steve/internal/modules/music_player/presentation/discord"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule queues and plays media per guild.
type MusicPlayerModule struct {
	config *Config

	commandHandlers *discord.CommandHandlers
	messageHandlers *discord.MessageHandlers

	driver     *usecases.PlaybackDriver
	dispatcher *infrastructure.NotificationDispatcher
	lavalink   *infrastructure.LavalinkTransport

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"p":  m.commandHandlers.HandlePlay,
		"st": m.commandHandlers.HandleStop,
		"sk": m.commandHandlers.HandleSkip,
		"q":  m.commandHandlers.HandleQueue,
	}
}

// MessageCommands returns the prefix commands for this module.
func (m *MusicPlayerModule) MessageCommands() []bot.MessageCommand {
	return m.messageHandlers.Commands()
}

// EventHandlers returns the event handlers for this module.
// They are only needed when audio goes through Lavalink.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	if m.lavalink == nil {
		return nil
	}

	return []bot.EventHandler{
		func(s *discordgo.Session, r *discordgo.Ready) {
			if err := m.lavalink.Open(m.ctx, r.User.ID); err != nil {
				slog.Error("failed to connect to Lavalink", "error", err)
			}
		},
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.lavalink.OnVoiceServerUpdate(event)
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.lavalink.OnVoiceStateUpdate(event)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player requires a Discord session")
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	// Lavalink resolves the files itself, so paths must not depend on our cwd.
	dir, err := filepath.Abs(m.config.DownloadDir)
	if err != nil {
		return fmt.Errorf("failed to resolve download directory: %w", err)
	}
	store, err := infrastructure.NewFileStore(dir)
	if err != nil {
		return err
	}

	fetcher := infrastructure.NewYtdlpFetcher(infrastructure.YtdlpConfig{
		Dir:         store.Dir(),
		Format:      m.config.YtdlpFormat,
		Timeout:     m.config.FetchTimeout,
		AutoInstall: m.config.YtdlpAutoInstall,
	})
	registry := infrastructure.NewMemoryRegistry()
	m.dispatcher = infrastructure.NewNotificationDispatcher(m.config.NotificationBuffer)
	directory := infrastructure.NewChannelDirectory(deps.Session.State)

	var transport ports.TransportService
	switch m.config.Transport {
	case TransportLavalink:
		m.lavalink = infrastructure.NewLavalinkTransport(deps.Session, infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		})
		transport = m.lavalink
	default:
		transport = infrastructure.NewVoiceTransport(deps.Session)
	}

	m.driver = usecases.NewPlaybackDriver(
		registry,
		fetcher,
		transport,
		store,
		m.dispatcher,
		m.config.PollInterval,
	)
	queue := usecases.NewQueueService(
		registry,
		fetcher,
		usecases.NewDestinationService(directory),
		m.dispatcher,
		m.driver,
	)

	m.commandHandlers = discord.NewCommandHandlers(m.ctx, queue)
	m.messageHandlers = discord.NewMessageHandlers(m.ctx, queue)

	slog.Info("initialized music player",
		"transport", m.config.Transport,
		"download_dir", store.Dir(),
	)

	return nil
}

// Shutdown stops every playback loop and flushes pending notifications.
func (m *MusicPlayerModule) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.driver != nil {
		m.driver.Shutdown()
	}
	if m.dispatcher != nil {
		m.dispatcher.Close()
	}
	if m.lavalink != nil {
		m.lavalink.Close()
	}
	return nil
}
