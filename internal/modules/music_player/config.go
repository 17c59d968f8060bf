package music_player

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Audio transports selectable with AUDIO_TRANSPORT.
const (
	TransportVoice    = "voice"
	TransportLavalink = "lavalink"
)

// Config holds the music player module configuration.
type Config struct {
	// Transport selects how audio reaches Discord: streamed by the bot
	// itself, or handed to a Lavalink node sharing the download directory.
	Transport        string `env:"AUDIO_TRANSPORT"   envDefault:"voice"`
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"   envDefault:"false"`

	DownloadDir        string        `env:"DOWNLOAD_DIR"        envDefault:"downloads"`
	PollInterval       time.Duration `env:"POLL_INTERVAL"       envDefault:"1s"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"       envDefault:"5m"`
	YtdlpFormat        string        `env:"YTDLP_FORMAT"        envDefault:"bestaudio/best"`
	YtdlpAutoInstall   bool          `env:"YTDLP_AUTO_INSTALL"  envDefault:"true"`
	NotificationBuffer int           `env:"NOTIFICATION_BUFFER" envDefault:"100"`
}

// LoadConfig parses the module configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env cannot express as struct tags.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportVoice:
	case TransportLavalink:
		if c.LavalinkAddress == "" || c.LavalinkPassword == "" {
			return errors.New("LAVALINK_ADDRESS and LAVALINK_PASSWORD are required for the lavalink transport")
		}
	default:
		return fmt.Errorf("invalid AUDIO_TRANSPORT %q", c.Transport)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.NotificationBuffer <= 0 {
		return fmt.Errorf("NOTIFICATION_BUFFER must be positive, got %d", c.NotificationBuffer)
	}
	if c.DownloadDir == "" {
		return errors.New("DOWNLOAD_DIR must not be empty")
	}
	return nil
}
