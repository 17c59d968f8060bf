package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Command prefixes selected by the ENV variable.
const (
	devCommandPrefix  = "!dsteve "
	prodCommandPrefix = "!steve "
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	// Env selects the deployment flavour. "dev" switches to the dev command prefix.
	Env string `env:"ENV"            envDefault:"dev"`
	// Prefix overrides the ENV-derived command prefix when set.
	Prefix   string `env:"COMMAND_PREFIX"`
	OwnerID  string `env:"OWNER_ID"`
	Activity string `env:"ACTIVITY"       envDefault:"some music!"`
	LogLevel string `env:"LOG_LEVEL"      envDefault:"info"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CommandPrefix returns the prefix that text commands must start with.
func (c *Config) CommandPrefix() string {
	if c.Prefix != "" {
		return c.Prefix
	}
	if c.Env == "dev" {
		return devCommandPrefix
	}
	return prodCommandPrefix
}

// ParseLogLevel converts a LOG_LEVEL value into a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}
