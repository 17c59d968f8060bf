package music_player

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Transport != TransportVoice {
		t.Errorf("expected transport %q, got %q", TransportVoice, cfg.Transport)
	}
	if cfg.DownloadDir != "downloads" {
		t.Errorf("expected download dir %q, got %q", "downloads", cfg.DownloadDir)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected poll interval 1s, got %s", cfg.PollInterval)
	}
	if cfg.FetchTimeout != 5*time.Minute {
		t.Errorf("expected fetch timeout 5m, got %s", cfg.FetchTimeout)
	}
	if cfg.YtdlpFormat != "bestaudio/best" {
		t.Errorf("expected format bestaudio/best, got %q", cfg.YtdlpFormat)
	}
	if !cfg.YtdlpAutoInstall {
		t.Error("expected yt-dlp auto install by default")
	}
	if cfg.NotificationBuffer != 100 {
		t.Errorf("expected notification buffer 100, got %d", cfg.NotificationBuffer)
	}
}

func TestLoadConfig_Lavalink(t *testing.T) {
	t.Setenv("AUDIO_TRANSPORT", "lavalink")
	t.Setenv("LAVALINK_ADDRESS", "localhost:2333")
	t.Setenv("LAVALINK_PASSWORD", "youshallnotpass")
	t.Setenv("POLL_INTERVAL", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transport != TransportLavalink {
		t.Errorf("expected lavalink transport, got %q", cfg.Transport)
	}
	if cfg.LavalinkAddress != "localhost:2333" {
		t.Errorf("expected address, got %q", cfg.LavalinkAddress)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %s", cfg.PollInterval)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "lavalink without address",
			env:  map[string]string{"AUDIO_TRANSPORT": "lavalink", "LAVALINK_PASSWORD": "pw"},
		},
		{
			name: "lavalink without password",
			env:  map[string]string{"AUDIO_TRANSPORT": "lavalink", "LAVALINK_ADDRESS": "localhost:2333"},
		},
		{
			name: "unknown transport",
			env:  map[string]string{"AUDIO_TRANSPORT": "carrier-pigeon"},
		},
		{
			name: "zero poll interval",
			env:  map[string]string{"POLL_INTERVAL": "0s"},
		},
		{
			name: "malformed timeout",
			env:  map[string]string{"FETCH_TIMEOUT": "soon"},
		},
		{
			name: "negative notification buffer",
			env:  map[string]string{"NOTIFICATION_BUFFER": "-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
