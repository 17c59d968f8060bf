package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

const (
	opusFrameDuration = 20 * time.Millisecond
	opusSendTimeout   = 200 * time.Millisecond
	voiceReadyTimeout = 5 * time.Second
)

// VoiceJoiner joins voice channels. *discordgo.Session satisfies it.
type VoiceJoiner interface {
	ChannelVoiceJoin(gID, cID string, mute, deaf bool) (*discordgo.VoiceConnection, error)
}

// VoiceTransport streams local files directly over the Discord voice gateway,
// decoding with FFmpeg and encoding Opus in-process.
type VoiceTransport struct {
	joiner VoiceJoiner
}

var _ ports.TransportService = (*VoiceTransport)(nil)

// NewVoiceTransport creates a VoiceTransport that joins channels through joiner.
func NewVoiceTransport(joiner VoiceJoiner) *VoiceTransport {
	return &VoiceTransport{joiner: joiner}
}

// Connect joins the destination voice channel.
func (t *VoiceTransport) Connect(
	ctx context.Context,
	destination domain.Destination,
) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vc, err := t.joiner.ChannelVoiceJoin(
		destination.GuildID.String(),
		destination.ChannelID.String(),
		false,
		true,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel %s: %w", destination.Name, err)
	}
	if vc == nil {
		return nil, errors.New("voice connection is nil")
	}
	ensureVoiceChannels(vc)

	slog.Debug("joined voice channel",
		"guild", destination.GuildID,
		"channel", destination.ChannelID,
	)

	return &voiceSession{vc: vc}, nil
}

// voiceSession streams one file at a time over a voice connection.
type voiceSession struct {
	vc     *discordgo.VoiceConnection
	active atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ ports.Session = (*voiceSession)(nil)

func (s *voiceSession) Play(ctx context.Context, localPath string) error {
	if err := waitVoiceReady(ctx, s.vc, voiceReadyTimeout); err != nil {
		return err
	}

	decoder, err := openPCMDecoder(localPath)
	if err != nil {
		return err
	}
	encoder, err := newOpusEncoder()
	if err != nil {
		decoder.Close()
		return err
	}

	s.Interrupt()

	playCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.active.Store(true)
	go s.stream(playCtx, decoder, encoder, done)

	return nil
}

func (s *voiceSession) stream(
	ctx context.Context,
	decoder *pcmDecoder,
	encoder *opusEncoder,
	done chan struct{},
) {
	defer close(done)
	defer s.active.Store(false)
	defer decoder.Close()
	defer encoder.Close()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered panic while streaming audio", "panic", r)
		}
	}()

	if err := s.vc.Speaking(true); err != nil {
		slog.Debug("failed to set speaking state", "error", err)
	}
	defer func() { _ = s.vc.Speaking(false) }()

	ticker := time.NewTicker(opusFrameDuration)
	defer ticker.Stop()

	pcm := make([]byte, pcmFrameBytes)
	for {
		if err := decoder.ReadFrame(pcm); err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("failed to decode audio", "error", err)
			}
			return
		}

		packets, err := encoder.Encode(pcm)
		if err != nil {
			slog.Warn("failed to encode audio", "error", err)
			return
		}

		for _, packet := range packets {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			select {
			case <-ctx.Done():
				return
			case s.vc.OpusSend <- packet:
			case <-time.After(opusSendTimeout):
				slog.Warn("timed out sending opus packet")
				return
			}
		}
	}
}

func (s *voiceSession) IsActive() bool {
	return s.active.Load()
}

// Interrupt cancels streaming and waits until the decoder has released the file.
func (s *voiceSession) Interrupt() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *voiceSession) Disconnect(ctx context.Context) error {
	s.Interrupt()

	errCh := make(chan error, 1)
	go func() { errCh <- disconnectVoice(s.vc) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("timed out leaving voice channel: %w", ctx.Err())
	}
}

// ensureVoiceChannels makes sure the send/receive channels exist so a close
// during disconnect cannot hit a nil channel.
func ensureVoiceChannels(vc *discordgo.VoiceConnection) {
	vc.Lock()
	defer vc.Unlock()
	if vc.OpusSend == nil {
		vc.OpusSend = make(chan []byte, 2)
	}
	if vc.OpusRecv == nil {
		vc.OpusRecv = make(chan *discordgo.Packet, 2)
	}
}

func disconnectVoice(vc *discordgo.VoiceConnection) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while leaving voice channel: %v", r)
		}
	}()

	ensureVoiceChannels(vc)
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

func waitVoiceReady(ctx context.Context, vc *discordgo.VoiceConnection, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		vc.RLock()
		ready := vc.Ready
		vc.RUnlock()
		if ready {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return errors.New("voice connection not ready")
		case <-ticker.C:
		}
	}
}
