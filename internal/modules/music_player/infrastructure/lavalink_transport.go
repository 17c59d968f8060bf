package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

const (
	// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
	voiceConnectionTimeout = 10 * time.Second
	lavalinkRequestTimeout = 5 * time.Second
)

// ErrLavalinkNotConnected is returned when a session is requested before Open.
var ErrLavalinkNotConnected = errors.New("lavalink is not connected")

// pendingVoiceConnection tracks the state of a pending voice connection.
type pendingVoiceConnection struct {
	mu             sync.Mutex
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

func newPendingVoiceConnection() *pendingVoiceConnection {
	return &pendingVoiceConnection{ready: make(chan struct{})}
}

// onEvent marks an event as received and signals ready if both events are present.
func (p *pendingVoiceConnection) onEvent(isVoiceState bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isVoiceState {
		p.hasVoiceState = true
	} else {
		p.hasVoiceServer = true
	}

	if p.hasVoiceState && p.hasVoiceServer {
		select {
		case <-p.ready:
		default:
			close(p.ready)
		}
	}
}

// voiceEventBuffer holds one guild's voice events until both halves arrived,
// so Lavalink never sees a partial voice state.
type voiceEventBuffer struct {
	mu sync.Mutex

	hasVoiceState bool
	channelID     *snowflake.ID
	sessionID     string

	hasVoiceServer bool
	token          string
	endpoint       string
}

// setVoiceState stores voice state data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceState(channelID *snowflake.ID, sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceState = true
	b.channelID = channelID
	b.sessionID = sessionID

	return b.hasVoiceServer
}

// setVoiceServer stores voice server data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceServer(token, endpoint string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceServer = true
	b.token = token
	b.endpoint = endpoint

	return b.hasVoiceState
}

// take returns the buffered data and resets the buffer.
func (b *voiceEventBuffer) take() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channelID, sessionID, token, endpoint = b.channelID, b.sessionID, b.token, b.endpoint
	*b = voiceEventBuffer{}
	return
}

// VoiceStateUpdater changes the bot's voice state without opening a voice
// connection. *discordgo.Session satisfies it.
type VoiceStateUpdater interface {
	ChannelVoiceJoinManual(gID, cID string, mute, deaf bool) error
}

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
}

// LavalinkTransport plays fetched files through a Lavalink node that shares
// the download directory with the bot.
type LavalinkTransport struct {
	updater VoiceStateUpdater
	config  LavalinkConfig

	linkMu sync.RWMutex
	link   disgolink.Client
	botID  snowflake.ID

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingVoiceConnection

	voiceBufferMu sync.Mutex
	voiceBuffers  map[snowflake.ID]*voiceEventBuffer

	sessionsMu sync.Mutex
	sessions   map[snowflake.ID]*lavalinkSession
}

var _ ports.TransportService = (*LavalinkTransport)(nil)

// NewLavalinkTransport creates a LavalinkTransport. Open must be called once
// the bot user is known.
func NewLavalinkTransport(updater VoiceStateUpdater, config LavalinkConfig) *LavalinkTransport {
	return &LavalinkTransport{
		updater:      updater,
		config:       config,
		pending:      make(map[snowflake.ID]*pendingVoiceConnection),
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
		sessions:     make(map[snowflake.ID]*lavalinkSession),
	}
}

// Open connects to the Lavalink node as the given bot user.
// Calling it again after a gateway reconnect is a no-op.
func (t *LavalinkTransport) Open(ctx context.Context, botUserID string) error {
	t.linkMu.Lock()
	defer t.linkMu.Unlock()

	if t.link != nil {
		return nil
	}

	botID, err := snowflake.Parse(botUserID)
	if err != nil {
		return fmt.Errorf("failed to parse bot ID: %w", err)
	}

	link := disgolink.New(botID,
		disgolink.WithListenerFunc(t.onTrackEnd),
		disgolink.WithListenerFunc(t.onTrackException),
		disgolink.WithListenerFunc(t.onTrackStuck),
	)

	node, err := link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  t.config.Address,
		Password: t.config.Password,
		Secure:   t.config.Secure,
	})
	if err != nil {
		link.Close()
		return fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	t.link = link
	t.botID = botID

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", t.config.Address)
	return nil
}

// Close disconnects from every Lavalink node.
func (t *LavalinkTransport) Close() {
	t.linkMu.Lock()
	defer t.linkMu.Unlock()

	if t.link != nil {
		t.link.Close()
		t.link = nil
	}
}

func (t *LavalinkTransport) client() disgolink.Client {
	t.linkMu.RLock()
	defer t.linkMu.RUnlock()
	return t.link
}

// Connect joins the destination and waits for Discord to hand over the voice
// credentials Lavalink needs.
func (t *LavalinkTransport) Connect(
	ctx context.Context,
	destination domain.Destination,
) (ports.Session, error) {
	link := t.client()
	if link == nil {
		return nil, ErrLavalinkNotConnected
	}

	guildID := destination.GuildID
	pending := newPendingVoiceConnection()

	t.pendingMu.Lock()
	t.pending[guildID] = pending
	t.pendingMu.Unlock()

	defer func() {
		t.pendingMu.Lock()
		delete(t.pending, guildID)
		t.pendingMu.Unlock()
	}()

	if err := t.updater.ChannelVoiceJoinManual(
		guildID.String(),
		destination.ChannelID.String(),
		false,
		true,
	); err != nil {
		return nil, fmt.Errorf("failed to join voice channel %s: %w", destination.Name, err)
	}

	select {
	case <-pending.ready:
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return nil, errors.New("timeout waiting for voice connection")
	}

	session := &lavalinkSession{transport: t, link: link, guildID: guildID}

	t.sessionsMu.Lock()
	t.sessions[guildID] = session
	t.sessionsMu.Unlock()

	return session, nil
}

func (t *LavalinkTransport) session(guildID snowflake.ID) *lavalinkSession {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	return t.sessions[guildID]
}

func (t *LavalinkTransport) removeSession(s *lavalinkSession) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	if t.sessions[s.guildID] == s {
		delete(t.sessions, s.guildID)
	}
}

// OnVoiceServerUpdate forwards Discord voice server updates to Lavalink.
func (t *LavalinkTransport) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	buffer := t.voiceBuffer(guildID)
	if buffer.setVoiceServer(event.Token, event.Endpoint) {
		t.forwardVoiceEvents(guildID, buffer)
	}

	t.signalPending(guildID, false)
}

// OnVoiceStateUpdate forwards the bot's own voice state updates to Lavalink.
func (t *LavalinkTransport) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	t.linkMu.RLock()
	link, botID := t.link, t.botID
	t.linkMu.RUnlock()

	if link == nil || event.UserID != botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	if event.ChannelID == "" {
		link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		t.clearVoiceBuffer(guildID)
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return
	}

	buffer := t.voiceBuffer(guildID)
	if buffer.setVoiceState(&channelID, event.SessionID) {
		t.forwardVoiceEvents(guildID, buffer)
	}

	t.signalPending(guildID, true)
}

func (t *LavalinkTransport) signalPending(guildID snowflake.ID, isVoiceState bool) {
	t.pendingMu.Lock()
	pending := t.pending[guildID]
	t.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(isVoiceState)
	}
}

func (t *LavalinkTransport) voiceBuffer(guildID snowflake.ID) *voiceEventBuffer {
	t.voiceBufferMu.Lock()
	defer t.voiceBufferMu.Unlock()

	buffer, ok := t.voiceBuffers[guildID]
	if !ok {
		buffer = &voiceEventBuffer{}
		t.voiceBuffers[guildID] = buffer
	}
	return buffer
}

func (t *LavalinkTransport) clearVoiceBuffer(guildID snowflake.ID) {
	t.voiceBufferMu.Lock()
	defer t.voiceBufferMu.Unlock()
	delete(t.voiceBuffers, guildID)
}

func (t *LavalinkTransport) forwardVoiceEvents(guildID snowflake.ID, buffer *voiceEventBuffer) {
	link := t.client()
	if link == nil {
		return
	}

	channelID, sessionID, token, endpoint := buffer.take()

	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild", guildID,
		"channel", channelID,
	)

	link.OnVoiceStateUpdate(context.Background(), guildID, channelID, sessionID)
	link.OnVoiceServerUpdate(context.Background(), guildID, token, endpoint)
}

func (t *LavalinkTransport) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	if s := t.session(player.GuildID()); s != nil {
		s.trackEnded(event.Track.Encoded)
	}
}

func (t *LavalinkTransport) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)
}

func (t *LavalinkTransport) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}

// lavalinkSession is the Lavalink player of one guild.
type lavalinkSession struct {
	transport *LavalinkTransport
	link      disgolink.Client
	guildID   snowflake.ID

	mu      sync.Mutex
	current string
	active  atomic.Bool
}

var _ ports.Session = (*lavalinkSession)(nil)

func (s *lavalinkSession) Play(ctx context.Context, localPath string) error {
	node := s.link.BestNode()
	if node == nil {
		return errors.New("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, localPath)
	if err != nil {
		return fmt.Errorf("failed to load track: %w", err)
	}

	track, err := firstTrack(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = track.Encoded
	s.mu.Unlock()
	s.active.Store(true)

	// WithEncodedTrack avoids sending userData:null.
	if err := s.link.Player(s.guildID).Update(ctx, lavalink.WithEncodedTrack(track.Encoded)); err != nil {
		s.active.Store(false)
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

func (s *lavalinkSession) IsActive() bool {
	return s.active.Load()
}

func (s *lavalinkSession) Interrupt() {
	if !s.active.Swap(false) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lavalinkRequestTimeout)
	defer cancel()

	if err := s.link.Player(s.guildID).Update(ctx, lavalink.WithNullTrack()); err != nil {
		slog.Warn("failed to stop playback", "guild", s.guildID, "error", err)
	}
}

func (s *lavalinkSession) Disconnect(ctx context.Context) error {
	s.active.Store(false)
	s.transport.removeSession(s)

	if player := s.link.ExistingPlayer(s.guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", s.guildID, "error", err)
		}
	}

	if err := s.transport.updater.ChannelVoiceJoinManual(s.guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// trackEnded marks the session idle if encoded is the track it started.
func (s *lavalinkSession) trackEnded(encoded string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == encoded {
		s.active.Store(false)
	}
}

// firstTrack picks the track to play from a load result.
func firstTrack(result *lavalink.LoadResult) (lavalink.Track, error) {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return data, nil
	case lavalink.Search:
		if len(data) > 0 {
			return data[0], nil
		}
	case lavalink.Playlist:
		if len(data.Tracks) > 0 {
			return data.Tracks[0], nil
		}
	case lavalink.Exception:
		return lavalink.Track{}, fmt.Errorf("lavalink failed to load track: %s", data.Message)
	}
	return lavalink.Track{}, errors.New("lavalink found no playable track")
}
