package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

const testTimeout = 2 * time.Second

func newItem(id string, guildID snowflake.ID, target domain.ReplyTarget) *domain.QueueItem {
	return &domain.QueueItem{
		ID: id,
		Artifact: &domain.ArtifactRef{
			ID:        id,
			LocalPath: "/downloads/" + id,
			Title:     "Song " + id,
			SourceURL: "https://example.com/" + id,
		},
		Destination: &domain.Destination{GuildID: guildID, ChannelID: 100, Name: "General"},
		ReplyTarget: target,
		SourceURL:   "https://example.com/" + id,
		Tag:         guildID.String(),
	}
}

type mockRegistry struct {
	mu     sync.Mutex
	queues map[snowflake.ID]*domain.TenantQueue
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		queues: make(map[snowflake.ID]*domain.TenantQueue),
	}
}

func (m *mockRegistry) GetOrCreate(tenantID snowflake.ID) *domain.TenantQueue {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue, ok := m.queues[tenantID]
	if !ok {
		queue = domain.NewTenantQueue(tenantID)
		m.queues[tenantID] = queue
	}
	return queue
}

func (m *mockRegistry) Get(tenantID snowflake.ID) (*domain.TenantQueue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue, ok := m.queues[tenantID]
	return queue, ok
}

func (m *mockRegistry) Enqueue(tenantID snowflake.ID, item *domain.QueueItem) bool {
	return m.GetOrCreate(tenantID).Enqueue(item)
}

type fetchCall struct {
	reference string
	tag       string
}

type mockFetcher struct {
	mu        sync.Mutex
	artifacts map[string]*domain.ArtifactRef
	err       error
	calls     []fetchCall
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		artifacts: make(map[string]*domain.ArtifactRef),
	}
}

func (m *mockFetcher) Resolve(_ context.Context, reference, tag string) (*domain.ArtifactRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, fetchCall{reference: reference, tag: tag})
	if m.err != nil {
		return nil, m.err
	}
	if artifact, ok := m.artifacts[reference]; ok {
		return artifact, nil
	}
	return &domain.ArtifactRef{
		ID:        reference,
		LocalPath: "/downloads/" + tag + "-fetched",
		Title:     "Fetched " + reference,
		SourceURL: reference,
	}, nil
}

func (m *mockFetcher) Calls() []fetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fetchCall(nil), m.calls...)
}

type mockTransport struct {
	mu          sync.Mutex
	connectErr  error
	playErrs    map[string]error
	panicPaths  map[string]bool
	keepActive  bool
	onInterrupt func()
	played      []string
	playedCh    chan string
	sessions    []*mockSession
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		playErrs:   make(map[string]error),
		panicPaths: make(map[string]bool),
		playedCh:   make(chan string, 32),
	}
}

func (m *mockTransport) Connect(_ context.Context, destination domain.Destination) (ports.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connectErr != nil {
		err := m.connectErr
		m.connectErr = nil
		return nil, err
	}

	session := &mockSession{transport: m, destination: destination}
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *mockTransport) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.played...)
}

func (m *mockTransport) Sessions() []*mockSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mockSession(nil), m.sessions...)
}

type mockSession struct {
	transport    *mockTransport
	destination  domain.Destination
	active       atomic.Bool
	interrupted  atomic.Bool
	disconnected atomic.Bool
}

func (s *mockSession) Play(_ context.Context, localPath string) error {
	t := s.transport

	t.mu.Lock()
	err := t.playErrs[localPath]
	panics := t.panicPaths[localPath]
	keepActive := t.keepActive
	if err == nil && !panics {
		t.played = append(t.played, localPath)
	}
	t.mu.Unlock()

	if panics {
		panic("decoder exploded")
	}
	if err != nil {
		return err
	}

	s.active.Store(keepActive)
	t.playedCh <- localPath
	return nil
}

func (s *mockSession) IsActive() bool {
	return s.active.Load()
}

func (s *mockSession) Interrupt() {
	s.interrupted.Store(true)
	s.active.Store(false)

	s.transport.mu.Lock()
	hook := s.transport.onInterrupt
	s.transport.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (s *mockSession) Disconnect(_ context.Context) error {
	s.active.Store(false)
	s.disconnected.Store(true)
	return nil
}

type mockStore struct {
	mu       sync.Mutex
	existing map[string]bool
	removed  []string
}

func newMockStore(paths ...string) *mockStore {
	s := &mockStore{existing: make(map[string]bool)}
	for _, path := range paths {
		s.existing[path] = true
	}
	return s
}

func (m *mockStore) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existing[path]
}

func (m *mockStore) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.existing, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *mockStore) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removed...)
}

type notification struct {
	target domain.ReplyTarget
	msg    domain.Message
}

type recordingSink struct {
	mu            sync.Mutex
	notifications []notification
}

func (r *recordingSink) Notify(target domain.ReplyTarget, msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification{target: target, msg: msg})
}

// Titles returns the titles of every message sent to target, in order.
func (r *recordingSink) Titles(target domain.ReplyTarget) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var titles []string
	for _, n := range r.notifications {
		if n.target == target {
			titles = append(titles, n.msg.Title)
		}
	}
	return titles
}

func (r *recordingSink) Messages(target domain.ReplyTarget) []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	var messages []domain.Message
	for _, n := range r.notifications {
		if n.target == target {
			messages = append(messages, n.msg)
		}
	}
	return messages
}

type stubTarget struct {
	name string
}

func (s *stubTarget) Notify(_ domain.Message) error {
	return nil
}

type mockStarter struct {
	mu      sync.Mutex
	started []snowflake.ID
}

func (m *mockStarter) Start(tenantID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, tenantID)
}

func (m *mockStarter) Started() []snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]snowflake.ID(nil), m.started...)
}

type mockDirectory struct {
	userChannels map[snowflake.ID]*domain.Destination
	named        map[string]*domain.Destination
	err          error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		userChannels: make(map[snowflake.ID]*domain.Destination),
		named:        make(map[string]*domain.Destination),
	}
}

func (m *mockDirectory) UserVoiceChannel(_, userID snowflake.ID) (*domain.Destination, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.userChannels[userID], nil
}

func (m *mockDirectory) VoiceChannelByName(_ snowflake.ID, name string) (*domain.Destination, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.named[name], nil
}

func waitForPlay(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case path := <-ch:
		return path
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for playback to start")
		return ""
	}
}

func waitForDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for playback loop to exit")
	}
}

func waitForState(t *testing.T, queue *domain.TenantQueue, want domain.QueueState) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for queue.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for state %s, got %s", want, queue.State())
		}
		time.Sleep(time.Millisecond)
	}
}
