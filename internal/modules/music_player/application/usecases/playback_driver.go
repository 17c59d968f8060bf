package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// DefaultPollInterval is how often a playing session is checked for completion.
const DefaultPollInterval = time.Second

// PlaybackDriver runs one playback loop per tenant. A loop plays the head of
// its queue until the queue drains, then exits; the next enqueue on the idle
// queue starts a new one.
type PlaybackDriver struct {
	registry     domain.QueueRegistry
	fetcher      ports.FetchService
	transport    ports.TransportService
	store        ports.ArtifactStore
	notifier     ports.NotificationSink
	pollInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Compile-time interface checks.
var _ PlaybackStarter = (*PlaybackDriver)(nil)

// NewPlaybackDriver creates a new PlaybackDriver.
func NewPlaybackDriver(
	registry domain.QueueRegistry,
	fetcher ports.FetchService,
	transport ports.TransportService,
	store ports.ArtifactStore,
	notifier ports.NotificationSink,
	pollInterval time.Duration,
) *PlaybackDriver {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &PlaybackDriver{
		registry:     registry,
		fetcher:      fetcher,
		transport:    transport,
		store:        store,
		notifier:     notifier,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start runs the tenant's playback loop in a new goroutine.
// Callers must only start a loop after TenantQueue.Enqueue reported startNeeded.
func (d *PlaybackDriver) Start(tenantID snowflake.ID) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Run(d.ctx, tenantID)
	}()
}

// Shutdown interrupts every running loop and waits for them to exit.
func (d *PlaybackDriver) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

// Run plays the tenant's queue until it is empty or ctx is cancelled.
func (d *PlaybackDriver) Run(ctx context.Context, tenantID snowflake.ID) {
	queue := d.registry.GetOrCreate(tenantID)
	slog.Debug("playback loop started", "guild", tenantID)

	for {
		if ctx.Err() != nil {
			slog.Debug("playback loop cancelled", "guild", tenantID)
			return
		}

		item, ok := queue.Head()
		if !ok {
			slog.Debug("playback loop finished", "guild", tenantID)
			return
		}

		d.playItem(ctx, queue, item)
	}
}

// playItem plays one head item and removes it from the queue.
func (d *PlaybackDriver) playItem(ctx context.Context, queue *domain.TenantQueue, item *domain.QueueItem) {
	tenantID := queue.TenantID()

	if !item.Playable() {
		slog.Warn("dropping unplayable queue item", "guild", tenantID, "item", item.ID)
		queue.Drop(item)
		return
	}

	if !d.store.Exists(item.Artifact.LocalPath) {
		if err := d.refetch(ctx, queue, item); err != nil {
			slog.Warn("dropping queue item after failed re-fetch",
				"guild", tenantID,
				"item", item.ID,
				"error", err,
			)
			queue.Drop(item)
			d.notify(item.ReplyTarget, RemovedFromQueueMessage(item, err))
			return
		}
	}

	if err := d.stream(ctx, queue, item); err != nil {
		slog.Error("failed to play queue item", "guild", tenantID, "item", item.ID, "error", err)
		d.notify(item.ReplyTarget, PlaybackFailedMessage(item))
	}

	artifact := item.Artifact
	if queue.Complete(item) {
		return
	}
	if err := d.store.Remove(artifact.LocalPath); err != nil {
		slog.Warn("failed to remove artifact", "guild", tenantID, "path", artifact.LocalPath, "error", err)
	}
}

// refetch downloads an item's media again after its file went missing.
// The original tenant tag is reused.
func (d *PlaybackDriver) refetch(ctx context.Context, queue *domain.TenantQueue, item *domain.QueueItem) error {
	slog.Info("artifact missing, fetching again",
		"guild", queue.TenantID(),
		"item", item.ID,
		"path", item.Artifact.LocalPath,
	)

	artifact, err := d.fetcher.Resolve(ctx, item.SourceURL, item.Tag)
	if err != nil {
		return err
	}
	if !artifact.IsValid() {
		return &domain.FetchError{Reference: item.SourceURL, Reason: "fetch returned no file"}
	}

	queue.ReplaceArtifact(item, artifact)
	return nil
}

// stream connects to the item's destination, plays it and waits until it ends
// or is interrupted. The session is always disconnected before returning.
func (d *PlaybackDriver) stream(
	ctx context.Context,
	queue *domain.TenantQueue,
	item *domain.QueueItem,
) (err error) {
	tenantID := queue.TenantID()

	defer func() {
		if r := recover(); r != nil {
			err = &domain.PlaybackError{GuildID: tenantID, ItemID: item.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	session, err := d.transport.Connect(ctx, *item.Destination)
	if err != nil {
		return &domain.PlaybackError{GuildID: tenantID, ItemID: item.ID, Err: err}
	}
	defer func() {
		// The loop context may already be cancelled; leaving still has to happen.
		disconnectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if dErr := session.Disconnect(disconnectCtx); dErr != nil {
			slog.Warn("failed to disconnect voice session", "guild", tenantID, "error", dErr)
		}
	}()

	if err := session.Play(ctx, item.Artifact.LocalPath); err != nil {
		return &domain.PlaybackError{GuildID: tenantID, ItemID: item.ID, Err: err}
	}

	slog.Info("playing queue item",
		"guild", tenantID,
		"item", item.ID,
		"title", item.Title(),
		"channel", item.DestinationName(),
	)

	outcome := WaitUntilDoneOrInterrupted(ctx, session, d.pollInterval, queue.ConsumeSkip)
	slog.Debug("queue item ended", "guild", tenantID, "item", item.ID, "outcome", outcome.String())

	return nil
}

func (d *PlaybackDriver) notify(target domain.ReplyTarget, msg domain.Message) {
	if target == nil {
		return
	}
	d.notifier.Notify(target, msg)
}
