package usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// PlaybackStarter starts the playback loop of a tenant.
type PlaybackStarter interface {
	Start(tenantID snowflake.ID)
}

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID     snowflake.ID
	RequesterID snowflake.ID
	Reference   string
	ChannelName string // Optional: voice channel name; empty means the requester's channel
	ReplyTarget domain.ReplyTarget
}

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID     snowflake.ID
	RequesterID snowflake.ID
	Reference   string
	Destination *domain.Destination
	ReplyTarget domain.ReplyTarget
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	Item     *domain.QueueItem
	Position int  // 0-indexed position in queue (0 = playing next or now)
	Started  bool // Whether this request started the playback loop
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID     snowflake.ID
	ReplyTarget domain.ReplyTarget
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	Skipped domain.QueueItem
}

// StopInput contains the input for the Stop use case.
type StopInput struct {
	GuildID     snowflake.ID
	ReplyTarget domain.ReplyTarget
}

// StopOutput contains the result of the Stop use case.
type StopOutput struct {
	Cleared int
}

// InspectInput contains the input for the Inspect use case.
type InspectInput struct {
	GuildID snowflake.ID
}

// QueueEntryView is a read-only view of one queued item.
type QueueEntryView struct {
	Title           string
	SourceURL       string
	DestinationName string
}

// QueueService handles queue operations.
type QueueService struct {
	registry     domain.QueueRegistry
	fetcher      ports.FetchService
	destinations *DestinationService
	notifier     ports.NotificationSink
	starter      PlaybackStarter
}

// NewQueueService creates a new QueueService.
func NewQueueService(
	registry domain.QueueRegistry,
	fetcher ports.FetchService,
	destinations *DestinationService,
	notifier ports.NotificationSink,
	starter PlaybackStarter,
) *QueueService {
	return &QueueService{
		registry:     registry,
		fetcher:      fetcher,
		destinations: destinations,
		notifier:     notifier,
		starter:      starter,
	}
}

// Play resolves the destination of a request and enqueues it.
// Every outcome is reported to the request's reply target.
func (q *QueueService) Play(ctx context.Context, input PlayInput) (*EnqueueOutput, error) {
	if strings.TrimSpace(input.Reference) == "" {
		q.notify(input.ReplyTarget, FailedToAddMessage(FailureReason(ErrEmptyReference)))
		return nil, ErrEmptyReference
	}

	destination, err := q.destinations.Resolve(ResolveDestinationInput{
		GuildID:     input.GuildID,
		UserID:      input.RequesterID,
		ChannelName: input.ChannelName,
	})
	if err != nil {
		q.notify(input.ReplyTarget, FailedToAddMessage(FailureReason(err)))
		return nil, err
	}

	return q.Enqueue(ctx, EnqueueInput{
		GuildID:     input.GuildID,
		RequesterID: input.RequesterID,
		Reference:   input.Reference,
		Destination: destination,
		ReplyTarget: input.ReplyTarget,
	})
}

// Enqueue fetches the referenced media and appends it to the guild's queue,
// starting the playback loop if the queue was idle. Nothing is queued when
// the fetch fails.
func (q *QueueService) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, ErrEmptyReference
	}
	if !input.Destination.IsValid() {
		return nil, ErrMissingDestination
	}

	tag := input.GuildID.String()
	artifact, err := q.fetcher.Resolve(ctx, reference, tag)
	if err != nil {
		slog.Warn("failed to fetch media", "guild", input.GuildID, "reference", reference, "error", err)
		q.notify(input.ReplyTarget, FailedToAddMessage(FailureReason(err)))
		return nil, err
	}

	item := domain.NewQueueItem(artifact, input.Destination, input.ReplyTarget, input.RequesterID, tag)
	q.notify(input.ReplyTarget, AddedToQueueMessage(item))

	queue := q.registry.GetOrCreate(input.GuildID)
	startNeeded := q.registry.Enqueue(input.GuildID, item)
	position := max(queue.Len()-1, 0)

	slog.Debug("enqueued item",
		"guild", input.GuildID,
		"item", item.ID,
		"title", item.Title(),
		"position", position,
	)

	if startNeeded {
		q.starter.Start(input.GuildID)
	}

	return &EnqueueOutput{
		Item:     item,
		Position: position,
		Started:  startNeeded,
	}, nil
}

// Skip interrupts the playing item. The issuer and the skipped item's
// requester are both told what was skipped.
func (q *QueueService) Skip(input SkipInput) (*SkipOutput, error) {
	queue, ok := q.registry.Get(input.GuildID)
	if !ok {
		q.notify(input.ReplyTarget, NothingInQueueMessage())
		return nil, ErrNothingToSkip
	}

	skipped, ok := queue.Skip()
	if !ok {
		q.notify(input.ReplyTarget, NothingInQueueMessage())
		return nil, ErrNothingToSkip
	}

	msg := SkippingMessage(skipped)
	q.notify(input.ReplyTarget, msg)
	if skipped.ReplyTarget != nil && skipped.ReplyTarget != input.ReplyTarget {
		q.notify(skipped.ReplyTarget, msg)
	}

	slog.Debug("skip requested", "guild", input.GuildID, "item", skipped.ID)

	return &SkipOutput{Skipped: skipped}, nil
}

// Stop clears the guild's queue and interrupts the playing item.
func (q *QueueService) Stop(input StopInput) *StopOutput {
	cleared := 0
	if queue, ok := q.registry.Get(input.GuildID); ok {
		cleared = queue.Stop()
	}

	q.notify(input.ReplyTarget, StoppingMessage())
	slog.Debug("queue stopped", "guild", input.GuildID, "cleared", cleared)

	return &StopOutput{Cleared: cleared}
}

// Inspect lists the guild's queue in play order. It never creates a queue.
func (q *QueueService) Inspect(input InspectInput) []QueueEntryView {
	queue, ok := q.registry.Get(input.GuildID)
	if !ok {
		return []QueueEntryView{}
	}

	items := queue.Snapshot()
	views := make([]QueueEntryView, len(items))
	for i, item := range items {
		views[i] = QueueEntryView{
			Title:           item.Title(),
			SourceURL:       item.SourceURL,
			DestinationName: item.DestinationName(),
		}
	}
	return views
}

func (q *QueueService) notify(target domain.ReplyTarget, msg domain.Message) {
	if target == nil {
		return
	}
	q.notifier.Notify(target, msg)
}
