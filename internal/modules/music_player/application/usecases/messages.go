package usecases

import (
	"errors"
	"fmt"

	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

const unknownIssue = "UNKNOWN ISSUE"

// AddedToQueueMessage announces that item was accepted.
func AddedToQueueMessage(item *domain.QueueItem) domain.Message {
	return domain.Message{
		Kind:  domain.MessageSuccess,
		Title: "Adding to queue",
		Fields: []domain.MessageField{
			{Name: item.Title(), Value: item.SourceURL},
		},
	}
}

// FailedToAddMessage reports why a request was not queued.
func FailedToAddMessage(reason string) domain.Message {
	return domain.Message{
		Kind:  domain.MessageError,
		Title: "Failed to add to queue",
		Fields: []domain.MessageField{
			{Name: "Failure", Value: reason},
		},
	}
}

// FailureReason renders err as the user-facing reason of a rejected request.
func FailureReason(err error) string {
	var resolutionErr *domain.ResolutionError
	if errors.As(err, &resolutionErr) {
		switch resolutionErr.Kind {
		case domain.ResolutionNotFound:
			return fmt.Sprintf("Failed to find voice channel named `%s`", resolutionErr.ChannelName)
		case domain.ResolutionNoDefaultChannel:
			return "Either join a channel or specify one after the url"
		default:
			return unknownIssue
		}
	}

	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return fmt.Sprintf("Could not fetch `%s`: %s", fetchErr.Reference, fetchErr.Reason)
	}

	if errors.Is(err, ErrEmptyReference) {
		return "Give a url or search term to play"
	}

	return unknownIssue
}

// SkippingMessage announces that item is being skipped.
func SkippingMessage(item domain.QueueItem) domain.Message {
	return domain.Message{
		Kind:  domain.MessageSuccess,
		Title: "Skipping",
		Fields: []domain.MessageField{
			{Name: item.Title(), Value: item.SourceURL},
		},
	}
}

// NothingInQueueMessage answers a skip on an idle queue.
func NothingInQueueMessage() domain.Message {
	return domain.Message{
		Kind:  domain.MessageInfo,
		Title: "Nothing in Queue",
	}
}

// StoppingMessage announces that the queue was cleared.
func StoppingMessage() domain.Message {
	return domain.Message{
		Kind:  domain.MessageSuccess,
		Title: "Stopping Queue",
	}
}

// PlaybackFailedMessage reports an item that could not be streamed.
func PlaybackFailedMessage(item *domain.QueueItem) domain.Message {
	return domain.Message{
		Kind:  domain.MessageError,
		Title: "Playback failed",
		Fields: []domain.MessageField{
			{Name: item.Title(), Value: item.SourceURL},
		},
	}
}

// RemovedFromQueueMessage reports an item dropped because its media could not be fetched again.
func RemovedFromQueueMessage(item *domain.QueueItem, err error) domain.Message {
	return domain.Message{
		Kind:        domain.MessageError,
		Title:       "Removed from queue",
		Description: FailureReason(err),
		Fields: []domain.MessageField{
			{Name: item.Title(), Value: item.SourceURL},
		},
	}
}

// QueueMessages renders a queue listing, one message per entry.
func QueueMessages(entries []QueueEntryView) []domain.Message {
	if len(entries) == 0 {
		return []domain.Message{{
			Kind:  domain.MessageInfo,
			Title: "Queue",
			Fields: []domain.MessageField{
				{Name: "Empty", Value: "No items in queue"},
			},
		}}
	}

	messages := make([]domain.Message, 0, len(entries))
	for i, entry := range entries {
		messages = append(messages, domain.Message{
			Kind:  domain.MessageInfo,
			Title: fmt.Sprintf("Queue Item %d", i+1),
			Fields: []domain.MessageField{
				{Name: "Title", Value: entry.Title},
				{Name: "Url", Value: entry.SourceURL},
				{Name: "Voice Channel", Value: fmt.Sprintf("`%s`", entry.DestinationName)},
			},
		})
	}
	return messages
}
