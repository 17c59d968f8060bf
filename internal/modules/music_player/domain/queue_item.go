package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// QueueItem is one playback request waiting in, or at the head of, a TenantQueue.
type QueueItem struct {
	ID          string
	Artifact    *ArtifactRef
	Destination *Destination
	ReplyTarget ReplyTarget
	SourceURL   string

	// Tag scopes fetched file names to the tenant and is reused on re-fetch.
	Tag         string
	RequesterID snowflake.ID
	EnqueuedAt  time.Time
}

// NewQueueItem creates a QueueItem for a fetched artifact.
func NewQueueItem(
	artifact *ArtifactRef,
	destination *Destination,
	replyTarget ReplyTarget,
	requesterID snowflake.ID,
	tag string,
) *QueueItem {
	sourceURL := ""
	if artifact != nil {
		sourceURL = artifact.SourceURL
	}

	return &QueueItem{
		ID:          uuid.NewString(),
		Artifact:    artifact,
		Destination: destination,
		ReplyTarget: replyTarget,
		SourceURL:   sourceURL,
		Tag:         tag,
		RequesterID: requesterID,
		EnqueuedAt:  time.Now().UTC(),
	}
}

// Playable reports whether the item has both an artifact and a destination.
func (i *QueueItem) Playable() bool {
	return i != nil && i.Artifact.IsValid() && i.Destination.IsValid()
}

// Title returns the display title, falling back to the source URL.
func (i *QueueItem) Title() string {
	if i.Artifact != nil && i.Artifact.Title != "" {
		return i.Artifact.Title
	}
	return i.SourceURL
}

// DestinationName returns the destination channel name, or "" if unset.
func (i *QueueItem) DestinationName() string {
	if i.Destination == nil {
		return ""
	}
	return i.Destination.Name
}
