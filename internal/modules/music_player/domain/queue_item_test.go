package domain

import "testing"

func TestNewQueueItem(t *testing.T) {
	artifact := &ArtifactRef{ID: "abc", LocalPath: "/tmp/1-youtube-abc-Song.webm", Title: "Song", SourceURL: "https://youtu.be/abc"}
	destination := &Destination{GuildID: 1, ChannelID: 2, Name: "Music"}

	item := NewQueueItem(artifact, destination, nil, 7, "1")

	if item.ID == "" {
		t.Error("expected generated item ID")
	}
	if item.SourceURL != artifact.SourceURL {
		t.Errorf("expected source URL %q, got %q", artifact.SourceURL, item.SourceURL)
	}
	if item.Tag != "1" {
		t.Errorf("expected tag %q, got %q", "1", item.Tag)
	}
	if item.EnqueuedAt.IsZero() {
		t.Error("expected EnqueuedAt to be set")
	}

	other := NewQueueItem(artifact, destination, nil, 7, "1")
	if other.ID == item.ID {
		t.Error("expected unique item IDs")
	}
}

func TestQueueItem_Playable(t *testing.T) {
	artifact := &ArtifactRef{ID: "a", LocalPath: "/tmp/a"}
	destination := &Destination{ChannelID: 2}

	tests := []struct {
		name string
		item *QueueItem
		want bool
	}{
		{name: "complete item", item: &QueueItem{Artifact: artifact, Destination: destination}, want: true},
		{name: "missing artifact", item: &QueueItem{Destination: destination}, want: false},
		{name: "artifact without path", item: &QueueItem{Artifact: &ArtifactRef{ID: "a"}, Destination: destination}, want: false},
		{name: "missing destination", item: &QueueItem{Artifact: artifact}, want: false},
		{name: "destination without channel", item: &QueueItem{Artifact: artifact, Destination: &Destination{Name: "x"}}, want: false},
		{name: "nil item", item: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Playable(); got != tt.want {
				t.Errorf("expected Playable()=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestQueueItem_Title(t *testing.T) {
	withTitle := &QueueItem{Artifact: &ArtifactRef{Title: "Song"}, SourceURL: "https://example.com"}
	if got := withTitle.Title(); got != "Song" {
		t.Errorf("expected %q, got %q", "Song", got)
	}

	withoutTitle := &QueueItem{SourceURL: "https://example.com"}
	if got := withoutTitle.Title(); got != "https://example.com" {
		t.Errorf("expected source URL fallback, got %q", got)
	}
}

func TestQueueState_String(t *testing.T) {
	tests := []struct {
		state QueueState
		want  string
	}{
		{QueueIdle, "idle"},
		{QueuePlaying, "playing"},
		{QueueStopping, "stopping"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
