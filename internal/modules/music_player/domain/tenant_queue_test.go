package domain

import (
	"strconv"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func newTestItem(id, path string) *QueueItem {
	return &QueueItem{
		ID: id,
		Artifact: &ArtifactRef{
			ID:        id,
			LocalPath: path,
			Title:     "Song " + id,
			SourceURL: "https://example.com/" + id,
		},
		Destination: &Destination{GuildID: 1, ChannelID: 2, Name: "General"},
		SourceURL:   "https://example.com/" + id,
	}
}

func TestNewTenantQueue(t *testing.T) {
	q := NewTenantQueue(snowflake.ID(42))

	if q.TenantID() != 42 {
		t.Errorf("expected tenant 42, got %d", q.TenantID())
	}
	if q.State() != QueueIdle {
		t.Errorf("expected idle state, got %s", q.State())
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got length %d", q.Len())
	}
}

func TestTenantQueue_Enqueue(t *testing.T) {
	q := NewTenantQueue(1)

	if !q.Enqueue(newTestItem("a", "/tmp/a")) {
		t.Error("expected startNeeded=true for first enqueue on idle queue")
	}
	if q.State() != QueuePlaying {
		t.Errorf("expected playing state after claim, got %s", q.State())
	}

	if q.Enqueue(newTestItem("b", "/tmp/b")) {
		t.Error("expected startNeeded=false while playing")
	}
	if q.Len() != 2 {
		t.Errorf("expected length 2, got %d", q.Len())
	}
}

func TestTenantQueue_ConcurrentEnqueueClaimsOnce(t *testing.T) {
	q := NewTenantQueue(1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	starts := 0

	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if q.Enqueue(newTestItem(strconv.Itoa(n), "/tmp/"+strconv.Itoa(n))) {
				mu.Lock()
				starts++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if starts != 1 {
		t.Errorf("expected exactly one start, got %d", starts)
	}
	if q.Len() != 100 {
		t.Errorf("expected 100 items, got %d", q.Len())
	}
}

func TestTenantQueue_HeadAndComplete_FIFO(t *testing.T) {
	q := NewTenantQueue(1)
	a := newTestItem("a", "/tmp/a")
	b := newTestItem("b", "/tmp/b")
	q.Enqueue(a)
	q.Enqueue(b)

	head, ok := q.Head()
	if !ok || head != a {
		t.Fatalf("expected head a, got %v", head)
	}
	q.Complete(a)

	head, ok = q.Head()
	if !ok || head != b {
		t.Fatalf("expected head b, got %v", head)
	}
	q.Complete(b)

	if _, ok := q.Head(); ok {
		t.Error("expected empty queue")
	}
	if q.State() != QueueIdle {
		t.Errorf("expected idle after draining, got %s", q.State())
	}
}

func TestTenantQueue_Complete_ReportsSharedArtifact(t *testing.T) {
	q := NewTenantQueue(1)
	shared := &ArtifactRef{ID: "x", LocalPath: "/tmp/x", Title: "X"}
	first := &QueueItem{ID: "1", Artifact: shared, Destination: &Destination{ChannelID: 2}}
	second := &QueueItem{ID: "2", Artifact: shared, Destination: &Destination{ChannelID: 2}}
	q.Enqueue(first)
	q.Enqueue(second)

	if !q.Complete(first) {
		t.Error("expected artifact to be reported as still referenced")
	}
	if q.Complete(second) {
		t.Error("expected artifact to be unreferenced after last item")
	}
}

func TestTenantQueue_Skip(t *testing.T) {
	t.Run("idle queue is a no-op", func(t *testing.T) {
		q := NewTenantQueue(1)
		if _, ok := q.Skip(); ok {
			t.Error("expected nothing to skip")
		}
		if q.SkipRequested() {
			t.Error("expected skip flag to stay clear")
		}
	})

	t.Run("playing queue latches skip for head", func(t *testing.T) {
		q := NewTenantQueue(1)
		a := newTestItem("a", "/tmp/a")
		q.Enqueue(a)
		q.Enqueue(newTestItem("b", "/tmp/b"))

		skipped, ok := q.Skip()
		if !ok || skipped.ID != a.ID {
			t.Fatalf("expected to skip a, got %q", skipped.ID)
		}
		if q.Len() != 2 {
			t.Errorf("skip must not remove items, got length %d", q.Len())
		}
		if !q.ConsumeSkip() {
			t.Error("expected skip to be observed")
		}
		if q.ConsumeSkip() {
			t.Error("expected skip flag to reset after being observed")
		}
	})

	t.Run("completing an item clears a late skip", func(t *testing.T) {
		q := NewTenantQueue(1)
		a := newTestItem("a", "/tmp/a")
		q.Enqueue(a)
		q.Enqueue(newTestItem("b", "/tmp/b"))

		q.Skip()
		q.Complete(a)

		if q.SkipRequested() {
			t.Error("expected skip flag cleared once its item completed")
		}
	})
}

func TestTenantQueue_Stop(t *testing.T) {
	t.Run("idle empty queue stays idle", func(t *testing.T) {
		q := NewTenantQueue(1)

		if cleared := q.Stop(); cleared != 0 {
			t.Errorf("expected 0 cleared, got %d", cleared)
		}
		if q.State() != QueueIdle {
			t.Errorf("expected idle, got %s", q.State())
		}
		if q.SkipRequested() {
			t.Error("expected no interrupt on idle stop")
		}

		q.Stop()
		if q.State() != QueueIdle {
			t.Errorf("expected idle after repeated stop, got %s", q.State())
		}
	})

	t.Run("playing queue clears and interrupts together", func(t *testing.T) {
		q := NewTenantQueue(1)
		a := newTestItem("a", "/tmp/a")
		q.Enqueue(a)
		q.Enqueue(newTestItem("b", "/tmp/b"))
		q.Enqueue(newTestItem("c", "/tmp/c"))

		if cleared := q.Stop(); cleared != 3 {
			t.Errorf("expected 3 cleared, got %d", cleared)
		}
		if q.Len() != 0 {
			t.Errorf("expected empty queue, got length %d", q.Len())
		}
		if q.State() != QueueStopping {
			t.Errorf("expected stopping, got %s", q.State())
		}
		if !q.ConsumeSkip() {
			t.Error("expected interrupt to be latched by stop")
		}

		q.Complete(a)
		if _, ok := q.Head(); ok {
			t.Error("expected no head after stop")
		}
		if q.State() != QueueIdle {
			t.Errorf("expected idle after stop is observed, got %s", q.State())
		}
	})

	t.Run("items enqueued while stopping are kept", func(t *testing.T) {
		q := NewTenantQueue(1)
		a := newTestItem("a", "/tmp/a")
		q.Enqueue(a)
		q.Stop()

		d := newTestItem("d", "/tmp/d")
		if q.Enqueue(d) {
			t.Error("expected no new driver while the old one drains")
		}

		q.ConsumeSkip()
		q.Complete(a)

		head, ok := q.Head()
		if !ok || head != d {
			t.Fatalf("expected d to play after stop, got %v", head)
		}
		if q.State() != QueuePlaying {
			t.Errorf("expected playing, got %s", q.State())
		}
		if q.SkipRequested() {
			t.Error("expected stop interrupt not to leak into the next item")
		}
	})
}

func TestTenantQueue_Drop(t *testing.T) {
	q := NewTenantQueue(1)
	a := newTestItem("a", "/tmp/a")
	b := newTestItem("b", "/tmp/b")
	q.Enqueue(a)
	q.Enqueue(b)

	if q.Drop(b) {
		t.Error("expected drop of non-head item to be refused")
	}
	if !q.Drop(a) {
		t.Error("expected drop of head to succeed")
	}

	head, ok := q.Head()
	if !ok || head != b {
		t.Fatalf("expected b at head, got %v", head)
	}
}

func TestTenantQueue_Snapshot(t *testing.T) {
	q := NewTenantQueue(1)
	a := newTestItem("a", "/tmp/a")
	q.Enqueue(a)
	q.Enqueue(newTestItem("b", "/tmp/b"))

	snapshot := q.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snapshot))
	}
	if snapshot[0].ID != "a" || snapshot[1].ID != "b" {
		t.Errorf("expected order a, b; got %s, %s", snapshot[0].ID, snapshot[1].ID)
	}

	snapshot[0].SourceURL = "changed"
	if a.SourceURL == "changed" {
		t.Error("expected snapshot to be a copy")
	}
}

func TestTenantQueue_ReplaceArtifact(t *testing.T) {
	q := NewTenantQueue(1)
	a := newTestItem("a", "/tmp/a")
	q.Enqueue(a)

	replacement := &ArtifactRef{ID: "a", LocalPath: "/tmp/a2", Title: "Song a"}
	q.ReplaceArtifact(a, replacement)

	if !q.References("/tmp/a2") {
		t.Error("expected queue to reference the new path")
	}
	if q.References("/tmp/a") {
		t.Error("expected old path to be unreferenced")
	}
}
