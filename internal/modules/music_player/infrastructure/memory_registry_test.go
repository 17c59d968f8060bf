package infrastructure

import (
	"strconv"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

func testItem(id string) *domain.QueueItem {
	return &domain.QueueItem{
		ID:          id,
		Artifact:    &domain.ArtifactRef{ID: id, LocalPath: "/tmp/" + id},
		Destination: &domain.Destination{GuildID: 1, ChannelID: 2, Name: "General"},
	}
}

func TestMemoryRegistry_GetOrCreate(t *testing.T) {
	reg := NewMemoryRegistry()
	guildID := snowflake.ID(123)

	if _, ok := reg.Get(guildID); ok {
		t.Fatal("expected no queue before creation")
	}

	queue := reg.GetOrCreate(guildID)
	if queue == nil {
		t.Fatal("expected queue to be created")
	}
	if queue.TenantID() != guildID {
		t.Errorf("expected tenant %d, got %d", guildID, queue.TenantID())
	}
	if queue.State() != domain.QueueIdle {
		t.Errorf("expected idle queue, got %s", queue.State())
	}

	if again := reg.GetOrCreate(guildID); again != queue {
		t.Error("expected same queue instance")
	}
	if got, ok := reg.Get(guildID); !ok || got != queue {
		t.Error("expected Get to return the created queue")
	}
}

func TestMemoryRegistry_Enqueue(t *testing.T) {
	reg := NewMemoryRegistry()

	if !reg.Enqueue(1, testItem("a")) {
		t.Error("expected first enqueue to need a start")
	}
	if reg.Enqueue(1, testItem("b")) {
		t.Error("expected second enqueue not to need a start")
	}
	if !reg.Enqueue(2, testItem("c")) {
		t.Error("expected other guild to need its own start")
	}

	if reg.Count() != 2 {
		t.Errorf("expected 2 queues, got %d", reg.Count())
	}
	queue, _ := reg.Get(1)
	if queue.Len() != 2 {
		t.Errorf("expected 2 items in guild 1, got %d", queue.Len())
	}
}

func TestMemoryRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewMemoryRegistry()

	var wg sync.WaitGroup
	var mu sync.Mutex
	starts := make(map[snowflake.ID]int)

	for i := range 200 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			guildID := snowflake.ID(n%4 + 1)
			if reg.Enqueue(guildID, testItem(strconv.Itoa(n))) {
				mu.Lock()
				starts[guildID]++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if reg.Count() != 4 {
		t.Errorf("expected 4 queues, got %d", reg.Count())
	}
	for guildID, n := range starts {
		if n != 1 {
			t.Errorf("expected exactly one start for guild %d, got %d", guildID, n)
		}
	}
	for guildID := snowflake.ID(1); guildID <= 4; guildID++ {
		queue, _ := reg.Get(guildID)
		if queue.Len() != 50 {
			t.Errorf("expected 50 items in guild %d, got %d", guildID, queue.Len())
		}
	}
}
