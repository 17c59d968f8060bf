package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// MemoryRegistry is an in-memory implementation of QueueRegistry.
// The map lock only guards entry creation; each queue carries its own lock.
type MemoryRegistry struct {
	mu     sync.RWMutex
	queues map[snowflake.ID]*domain.TenantQueue
}

// NewMemoryRegistry creates a new MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		queues: make(map[snowflake.ID]*domain.TenantQueue),
	}
}

// GetOrCreate returns the queue for the given guild, creating an idle one if absent.
func (r *MemoryRegistry) GetOrCreate(tenantID snowflake.ID) *domain.TenantQueue {
	if queue, ok := r.Get(tenantID); ok {
		return queue
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	queue, ok := r.queues[tenantID]
	if !ok {
		queue = domain.NewTenantQueue(tenantID)
		r.queues[tenantID] = queue
	}
	return queue
}

// Get returns the queue for the given guild without creating it.
func (r *MemoryRegistry) Get(tenantID snowflake.ID) (*domain.TenantQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	queue, ok := r.queues[tenantID]
	return queue, ok
}

// Enqueue appends item to the guild's queue and reports whether a playback
// loop must be started for it.
func (r *MemoryRegistry) Enqueue(tenantID snowflake.ID, item *domain.QueueItem) bool {
	return r.GetOrCreate(tenantID).Enqueue(item)
}

// Count returns the number of guilds with a queue (for testing/monitoring).
func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.queues)
}

// Ensure MemoryRegistry implements QueueRegistry.
var _ domain.QueueRegistry = (*MemoryRegistry)(nil)
