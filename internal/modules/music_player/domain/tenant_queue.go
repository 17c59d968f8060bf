package domain

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// TenantQueue is the FIFO playback queue of one guild together with its
// lifecycle state. All methods are safe for concurrent use; each queue has its
// own lock so guilds never contend with each other.
type TenantQueue struct {
	mu            sync.Mutex
	tenantID      snowflake.ID
	items         []*QueueItem
	state         QueueState
	skipRequested bool
}

// NewTenantQueue creates an empty, idle queue for a tenant.
func NewTenantQueue(tenantID snowflake.ID) *TenantQueue {
	return &TenantQueue{
		tenantID: tenantID,
		items:    make([]*QueueItem, 0),
		state:    QueueIdle,
	}
}

// TenantID returns the tenant that owns the queue.
func (q *TenantQueue) TenantID() snowflake.ID {
	return q.tenantID
}

// State returns the current lifecycle state.
func (q *TenantQueue) State() QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Len returns the number of queued items, including the one playing.
func (q *TenantQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// SkipRequested reports whether a skip is latched and not yet observed.
func (q *TenantQueue) SkipRequested() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.skipRequested
}

// Enqueue appends item and reports whether the caller must start the driver.
// An idle queue is claimed for playback in the same critical section, so
// concurrent enqueues can never both return true.
func (q *TenantQueue) Enqueue(item *QueueItem) (startNeeded bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, item)

	if q.state != QueueIdle {
		return false
	}
	q.state = QueuePlaying
	q.skipRequested = false
	return true
}

// Head returns the item at the front of the queue.
// When the queue is empty it moves to Idle and returns false; the driver must
// then exit. A pending stop is considered observed here: anything still queued
// was enqueued after the stop and playback resumes with it.
func (q *TenantQueue) Head() (*QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state == QueueStopping {
		q.state = QueuePlaying
		q.skipRequested = false
	}

	if len(q.items) == 0 {
		q.state = QueueIdle
		q.skipRequested = false
		return nil, false
	}

	return q.items[0], true
}

// Drop removes item if it is still the head, without playing it.
func (q *TenantQueue) Drop(item *QueueItem) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 || q.items[0] != item {
		return false
	}
	q.popLocked()
	q.skipRequested = false
	return true
}

// Complete finishes the item that was just played.
// The head is popped unless a stop already cleared the queue. It reports
// whether any remaining item still references the artifact's local path.
func (q *TenantQueue) Complete(item *QueueItem) (stillReferenced bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != QueueStopping && len(q.items) > 0 && q.items[0] == item {
		q.popLocked()
	}
	q.skipRequested = false

	if item == nil || !item.Artifact.IsValid() {
		return false
	}
	return q.referencesLocked(item.Artifact.LocalPath)
}

// ReplaceArtifact swaps the artifact of a queued item, e.g. after a re-fetch.
func (q *TenantQueue) ReplaceArtifact(item *QueueItem, artifact *ArtifactRef) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item.Artifact = artifact
}

// Skip requests that the playing item be interrupted.
// It returns a copy of the item being skipped, or false if nothing is playing.
func (q *TenantQueue) Skip() (QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != QueuePlaying || len(q.items) == 0 {
		return QueueItem{}, false
	}
	q.skipRequested = true
	return *q.items[0], true
}

// ConsumeSkip reports and clears a latched skip or stop interrupt.
func (q *TenantQueue) ConsumeSkip() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.skipRequested {
		return false
	}
	q.skipRequested = false
	return true
}

// Stop discards every queued item and interrupts the playing one.
// Clearing and interrupting happen atomically. On an idle queue it only
// clears and the state stays Idle. It returns the number of discarded items.
func (q *TenantQueue) Stop() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	cleared := len(q.items)
	q.items = make([]*QueueItem, 0)

	if q.state == QueueIdle {
		return cleared
	}
	q.state = QueueStopping
	q.skipRequested = true
	return cleared
}

// Snapshot returns copies of the queued items in play order.
func (q *TenantQueue) Snapshot() []QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make([]QueueItem, len(q.items))
	for i, item := range q.items {
		result[i] = *item
	}
	return result
}

// References reports whether any queued item uses the given local path.
func (q *TenantQueue) References(localPath string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.referencesLocked(localPath)
}

func (q *TenantQueue) referencesLocked(localPath string) bool {
	for _, item := range q.items {
		if item.Artifact != nil && item.Artifact.LocalPath == localPath {
			return true
		}
	}
	return false
}

func (q *TenantQueue) popLocked() {
	q.items[0] = nil
	q.items = q.items[1:]
}
