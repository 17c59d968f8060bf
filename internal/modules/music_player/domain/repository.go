package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// QueueRegistry maps tenants to their queues.
// Entries are created on demand and never removed.
type QueueRegistry interface {
	// GetOrCreate returns the tenant's queue, creating an idle one if absent.
	GetOrCreate(tenantID snowflake.ID) *TenantQueue

	// Get returns the tenant's queue without creating it.
	Get(tenantID snowflake.ID) (*TenantQueue, bool)

	// Enqueue appends item to the tenant's queue and reports whether the
	// caller must start the playback loop.
	Enqueue(tenantID snowflake.ID, item *QueueItem) (startNeeded bool)
}
