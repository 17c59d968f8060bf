package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// DefaultNotificationBufferSize is the default buffer size for pending notifications.
const DefaultNotificationBufferSize = 100

// Compile-time check that NotificationDispatcher implements ports.NotificationSink.
var _ ports.NotificationSink = (*NotificationDispatcher)(nil)

type notification struct {
	target domain.ReplyTarget
	msg    domain.Message
}

// NotificationDispatcher delivers notifications from a buffered channel on a
// single goroutine, so slow Discord calls never block queue operations.
type NotificationDispatcher struct {
	pending chan notification

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewNotificationDispatcher creates a new NotificationDispatcher with the given buffer size.
func NewNotificationDispatcher(bufferSize int) *NotificationDispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultNotificationBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &NotificationDispatcher{
		pending: make(chan notification, bufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	d.wg.Add(1)
	go d.dispatch()

	return d
}

func (d *NotificationDispatcher) dispatch() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			d.drain()
			return
		case n, ok := <-d.pending:
			if !ok {
				return
			}
			d.deliver(n)
		}
	}
}

// drain delivers notifications that were queued before Close.
func (d *NotificationDispatcher) drain() {
	for {
		select {
		case n, ok := <-d.pending:
			if !ok {
				return
			}
			d.deliver(n)
		default:
			return
		}
	}
}

func (d *NotificationDispatcher) deliver(n notification) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("notification delivery panicked", "title", n.msg.Title, "panic", r)
		}
	}()

	if err := n.target.Notify(n.msg); err != nil {
		slog.Warn("failed to deliver notification", "title", n.msg.Title, "error", err)
	}
}

// Notify queues msg for delivery to target. It never blocks; when the buffer
// is full the notification is dropped.
func (d *NotificationDispatcher) Notify(target domain.ReplyTarget, msg domain.Message) {
	if target == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("attempted to notify after dispatcher closed", "title", msg.Title)
		return
	}

	select {
	case d.pending <- notification{target: target, msg: msg}:
		slog.Debug("queued notification", "title", msg.Title)
	default:
		slog.Warn("notification buffer full, dropping notification", "title", msg.Title)
	}
}

// Close stops the dispatcher after delivering what is already queued.
// Notifications sent after Close are dropped.
func (d *NotificationDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	close(d.pending)

	d.wg.Wait()

	slog.Debug("notification dispatcher closed")
}
