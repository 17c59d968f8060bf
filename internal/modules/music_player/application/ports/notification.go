package ports

import (
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// NotificationSink delivers status messages to reply targets.
// Delivery is fire-and-forget and not ordered with queue mutations.
type NotificationSink interface {
	Notify(target domain.ReplyTarget, msg domain.Message)
}
