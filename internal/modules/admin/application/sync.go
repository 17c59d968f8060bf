package application

import (
	"errors"

	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/admin/domain"
)

// ErrNotOwner is returned when someone other than the owner issues an admin command.
var ErrNotOwner = errors.New("only the bot owner may do this")

// SyncInteractor publishes or clears application commands on behalf of the owner.
type SyncInteractor struct {
	syncer  bot.CommandSyncer
	ownerID string
}

// NewSyncInteractor creates a new SyncInteractor.
// An empty ownerID disables the interactor.
func NewSyncInteractor(syncer bot.CommandSyncer, ownerID string) *SyncInteractor {
	return &SyncInteractor{syncer: syncer, ownerID: ownerID}
}

// Execute runs req if userID is the owner.
func (s *SyncInteractor) Execute(userID string, req *domain.SyncRequest) error {
	if s.ownerID == "" || userID != s.ownerID {
		return ErrNotOwner
	}

	if req.Action == domain.ActionUnsync {
		return s.syncer.UnsyncCommands(req.TargetGuildID())
	}
	return s.syncer.SyncCommands(req.TargetGuildID())
}
