package admin

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/admin/application"
	"github.com/sglre6355/steve/internal/modules/admin/presentation"
)

func init() {
	bot.Register(&AdminModule{})
}

// AdminModule provides owner-only maintenance commands.
type AdminModule struct {
	syncHandler *presentation.SyncHandler
}

// Name returns the module name.
func (m *AdminModule) Name() string {
	return "admin"
}

// Commands returns no slash commands; admin commands are text only.
func (m *AdminModule) Commands() []*discordgo.ApplicationCommand {
	return nil
}

// CommandHandlers returns no interaction handlers.
func (m *AdminModule) CommandHandlers() map[string]bot.InteractionHandler {
	return nil
}

// MessageCommands returns the sync and unsync text commands.
func (m *AdminModule) MessageCommands() []bot.MessageCommand {
	return []bot.MessageCommand{
		{Name: "sync", Handler: m.syncHandler.HandleSync},
		{Name: "unsync", Handler: m.syncHandler.HandleUnsync},
	}
}

// EventHandlers returns no event handlers.
func (m *AdminModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *AdminModule) Init(deps bot.ModuleDependencies) error {
	ownerID := ""
	if deps.Config != nil {
		ownerID = deps.Config.OwnerID
	}
	m.syncHandler = presentation.NewSyncHandler(application.NewSyncInteractor(deps.Syncer, ownerID))
	return nil
}

// Shutdown cleans up module resources.
func (m *AdminModule) Shutdown() error {
	return nil
}
