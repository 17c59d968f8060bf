package presentation

import (
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/steve/internal/bot"
	"github.com/sglre6355/steve/internal/modules/admin/application"
	"github.com/sglre6355/steve/internal/modules/admin/domain"
)

const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// SyncHandler handles the owner-only sync and unsync text commands.
type SyncHandler struct {
	interactor *application.SyncInteractor
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(interactor *application.SyncInteractor) *SyncHandler {
	return &SyncHandler{interactor: interactor}
}

// HandleSync handles `sync guild|global`.
func (h *SyncHandler) HandleSync(
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
) error {
	return h.handle(m, args, r, domain.ActionSync)
}

// HandleUnsync handles `unsync guild|global`.
func (h *SyncHandler) HandleUnsync(
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
) error {
	return h.handle(m, args, r, domain.ActionUnsync)
}

func (h *SyncHandler) handle(
	m *discordgo.MessageCreate,
	args []string,
	r bot.MessageResponder,
	action domain.SyncAction,
) error {
	scope := ""
	if len(args) > 0 {
		scope = args[0]
	}
	req := domain.NewSyncRequest(action, scope, m.GuildID)
	if req.Scope == domain.ScopeGuild && m.GuildID == "" {
		return r.Reply(&discordgo.MessageEmbed{
			Title:       "Error",
			Description: "Guild commands can only be synced from a server.",
			Color:       colorError,
		})
	}

	if err := h.interactor.Execute(m.Author.ID, req); err != nil {
		if errors.Is(err, application.ErrNotOwner) {
			slog.Warn("rejected admin command", "user", m.Author.ID)
			return nil
		}
		return err
	}

	return r.Reply(&discordgo.MessageEmbed{
		Description: req.ConfirmationMessage(),
		Color:       colorSuccess,
	})
}
