package domain

import "strings"

// SyncAction is what to do with the application commands.
type SyncAction int

const (
	ActionSync SyncAction = iota
	ActionUnsync
)

// SyncScope selects the command set being changed.
type SyncScope int

const (
	ScopeGlobal SyncScope = iota
	ScopeGuild
)

// SyncRequest asks to publish or clear application commands.
type SyncRequest struct {
	Action  SyncAction
	Scope   SyncScope
	GuildID string
}

// NewSyncRequest builds a request from the scope argument of a command.
// Only "guild" selects the guild scope; any other value means global.
func NewSyncRequest(action SyncAction, scope, guildID string) *SyncRequest {
	req := &SyncRequest{Action: action, Scope: ScopeGlobal}
	if strings.EqualFold(strings.TrimSpace(scope), "guild") {
		req.Scope = ScopeGuild
		req.GuildID = guildID
	}
	return req
}

// TargetGuildID is the guild passed to the command API; empty means global.
func (r *SyncRequest) TargetGuildID() string {
	if r.Scope == ScopeGuild {
		return r.GuildID
	}
	return ""
}

// ConfirmationMessage is the reply sent once the request succeeded.
func (r *SyncRequest) ConfirmationMessage() string {
	verb := "Synced"
	if r.Action == ActionUnsync {
		verb = "Un-Synced"
	}

	scope := "global"
	if r.Scope == ScopeGuild {
		scope = "guild"
	}

	return verb + " " + scope + " !"
}
