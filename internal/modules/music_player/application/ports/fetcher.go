package ports

import (
	"context"

	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// FetchService resolves a user-supplied media reference into a local file.
type FetchService interface {
	// Resolve downloads the media behind reference. tag scopes the file name
	// to a tenant so concurrent fetches for different guilds never collide.
	// Failures are returned as *domain.FetchError.
	Resolve(ctx context.Context, reference, tag string) (*domain.ArtifactRef, error)
}
