package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
	"github.com/sglre6355/steve/internal/modules/music_player/domain"
)

// DefaultFetchTimeout bounds a single download.
const DefaultFetchTimeout = 5 * time.Minute

// ytdlpPrintTemplate is printed once the file has reached its final path.
const ytdlpPrintTemplate = "after_move:%(id)s\t%(title)s\t%(webpage_url)s\t%(filepath)s"

// YtdlpConfig configures the yt-dlp fetcher.
type YtdlpConfig struct {
	Dir         string
	Format      string
	Timeout     time.Duration
	AutoInstall bool
}

// ytdlpRequest is one invocation of yt-dlp.
type ytdlpRequest struct {
	Reference      string
	Format         string
	OutputTemplate string
}

// ytdlpRunner executes yt-dlp and returns its stdout and stderr.
type ytdlpRunner func(ctx context.Context, req ytdlpRequest) (stdout, stderr string, err error)

// YtdlpFetcher downloads media with yt-dlp into a local directory.
type YtdlpFetcher struct {
	config      YtdlpConfig
	run         ytdlpRunner
	installOnce sync.Once
}

// NewYtdlpFetcher creates a new YtdlpFetcher.
func NewYtdlpFetcher(config YtdlpConfig) *YtdlpFetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultFetchTimeout
	}
	if config.Format == "" {
		config.Format = "bestaudio/best"
	}

	return &YtdlpFetcher{
		config: config,
		run:    runYtdlp,
	}
}

// Resolve downloads the media behind reference. A URL is fetched directly;
// anything else is searched for and the first result is used.
func (f *YtdlpFetcher) Resolve(
	ctx context.Context,
	reference, tag string,
) (*domain.ArtifactRef, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, &domain.FetchError{Reference: reference, Reason: "empty reference"}
	}

	f.ensureInstalled(ctx)

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req := ytdlpRequest{
		Reference:      reference,
		Format:         f.config.Format,
		OutputTemplate: filepath.Join(f.config.Dir, outputTemplate(tag)),
	}

	stdout, stderr, err := f.run(ctx, req)
	if err != nil {
		return nil, &domain.FetchError{Reference: reference, Reason: failureReason(stderr), Err: err}
	}

	artifact, err := parseYtdlpOutput(stdout, reference)
	if err != nil {
		return nil, err
	}

	slog.Debug("fetched media", "reference", reference, "path", artifact.LocalPath, "title", artifact.Title)

	return artifact, nil
}

func (f *YtdlpFetcher) ensureInstalled(ctx context.Context) {
	if !f.config.AutoInstall {
		return
	}
	f.installOnce.Do(func() {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			slog.Warn("failed to install yt-dlp, relying on PATH", "error", err)
		}
	})
}

// outputTemplate prefixes yt-dlp's file name template with the tenant tag.
func outputTemplate(tag string) string {
	const base = "%(extractor)s-%(id)s-%(title)s.%(ext)s"
	if tag == "" {
		return base
	}
	return tag + "-" + base
}

// parseYtdlpOutput reads the first printed line. Playlists yield one line
// per entry; only the first entry is used.
func parseYtdlpOutput(stdout, reference string) (*domain.ArtifactRef, error) {
	for line := range strings.SplitSeq(strings.TrimSpace(stdout), "\n") {
		parts := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(parts) < 4 || parts[3] == "" || parts[3] == "NA" {
			continue
		}

		sourceURL := valueOr(parts[2], reference)
		return &domain.ArtifactRef{
			ID:        valueOr(parts[0], ""),
			Title:     valueOr(parts[1], sourceURL),
			SourceURL: sourceURL,
			LocalPath: parts[3],
		}, nil
	}

	return nil, &domain.FetchError{Reference: reference, Reason: "yt-dlp reported no downloaded file"}
}

// valueOr returns v unless yt-dlp printed it as missing.
func valueOr(v, fallback string) string {
	if v == "" || v == "NA" {
		return fallback
	}
	return v
}

// failureReason extracts yt-dlp's last error line from stderr.
func failureReason(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return strings.TrimPrefix(line, "ERROR: ")
		}
	}
	return "yt-dlp failed"
}

func runYtdlp(ctx context.Context, req ytdlpRequest) (string, string, error) {
	res, err := ytdlp.New().
		Format(req.Format).
		Output(req.OutputTemplate).
		RestrictFilenames().
		NoPlaylist().
		NoCheckCertificates().
		DefaultSearch("auto").
		SourceAddress("0.0.0.0").
		NoSimulate().
		Print(ytdlpPrintTemplate).
		NoWarnings().
		IgnoreConfig().
		Run(ctx, req.Reference)
	if res == nil {
		if err == nil {
			err = fmt.Errorf("yt-dlp returned no result")
		}
		return "", "", err
	}
	return res.Stdout, res.Stderr, err
}

// Ensure YtdlpFetcher implements ports.FetchService.
var _ ports.FetchService = (*YtdlpFetcher)(nil)
