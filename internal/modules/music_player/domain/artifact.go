package domain

// ArtifactRef identifies a fetched media file on local disk.
// Queue items share an ArtifactRef by pointer and never copy it.
type ArtifactRef struct {
	ID        string
	LocalPath string
	Title     string
	SourceURL string
}

// IsValid reports whether the artifact points at a local file.
func (a *ArtifactRef) IsValid() bool {
	return a != nil && a.LocalPath != ""
}
