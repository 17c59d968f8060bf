package ports

// ArtifactStore checks and reclaims fetched files.
type ArtifactStore interface {
	// Exists reports whether the file at path is present.
	Exists(path string) bool

	// Remove deletes the file at path. A missing file is not an error.
	Remove(path string) error
}
