package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sglre6355/steve/internal/modules/music_player/application/ports"
)

// FileStore keeps fetched media in a directory on local disk.
type FileStore struct {
	dir string
}

// NewFileStore creates a new FileStore, creating dir if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory files are downloaded into.
func (s *FileStore) Dir() string {
	return s.dir
}

// Exists reports whether a regular file is present at path.
func (s *FileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes the file at path. A file that is already gone is not an error.
func (s *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Ensure FileStore implements ports.ArtifactStore.
var _ ports.ArtifactStore = (*FileStore)(nil)
