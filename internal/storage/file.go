package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes artifacts to the local filesystem. Writes go to a
// temporary file that is renamed into place, so a reader never sees a
// half-written artifact.
type FileStore struct{}

func NewFileStore() *FileStore {
	return &FileStore{}
}

func (s *FileStore) Put(ctx context.Context, locator string, body []byte) error {
	loc, err := ParseLocator(locator)
	if err != nil {
		return err
	}
	if loc.Scheme != SchemeFile {
		return fmt.Errorf("file store cannot write %s locators", loc.Scheme)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.FromSlash(loc.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fxload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// COPY on a postgres server reads the file as another user.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
