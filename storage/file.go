package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"board-api/domain"
)

// FileSlot persists the state blob as a single JSON file on disk.
type FileSlot struct {
	path   string
	logger *log.Logger
}

// NewFileSlot creates a file-backed slot at the given path.
func NewFileSlot(path string, logger *log.Logger) *FileSlot {
	if logger == nil {
		logger = log.New()
	}
	return &FileSlot{path: path, logger: logger}
}

func (f *FileSlot) Load(ctx context.Context) (domain.State, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.WithError(err).WithField("path", f.path).Warn("state file unreadable, falling back to defaults")
		}
		return domain.State{}, false
	}
	st, ok := decodeState(data)
	if !ok {
		f.logger.WithField("path", f.path).Warn("state file malformed, falling back to defaults")
	}
	return st, ok
}

// Save writes the blob atomically: temp file, fsync, rename.
func (f *FileSlot) Save(ctx context.Context, state domain.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := syncFile(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func syncFile(path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()
	return fd.Sync()
}
