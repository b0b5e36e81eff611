// Package store provides the persistence gateway adapters: a local JSON
// file store and a remote REST store. Both implement port.StateStore.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// FileStore persists ledger state as a single JSON document. Writes go to
// a temp file first and are renamed into place, so a crash mid-save leaves
// the previous state intact.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a file store at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Save writes the state atomically.
func (s *FileStore) Save(ctx context.Context, state *domain.LedgerState) error {
	if err := ctx.Err(); err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: fmt.Errorf("encode state: %w", err)}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".ledger-state-*")
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &domain.ErrPersistence{Op: "save", Err: err}
	}

	s.logger.Debug("ledger state saved",
		zap.String("path", s.path),
		zap.Int("events", len(state.Events)),
	)
	return nil
}

// Load reads the state. A missing file means no prior state: (nil, nil).
func (s *FileStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ErrPersistence{Op: "load", Err: err}
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.ErrPersistence{Op: "load", Err: err}
	}

	var state domain.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &domain.ErrPersistence{Op: "load", Err: fmt.Errorf("decode state: %w", err)}
	}
	return &state, nil
}
