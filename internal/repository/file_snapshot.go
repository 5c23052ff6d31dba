package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/natefinch/atomic"
)

// FileSnapshotRepo stores the snapshot as one JSON document. Writes go
// through a temp file and rename so a crash never leaves half a board.
type FileSnapshotRepo struct {
	path string
}

func NewFileSnapshotRepo(path string) *FileSnapshotRepo {
	return &FileSnapshotRepo{path: path}
}

// Path returns the backing file.
func (r *FileSnapshotRepo) Path() string {
	return r.path
}

func (r *FileSnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewSnapshot(), nil
	}
	s, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return s, nil
}

func (r *FileSnapshotRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := atomic.WriteFile(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	return nil
}
