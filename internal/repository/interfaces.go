package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// SnapshotRepo persists the whole board. Load returns an empty board when
// nothing has been saved yet.
type SnapshotRepo interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, s *domain.Snapshot) error
}

// Revision records one successful save.
type Revision struct {
	ID       string
	SavedAt  time.Time
	Projects int
	Tasks    int
	Bytes    int
}

// RevisionLister is implemented by stores that keep a save history.
type RevisionLister interface {
	Revisions(ctx context.Context, limit int) ([]Revision, error)
}
