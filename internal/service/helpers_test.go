package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testToday = testutil.MustDate("2025-04-05")

func fixedNow() time.Time {
	return testToday.Add(9 * time.Hour)
}

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

// flakyRepo wraps a store and fails saves on demand.
type flakyRepo struct {
	repository.SnapshotRepo
	failSave bool
}

var errStoreDown = errors.New("store unavailable")

func (r *flakyRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	if r.failSave {
		return errStoreDown
	}
	return r.SnapshotRepo.Save(ctx, s)
}

type harness struct {
	*Services
	repo     *flakyRepo
	observer *recordingObserver
}

// newHarness opens services over an in-memory SQLite store seeded with snap
// (nil for an empty board).
func newHarness(t *testing.T, snap *domain.Snapshot) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := &flakyRepo{SnapshotRepo: repository.NewSQLiteSnapshotRepo(database, nil)}
	ctx := context.Background()
	if snap != nil {
		require.NoError(t, repo.Save(ctx, snap))
	}
	obs := &recordingObserver{}
	ws, err := OpenWorkspace(ctx, repo, WithClock(fixedNow), WithObserver(obs))
	require.NoError(t, err)
	return &harness{Services: New(ws), repo: repo, observer: obs}
}

// stored reloads the board straight from the store.
func (h *harness) stored(t *testing.T) *domain.Snapshot {
	t.Helper()
	s, err := h.repo.Load(context.Background())
	require.NoError(t, err)
	return s
}

// launchBoard is the shared fixture:
//
//	P1 Launch
//	  0   Design      04-01..04-10
//	  0.0   Wireframes 04-01..04-04 100%
//	  0.1   Review     04-05..04-10   0%
//	  1   Build       04-11..04-30  20%
//	  2   Ship        05-01..05-02  (Ben)
func launchBoard() *domain.Snapshot {
	launch := testutil.NewTestProject("P1", "Launch",
		testutil.NewTestTask("Design",
			testutil.WithDates("2025-04-01", "2025-04-10"),
			testutil.WithChildren(
				testutil.NewTestTask("Wireframes", testutil.WithDates("2025-04-01", "2025-04-04"), testutil.WithCompletion(100)),
				testutil.NewTestTask("Review", testutil.WithDates("2025-04-05", "2025-04-10")),
			)),
		testutil.NewTestTask("Build", testutil.WithDates("2025-04-11", "2025-04-30"), testutil.WithCompletion(20)),
		testutil.NewTestTask("Ship", testutil.WithDates("2025-05-01", "2025-05-02"), testutil.WithPIC("Ben")),
	)
	s := testutil.NewTestSnapshot(launch)
	s.Roster = []string{"Ana", "Ben"}
	return s
}

func addr(project string, path ...int) domain.Address {
	return domain.Address{ProjectID: project, Path: domain.NodePath(path)}
}

func day(s string) time.Time {
	return testutil.MustDate(s)
}
