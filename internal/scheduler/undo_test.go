package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

func newTestLedger(snap *domain.Snapshot) *Ledger {
	return NewLedger(snap, WithClock(func() time.Time { return fixedNow }))
}

func TestDeleteTask_ShrinkThenUndoRestoresParentDue(t *testing.T) {
	p := launchProject()
	snap := testutil.NewTestSnapshot(p)
	l := newTestLedger(snap)

	entry, err := l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, "Review", entry.Label)
	assert.Equal(t, fixedNow, entry.DeletedAt)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, d("2025-04-04"), p.Children[0].DueDate, "parent shrinks to Wireframes")
	assert.Equal(t, 1, l.Len())

	restored, err := l.Undo()
	require.NoError(t, err)
	assert.False(t, restored.Relocated)
	assert.Equal(t, "P1:0.1", restored.Address.String())
	assert.Equal(t, []string{"Wireframes", "Review"}, names(p.Children[0].Children))
	assert.Equal(t, d("2025-04-10"), p.Children[0].DueDate)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, domain.CheckInvariants(p))
}

func TestDeleteTask_UndoKeepsLaterWidening(t *testing.T) {
	p := launchProject()
	l := newTestLedger(testutil.NewTestSnapshot(p))

	_, err := l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{0, 1}})
	require.NoError(t, err)
	require.NoError(t, ApplyDateChange(p, domain.NodePath{0}, d("2025-04-01"), d("2025-04-25")))

	_, err = l.Undo()
	require.NoError(t, err)
	assert.Equal(t, d("2025-04-25"), p.Children[0].DueDate, "undo never pulls a due date back")
}

func TestDeleteTask_SubtreeIsRestoredWhole(t *testing.T) {
	p := launchProject()
	l := newTestLedger(testutil.NewTestSnapshot(p))

	_, err := l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Build", "Ship"}, names(p.Children))

	restored, err := l.Undo()
	require.NoError(t, err)
	assert.Equal(t, domain.NodePath{0}, restored.Address.Path)
	assert.Equal(t, []string{"Wireframes", "Review"}, names(p.Children[0].Children))
}

func TestUndo_RelocatesWhenParentIsGone(t *testing.T) {
	p := testutil.NewTestProject("P1", "Launch",
		testutil.NewTestTask("Design", testutil.WithDates("2025-04-01", "2025-04-10"), testutil.WithChildren(
			testutil.NewTestTask("Wireframes", testutil.WithDates("2025-04-01", "2025-04-04")),
			testutil.NewTestTask("Review", testutil.WithDates("2025-04-05", "2025-04-10"), testutil.Bound()),
		)),
	)
	l := newTestLedger(testutil.NewTestSnapshot(p))

	_, err := l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{0, 1}})
	require.NoError(t, err)
	_, err = p.RemoveAt(domain.NodePath{0})
	require.NoError(t, err)

	restored, err := l.Undo()
	require.NoError(t, err)
	assert.True(t, restored.Relocated)
	assert.Equal(t, "P1:0", restored.Address.String())
	assert.Equal(t, domain.DependencyFree, p.Children[0].Dependency)
	assert.Equal(t, d("2025-04-05"), p.Children[0].StartDate)
}

func TestDeleteProject_UndoRestoresAtOriginalIndex(t *testing.T) {
	snap := testutil.NewTestSnapshot(
		testutil.NewTestProject("P1", "Alpha"),
		testutil.NewTestProject("P2", "Beta", testutil.NewTestTask("Only", testutil.WithCompletion(40))),
		testutil.NewTestProject("P3", "Gamma"),
	)
	l := newTestLedger(snap)

	entry, err := l.DeleteProject("p2")
	require.NoError(t, err)
	assert.Equal(t, domain.UndoProject, entry.Kind)
	assert.Equal(t, 1, entry.ProjectIndex)
	assert.Len(t, snap.Projects, 2)

	restored, err := l.Undo()
	require.NoError(t, err)
	assert.Equal(t, "P2", restored.Address.ProjectID)
	require.Len(t, snap.Projects, 3)
	assert.Equal(t, "Beta", snap.Projects[1].Name)
	assert.Equal(t, 40, snap.Projects[1].Completion)
	assert.Equal(t, 4, snap.NextProjectSeq, "undo does not touch the id counter")
}

func TestLedger_MostRecentFirst(t *testing.T) {
	p := launchProject()
	l := newTestLedger(testutil.NewTestSnapshot(p))

	_, err := l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{2}})
	require.NoError(t, err)
	_, err = l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{1}})
	require.NoError(t, err)

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Build", entries[0].Label)
	assert.Equal(t, "Ship", entries[1].Label)

	_, err = l.Undo()
	require.NoError(t, err)
	_, err = l.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Build", "Ship"}, names(p.Children))
}

func TestUndo_EmptyLedger(t *testing.T) {
	l := newTestLedger(domain.NewSnapshot())
	_, err := l.Undo()
	assert.True(t, errors.Is(err, domain.ErrNothingToUndo))
}

func TestDeleteTask_UnknownAddress(t *testing.T) {
	l := newTestLedger(testutil.NewTestSnapshot(launchProject()))

	_, err := l.DeleteTask(domain.Address{ProjectID: "P9", Path: domain.NodePath{0}})
	assert.True(t, errors.Is(err, domain.ErrProjectNotFound))

	_, err = l.DeleteTask(domain.Address{ProjectID: "P1", Path: domain.NodePath{5}})
	assert.True(t, errors.Is(err, domain.ErrNodeNotFound))
	assert.Equal(t, 0, l.Len())
}
