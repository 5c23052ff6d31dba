package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/taskline/internal/config"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string { return ansi.ReplaceAllString(s, "") }

// launchBoard:
//
//	P1 Launch
//	  0   Design      04-01..04-10 (unfolded)
//	  0.0   Wireframes 04-01..04-04 100%
//	  0.1   Review     04-05..04-10
//	  1   Build       04-11..04-30  20%
//	  2   Ship        05-01..05-02  (Ben)
func launchBoard() *domain.Snapshot {
	design := testutil.NewTestTask("Design",
		testutil.WithDates("2025-04-01", "2025-04-10"),
		testutil.WithChildren(
			testutil.NewTestTask("Wireframes", testutil.WithDates("2025-04-01", "2025-04-04"), testutil.WithCompletion(100)),
			testutil.NewTestTask("Review", testutil.WithDates("2025-04-05", "2025-04-10"), testutil.WithNotes("# Checklist\n\n- contrast")),
		))
	design.Expanded = true
	launch := testutil.NewTestProject("P1", "Launch",
		design,
		testutil.NewTestTask("Build", testutil.WithDates("2025-04-11", "2025-04-30"), testutil.WithCompletion(20)),
		testutil.NewTestTask("Ship", testutil.WithDates("2025-05-01", "2025-05-02"), testutil.WithPIC("Ben")),
	)
	launch.Expanded = true
	s := testutil.NewTestSnapshot(launch)
	s.Roster = []string{"Ana", "Ben"}
	return s
}

// testApp wires a full App over an in-memory SQLite store seeded with the
// launch board, with the clock fixed at 2025-04-05 09:00.
func testApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteSnapshotRepo(database, nil)
	require.NoError(t, repo.Save(ctx, launchBoard()))

	now := func() time.Time { return testutil.MustDate("2025-04-05").Add(9 * time.Hour) }
	ws, err := service.OpenWorkspace(ctx, repo, service.WithClock(now))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	app := NewApp(service.New(ws), cfg, nil)
	app.Revisions = repo
	return app
}

// executeCmd runs the command tree and captures its output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdWithInput(t, app, "", args...)
}

func executeCmdWithInput(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stripANSI(buf.String()), err
}

func day(s string) time.Time { return testutil.MustDate(s) }

func addr(project string, path ...int) domain.Address {
	return domain.Address{ProjectID: project, Path: domain.NodePath(path)}
}

// --- root ---

func TestRootCmd_PrintsDashboardWhenNotInteractive(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "DASHBOARD")
	assert.Contains(t, out, "Launch")
}

// --- project ---

func TestProjectAdd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "Website", "--pic", "Ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project P2 Website")

	p, err := app.Projects.Get("P2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.PersonInCharge)
}

func TestProjectAdd_RequiresNameWithoutTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project name is required")
}

func TestProjectList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "Launch")
}

func TestProjectShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "show", "P1")
	require.NoError(t, err)
	for _, name := range []string{"Design", "Wireframes", "Review", "Build", "Ship"} {
		assert.Contains(t, out, name)
	}
}

func TestProjectRenameAndRemove(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "rename", "P1", "Relaunch")
	require.NoError(t, err)
	p, err := app.Projects.Get("P1")
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", p.Name)

	out, err := executeCmd(t, app, "project", "rm", "P1")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted project "Relaunch"`)
	assert.Empty(t, app.Projects.List())
}

func TestProjectPIC_UnknownPersonFails(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "pic", "P1", "Zoe")
	require.Error(t, err)
}

// --- task ---

func TestTaskAdd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "add", "P1", "--name", "QA", "--start", "2025-05-03", "--due", "2025-05-06", "--pic", "Ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Added P1:3 QA")

	n, err := app.Tasks.Get(addr("P1", 3))
	require.NoError(t, err)
	assert.Equal(t, day("2025-05-03"), n.StartDate)
	assert.Equal(t, day("2025-05-06"), n.DueDate)
	assert.Equal(t, "Ana", n.PersonInCharge)
}

func TestTaskAdd_AtIndexUnderTask(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "add", "P1:0", "--name", "Brief", "--due", "2025-04-02", "--index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Added P1:0.0 Brief")

	n, err := app.Tasks.Get(addr("P1", 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "Wireframes", n.Name)
}

func TestTaskAdd_RequiresNameAndDueWithoutTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "P1", "--name", "QA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--due")
}

func TestTaskAdd_RejectsBadDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "P1", "--name", "QA", "--due", "05/06/2025")
	require.Error(t, err)
}

func TestTaskShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "show", "P1:0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Review")
	assert.Contains(t, out, "Checklist")
	assert.Contains(t, out, "contrast")
}

func TestTaskShow_RejectsProjectAddress(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "show", "P1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "names a project")
}

func TestTaskDates_KeepsUnsetEnd(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "dates", "P1:2", "--due", "2025-05-05")
	require.NoError(t, err)

	n, err := app.Tasks.Get(addr("P1", 2))
	require.NoError(t, err)
	assert.Equal(t, day("2025-05-01"), n.StartDate)
	assert.Equal(t, day("2025-05-05"), n.DueDate)
}

func TestTaskDates_RequiresAFlag(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "dates", "P1:2")
	require.Error(t, err)
}

func TestTaskComplete(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "complete", "P1:1", "60%")
	require.NoError(t, err)
	assert.Contains(t, out, "P1:1 is 60% complete")

	n, err := app.Tasks.Get(addr("P1", 1))
	require.NoError(t, err)
	assert.Equal(t, 60, n.Completion)
}

func TestTaskComplete_DefaultsToDone(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "complete", "P1:2")
	require.NoError(t, err)

	n, err := app.Tasks.Get(addr("P1", 2))
	require.NoError(t, err)
	assert.Equal(t, 100, n.Completion)
}

func TestTaskNote_FromStdin(t *testing.T) {
	app := testApp(t)

	_, err := executeCmdWithInput(t, app, "ship it **carefully**", "task", "note", "P1:2", "-")
	require.NoError(t, err)

	n, err := app.Tasks.Get(addr("P1", 2))
	require.NoError(t, err)
	assert.Equal(t, "ship it **carefully**", n.Notes)
}

func TestTaskRemoveAndUndo(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "rm", "P1:2")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted task "Ship"`)

	out, err = executeCmd(t, app, "undo", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ship")

	out, err = executeCmd(t, app, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, `Restored task "Ship" at P1:2`)

	n, err := app.Tasks.Get(addr("P1", 2))
	require.NoError(t, err)
	assert.Equal(t, "Ben", n.PersonInCharge)
}

func TestUndo_NothingToUndo(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "undo")
	require.Error(t, err)
}

func TestTaskMove_Before(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "move", "P1:2", "P1:0", "--intent", "before")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved P1:2 to P1:0")

	n, err := app.Tasks.Get(addr("P1", 0))
	require.NoError(t, err)
	assert.Equal(t, "Ship", n.Name)
}

func TestTaskMove_RowOffsetPicksIntent(t *testing.T) {
	app := testApp(t)

	// The top third of Design's row drops before it.
	_, err := executeCmd(t, app, "task", "move", "P1:2", "P1:0", "--row-offset", "4", "--row-height", "30")
	require.NoError(t, err)
	n, err := app.Tasks.Get(addr("P1", 0))
	require.NoError(t, err)
	assert.Equal(t, "Ship", n.Name)

	// The middle third drops onto Build, as its last sub-task.
	out, err := executeCmd(t, app, "task", "move", "P1:0", "P1:2", "--row-offset", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved P1:0 to")
	n, err = app.Tasks.Get(addr("P1", 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "Ship", n.Name)
}

func TestTaskMove_RowOffsetExcludesIntent(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "move", "P1:2", "P1:0", "--intent", "after", "--row-offset", "4")
	require.Error(t, err)
}

func TestTaskMove_BadIntent(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "move", "P1:2", "P1:0", "--intent", "sideways")
	require.Error(t, err)
}

func TestTaskReorderAndSort(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "reorder", "P1", "2", "0")
	require.NoError(t, err)
	n, err := app.Tasks.Get(addr("P1", 0))
	require.NoError(t, err)
	assert.Equal(t, "Ship", n.Name)

	_, err = executeCmd(t, app, "task", "sort", "P1")
	require.NoError(t, err)
	n, err = app.Tasks.Get(addr("P1", 0))
	require.NoError(t, err)
	assert.Equal(t, "Design", n.Name)
}

func TestTaskSort_UnknownKey(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "sort", "P1", "--by", "name")
	require.Error(t, err)
}

func TestTaskFold(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "fold", "P1:0")
	require.NoError(t, err)

	n, err := app.Tasks.Get(addr("P1", 0))
	require.NoError(t, err)
	assert.False(t, n.Expanded)
}

func TestTaskDrag_ResizeEndByDays(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "drag", "P1:2", "--mode", "resize-end", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "P1:2 now runs 2025-05-01 → 2025-05-05")
	assert.Contains(t, out, "timeline widened")
	assert.False(t, app.Interaction.Active())

	n, err := app.Tasks.Get(addr("P1", 2))
	require.NoError(t, err)
	assert.Equal(t, day("2025-05-05"), n.DueDate)
}

func TestTaskDrag_InPlaceCommitsNothing(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "drag", "P1:1", "--days", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "P1:1 unchanged")
}

func TestTaskDrag_RequiresTravel(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "drag", "P1:1")
	require.Error(t, err)
}

// --- roster ---

func TestPIC_AddListRemove(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "pic", "add", "Cleo")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "pic", "ls")
	require.NoError(t, err)
	assert.Equal(t, "Ana\nBen\nCleo\n", out)

	out, err = executeCmd(t, app, "pic", "rm", "Ben")
	require.NoError(t, err)
	assert.Contains(t, out, "1 assignment(s) cleared")

	n, err := app.Tasks.Get(addr("P1", 2))
	require.NoError(t, err)
	assert.Empty(t, n.PersonInCharge)
}

// --- views ---

func TestGantt(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "gantt", "P1", "--width", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "2025-03-31..2025-05-03 (33d)")
	assert.Contains(t, out, "Wireframes")
	assert.Contains(t, out, "Ship")
}

func TestGantt_UnknownProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "gantt", "P9")
	require.Error(t, err)
}

func TestCalendar(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "calendar", "--month", "2025-04")
	require.NoError(t, err)
	assert.Contains(t, out, "APRIL 2025")
	assert.Contains(t, out, "Review")

	out, err = executeCmd(t, app, "cal")
	require.NoError(t, err)
	assert.Contains(t, out, "APRIL 2025", "defaults to the current month")
}

func TestNotify(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "notify", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "P1:0.1 Review")
	assert.NotContains(t, out, "Wireframes")

	out, err = executeCmd(t, app, "notify", "--days", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing overdue or due soon")
}

func TestCheck_Consistent(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "All projects are consistent")
}

func TestRevisions(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "task", "complete", "P1:2", "50")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "revisions", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "REVISION")
	assert.Contains(t, out, "PROJECTS")
}

func TestRevisions_UnsupportedStore(t *testing.T) {
	app := testApp(t)
	app.Revisions = nil

	_, err := executeCmd(t, app, "revisions")
	require.Error(t, err)
}

// --- interchange ---

func TestExportImport_RoundTripThroughFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "board.csv")

	out, err := executeCmd(t, app, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Wireframes")

	out, err = executeCmd(t, app, "import", path, "--merge")
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 1 project(s), 5 task(s)")
	assert.Len(t, app.Projects.List(), 2)
}

func TestImport_ReplaceFromStdin(t *testing.T) {
	app := testApp(t)

	var csv bytes.Buffer
	require.NoError(t, app.Interchange.Export(context.Background(), &csv))

	out, err := executeCmdWithInput(t, app, csv.String(), "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced board with 1 project(s), 5 task(s)")
	assert.Len(t, app.Projects.List(), 1)
}

func TestExport_Stdout(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "Ship")
}
