package interchange

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/scheduler"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = testutil.MustDate

const header = "ProjectID,ProjectName,TaskName,DueDate,,SubTaskLevel,ParentTaskID,PIC,Completion,Notes,StartDate,Dependencies\n"

func TestExport_Format(t *testing.T) {
	p := testutil.NewTestProject("P1", "Launch",
		testutil.NewTestTask("Design", testutil.WithDates("2025-04-01", "2025-04-12"), testutil.WithChildren(
			testutil.NewTestTask("Review", testutil.WithDates("2025-04-10", "2025-04-12"),
				testutil.Bound(), testutil.WithCompletion(50), testutil.WithPIC("Bea"), testutil.WithNotes("Check a, b")),
		)),
	)
	p.PersonInCharge = "Ana"
	scheduler.Normalize(p)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []*domain.Project{p}, []string{"Ana", "Bea"}))

	want := header +
		"P1,Launch,,,,,,Ana,50,,,\n" +
		"P1,Launch,Design,2025-04-12,,0,,,50,,2025-04-01,\n" +
		"P1,Launch,Review,2025-04-12,,1,0,Bea,50,\"Check a, b\",2025-04-10,parent\n" +
		"PICList,Ana,Bea\n"
	assert.Equal(t, want, buf.String())
}

type taskTuple struct {
	Path       string
	Name       string
	Start      time.Time
	Due        time.Time
	Completion int
	Notes      string
	Mode       domain.DependencyMode
}

func tuples(p *domain.Project) []taskTuple {
	var out []taskTuple
	p.Walk(func(n *domain.TaskNode, path domain.NodePath) bool {
		out = append(out, taskTuple{path.String(), n.Name, n.StartDate, n.DueDate, n.Completion, n.Notes, n.Dependency})
		return true
	})
	return out
}

func TestExportImport_RoundTrip(t *testing.T) {
	launch := testutil.NewTestProject("P1", "Launch",
		testutil.NewTestTask("Design", testutil.WithDates("2025-04-01", "2025-04-20"), testutil.WithChildren(
			testutil.NewTestTask("Wireframes", testutil.WithDates("2025-04-01", "2025-04-04"), testutil.WithCompletion(100),
				testutil.WithNotes("multi\nline \"quoted\" notes")),
			testutil.NewTestTask("Review", testutil.WithDates("2025-04-20", "2025-04-20"), testutil.Bound(), testutil.WithChildren(
				testutil.NewTestTask("Sign-off", testutil.WithDates("2025-04-18", "2025-04-19"), testutil.WithCompletion(30)),
			)),
		)),
		testutil.NewTestTask("Ship", testutil.WithDates("2025-05-01", "2025-05-02"), testutil.WithPIC("Ana")),
	)
	ops := testutil.NewTestProject("P4", "Ops")
	ops.PersonInCharge = "Bea"
	for _, p := range []*domain.Project{launch, ops} {
		scheduler.Normalize(p)
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []*domain.Project{launch, ops}, []string{"Ana", "Bea"}))

	res, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"Ana", "Bea"}, res.Roster)
	require.Len(t, res.Projects, 2)

	assert.Empty(t, cmp.Diff(tuples(launch), tuples(res.Projects[0])))
	assert.Equal(t, "Launch", res.Projects[0].Name)
	assert.Equal(t, launch.Completion, res.Projects[0].Completion)
	assert.Equal(t, "Ops", res.Projects[1].Name)
	assert.Equal(t, "Bea", res.Projects[1].PersonInCharge)
	assert.Empty(t, res.Projects[1].Children)
	assert.Empty(t, domain.CheckInvariants(res.Projects[0]))
}

func TestExportImport_RoundTripKeepsFreeTextVerbatim(t *testing.T) {
	notes := []string{
		"  - step one\n  - step two\n",
		"trailing spaces   ",
		"\tindented, with \"quotes\", commas\n\nand a blank line",
		"",
	}
	p := testutil.NewTestProject("P1", " Launch ",
		testutil.NewTestTask("  Design", testutil.WithDates("2025-04-01", "2025-04-20"), testutil.WithNotes(notes[0]), testutil.WithChildren(
			testutil.NewTestTask("Review ", testutil.WithDates("2025-04-20", "2025-04-20"), testutil.Bound(), testutil.WithNotes(notes[1]),
				testutil.WithChildren(
					testutil.NewTestTask("Sign-off", testutil.WithDates("2025-04-18", "2025-04-19"), testutil.WithNotes(notes[2])),
				)),
		)),
		testutil.NewTestTask("Ship", testutil.WithDates("2025-05-01", "2025-05-02"), testutil.WithNotes(notes[3])),
	)
	scheduler.Normalize(p)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []*domain.Project{p}, nil))

	res, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Projects, 1)

	got := res.Projects[0]
	assert.Equal(t, " Launch ", got.Name)
	if diff := cmp.Diff(tuples(p), tuples(got)); diff != "" {
		t.Errorf("round trip changed tasks (-want +got):\n%s", diff)
	}
	assert.Equal(t, notes[2], got.Children[0].Children[0].Children[0].Notes)
}

func TestImport_TrimsStructuralColumnsOnly(t *testing.T) {
	in := header + "P1,Launch, Design ,  2025-04-10 ,, 0 ,, , 40 , keep me ,2025-04-01 ,\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	n := res.Projects[0].Children[0]
	assert.Equal(t, " Design ", n.Name)
	assert.Equal(t, d("2025-04-10"), n.DueDate)
	assert.Equal(t, d("2025-04-01"), n.StartDate)
	assert.Equal(t, 40, n.Completion)
	assert.Equal(t, " keep me ", n.Notes)
	assert.Empty(t, n.PersonInCharge, "a blank PIC is not a roster name")
}

func TestImport_BadDueDateAborts(t *testing.T) {
	in := header +
		"P1,Launch,Design,2025-04-10,,0,,,0,,2025-04-01,\n" +
		"P1,Launch,Build,next week,,0,,,0,,2025-04-01,\n"

	res, err := Import(strings.NewReader(in))

	assert.Nil(t, res)
	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 3, ie.Line)
	assert.Equal(t, "DueDate", ie.Field)
	assert.Contains(t, err.Error(), "line 3: DueDate")
}

func TestImport_StartAfterDueIsCorrected(t *testing.T) {
	in := header + "P1,Launch,Design,2025-04-10,,0,,,0,,2025-04-15,\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].Line)
	assert.Equal(t, "StartDate", res.Warnings[0].Field)
	n := res.Projects[0].Children[0]
	assert.Equal(t, d("2025-04-10"), n.StartDate)
	assert.Equal(t, d("2025-04-10"), n.DueDate)
}

func TestImport_MissingStartDefaultsToDue(t *testing.T) {
	in := header + "P1,Launch,Design,2025-04-10,,0,,,0,,,\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, d("2025-04-10"), res.Projects[0].Children[0].StartDate)
}

func TestImport_DependencyTokens(t *testing.T) {
	in := header +
		"P1,Launch,Design,2025-04-10,,0,,,0,,2025-04-01,parent\n" +
		"P1,Launch,Review,2025-04-12,,1,0,,0,,2025-04-10,parent|after:Design\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	design := res.Projects[0].Children[0]
	assert.Equal(t, domain.DependencyFree, design.Dependency, "top-level tasks are never bound")
	assert.Equal(t, domain.DependencyParent, design.Children[0].Dependency)
	assert.Equal(t, d("2025-04-12"), design.DueDate, "parent widened to cover the child")
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "Dependencies", res.Warnings[0].Field)
	assert.Contains(t, res.Warnings[1].Message, "after:Design")
}

func TestImport_ShortRowsAndMissingDependenciesColumn(t *testing.T) {
	in := "ProjectID,ProjectName,TaskName,DueDate,,SubTaskLevel,ParentTaskID,PIC,Completion,Notes,StartDate\n" +
		"P1,Launch,Design,2025-04-10,,0,,,40,,2025-04-01\n" +
		"P1,Launch,Polish,2025-04-11\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, res.Projects[0].Children, 2)
	assert.Equal(t, 40, res.Projects[0].Children[0].Completion)
	assert.Equal(t, 20, res.Projects[0].Completion)
}

func TestImport_UnknownParentAborts(t *testing.T) {
	in := header + "P1,Launch,Orphan,2025-04-10,,1,3,,0,,2025-04-01,\n"

	_, err := Import(strings.NewReader(in))

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "ParentTaskID", ie.Field)
}

func TestImport_LevelMustMatchParentDepth(t *testing.T) {
	in := header +
		"P1,Launch,Design,2025-04-10,,0,,,0,,2025-04-01,\n" +
		"P1,Launch,Deep,2025-04-10,,2,0,,0,,2025-04-01,\n"

	_, err := Import(strings.NewReader(in))

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 3, ie.Line)
}

func TestImport_PICsMissingFromRosterAreAdded(t *testing.T) {
	in := header +
		"P1,Launch,,,,,,Cy,,,,\n" +
		"P1,Launch,Design,2025-04-10,,0,,Ana,0,,2025-04-01,\n" +
		"PICList,Ana\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Cy"}, res.Roster)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].Line)
	assert.Equal(t, "Cy", res.Projects[0].PersonInCharge)
}

func TestImport_CompletionCorrections(t *testing.T) {
	in := header +
		"P1,Launch,A,2025-04-10,,0,,,150,,2025-04-01,\n" +
		"P1,Launch,B,2025-04-10,,0,,,lots,,2025-04-01,\n" +
		"P1,Launch,C,2025-04-10,,0,,,75%,,2025-04-01,\n"

	res, err := Import(strings.NewReader(in))

	require.NoError(t, err)
	kids := res.Projects[0].Children
	assert.Equal(t, 100, kids[0].Completion)
	assert.Equal(t, 0, kids[1].Completion)
	assert.Equal(t, 75, kids[2].Completion)
	assert.Len(t, res.Warnings, 2)
}

func TestImport_HeaderErrors(t *testing.T) {
	_, err := Import(strings.NewReader(""))
	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Line)

	_, err = Import(strings.NewReader("Name,Due\nx,y\n"))
	assert.True(t, errors.As(err, &ie))

	res, err := Import(strings.NewReader("\ufeff" + header))
	require.NoError(t, err)
	assert.Empty(t, res.Projects)
}

func TestImport_MissingProjectIDAborts(t *testing.T) {
	_, err := Import(strings.NewReader(header + ",Launch,Design,2025-04-10,,0,,,0,,2025-04-01,\n"))
	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "ProjectID", ie.Field)
}
