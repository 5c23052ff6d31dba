package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(name string, start, due string, children ...*TaskNode) *TaskNode {
	s, _ := ParseDate(start)
	d, _ := ParseDate(due)
	return &TaskNode{Name: name, StartDate: s, DueDate: d, Children: children}
}

func sampleProject() *Project {
	return &Project{
		ID:   "P1",
		Name: "Launch",
		Children: []*TaskNode{
			task("Design", "2025-04-01", "2025-04-10",
				task("Wireframes", "2025-04-01", "2025-04-03"),
				task("Review", "2025-04-04", "2025-04-10",
					task("Sign-off", "2025-04-09", "2025-04-10"),
				),
			),
			task("Build", "2025-04-11", "2025-04-30"),
		},
	}
}

func TestProject_Node(t *testing.T) {
	p := sampleProject()

	n, err := p.Node(NodePath{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, "Sign-off", n.Name)

	_, err = p.Node(NodePath{0, 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNodeNotFound))

	_, err = p.Node(NodePath{})
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestProject_WalkOrder(t *testing.T) {
	p := sampleProject()
	var names []string
	var paths []string
	p.Walk(func(n *TaskNode, path NodePath) bool {
		names = append(names, n.Name)
		paths = append(paths, path.String())
		return true
	})
	assert.Equal(t, []string{"Design", "Wireframes", "Review", "Sign-off", "Build"}, names)
	assert.Equal(t, []string{"0", "0.0", "0.1", "0.1.0", "1"}, paths)
	assert.Equal(t, 5, p.TaskCount())
}

func TestProject_InsertAndRemove(t *testing.T) {
	p := sampleProject()

	path, err := p.InsertAt(NodePath{0}, 1, task("Mockups", "2025-04-02", "2025-04-05"))
	require.NoError(t, err)
	assert.Equal(t, NodePath{0, 1}, path)
	assert.Equal(t, "Review", p.Children[0].Children[2].Name)

	removed, err := p.RemoveAt(NodePath{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "Wireframes", removed.Name)
	assert.Equal(t, "Mockups", p.Children[0].Children[0].Name)

	path, err = p.InsertAt(NodePath{}, 99, task("Ship", "2025-05-01", "2025-05-01"))
	require.NoError(t, err)
	assert.Equal(t, NodePath{2}, path, "out-of-range index appends")
}

func TestProject_DateSpan(t *testing.T) {
	p := sampleProject()
	earliest, latest, ok := p.DateSpan()
	require.True(t, ok)
	assert.Equal(t, Date(2025, 4, 1), earliest)
	assert.Equal(t, Date(2025, 4, 30), latest)

	_, _, ok = (&Project{ID: "P2"}).DateSpan()
	assert.False(t, ok)
}

func TestProject_CloneIsDeep(t *testing.T) {
	p := sampleProject()
	cp := p.Clone()
	cp.Children[0].Children[1].Name = "Changed"
	assert.Equal(t, "Review", p.Children[0].Children[1].Name)
}

func TestTaskNode_LatestDescendantDue(t *testing.T) {
	p := sampleProject()
	latest, ok := p.Children[0].LatestDescendantDue()
	require.True(t, ok)
	assert.Equal(t, Date(2025, 4, 10), latest)

	_, ok = p.Children[1].LatestDescendantDue()
	assert.False(t, ok)
}

func TestSnapshot_AllocateProjectIDNeverReuses(t *testing.T) {
	s := NewSnapshot()
	assert.Equal(t, "P1", s.AllocateProjectID())
	assert.Equal(t, "P2", s.AllocateProjectID())
	s.Projects = nil
	assert.Equal(t, "P3", s.AllocateProjectID())
}

func TestSnapshot_ValidatePIC(t *testing.T) {
	s := NewSnapshot()
	s.Roster = []string{"Ana"}
	assert.NoError(t, s.ValidatePIC(""))
	assert.NoError(t, s.ValidatePIC("Ana"))
	assert.True(t, errors.Is(s.ValidatePIC("Bo"), ErrUnknownPIC))
}

func TestCheckInvariants(t *testing.T) {
	p := sampleProject()
	p.Children[0].Children[0].Completion = 40
	p.Children[0].Children[1].Children[0].Completion = 60
	p.Children[0].Children[1].Completion = 60
	p.Children[0].Completion = 50
	p.Children[1].Completion = 0
	p.Completion = 25
	assert.Empty(t, CheckInvariants(p))

	p.Children[0].DueDate = Date(2025, 4, 5)
	p.Children[1].StartDate = Date(2025, 5, 5)
	violations := CheckInvariants(p)
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.Rule)
	}
	assert.ElementsMatch(t, []string{"parent-covers-children", "start<=due"}, rules)
}

func TestRoundedMean(t *testing.T) {
	assert.Equal(t, 67, RoundedMean(200, 3))
	assert.Equal(t, 50, RoundedMean(100, 2))
	assert.Equal(t, 0, RoundedMean(0, 0))
	assert.Equal(t, 1, RoundedMean(1, 2))
}
