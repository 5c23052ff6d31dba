package interchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

// Result is a parsed file. Project ids are the ones found in the file; the
// caller decides whether to keep or reassign them.
type Result struct {
	Projects []*domain.Project
	Roster   []string
	Warnings []Warning
}

// Import parses a whole file. Any unparseable due date, level or structural
// problem aborts with an *ImportError and nothing is returned. Softer issues
// (a start after its due date, an unknown dependency token, a PIC missing
// from the roster) are corrected and reported as warnings. Every imported
// project is normalized so parents cover their children and completion is
// rolled up.
func Import(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ImportError{Line: 1, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &ImportError{Line: 1, Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, &ImportError{Line: 1, Err: err}
	}

	imp := &importer{byID: map[string]*domain.Project{}}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ImportError{Line: parseErrorLine(err), Err: err}
		}
		line, _ := cr.FieldPos(0)
		if err := imp.row(line, rec); err != nil {
			return nil, err
		}
	}
	imp.finish()
	return &imp.res, nil
}

func parseErrorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}

func checkHeader(rec []string) error {
	if len(rec) > 0 {
		rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
	}
	if len(rec) < colStartDate+1 {
		return fmt.Errorf("header has %d columns, expected %d", len(rec), len(Header))
	}
	for i := 0; i < len(rec) && i < len(Header); i++ {
		if strings.TrimSpace(rec[i]) != Header[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, rec[i], Header[i])
		}
	}
	return nil
}

type importer struct {
	res  Result
	byID map[string]*domain.Project
	// usedPICs keeps first-seen order for names missing from the roster.
	usedPICs []picUse
}

type picUse struct {
	name string
	line int
}

func (imp *importer) warn(line, col int, format string, args ...any) {
	imp.res.Warnings = append(imp.res.Warnings, Warning{Line: line, Field: columnName(col), Message: fmt.Sprintf(format, args...)})
}

// freeText columns are kept byte for byte; every other column is trimmed.
var freeText = map[int]bool{
	colProjectName: true,
	colTaskName:    true,
	colPIC:         true,
	colNotes:       true,
}

func (imp *importer) row(line int, rec []string) error {
	if len(rec) > 0 && strings.TrimSpace(rec[0]) == rosterMarker {
		for _, name := range rec[1:] {
			if strings.TrimSpace(name) != "" && !slices.Contains(imp.res.Roster, name) {
				imp.res.Roster = append(imp.res.Roster, name)
			}
		}
		return nil
	}
	if len(rec) < numColumns {
		rec = append(rec, make([]string, numColumns-len(rec))...)
	}
	for i := range rec {
		if !freeText[i] {
			rec[i] = strings.TrimSpace(rec[i])
		}
	}
	if isBlank(rec) {
		return nil
	}

	id := rec[colProjectID]
	if id == "" {
		return &ImportError{Line: line, Field: Header[colProjectID], Err: errors.New("missing project id")}
	}
	p, ok := imp.byID[id]
	if !ok {
		p = &domain.Project{ID: id, Name: rec[colProjectName]}
		if strings.TrimSpace(p.Name) == "" {
			p.Name = id
		}
		imp.byID[id] = p
		imp.res.Projects = append(imp.res.Projects, p)
	}

	if strings.TrimSpace(rec[colTaskName]) == "" {
		if pic := rec[colPIC]; strings.TrimSpace(pic) != "" {
			p.PersonInCharge = pic
			imp.notePIC(pic, line)
		}
		return nil
	}
	return imp.task(line, rec, p)
}

func (imp *importer) task(line int, rec []string, p *domain.Project) error {
	due, err := domain.ParseDate(rec[colDueDate])
	if err != nil {
		return &ImportError{Line: line, Field: Header[colDueDate], Err: err}
	}

	start := due
	if s := rec[colStartDate]; s != "" {
		parsed, err := domain.ParseDate(s)
		switch {
		case err != nil:
			imp.warn(line, colStartDate, "unparseable start %q, using due date", s)
		case parsed.After(due):
			imp.warn(line, colStartDate, "start %s is after due %s, using due date", s, rec[colDueDate])
		default:
			start = parsed
		}
	}

	level := 0
	if s := rec[colLevel]; s != "" {
		level, err = strconv.Atoi(s)
		if err != nil || level < 0 {
			return &ImportError{Line: line, Field: Header[colLevel], Err: fmt.Errorf("invalid level %q", s)}
		}
	}

	node := &domain.TaskNode{
		Name:           rec[colTaskName],
		StartDate:      start,
		DueDate:        due,
		Completion:     imp.completion(line, rec[colCompletion]),
		PersonInCharge: nonBlank(rec[colPIC]),
		Notes:          rec[colNotes],
		Dependency:     domain.DependencyFree,
	}
	if node.PersonInCharge != "" {
		imp.notePIC(node.PersonInCharge, line)
	}
	for _, tok := range splitDependencies(rec[colDependencies]) {
		if tok == parentToken {
			node.Dependency = domain.DependencyParent
			continue
		}
		imp.warn(line, colDependencies, "ignoring unknown dependency %q", tok)
	}

	parent := domain.NodePath{}
	if level > 0 {
		parent, err = domain.ParsePath(rec[colParent])
		if err != nil {
			return &ImportError{Line: line, Field: Header[colParent], Err: err}
		}
		if len(parent) != level {
			return &ImportError{Line: line, Field: Header[colParent],
				Err: fmt.Errorf("parent %q is not at level %d", rec[colParent], level-1)}
		}
		if _, err := p.Node(parent); err != nil {
			return &ImportError{Line: line, Field: Header[colParent],
				Err: fmt.Errorf("parent %q does not appear before this row", rec[colParent])}
		}
	}
	if parent.IsRoot() && node.Dependency.IsBound() {
		imp.warn(line, colDependencies, "top-level task cannot be bound to a parent, importing as free")
		node.Dependency = domain.DependencyFree
	}
	if _, err := p.InsertAt(parent, -1, node); err != nil {
		return &ImportError{Line: line, Err: err}
	}
	return nil
}

func (imp *importer) completion(line int, s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil {
		imp.warn(line, colCompletion, "unparseable completion %q, using 0", s)
		return 0
	}
	if n < 0 || n > 100 {
		clamped := min(max(n, 0), 100)
		imp.warn(line, colCompletion, "completion %d outside 0..100, using %d", n, clamped)
		return clamped
	}
	return n
}

func (imp *importer) notePIC(name string, line int) {
	for _, u := range imp.usedPICs {
		if u.name == name {
			return
		}
	}
	imp.usedPICs = append(imp.usedPICs, picUse{name: name, line: line})
}

func (imp *importer) finish() {
	for _, u := range imp.usedPICs {
		if !slices.Contains(imp.res.Roster, u.name) {
			imp.res.Roster = append(imp.res.Roster, u.name)
			imp.warn(u.line, colPIC, "%q is not in the PICList, adding it", u.name)
		}
	}
	for _, p := range imp.res.Projects {
		scheduler.Normalize(p)
	}
}

func nonBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
