package interchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Export writes every project and the roster.
func Export(w io.Writer, projects []*domain.Project, roster []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, p := range projects {
		row := make([]string, numColumns)
		row[colProjectID] = p.ID
		row[colProjectName] = p.Name
		row[colPIC] = p.PersonInCharge
		row[colCompletion] = strconv.Itoa(p.Completion)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing project %s: %w", p.ID, err)
		}

		var werr error
		p.Walk(func(n *domain.TaskNode, path domain.NodePath) bool {
			if werr != nil {
				return false
			}
			werr = cw.Write(taskRow(p, n, path))
			return true
		})
		if werr != nil {
			return fmt.Errorf("writing project %s: %w", p.ID, werr)
		}
	}

	if err := cw.Write(append([]string{rosterMarker}, roster...)); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func taskRow(p *domain.Project, n *domain.TaskNode, path domain.NodePath) []string {
	row := make([]string, numColumns)
	row[colProjectID] = p.ID
	row[colProjectName] = p.Name
	row[colTaskName] = n.Name
	row[colDueDate] = domain.FormatDate(n.DueDate)
	row[colLevel] = strconv.Itoa(len(path) - 1)
	row[colParent] = path.Parent().String()
	row[colPIC] = n.PersonInCharge
	row[colCompletion] = strconv.Itoa(n.Completion)
	row[colNotes] = n.Notes
	row[colStartDate] = domain.FormatDate(n.StartDate)
	if n.Dependency.IsBound() {
		row[colDependencies] = parentToken
	}
	return row
}
