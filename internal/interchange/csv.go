// Package interchange reads and writes the board's CSV exchange format.
//
// One header row, one row per project (TaskName empty) and per task at any
// depth, then a trailing PICList row carrying the roster:
//
//	ProjectID,ProjectName,TaskName,DueDate,,SubTaskLevel,ParentTaskID,PIC,Completion,Notes,StartDate,Dependencies
//
// SubTaskLevel is the task's depth (0 for top-level tasks) and ParentTaskID
// the dotted position of its parent within the project. Dependencies is a
// |-joined token list in which "parent" marks a task bound to its parent.
package interchange

import (
	"fmt"
	"strings"
)

// Header is the exact first row of every file.
var Header = []string{
	"ProjectID", "ProjectName", "TaskName", "DueDate", "", "SubTaskLevel",
	"ParentTaskID", "PIC", "Completion", "Notes", "StartDate", "Dependencies",
}

const (
	colProjectID = iota
	colProjectName
	colTaskName
	colDueDate
	colBlank
	colLevel
	colParent
	colPIC
	colCompletion
	colNotes
	colStartDate
	colDependencies
	numColumns
)

const (
	rosterMarker  = "PICList"
	parentToken   = "parent"
	dependencySep = "|"
)

// Warning is a correction applied during import. The row is still used.
type Warning struct {
	Line    int
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Field, w.Message)
}

// ImportError aborts a whole import.
type ImportError struct {
	Line  int
	Field string
	Err   error
}

func (e *ImportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

func columnName(col int) string {
	if col == colBlank {
		return "column 5"
	}
	return Header[col]
}

func splitDependencies(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, dependencySep) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
