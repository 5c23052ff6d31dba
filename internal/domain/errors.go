package domain

import "errors"

var (
	// ErrInvalidDateRange indicates a start date later than its due date.
	ErrInvalidDateRange = errors.New("start date is after due date")

	// ErrCycle indicates a move that would place a task inside its own subtree.
	ErrCycle = errors.New("cannot move a task into its own subtree")

	// ErrNodeNotFound indicates a task address that does not resolve.
	ErrNodeNotFound = errors.New("task not found")

	// ErrProjectNotFound indicates an unknown project id.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNothingToUndo indicates an empty undo ledger.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrLeafOnly indicates an edit that only applies to tasks without children.
	ErrLeafOnly = errors.New("completion of a task with sub-tasks is derived from its children")

	// ErrInvalidCompletion indicates a completion outside 0..100.
	ErrInvalidCompletion = errors.New("completion must be between 0 and 100")

	// ErrUnknownPIC indicates a person-in-charge that is not on the roster.
	ErrUnknownPIC = errors.New("person in charge is not on the roster")

	// ErrDuplicatePIC indicates a roster name that is already present.
	ErrDuplicatePIC = errors.New("person in charge is already on the roster")

	// ErrEmptyName indicates a blank project, task or roster name.
	ErrEmptyName = errors.New("name must not be empty")
)
