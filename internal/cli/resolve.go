package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/spf13/cobra"
)

// printOut writes s to the command's stdout.
func printOut(cmd *cobra.Command, s string) {
	_, _ = io.WriteString(cmd.OutOrStdout(), s)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// resolveTask parses a task address such as "P1:0.2". The project root is
// not a task.
func resolveTask(input string) (domain.Address, error) {
	addr, err := domain.ParseAddress(input)
	if err != nil {
		return domain.Address{}, err
	}
	if addr.Path.IsRoot() {
		return domain.Address{}, fmt.Errorf("%q names a project, not a task (expected PROJECT:PATH, e.g. %s:0)", input, addr.ProjectID)
	}
	return addr, nil
}

// resolveParent parses "P1" (the project's top level) or "P1:0.2" (the
// children of that task).
func resolveParent(input string) (domain.Address, error) {
	return domain.ParseAddress(input)
}

func parseIndex(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q (expected a non-negative integer)", what, s)
	}
	return n, nil
}
