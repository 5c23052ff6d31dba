package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tasklineHuhTheme applies the formatter palette to huh forms.
func tasklineHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD format")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateDate(s)
}

func validateCompletion(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return errors.New("enter a number from 0 to 100")
	}
	return nil
}

// picSelect offers the roster plus an unassigned option.
func picSelect(title string, roster []string, value *string) *huh.Select[string] {
	opts := []huh.Option[string]{huh.NewOption("(unassigned)", "")}
	for _, name := range roster {
		opts = append(opts, huh.NewOption(name, name))
	}
	return huh.NewSelect[string]().Title(title).Options(opts...).Value(value)
}

// projectForm collects a new project's name and person in charge.
func projectForm(name, pic *string, roster []string) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Project name").Value(name).Validate(validateRequired),
	}
	if len(roster) > 0 {
		fields = append(fields, picSelect("Person in charge", roster, pic))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(tasklineHuhTheme()).WithShowHelp(false)
}

// taskFormInput is the text state behind taskForm.
type taskFormInput struct {
	Name       string
	Start      string
	Due        string
	Completion string
	PIC        string
	Notes      string
	Bound      bool
}

// taskForm collects a new task. Start and completion may be left blank.
func taskForm(in *taskFormInput, roster []string, underTask bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Task name").Value(&in.Name).Validate(validateRequired),
		huh.NewInput().Title("Due date (YYYY-MM-DD)").Placeholder("2025-06-30").Value(&in.Due).Validate(validateDate),
		huh.NewInput().Title("Start date (blank for the due date)").Value(&in.Start).Validate(validateOptionalDate),
		huh.NewInput().Title("Completion %").Placeholder("0").Value(&in.Completion).Validate(validateCompletion),
	}
	if len(roster) > 0 {
		fields = append(fields, picSelect("Person in charge", roster, &in.PIC))
	}
	if underTask {
		fields = append(fields, huh.NewConfirm().Title("Start on the parent's due date?").Value(&in.Bound))
	}
	fields = append(fields, huh.NewText().Title("Notes (markdown)").Value(&in.Notes))
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(tasklineHuhTheme()).WithShowHelp(false)
}

// apply copies the form's text into a request, parsing dates and numbers.
func (in taskFormInput) apply(req *addTaskFlags) error {
	req.name = strings.TrimSpace(in.Name)
	due, err := domain.ParseDate(strings.TrimSpace(in.Due))
	if err != nil {
		return err
	}
	req.due = due
	if s := strings.TrimSpace(in.Start); s != "" {
		if req.start, err = domain.ParseDate(s); err != nil {
			return err
		}
	}
	if s := strings.TrimSpace(in.Completion); s != "" {
		if req.completion, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("invalid completion %q", s)
		}
	}
	req.pic = in.PIC
	req.notes = in.Notes
	req.bound = req.bound || in.Bound
	return nil
}
