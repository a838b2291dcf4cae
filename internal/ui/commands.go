package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskdeck/internal/store"
)

// Severity classifies the outcome of an action for the status line.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityError
)

// Result is what an action reports back to the status line.
type Result struct {
	Message  string
	Severity Severity
}

func okResult(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...), Severity: SeverityOK}
}

func errResult(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// Action is a user command the shell can perform.
type Action int

const (
	ActionAdd Action = iota
	ActionRefresh
	ActionDelete
	ActionQuit
	actionCount
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRefresh:
		return "refresh"
	case ActionDelete:
		return "delete"
	case ActionQuit:
		return "quit"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// command binds an action to its button and keys.
type command struct {
	action Action
	label  string
	// global works in every focus area.
	global key.Binding
	// list works only while the task list has focus, where plain letters
	// are not typed into an input.
	list key.Binding
}

// handler performs an action against the model.
type handler func(m *Model) (Result, tea.Cmd)

// handlers is indexed by Action; its length ties it to the action set.
var handlers = [actionCount]handler{
	ActionAdd:     (*Model).submitAdd,
	ActionRefresh: (*Model).refresh,
	ActionDelete:  (*Model).deleteSelected,
	ActionQuit:    (*Model).quit,
}

// commands lists every action in button order.
func commands() []command {
	return []command{
		{
			action: ActionAdd,
			label:  "Add",
			global: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "add")),
			list:   key.NewBinding(key.WithDisabled()),
		},
		{
			action: ActionRefresh,
			label:  "Refresh (r)",
			global: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
			list:   key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		},
		{
			action: ActionDelete,
			label:  "Delete (d)",
			global: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
			list:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		},
		{
			action: ActionQuit,
			label:  "Quit (q)",
			global: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
			list:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		},
	}
}

// submitAdd validates the inputs and adds a task.
func (m *Model) submitAdd() (Result, tea.Cmd) {
	title := strings.TrimSpace(m.titleInput.Value())
	description := strings.TrimSpace(m.descInput.Value())
	if title == "" {
		return errResult("Title is required"), nil
	}

	task, err := m.store.Add(title, description)
	if err != nil {
		return errResult("Failed to add: %v%s", err, doctorHint(err)), nil
	}
	m.logger.Debug("task added from shell", "id", task.ID)

	m.titleInput.Reset()
	m.descInput.Reset()
	cmd := m.setFocus(focusTitle)

	if err := m.reload(); err != nil {
		return errResult("Added %q but failed to load: %v", title, err), cmd
	}
	m.selectID(task.ID)
	return okResult("Added %q", title), cmd
}

// refresh reloads the list from the store.
func (m *Model) refresh() (Result, tea.Cmd) {
	if err := m.reload(); err != nil {
		return errResult("Failed to load: %v", err), nil
	}
	return okResult("Loaded %d tasks", len(m.tasks)), nil
}

// deleteSelected removes the task under the cursor.
func (m *Model) deleteSelected() (Result, tea.Cmd) {
	selected := m.selected()
	if selected == nil {
		return errResult("No selection"), nil
	}
	id := selected.ID

	removed, err := m.store.Remove(id)
	if err != nil {
		return errResult("Failed to delete: %v%s", err, doctorHint(err)), nil
	}

	if err := m.reload(); err != nil {
		return errResult("Removed id=%d but failed to load: %v", id, err), nil
	}
	if !removed {
		return okResult("Nothing removed for id=%d", id), nil
	}
	return okResult("Removed id=%d", id), nil
}

// quit ends the session. Nothing is written.
func (m *Model) quit() (Result, tea.Cmd) {
	m.quitting = true
	return Result{}, tea.Quit
}

// doctorHint points at the doctor command when the store refused a
// mutation because its file is malformed.
func doctorHint(err error) string {
	if store.IsMalformed(err) {
		return " (run `taskdeck doctor` for details)"
	}
	return ""
}

// selected returns the task under the cursor, or nil.
func (m *Model) selected() *store.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}
