package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskdeck/internal/store"
)

// Screen rows above the list are fixed so pointer hits map to widgets.
const (
	rowTitleInput = 2
	rowDescInput  = 3
	rowButtons    = 5
	rowListStart  = 8

	labelWidth = 13
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle    = lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("244"))
	focusedLabel  = labelStyle.Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6347"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("252"))
	primaryButton = buttonStyle.Background(lipgloss.Color("#7D56F4")).Foreground(lipgloss.Color("231"))
	dangerButton  = buttonStyle.Background(lipgloss.Color("#C0392B")).Foreground(lipgloss.Color("231"))
)

// buttonSpan is the column range a rendered button occupies.
type buttonSpan struct {
	action Action
	text   string
	start  int
	end    int
}

// buttonSpans lays out the button row; View and hit-testing share it.
func (m *Model) buttonSpans() []buttonSpan {
	spans := make([]buttonSpan, 0, len(m.commands))
	x := 0
	for _, c := range m.commands {
		style := buttonStyle
		switch c.action {
		case ActionAdd:
			style = primaryButton
		case ActionDelete:
			style = dangerButton
		}
		text := style.Render(c.label)
		w := lipgloss.Width(text)
		spans = append(spans, buttonSpan{action: c.action, text: text, start: x, end: x + w})
		x += w + 1
	}
	return spans
}

// listHeight is the number of task rows that fit; 0 means unlimited.
func (m *Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	footer := 2 + lipgloss.Height(m.help.View(m.helpKeys()))
	h := m.height - rowListStart - footer
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// rows 0-1
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	// rows 2-3
	b.WriteString(m.label("Title", focusTitle))
	b.WriteString(m.titleInput.View())
	b.WriteString("\n")
	b.WriteString(m.label("Description", focusDescription))
	b.WriteString(m.descInput.View())
	b.WriteString("\n\n")

	// row 5
	spans := m.buttonSpans()
	buttons := make([]string, 0, len(spans))
	for _, s := range spans {
		buttons = append(buttons, s.text)
	}
	b.WriteString(strings.Join(buttons, " "))
	b.WriteString("\n\n")

	// row 7
	heading := fmt.Sprintf("Tasks (%d)", len(m.tasks))
	if m.focus == focusList {
		heading = cursorStyle.Render(heading)
	} else {
		heading = headingStyle.Render(heading)
	}
	b.WriteString(heading)
	b.WriteString("\n")

	// rows 8…
	b.WriteString(m.renderList())

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))
	return b.String()
}

// renderHeader puts the app name on the left and the clock on the right.
func (m *Model) renderHeader() string {
	title := titleStyle.Render("taskdeck")
	if m.clock.IsZero() {
		return title
	}
	clock := dimStyle.Render(m.clock.Format("15:04:05"))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(clock)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + clock
}

func (m *Model) label(text string, f focusArea) string {
	if m.focus == f {
		return focusedLabel.Render(text)
	}
	return labelStyle.Render(text)
}

func (m *Model) renderList() string {
	if len(m.tasks) == 0 {
		return dimStyle.Render("  No tasks yet. Type a title and press enter.") + "\n"
	}

	start, end := m.offset, len(m.tasks)
	if visible := m.listHeight(); visible > 0 && end-start > visible {
		end = start + visible
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.tasks[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderRow(t store.Task, selected bool) string {
	line := formatTask(t)
	if m.width > 2 {
		line = lipgloss.NewStyle().MaxWidth(m.width - 2).Render(line)
	}
	if !selected {
		return "  " + line
	}
	if m.focus == focusList {
		return cursorStyle.Render("> " + line)
	}
	return "> " + line
}

// formatTask renders a task as a one-line summary.
func formatTask(t store.Task) string {
	line := "• " + t.Title
	if t.Description != "" {
		line += " — " + t.Description
	}
	if t.Timestamp != "" {
		line += "  " + dimStyle.Render(t.Timestamp)
	}
	return line
}

func (m *Model) renderStatus() string {
	if m.status.Severity == SeverityError {
		return errorStyle.Render(m.status.Message)
	}
	return okStyle.Render(m.status.Message)
}

// helpKeys adapts the bindings active in the current focus for bubbles/help.
type helpKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.short }
func (h helpKeys) FullHelp() [][]key.Binding { return h.full }

func (m *Model) helpKeys() helpKeys {
	var global []key.Binding
	var list []key.Binding
	for _, c := range m.commands {
		global = append(global, c.global)
		if c.list.Enabled() {
			list = append(list, c.list)
		}
	}

	var short []key.Binding
	if m.focus == focusList {
		short = append(short, m.nav.up, m.nav.down, m.nav.newTask)
		short = append(short, list...)
		short = append(short, m.nav.showHelp)
	} else {
		short = append(short, m.nav.submit, m.nav.next)
		short = append(short, global...)
	}

	return helpKeys{
		short: short,
		full: [][]key.Binding{
			global,
			append([]key.Binding{m.nav.next, m.nav.prev, m.nav.submit}, list...),
			{m.nav.up, m.nav.down, m.nav.top, m.nav.bottom, m.nav.newTask, m.nav.showHelp},
		},
	}
}
