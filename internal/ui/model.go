package ui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/store"
)

// TaskStore is the part of the task store the shell uses.
type TaskStore interface {
	List() ([]store.Task, error)
	Add(title, description string) (store.Task, error)
	Remove(id int) (bool, error)
}

type focusArea int

const (
	focusTitle focusArea = iota
	focusDescription
	focusList
	focusCount
)

// navKeys move the cursor and focus.
type navKeys struct {
	next     key.Binding
	prev     key.Binding
	up       key.Binding
	down     key.Binding
	top      key.Binding
	bottom   key.Binding
	submit   key.Binding
	newTask  key.Binding
	showHelp key.Binding
}

func defaultNavKeys() navKeys {
	return navKeys{
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		newTask:  key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "new task")),
		showHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// Model is the interactive shell's bubbletea model.
type Model struct {
	store  TaskStore
	logger *log.Logger

	titleInput textinput.Model
	descInput  textinput.Model
	focus      focusArea

	tasks  []store.Task // newest first
	cursor int
	offset int

	status   Result
	commands []command
	nav      navKeys
	help     help.Model

	width    int
	height   int
	mouse    bool
	quitting bool

	changes <-chan struct{}

	now   func() time.Time
	clock time.Time
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the logger for shell events.
func WithLogger(logger *log.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMouse enables pointer hit-testing.
func WithMouse(enabled bool) ModelOption {
	return func(m *Model) {
		m.mouse = enabled
	}
}

// WithChanges reloads the list whenever the channel delivers a value.
func WithChanges(ch <-chan struct{}) ModelOption {
	return func(m *Model) {
		m.changes = ch
	}
}

// WithClock sets the time source for the header clock.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// NewModel builds a shell over st.
func NewModel(st TaskStore, opts ...ModelOption) *Model {
	title := textinput.New()
	title.Placeholder = "Task title…"
	title.Prompt = ""
	title.CharLimit = 0

	desc := textinput.New()
	desc.Placeholder = "Task description…"
	desc.Prompt = ""
	desc.CharLimit = 0

	m := &Model{
		store:      st,
		logger:     log.New(io.Discard),
		titleInput: title,
		descInput:  desc,
		commands:   commands(),
		nav:        defaultNavKeys(),
		help:       help.New(),
		status:     okResult("ready"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type storeChangedMsg struct{}

type clockMsg time.Time

func (m *Model) Init() tea.Cmd {
	result, _ := m.refresh()
	m.status = result
	m.clock = m.now()
	cmds := []tea.Cmd{m.setFocus(focusTitle), textinput.Blink, m.tickClock()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if !m.mouse {
			return m, nil
		}
		return m, m.handleMouse(msg)
	case storeChangedMsg:
		if err := m.reload(); err != nil {
			m.status = errResult("Failed to load: %v", err)
		}
		return m, waitForChange(m.changes)
	case clockMsg:
		m.clock = m.now()
		return m, m.tickClock()
	}

	return m, m.updateInputs(msg)
}

// Dispatch runs an action and records its result on the status line.
func (m *Model) Dispatch(a Action) tea.Cmd {
	if a < 0 || a >= actionCount {
		return nil
	}
	m.logger.Debug("action", "name", a.String())
	result, cmd := handlers[a](m)
	if result.Message != "" {
		m.status = result
	}
	return cmd
}

// Status returns the outcome of the most recent action.
func (m *Model) Status() Result {
	return m.status
}

// Tasks returns the displayed tasks, newest first.
func (m *Model) Tasks() []store.Task {
	return m.tasks
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	for _, c := range m.commands {
		if key.Matches(msg, c.global) {
			return m.Dispatch(c.action)
		}
	}

	switch {
	case key.Matches(msg, m.nav.next):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.nav.prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus != focusList {
		if key.Matches(msg, m.nav.submit) {
			return m.Dispatch(ActionAdd)
		}
		return m.updateInputs(msg)
	}

	for _, c := range m.commands {
		if key.Matches(msg, c.list) {
			return m.Dispatch(c.action)
		}
	}

	switch {
	case key.Matches(msg, m.nav.up):
		m.moveCursor(m.cursor - 1)
	case key.Matches(msg, m.nav.down):
		m.moveCursor(m.cursor + 1)
	case key.Matches(msg, m.nav.top):
		m.moveCursor(0)
	case key.Matches(msg, m.nav.bottom):
		m.moveCursor(len(m.tasks) - 1)
	case key.Matches(msg, m.nav.newTask):
		return m.setFocus(focusTitle)
	case key.Matches(msg, m.nav.showHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.scrollToCursor()
	}
	return nil
}

// updateInputs forwards msg to the focused text input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case focusDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.titleInput.Blur()
	m.descInput.Blur()
	switch f {
	case focusTitle:
		return m.titleInput.Focus()
	case focusDescription:
		return m.descInput.Focus()
	}
	return nil
}

// reload replaces the displayed list with a fresh read of the store.
// The selection follows the selected task when it still exists.
func (m *Model) reload() error {
	tasks, err := m.store.List()
	if err != nil {
		return err
	}

	selectedID := 0
	if sel := m.selected(); sel != nil {
		selectedID = sel.ID
	}

	m.tasks = store.SortNewestFirst(tasks)
	if selectedID != 0 && m.selectID(selectedID) {
		return nil
	}
	m.moveCursor(m.cursor)
	return nil
}

// selectID moves the cursor to the task with id, reporting whether found.
func (m *Model) selectID(id int) bool {
	for i, t := range m.tasks {
		if t.ID == id {
			m.moveCursor(i)
			return true
		}
	}
	return false
}

func (m *Model) moveCursor(i int) {
	if i >= len(m.tasks) {
		i = len(m.tasks) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.scrollToCursor()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	inputWidth := width - labelWidth - 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.titleInput.Width = inputWidth
	m.descInput.Width = inputWidth
	m.scrollToCursor()
}

// scrollToCursor keeps the cursor inside the visible window.
func (m *Model) scrollToCursor() {
	visible := m.listHeight()
	if visible <= 0 || len(m.tasks) <= visible {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if maxOffset := len(m.tasks) - visible; m.offset > maxOffset {
		m.offset = maxOffset
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(m.cursor - 1)
		return nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(m.cursor + 1)
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch {
	case msg.Y == rowTitleInput:
		return m.setFocus(focusTitle)
	case msg.Y == rowDescInput:
		return m.setFocus(focusDescription)
	case msg.Y == rowButtons:
		for _, span := range m.buttonSpans() {
			if msg.X >= span.start && msg.X < span.end {
				return m.Dispatch(span.action)
			}
		}
	case msg.Y >= rowListStart:
		row := msg.Y - rowListStart
		visible := m.listHeight()
		if visible > 0 && row >= visible {
			return nil
		}
		if i := m.offset + row; i < len(m.tasks) {
			m.moveCursor(i)
			return m.setFocus(focusList)
		}
	}
	return nil
}

// tickClock schedules the next header clock update on the second boundary.
func (m *Model) tickClock() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// waitForChange turns one store change notification into a message.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}
