package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskdeck/internal/store"
)

type fakeStore struct {
	tasks     []store.Task
	listErr   error
	addErr    error
	removeErr error

	lists   int
	adds    []string
	removes []int
}

func (f *fakeStore) List() ([]store.Task, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]store.Task(nil), f.tasks...), nil
}

func (f *fakeStore) Add(title, description string) (store.Task, error) {
	f.adds = append(f.adds, title)
	if f.addErr != nil {
		return store.Task{}, f.addErr
	}
	id, err := store.NextID(f.tasks)
	if err != nil {
		return store.Task{}, err
	}
	t := store.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Timestamp:   "18/10/26 09:15:02",
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeStore) Remove(id int) (bool, error) {
	f.removes = append(f.removes, id)
	if f.removeErr != nil {
		return false, f.removeErr
	}
	kept := f.tasks[:0]
	removed := false
	for _, t := range f.tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	return removed, nil
}

func seeded() *fakeStore {
	return &fakeStore{tasks: []store.Task{
		{ID: 1, Title: "Buy milk", Description: "2%", Timestamp: "01/10/26 08:00:00"},
		{ID: 2, Title: "Call Bob", Timestamp: "02/10/26 08:00:00"},
		{ID: 3, Title: "Ship it", Description: "v1", Timestamp: "03/10/26 08:00:00"},
	}}
}

func newTestModel(t *testing.T, st TaskStore, opts ...ModelOption) *Model {
	t.Helper()
	m := NewModel(st, opts...)
	m.Init()
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func taskIDs(tasks []store.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestInitLoadsNewestFirst(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)

	got := taskIDs(m.Tasks())
	want := []int{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
	if m.Status().Message != "Loaded 3 tasks" {
		t.Errorf("status = %q", m.Status().Message)
	}
	if m.focus != focusTitle {
		t.Errorf("focus = %d, want title", m.focus)
	}
}

func TestAddRequiresTitle(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st)
	m.titleInput.SetValue("   ")
	m.descInput.SetValue("ignored")

	m.Dispatch(ActionAdd)

	if len(st.adds) != 0 {
		t.Fatalf("store.Add called %d times", len(st.adds))
	}
	status := m.Status()
	if status.Severity != SeverityError || status.Message != "Title is required" {
		t.Errorf("status = %+v", status)
	}
	if m.descInput.Value() != "ignored" {
		t.Errorf("description cleared on failed add")
	}
}

func TestAddClearsInputsAndSelectsNewTask(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)
	m.titleInput.SetValue("  Write tests ")
	m.descInput.SetValue(" for the shell ")

	m.Dispatch(ActionAdd)

	if len(st.adds) != 1 || st.adds[0] != "Write tests" {
		t.Fatalf("adds = %v", st.adds)
	}
	if st.tasks[3].Description != "for the shell" {
		t.Errorf("description = %q", st.tasks[3].Description)
	}
	if m.titleInput.Value() != "" || m.descInput.Value() != "" {
		t.Errorf("inputs not cleared: %q %q", m.titleInput.Value(), m.descInput.Value())
	}
	if len(m.Tasks()) != 4 {
		t.Fatalf("tasks = %d, want 4", len(m.Tasks()))
	}
	if sel := m.selected(); sel == nil || sel.ID != 4 {
		t.Errorf("selected = %+v, want id 4", sel)
	}
	if m.Status().Message != `Added "Write tests"` {
		t.Errorf("status = %q", m.Status().Message)
	}
	if m.focus != focusTitle {
		t.Errorf("focus = %d, want title", m.focus)
	}
}

func TestAddStoreFailureKeepsInputs(t *testing.T) {
	st := &fakeStore{addErr: errors.New("disk full")}
	m := newTestModel(t, st)
	m.titleInput.SetValue("Keep me")

	m.Dispatch(ActionAdd)

	status := m.Status()
	if status.Severity != SeverityError || !strings.Contains(status.Message, "disk full") {
		t.Errorf("status = %+v", status)
	}
	if m.titleInput.Value() != "Keep me" {
		t.Errorf("title cleared after failure")
	}
}

func TestMalformedStoreSuggestsDoctor(t *testing.T) {
	malformed := &store.MalformedStoreError{Path: "tasks.json", Err: errors.New("[0].id: duplicate id 1")}
	st := seeded()
	st.addErr = malformed
	st.removeErr = malformed
	m := newTestModel(t, st)

	m.titleInput.SetValue("new")
	m.Dispatch(ActionAdd)
	if msg := m.Status().Message; !strings.Contains(msg, "taskdeck doctor") || !strings.HasPrefix(msg, "Failed to add: ") {
		t.Errorf("add status = %q", msg)
	}

	m.Dispatch(ActionDelete)
	if msg := m.Status().Message; !strings.Contains(msg, "taskdeck doctor") || !strings.HasPrefix(msg, "Failed to delete: ") {
		t.Errorf("delete status = %q", msg)
	}
}

func TestEnterInInputAdds(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st)

	press(m, runes("h"), runes("i"), tea.KeyMsg{Type: tea.KeyEnter})

	if len(st.adds) != 1 || st.adds[0] != "hi" {
		t.Fatalf("adds = %v", st.adds)
	}
}

func TestLettersInInputAreTyped(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)

	press(m, runes("d"), runes("q"), runes("r"))

	if m.titleInput.Value() != "dqr" {
		t.Errorf("title = %q, want dqr", m.titleInput.Value())
	}
	if len(st.removes) != 0 {
		t.Errorf("letters reached the list bindings: removes = %v", st.removes)
	}
	if m.quitting {
		t.Error("q in input quit the shell")
	}
}

func TestDeleteSelected(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)
	m.setFocus(focusList)
	m.moveCursor(1) // id 2

	press(m, runes("d"))

	if len(st.removes) != 1 || st.removes[0] != 2 {
		t.Fatalf("removes = %v", st.removes)
	}
	if m.Status().Message != "Removed id=2" {
		t.Errorf("status = %q", m.Status().Message)
	}
	got := taskIDs(m.Tasks())
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("ids = %v, want [3 1]", got)
	}
	if sel := m.selected(); sel == nil || sel.ID != 1 {
		t.Errorf("selected = %+v, want id 1", sel)
	}
}

func TestDeleteWithoutSelection(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st)

	m.Dispatch(ActionDelete)

	if len(st.removes) != 0 {
		t.Fatalf("removes = %v", st.removes)
	}
	status := m.Status()
	if status.Severity != SeverityError || status.Message != "No selection" {
		t.Errorf("status = %+v", status)
	}
}

func TestDeleteVanishedTask(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)
	st.tasks = st.tasks[:2] // id 3 deleted elsewhere

	m.Dispatch(ActionDelete)

	if m.Status().Message != "Nothing removed for id=3" {
		t.Errorf("status = %q", m.Status().Message)
	}
	if len(m.Tasks()) != 2 {
		t.Errorf("tasks = %d, want 2", len(m.Tasks()))
	}
}

func TestDeleteStoreFailure(t *testing.T) {
	st := seeded()
	st.removeErr = errors.New("malformed")
	m := newTestModel(t, st)

	m.Dispatch(ActionDelete)

	status := m.Status()
	if status.Severity != SeverityError || status.Message != "Failed to delete: malformed" {
		t.Errorf("status = %+v", status)
	}
	if len(m.Tasks()) != 3 {
		t.Errorf("tasks = %d, want 3", len(m.Tasks()))
	}
}

func TestRefreshPicksUpExternalChanges(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)
	st.tasks = append(st.tasks, store.Task{ID: 9, Title: "From elsewhere"})

	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})

	if len(m.Tasks()) != 4 || m.Tasks()[0].ID != 9 {
		t.Errorf("ids = %v", taskIDs(m.Tasks()))
	}
	if m.Status().Message != "Loaded 4 tasks" {
		t.Errorf("status = %q", m.Status().Message)
	}
}

func TestRefreshFailureKeepsList(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)
	st.listErr = errors.New("permission denied")

	m.Dispatch(ActionRefresh)

	if m.Status().Severity != SeverityError {
		t.Errorf("status = %+v", m.Status())
	}
	if len(m.Tasks()) != 3 {
		t.Errorf("tasks = %d, want 3", len(m.Tasks()))
	}
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name  string
		focus focusArea
		msg   tea.KeyMsg
	}{
		{"ctrl+c from input", focusTitle, tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"q from list", focusList, runes("q")},
		{"esc from list", focusList, tea.KeyMsg{Type: tea.KeyEsc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seeded()
			m := newTestModel(t, st)
			m.setFocus(tt.focus)

			cmd := press(m, tt.msg)
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Fatal("expected tea.QuitMsg")
			}
			if m.View() != "" {
				t.Error("view not cleared after quit")
			}
			if len(st.adds) != 0 || len(st.removes) != 0 {
				t.Error("quit touched the store")
			}
		})
	}
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel(t, seeded())

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusDescription {
		t.Fatalf("focus = %d, want description", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Fatalf("focus = %d, want list", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusTitle {
		t.Fatalf("focus = %d, want title", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusList {
		t.Fatalf("focus = %d, want list", m.focus)
	}
	press(m, runes("a"))
	if m.focus != focusTitle {
		t.Fatalf("focus = %d, want title", m.focus)
	}
}

func TestListNavigation(t *testing.T) {
	m := newTestModel(t, seeded())
	m.setFocus(focusList)

	press(m, runes("j"), runes("j"), runes("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.cursor)
	}
	press(m, runes("k"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	press(m, runes("g"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	press(m, runes("G"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	st := &fakeStore{}
	for i := 0; i < 40; i++ {
		st.Add("task", "")
	}
	m := newTestModel(t, st)
	press(m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m.setFocus(focusList)

	visible := m.listHeight()
	if visible <= 0 || visible >= 40 {
		t.Fatalf("listHeight = %d", visible)
	}
	press(m, runes("G"))
	if m.cursor != 39 {
		t.Fatalf("cursor = %d", m.cursor)
	}
	if m.cursor < m.offset || m.cursor >= m.offset+visible {
		t.Errorf("cursor %d outside window [%d,%d)", m.cursor, m.offset, m.offset+visible)
	}
	press(m, runes("g"))
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0", m.offset)
	}
}

func TestMouseButtons(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st, WithMouse(true))

	var del buttonSpan
	for _, s := range m.buttonSpans() {
		if s.action == ActionDelete {
			del = s
		}
	}
	if del.end <= del.start {
		t.Fatalf("no delete button span: %+v", m.buttonSpans())
	}

	press(m, tea.MouseMsg{X: del.start, Y: rowButtons, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})

	if len(st.removes) != 1 || st.removes[0] != 3 {
		t.Errorf("removes = %v, want [3]", st.removes)
	}
}

func TestMouseSelectsRowAndFocusesInputs(t *testing.T) {
	m := newTestModel(t, seeded(), WithMouse(true))

	press(m, tea.MouseMsg{X: 4, Y: rowListStart + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.focus != focusList || m.cursor != 2 {
		t.Errorf("focus = %d cursor = %d, want list/2", m.focus, m.cursor)
	}

	press(m, tea.MouseMsg{X: 20, Y: rowDescInput, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.focus != focusDescription {
		t.Errorf("focus = %d, want description", m.focus)
	}

	press(m, tea.MouseMsg{X: 4, Y: rowListStart + 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.focus != focusDescription {
		t.Error("click past the last row changed focus")
	}
}

func TestMouseIgnoredWhenDisabled(t *testing.T) {
	st := seeded()
	m := newTestModel(t, st)

	press(m, tea.MouseMsg{X: 4, Y: rowListStart + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})

	if m.cursor != 0 || m.focus != focusTitle {
		t.Errorf("mouse handled while disabled: focus=%d cursor=%d", m.focus, m.cursor)
	}
}

func TestStoreChangedReloads(t *testing.T) {
	st := seeded()
	ch := make(chan struct{}, 1)
	m := newTestModel(t, st, WithChanges(ch))
	st.tasks = st.tasks[:1]

	cmd := press(m, storeChangedMsg{})

	if len(m.Tasks()) != 1 {
		t.Errorf("tasks = %d, want 1", len(m.Tasks()))
	}
	if cmd == nil {
		t.Fatal("expected the model to keep waiting for changes")
	}
	ch <- struct{}{}
	if _, ok := cmd().(storeChangedMsg); !ok {
		t.Error("expected storeChangedMsg")
	}
}

func TestWaitForChangeClosed(t *testing.T) {
	ch := make(chan struct{})
	close(ch)
	if msg := waitForChange(ch)(); msg != nil {
		t.Errorf("msg = %#v, want nil", msg)
	}
	if waitForChange(nil) != nil {
		t.Error("expected nil command for nil channel")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, seeded())
	press(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	for _, want := range []string{
		"Title",
		"Description",
		"Add",
		"Refresh (r)",
		"Delete (d)",
		"Quit (q)",
		"Tasks (3)",
		"Buy milk — 2%",
		"Call Bob",
		"03/10/26 08:00:00",
		"Loaded 3 tasks",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	lines := strings.Split(view, "\n")
	if len(lines) <= rowListStart || !strings.Contains(lines[rowListStart], "Ship it") {
		t.Errorf("first task not on row %d:\n%s", rowListStart, view)
	}
	if !strings.Contains(lines[rowButtons], "Delete (d)") {
		t.Errorf("buttons not on row %d:\n%s", rowButtons, view)
	}
}

func TestViewEmpty(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	view := m.View()
	if !strings.Contains(view, "Tasks (0)") || !strings.Contains(view, "No tasks yet") {
		t.Errorf("unexpected empty view:\n%s", view)
	}
}

func TestHeaderClock(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 15, 2, 0, time.Local)
	m := NewModel(seeded(), WithClock(func() time.Time { return now }))
	m.Init()
	press(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	header := strings.Split(m.View(), "\n")[0]
	if !strings.HasPrefix(header, "taskdeck") || !strings.HasSuffix(header, "09:15:02") {
		t.Errorf("header = %q", header)
	}

	now = now.Add(time.Minute)
	cmd := press(m, clockMsg(now))
	if cmd == nil {
		t.Error("clock stopped ticking")
	}
	if header := strings.Split(m.View(), "\n")[0]; !strings.HasSuffix(header, "09:16:02") {
		t.Errorf("header after tick = %q", header)
	}
}

func TestLongInputsAreNotTruncated(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st)
	title := strings.Repeat("t", 1000)
	desc := strings.Repeat("d", 2000)
	m.titleInput.SetValue(title)
	m.descInput.SetValue(desc)

	m.Dispatch(ActionAdd)

	if len(st.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1 (status %q)", len(st.tasks), m.Status().Message)
	}
	if st.tasks[0].Title != title || st.tasks[0].Description != desc {
		t.Errorf("stored lengths: title %d, description %d", len(st.tasks[0].Title), len(st.tasks[0].Description))
	}
}

func TestActionString(t *testing.T) {
	if ActionDelete.String() != "delete" {
		t.Errorf("ActionDelete = %q", ActionDelete.String())
	}
	if Action(42).String() != "action(42)" {
		t.Errorf("unknown action = %q", Action(42).String())
	}
	if m := NewModel(&fakeStore{}); m.Dispatch(Action(42)) != nil {
		t.Error("unknown action returned a command")
	}
}
