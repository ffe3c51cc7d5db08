package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"protask/internal/config"
	"protask/internal/session"
	"protask/internal/testutil"
	"protask/internal/todo"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
}

func seedTasks(t *testing.T) []todo.Task {
	t.Helper()
	due, err := todo.ParseDue("2024-03-15T09:00")
	if err != nil {
		t.Fatalf("parse due: %v", err)
	}
	return []todo.Task{
		{ID: "1", Title: "Ship release", Due: &due},
		{ID: "2", Title: "Write notes"},
	}
}

func newLoadedModel(t *testing.T, store *testutil.FakeStore) Model {
	t.Helper()
	m := New(context.Background(), session.NewController(store, nil), config.Default(), fixedNow)
	if !strings.Contains(m.View(), "Loading todos...") {
		t.Fatalf("expected loading view before first fetch")
	}
	next, _ := m.Update(m.run(m.ctrl.Fetch())())
	m = next.(Model)
	if m.state.Loading {
		t.Fatalf("expected loading to clear after fetch")
	}
	return m
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends key and settles any round trip it started.
func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out, ok := cmd().(outcomeMsg); ok {
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestModel_RendersFetchedTasks(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	view := m.View()
	for _, want := range []string{"Ship release", "Write notes", "Overview", "Calendar"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestModel_FetchFailureShowsMessage(t *testing.T) {
	store := testutil.NewFakeStore()
	store.ListErr = testutil.ErrInjected
	m := newLoadedModel(t, store)

	if m.state.Err != session.MsgFetchFailed {
		t.Fatalf("expected fetch message, got %q", m.state.Err)
	}
	if !strings.Contains(m.View(), session.MsgFetchFailed) {
		t.Fatalf("expected fetch message in view")
	}
}

func TestModel_AddBlankTitleMakesNoCall(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "a")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode")
	}
	m.titleInput.SetValue("   ")
	m = press(t, m, "enter")

	if store.Calls["create"] != 0 {
		t.Fatalf("expected no create call, got %d", store.Calls["create"])
	}
	if m.status != "Title cannot be empty" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(m.state.Tasks) != 2 {
		t.Fatalf("expected collection unchanged, got %d tasks", len(m.state.Tasks))
	}
}

func TestModel_AddPrependsTask(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "a")
	m.titleInput.SetValue("Book venue")
	m.dueInput.SetValue("2024-03-20")
	m = press(t, m, "enter")

	if m.mode != modeBrowse {
		t.Fatalf("expected form to close after create")
	}
	if len(m.state.Tasks) != 3 || m.state.Tasks[0].Title != "Book venue" {
		t.Fatalf("expected new task first, got %+v", m.state.Tasks)
	}
	if k, _ := m.state.Tasks[0].DueKey(); k != "2024-03-20" {
		t.Fatalf("expected due key 2024-03-20, got %q", k)
	}
	if m.state.New != (session.Draft{}) {
		t.Fatalf("expected draft cleared, got %+v", m.state.New)
	}
}

func TestModel_ToggleSelectedTask(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "j")
	m = press(t, m, " ")
	if !m.state.Tasks[1].Completed {
		t.Fatalf("expected second task completed")
	}
	if m.state.Tasks[0].Completed {
		t.Fatalf("expected first task untouched")
	}
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm mode")
	}
	m = press(t, m, "n")
	if store.Calls["delete"] != 0 || len(m.state.Tasks) != 2 {
		t.Fatalf("expected cancel to keep the task")
	}

	m = press(t, m, "d")
	m = press(t, m, "y")
	if len(m.state.Tasks) != 1 || m.state.Tasks[0].ID != "2" {
		t.Fatalf("expected task 1 removed, got %+v", m.state.Tasks)
	}
}

func TestModel_DeleteFailureKeepsTask(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	store.DeleteErr = testutil.ErrInjected
	m := newLoadedModel(t, store)

	m = press(t, m, "d")
	m = press(t, m, "y")
	if len(m.state.Tasks) != 2 {
		t.Fatalf("expected tasks kept on failure")
	}
	if m.state.Err != session.MsgDeleteFailed {
		t.Fatalf("expected delete message, got %q", m.state.Err)
	}
	if !strings.Contains(m.View(), session.MsgDeleteFailed) {
		t.Fatalf("expected delete message in view")
	}
}

func TestModel_EditSaveAndCancel(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "e")
	if m.mode != modeEdit || m.state.Editing != "1" {
		t.Fatalf("expected editing task 1, got mode=%v editing=%q", m.mode, m.state.Editing)
	}
	if m.titleInput.Value() != "Ship release" || m.dueInput.Value() != "2024-03-15T09:00" {
		t.Fatalf("expected buffers prefilled, got %q %q", m.titleInput.Value(), m.dueInput.Value())
	}
	m.titleInput.SetValue("Changed")
	m = press(t, m, "esc")
	if m.state.Editing != "" || m.state.Tasks[0].Title != "Ship release" {
		t.Fatalf("expected cancel to leave task unchanged")
	}
	if store.Calls["update"] != 0 {
		t.Fatalf("expected no update call on cancel")
	}

	m = press(t, m, "e")
	m.titleInput.SetValue("Ship v2")
	m.dueInput.SetValue("")
	m = press(t, m, "enter")
	if m.mode != modeBrowse || m.state.Editing != "" {
		t.Fatalf("expected edit mode to end after save")
	}
	if m.state.Tasks[0].Title != "Ship v2" || m.state.Tasks[0].Due != nil {
		t.Fatalf("expected saved task, got %+v", m.state.Tasks[0])
	}
}

func TestModel_CalendarNavigation(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "tab")
	if m.state.View != session.ViewCalendar {
		t.Fatalf("expected calendar view")
	}
	if !strings.Contains(m.View(), "March 2024") {
		t.Fatalf("expected March 2024 header")
	}

	m = press(t, m, "]")
	if !strings.Contains(m.View(), "April 2024") {
		t.Fatalf("expected April 2024 after next month")
	}
	m = press(t, m, "t")
	if m.state.Month.Month != time.March {
		t.Fatalf("expected today to return to March, got %v", m.state.Month)
	}

	m = press(t, m, "enter")
	if m.state.Selected == nil || m.state.Selected.Day() != 15 {
		t.Fatalf("expected 15th selected, got %v", m.state.Selected)
	}
	view := m.View()
	if !strings.Contains(view, "Tasks for") || !strings.Contains(view, "Ship release") {
		t.Fatalf("expected day panel with task, got:\n%s", view)
	}

	m = press(t, m, " ")
	if !m.state.Tasks[0].Completed {
		t.Fatalf("expected toggle from day panel")
	}

	m = press(t, m, "tab")
	if m.state.Selected != nil {
		t.Fatalf("expected switch view to clear selection")
	}
}

func TestModel_CalendarEmptyDay(t *testing.T) {
	store := testutil.NewFakeStore(seedTasks(t)...)
	m := newLoadedModel(t, store)

	m = press(t, m, "tab")
	m = press(t, m, "l")
	m = press(t, m, "enter")
	if m.state.Selected == nil || m.state.Selected.Day() != 16 {
		t.Fatalf("expected 16th selected, got %v", m.state.Selected)
	}
	if !strings.Contains(m.View(), "No tasks for this day.") {
		t.Fatalf("expected empty day message")
	}
	m = press(t, m, "esc")
	if m.state.Selected != nil {
		t.Fatalf("expected esc to close the day")
	}
}
