// Package session holds the client's view state and the controller operations
// that move it forward. Remote round trips are split from state changes: a
// Call talks to the store and yields an Outcome, and State.Apply folds the
// Outcome in. Nothing in State changes until a round trip has settled.
package session

import (
	"time"

	"protask/internal/calendar"
	"protask/internal/todo"
)

// View selects the main render mode.
type View int

const (
	ViewList View = iota
	ViewCalendar
)

func (v View) String() string {
	if v == ViewCalendar {
		return "calendar"
	}
	return "list"
}

// ParseView maps "calendar" to ViewCalendar and anything else to ViewList.
func ParseView(s string) View {
	if s == "calendar" {
		return ViewCalendar
	}
	return ViewList
}

// Fixed user-facing failure messages.
const (
	MsgFetchFailed  = "Failed to fetch todos. Make sure the server is running!"
	MsgAddFailed    = "Failed to add todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgDeleteFailed = "Failed to delete todo"
)

// Draft holds the text of a title/due-date form.
type Draft struct {
	Title string
	Due   string
}

// State is everything the client knows. It is owned by one goroutine.
type State struct {
	Tasks    []todo.Task
	View     View
	Month    calendar.Month
	Selected *time.Time
	// Editing is the id of the task being edited, or "".
	Editing string
	New     Draft
	Edit    Draft
	Err     string
	Loading bool
}

// New returns the initial state: loading, showing view, anchored on now's month.
func New(view View, now time.Time) *State {
	return &State{
		View:    view,
		Month:   calendar.MonthOf(now),
		Loading: true,
	}
}

// Apply folds the result of a round trip into s.
func (s *State) Apply(o Outcome) {
	if o.Op == OpFetch {
		s.Loading = false
	}
	if o.Err != nil {
		s.Err = o.Op.FailureMessage()
		return
	}
	s.Err = ""
	switch o.Op {
	case OpFetch:
		s.Tasks = o.Tasks
	case OpCreate:
		s.Tasks = todo.Prepend(s.Tasks, o.Task)
		s.New = Draft{}
	case OpToggle:
		s.Tasks = todo.Replace(s.Tasks, o.Task)
	case OpSave:
		s.Tasks = todo.Replace(s.Tasks, o.Task)
		if s.Editing == o.Task.ID {
			s.exitEdit()
		}
	case OpDelete:
		s.Tasks = todo.Remove(s.Tasks, o.ID)
		if s.Editing == o.ID {
			s.exitEdit()
		}
	}
}

// Task returns the task with id.
func (s *State) Task(id string) (todo.Task, bool) {
	i := todo.IndexOf(s.Tasks, id)
	if i < 0 {
		return todo.Task{}, false
	}
	return s.Tasks[i], true
}

// StartEdit enters edit mode for id, filling the edit buffers from the task.
func (s *State) StartEdit(id string) bool {
	t, ok := s.Task(id)
	if !ok {
		return false
	}
	s.Editing = id
	s.Edit = Draft{Title: t.Title}
	if t.Due != nil {
		s.Edit.Due = t.Due.Input()
	}
	return true
}

// CancelEdit leaves edit mode without contacting the store.
func (s *State) CancelEdit() {
	s.exitEdit()
}

func (s *State) exitEdit() {
	s.Editing = ""
	s.Edit = Draft{}
}

// ChangeMonth moves the reference month by delta months.
func (s *State) ChangeMonth(delta int) {
	s.Month = s.Month.Add(delta)
}

// GoToday moves the reference month to the one containing now.
func (s *State) GoToday(now time.Time) {
	s.Month = calendar.MonthOf(now)
}

// SelectDay selects date, or clears the selection if date is already selected.
func (s *State) SelectDay(date time.Time) {
	if s.Selected != nil && calendar.SameDay(*s.Selected, date) {
		s.Selected = nil
		return
	}
	d := calendar.Date(date.Year(), date.Month(), date.Day())
	s.Selected = &d
}

// CloseDay clears the selected day.
func (s *State) CloseDay() {
	s.Selected = nil
}

// SwitchView changes the render mode. Leaving the calendar drops the day
// selection.
func (s *State) SwitchView(v View) {
	if v != ViewCalendar {
		s.Selected = nil
	}
	s.View = v
}

// Grid returns the calendar cells for the reference month.
func (s *State) Grid() []calendar.Cell {
	return calendar.Grid(s.Month)
}

// DayTasks returns the tasks due on the selected day, or nil.
func (s *State) DayTasks() []todo.Task {
	if s.Selected == nil {
		return nil
	}
	return todo.Bucket(s.Tasks, calendar.Key(*s.Selected))
}
