package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"protask/internal/calendar"
	"protask/internal/config"
	"protask/internal/session"
	"protask/internal/todo"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

const (
	fieldTitle = iota
	fieldDue
)

// outcomeMsg carries a settled round trip back into Update.
type outcomeMsg session.Outcome

type Model struct {
	ctx   context.Context
	ctrl  *session.Controller
	cfg   config.Config
	now   func() time.Time
	state session.State

	mode       mode
	cursor     int
	day        time.Time
	dayCursor  int
	titleInput textinput.Model
	dueInput   textinput.Model
	field      int
	spinner    spinner.Model
	status     string
	pendingDel *todo.Task
	width      int
}

// New builds the root model. now is injectable for tests; nil means time.Now.
func New(ctx context.Context, ctrl *session.Controller, cfg config.Config, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	today := now()

	ti := textinput.New()
	ti.Placeholder = "What's the next objective?"
	ti.CharLimit = 256
	ti.Width = 40

	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD or YYYY-MM-DDTHH:MM (optional)"
	di.CharLimit = 32
	di.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		ctrl:       ctrl,
		cfg:        cfg,
		now:        now,
		state:      *session.New(session.ParseView(cfg.DefaultView), today),
		day:        calendar.Date(today.Year(), today.Month(), today.Day()),
		titleInput: ti,
		dueInput:   di,
		spinner:    sp,
		status:     "Press 'a' to add, space to toggle, 'd' to delete, tab to switch view.",
	}
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, ctrl *session.Controller, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, ctrl, cfg, nil), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.ctrl.Fetch()))
}

// run wraps a round trip in a command. A nil call yields a nil command.
func (m *Model) run(call session.Call) tea.Cmd {
	if call == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg(call(ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := max(20, msg.Width-12)
		m.titleInput.Width = w
		m.dueInput.Width = w
	case outcomeMsg:
		return m.applyOutcome(session.Outcome(msg))
	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) applyOutcome(o session.Outcome) (tea.Model, tea.Cmd) {
	m.state.Apply(o)
	if o.Err != nil {
		m.status = ""
		return m, nil
	}
	switch o.Op {
	case session.OpFetch:
		m.status = fmt.Sprintf("Loaded %d todos", len(m.state.Tasks))
	case session.OpCreate:
		m.closeForm()
		m.cursor = 0
		m.status = "Added task"
	case session.OpToggle:
		m.status = "Toggled task"
	case session.OpSave:
		if m.mode == modeEdit && m.state.Editing == "" {
			m.closeForm()
		}
		m.status = "Saved task"
	case session.OpDelete:
		if m.mode == modeEdit && m.state.Editing == "" {
			m.closeForm()
		}
		m.status = "Deleted task"
	}
	m.cursor = clampCursor(m.cursor, len(m.state.Tasks))
	m.dayCursor = clampCursor(m.dayCursor, len(m.state.DayTasks()))
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeAdd, modeEdit:
		return m.updateForm(key, msg)
	case modeConfirmDelete:
		return m.updateDeleteConfirm(key)
	}
	if m.state.Loading {
		if key == m.cfg.Keys.Quit {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.state.View == session.ViewCalendar {
		return m.updateCalendar(key)
	}
	return m.updateList(key)
}

// updateCommon handles keys shared by both views.
func (m Model) updateCommon(key string) (Model, tea.Cmd, bool) {
	k := m.cfg.Keys
	switch key {
	case k.Quit:
		return m, tea.Quit, true
	case k.SwitchView:
		if m.state.View == session.ViewList {
			m.state.SwitchView(session.ViewCalendar)
			m.syncDayToMonth()
		} else {
			m.state.SwitchView(session.ViewList)
		}
		m.dayCursor = 0
		return m, nil, true
	case k.Refresh:
		m.status = "Refreshing..."
		return m, m.run(m.ctrl.Fetch()), true
	case k.Add:
		return m.openAdd(), textinput.Blink, true
	}
	return m, nil, false
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.updateCommon(key); ok {
		return next, cmd
	}
	k := m.cfg.Keys
	n := len(m.state.Tasks)
	switch key {
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, n)
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, n)
	case k.Toggle:
		if n == 0 {
			return m, nil
		}
		return m, m.run(m.ctrl.Toggle(&m.state, m.state.Tasks[m.cursor].ID))
	case k.Delete:
		if n == 0 {
			return m, nil
		}
		return m.confirmDelete(m.state.Tasks[m.cursor]), nil
	case k.Edit:
		if n == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.openEdit(m.state.Tasks[m.cursor].ID)
	}
	return m, nil
}

func (m Model) updateCalendar(key string) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.updateCommon(key); ok {
		return next, cmd
	}
	k := m.cfg.Keys
	dayTasks := m.state.DayTasks()
	panelOpen := m.state.Selected != nil

	switch key {
	case k.Left, "left":
		m.moveDay(-1)
	case k.Right, "right":
		m.moveDay(1)
	case k.Up, "up":
		if panelOpen {
			m.dayCursor = clampCursor(m.dayCursor-1, len(dayTasks))
		} else {
			m.moveDay(-7)
		}
	case k.Down, "down":
		if panelOpen {
			m.dayCursor = clampCursor(m.dayCursor+1, len(dayTasks))
		} else {
			m.moveDay(7)
		}
	case k.PrevMonth:
		m.state.ChangeMonth(-1)
		m.syncDayToMonth()
	case k.NextMonth:
		m.state.ChangeMonth(1)
		m.syncDayToMonth()
	case k.Today:
		now := m.now()
		m.state.GoToday(now)
		m.day = calendar.Date(now.Year(), now.Month(), now.Day())
	case k.Confirm:
		m.state.SelectDay(m.day)
		m.dayCursor = 0
	case k.Cancel:
		m.state.CloseDay()
		m.dayCursor = 0
	case k.Toggle:
		if !panelOpen || len(dayTasks) == 0 {
			return m, nil
		}
		return m, m.run(m.ctrl.Toggle(&m.state, dayTasks[m.dayCursor].ID))
	case k.Edit:
		if !panelOpen || len(dayTasks) == 0 {
			return m, nil
		}
		return m.openEdit(dayTasks[m.dayCursor].ID)
	case k.Delete:
		if !panelOpen || len(dayTasks) == 0 {
			return m, nil
		}
		return m.confirmDelete(dayTasks[m.dayCursor]), nil
	}
	return m, nil
}

// moveDay shifts the day cursor, following it into adjacent months.
func (m *Model) moveDay(delta int) {
	m.day = m.day.AddDate(0, 0, delta)
	m.state.Month = calendar.MonthOf(m.day)
}

// syncDayToMonth keeps the day cursor inside the reference month.
func (m *Model) syncDayToMonth() {
	if m.state.Month.Contains(m.day) {
		return
	}
	day := min(m.day.Day(), m.state.Month.Days())
	m.day = calendar.Date(m.state.Month.Year, m.state.Month.Month, day)
}

func (m Model) openAdd() Model {
	m.mode = modeAdd
	m.field = fieldTitle
	m.titleInput.SetValue(m.state.New.Title)
	due := m.state.New.Due
	if due == "" && m.state.View == session.ViewCalendar && m.state.Selected != nil {
		due = calendar.Key(*m.state.Selected)
	}
	m.dueInput.SetValue(due)
	m.focusField()
	m.status = "Add mode: enter to save, tab to switch field, esc to cancel"
	return m
}

func (m Model) openEdit(id string) (tea.Model, tea.Cmd) {
	if !m.state.StartEdit(id) {
		return m, nil
	}
	m.mode = modeEdit
	m.field = fieldTitle
	m.titleInput.SetValue(m.state.Edit.Title)
	m.dueInput.SetValue(m.state.Edit.Due)
	m.focusField()
	m.status = "Edit mode: enter to save, tab to switch field, esc to cancel"
	return m, textinput.Blink
}

func (m *Model) focusField() {
	if m.field == fieldTitle {
		m.titleInput.Focus()
		m.dueInput.Blur()
		return
	}
	m.dueInput.Focus()
	m.titleInput.Blur()
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.titleInput.SetValue("")
	m.dueInput.SetValue("")
	m.titleInput.Blur()
	m.dueInput.Blur()
}

func (m Model) updateForm(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Cancel, "esc":
		if m.mode == modeEdit {
			m.state.CancelEdit()
			m.status = "Edit cancelled"
		} else {
			m.state.New = session.Draft{}
			m.status = "Cancelled"
		}
		m.closeForm()
		return m, nil
	case "tab", "shift+tab":
		m.field = 1 - m.field
		m.focusField()
		return m, nil
	case k.Confirm, "enter":
		draft := session.Draft{Title: m.titleInput.Value(), Due: m.dueInput.Value()}
		var call session.Call
		if m.mode == modeEdit {
			m.state.Edit = draft
			call = m.ctrl.Save(&m.state)
		} else {
			m.state.New = draft
			call = m.ctrl.Create(&m.state)
		}
		if call == nil {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.status = "Saving..."
		return m, m.run(call)
	}
	var cmd tea.Cmd
	if m.field == fieldTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.dueInput, cmd = m.dueInput.Update(msg)
	}
	return m, cmd
}

func (m Model) confirmDelete(t todo.Task) Model {
	m.mode = modeConfirmDelete
	m.pendingDel = &t
	m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	return m
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.mode = modeBrowse
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		t := m.pendingDel
		m.mode = modeBrowse
		m.pendingDel = nil
		if t == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		m.status = "Deleting..."
		return m, m.run(m.ctrl.Delete(t.ID))
	default:
		return m, nil
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
