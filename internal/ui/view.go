package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"protask/internal/calendar"
	"protask/internal/config"
	"protask/internal/session"
	"protask/internal/todo"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ProTask"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render("Manage your workflow with precision and style."))
	b.WriteString("\n\n")

	if m.state.Loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading todos...\n")
		return b.String()
	}

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.state.Err != "" {
		b.WriteString(errorStyle.Render(m.state.Err))
		b.WriteString("\n\n")
	}

	if m.mode == modeAdd {
		b.WriteString(m.renderForm("New task"))
		b.WriteString("\n")
	}

	if m.state.View == session.ViewCalendar {
		b.WriteString(m.renderCalendar())
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys, m.state.View)))
	return b.String()
}

func (m Model) renderTabs() string {
	list, cal := tabInactiveStyle, tabInactiveStyle
	if m.state.View == session.ViewCalendar {
		cal = tabActiveStyle
	} else {
		list = tabActiveStyle
	}
	return list.Render("Overview") + "  " + cal.Render("Calendar")
}

func (m Model) renderForm(heading string) string {
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString("  Title: ")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n")
	b.WriteString("  Due  : ")
	b.WriteString(m.dueInput.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTaskList() string {
	if len(m.state.Tasks) == 0 {
		return "No todos yet. Add one above!\n"
	}
	var b strings.Builder
	for i, t := range m.state.Tasks {
		if m.mode == modeEdit && m.state.Editing == t.ID {
			b.WriteString(m.renderForm("Editing " + fmt.Sprintf("%q", t.Title)))
			continue
		}
		cursor := " "
		if m.cursor == i && m.mode == modeBrowse {
			cursor = cursorStyle.Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, m.renderTaskLine(t)))
	}
	return b.String()
}

func (m Model) renderTaskLine(t todo.Task) string {
	checkbox := "[ ]"
	title := t.Title
	if t.Completed {
		checkbox = "[x]"
		title = doneStyle.Render(title)
	}
	line := checkbox + " " + title
	if t.Due != nil {
		line += "  " + dueStyle.Render(fmt.Sprintf("due %s (%s)", t.Due.Display(), t.Due.Relative(m.now())))
	}
	return line
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	month := m.state.Month
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		mutedStyle.Render("<"+m.cfg.Keys.PrevMonth), titleStyle.Render(month.String()), mutedStyle.Render(m.cfg.Keys.NextMonth+">")))

	labels := make([]string, 0, 7)
	for _, l := range calendar.WeekdayLabels {
		labels = append(labels, cellLabelStyle.Render(l))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	b.WriteString("\n")

	todayKey := calendar.Key(m.now())
	cursorKey := calendar.Key(m.day)
	selectedKey := ""
	if m.state.Selected != nil {
		selectedKey = calendar.Key(*m.state.Selected)
	}

	for _, week := range month.Weeks() {
		cells := make([]string, 0, 7)
		for _, c := range week {
			cells = append(cells, m.renderCell(c, todayKey, cursorKey, selectedKey))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	if m.state.Selected != nil {
		b.WriteString("\n")
		b.WriteString(m.renderDayPanel())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCell(c calendar.Cell, todayKey, cursorKey, selectedKey string) string {
	if c.Empty() {
		return cellStyle.Render("")
	}
	key := c.Key()
	tasks := todo.Bucket(m.state.Tasks, key)
	text := fmt.Sprintf("%2d", c.Day()) + marker(tasks)

	style := cellStyle
	switch {
	case key == cursorKey:
		style = cellCursor
	case key == selectedKey:
		style = cellSelected
	case key == todayKey:
		style = cellToday
	}
	return style.Render(text)
}

// marker summarises a day: open tasks in one colour, all-done in another.
func marker(tasks []todo.Task) string {
	if len(tasks) == 0 {
		return ""
	}
	open := 0
	for _, t := range tasks {
		if !t.Completed {
			open++
		}
	}
	if open == 0 {
		return markerDone.Render(fmt.Sprintf("✓%d", len(tasks)))
	}
	return markerOpen.Render(fmt.Sprintf("•%d", open))
}

func (m Model) renderDayPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks for " + m.state.Selected.Format("Mon, Jan 2 2006")))
	b.WriteString("\n")
	tasks := m.state.DayTasks()
	if len(tasks) == 0 {
		b.WriteString("No tasks for this day.")
		return panelStyle.Render(b.String())
	}
	for i, t := range tasks {
		if m.mode == modeEdit && m.state.Editing == t.ID {
			b.WriteString(m.renderForm("Editing"))
			continue
		}
		cursor := " "
		if i == m.dayCursor && m.mode == modeBrowse {
			cursor = cursorStyle.Render(">")
		}
		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox, title))
		if i < len(tasks)-1 {
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(b.String())
}

func renderHelp(k config.Keymap, v session.View) string {
	name := func(s string) string {
		if s == " " {
			return "space"
		}
		return s
	}
	if v == session.ViewCalendar {
		return fmt.Sprintf("%s/%s/%s/%s move • %s/%s month • %s today • %s select • %s close • %s toggle • %s edit • %s delete • %s add • %s list • %s quit",
			k.Left, k.Down, k.Up, k.Right, k.PrevMonth, k.NextMonth, k.Today, k.Confirm, k.Cancel, name(k.Toggle), k.Edit, k.Delete, k.Add, k.SwitchView, k.Quit)
	}
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s refresh • %s calendar • %s quit",
		k.Up, k.Down, k.Add, name(k.Toggle), k.Edit, k.Delete, k.Refresh, k.SwitchView, k.Quit)
}
