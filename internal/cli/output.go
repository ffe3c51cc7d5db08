package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"protask/internal/calendar"
	"protask/internal/session"
	"protask/internal/todo"
)

// writeTasks prints one line per task:
// "{ID}  [x] {TITLE}  (due {DATE}, {RELATIVE})"
func writeTasks(w io.Writer, tasks []todo.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No todos yet.")
		return
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s  %s %s", t.ID, box, normalizeTitle(t.Title))
		if t.Due != nil {
			line += fmt.Sprintf("  (due %s, %s)", t.Due.Display(), t.Due.Relative(now))
		}
		fmt.Fprintln(w, line)
	}
}

// normalizeTitle keeps a title on one line.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// writeMonth prints the reference month of s as a 7-column grid. Days with
// open todos show the open count; days where everything is done show "ok".
func writeMonth(w io.Writer, s *session.State) {
	fmt.Fprintln(w, s.Month.String())
	for _, l := range calendar.WeekdayLabels {
		fmt.Fprintf(w, "%-7s", l)
	}
	fmt.Fprintln(w)
	for _, week := range s.Month.Weeks() {
		var b strings.Builder
		for _, c := range week {
			if c.Empty() {
				b.WriteString(strings.Repeat(" ", 7))
				continue
			}
			fmt.Fprintf(&b, "%-7s", fmt.Sprintf("%2d%s", c.Day(), dayMarker(todo.Bucket(s.Tasks, c.Key()))))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func dayMarker(tasks []todo.Task) string {
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
		return " ok"
	}
	return fmt.Sprintf(" (%d)", open)
}
