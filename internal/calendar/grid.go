package calendar

import "time"

// WeekdayLabels are the grid column headings, Sunday first.
var WeekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cell is one position in a month grid. Padding cells have a zero Date.
type Cell struct {
	Date time.Time
}

// Empty reports whether c is padding before the first day of the month.
func (c Cell) Empty() bool {
	return c.Date.IsZero()
}

// Day returns the day of month, or 0 for padding.
func (c Cell) Day() int {
	if c.Empty() {
		return 0
	}
	return c.Date.Day()
}

// Key returns the cell's date key, or "" for padding.
func (c Cell) Key() string {
	if c.Empty() {
		return ""
	}
	return Key(c.Date)
}

// Grid lays out m as a Sunday-first, 7-column grid: FirstWeekday empty cells
// followed by one dated cell per day. Rows are not padded at the end.
func Grid(m Month) []Cell {
	pad := m.FirstWeekday()
	days := m.Days()
	cells := make([]Cell, pad, pad+days)
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Date: Date(m.Year, m.Month, d)})
	}
	return cells
}

// Weeks splits Grid(m) into rows of 7. The last row may be short.
func (m Month) Weeks() [][]Cell {
	cells := Grid(m)
	var rows [][]Cell
	for len(cells) > 0 {
		n := min(7, len(cells))
		rows = append(rows, cells[:n])
		cells = cells[n:]
	}
	return rows
}
