// Package todo defines the task record exchanged with the remote task store.
package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"protask/internal/calendar"
)

// Task is the client's copy of a remote task record.
type Task struct {
	ID        string
	Title     string
	Completed bool
	Due       *DueDate
	CreatedAt time.Time
	UpdatedAt time.Time
}

type wireTask struct {
	ID        string     `json:"id,omitempty"`
	MongoID   string     `json:"_id,omitempty"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *DueDate   `json:"dueDate"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts the identifier as either "id" or "_id".
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	*t = Task{
		ID:        id,
		Title:     w.Title,
		Completed: w.Completed,
		Due:       w.DueDate,
	}
	if t.Due != nil && t.Due.IsZero() {
		t.Due = nil
	}
	if w.CreatedAt != nil {
		t.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		t.UpdatedAt = *w.UpdatedAt
	}
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	w := wireTask{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		DueDate:   t.Due,
	}
	if !t.CreatedAt.IsZero() {
		w.CreatedAt = &t.CreatedAt
	}
	if !t.UpdatedAt.IsZero() {
		w.UpdatedAt = &t.UpdatedAt
	}
	return json.Marshal(w)
}

// DueKey returns the task's due date key and whether it has one.
func (t Task) DueKey() (string, bool) {
	if t.Due == nil {
		return "", false
	}
	return calendar.Key(t.Due.Time), true
}

// Bucket returns, in order, the tasks due on the day identified by key.
func Bucket(tasks []Task, key string) []Task {
	var out []Task
	for _, t := range tasks {
		if k, ok := t.DueKey(); ok && k == key {
			out = append(out, t)
		}
	}
	return out
}

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Replace returns tasks with the record matching t.ID swapped for t. Order is
// preserved; the input slice is not modified. Unknown ids leave tasks as is.
func Replace(tasks []Task, t Task) []Task {
	i := IndexOf(tasks, t.ID)
	if i < 0 {
		return tasks
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	out[i] = t
	return out
}

// Remove returns tasks without the record with id.
func Remove(tasks []Task, id string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Prepend returns a new slice with t in front of tasks.
func Prepend(tasks []Task, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, t)
	return append(out, tasks...)
}

// ErrEmptyTitle is returned when a title is blank after trimming.
var ErrEmptyTitle = errors.New("title cannot be empty")

// ValidTitle trims title and rejects it when empty.
func ValidTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

// Describe returns a one-line summary used in logs and status lines.
func (t Task) Describe() string {
	s := fmt.Sprintf("%s %q", t.ID, t.Title)
	if t.Due != nil {
		s += " due " + t.Due.Input()
	}
	return s
}
