// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"protask/internal/api"
	"protask/internal/todo"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected failure")

// FakeStore is an in-memory implementation of api.Store for testing.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []todo.Task
	nextID int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Calls counts invocations per operation name.
	Calls map[string]int
}

// NewFakeStore creates a FakeStore holding tasks in the given order.
func NewFakeStore(tasks ...todo.Task) *FakeStore {
	return &FakeStore{
		tasks: append([]todo.Task(nil), tasks...),
		Calls: map[string]int{},
	}
}

// Tasks returns a copy of the stored tasks.
func (f *FakeStore) Tasks() []todo.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]todo.Task(nil), f.tasks...)
}

// TotalCalls returns the number of operations invoked.
func (f *FakeStore) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *FakeStore) record(op string) {
	f.Calls[op]++
}

// List implements api.Store.
func (f *FakeStore) List(ctx context.Context) ([]todo.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.ListErr != nil {
		return nil, &api.RemoteError{Op: "list", Err: f.ListErr}
	}
	return append([]todo.Task{}, f.tasks...), nil
}

// Create implements api.Store.
func (f *FakeStore) Create(ctx context.Context, in api.NewTask) (todo.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.CreateErr != nil {
		return todo.Task{}, &api.RemoteError{Op: "create", Err: f.CreateErr}
	}
	f.nextID++
	t := todo.Task{
		ID:        fmt.Sprintf("task-%d", f.nextID),
		Title:     in.Title,
		Completed: in.Completed,
		Due:       in.DueDate,
	}
	f.tasks = todo.Prepend(f.tasks, t)
	return t, nil
}

// Update implements api.Store.
func (f *FakeStore) Update(ctx context.Context, id string, patch api.Patch) (todo.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update")
	if f.UpdateErr != nil {
		return todo.Task{}, &api.RemoteError{Op: "update", ID: id, Err: f.UpdateErr}
	}
	i := todo.IndexOf(f.tasks, id)
	if i < 0 {
		return todo.Task{}, &api.RemoteError{Op: "update", ID: id, Err: &api.StatusError{Code: 404}}
	}
	t := f.tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.SetDue {
		t.Due = patch.DueDate
	}
	f.tasks[i] = t
	return t, nil
}

// Delete implements api.Store.
func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if f.DeleteErr != nil {
		return &api.RemoteError{Op: "delete", ID: id, Err: f.DeleteErr}
	}
	if todo.IndexOf(f.tasks, id) < 0 {
		return &api.RemoteError{Op: "delete", ID: id, Err: &api.StatusError{Code: 404}}
	}
	f.tasks = todo.Remove(f.tasks, id)
	return nil
}
