package session

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"protask/internal/api"
	"protask/internal/todo"
)

// Op identifies a remote operation.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpToggle
	OpSave
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpCreate:
		return "create"
	case OpToggle:
		return "toggle"
	case OpSave:
		return "save"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// FailureMessage is the fixed text shown when o fails.
func (o Op) FailureMessage() string {
	switch o {
	case OpFetch:
		return MsgFetchFailed
	case OpCreate:
		return MsgAddFailed
	case OpDelete:
		return MsgDeleteFailed
	default:
		return MsgUpdateFailed
	}
}

// Outcome is the settled result of a Call.
type Outcome struct {
	Op    Op
	ID    string
	Task  todo.Task
	Tasks []todo.Task
	Err   error
}

// Call performs one round trip. Calls never touch State.
type Call func(ctx context.Context) Outcome

// Controller builds Calls against a store.
type Controller struct {
	store  api.Store
	logger *log.Logger
}

// NewController returns a controller. A nil logger discards diagnostics.
func NewController(store api.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{store: store, logger: logger}
}

// Run performs call and applies its outcome. A nil call is a no-op.
func (c *Controller) Run(ctx context.Context, s *State, call Call) (Outcome, bool) {
	if call == nil {
		return Outcome{}, false
	}
	o := call(ctx)
	s.Apply(o)
	return o, true
}

// Fetch loads every task.
func (c *Controller) Fetch() Call {
	return func(ctx context.Context) Outcome {
		tasks, err := c.store.List(ctx)
		c.report(OpFetch, "", err)
		if err == nil {
			c.logger.Debug("fetched todos", "count", len(tasks))
		}
		return Outcome{Op: OpFetch, Tasks: tasks, Err: err}
	}
}

// Create returns nil when the new-task title is blank. A due date that does
// not parse fails the operation without a round trip.
func (c *Controller) Create(s *State) Call {
	title, err := todo.ValidTitle(s.New.Title)
	if err != nil {
		return nil
	}
	dueText := s.New.Due
	return func(ctx context.Context) Outcome {
		due, err := todo.ParseOptionalDue(dueText)
		if err != nil {
			c.report(OpCreate, "", err)
			return Outcome{Op: OpCreate, Err: err}
		}
		t, err := c.store.Create(ctx, api.NewTask{Title: title, Completed: false, DueDate: due})
		c.report(OpCreate, t.ID, err)
		return Outcome{Op: OpCreate, ID: t.ID, Task: t, Err: err}
	}
}

// Toggle flips the completion flag of id. Unknown ids yield nil.
func (c *Controller) Toggle(s *State, id string) Call {
	t, ok := s.Task(id)
	if !ok {
		return nil
	}
	want := !t.Completed
	return func(ctx context.Context) Outcome {
		updated, err := c.store.Update(ctx, id, api.CompletedPatch(want))
		c.report(OpToggle, id, err)
		return Outcome{Op: OpToggle, ID: id, Task: updated, Err: err}
	}
}

// Save sends the edit buffers for the task being edited. It returns nil when
// nothing is being edited or the edited title is blank.
func (c *Controller) Save(s *State) Call {
	if s.Editing == "" {
		return nil
	}
	title, err := todo.ValidTitle(s.Edit.Title)
	if err != nil {
		return nil
	}
	id, dueText := s.Editing, s.Edit.Due
	return func(ctx context.Context) Outcome {
		due, err := todo.ParseOptionalDue(dueText)
		if err != nil {
			c.report(OpSave, id, err)
			return Outcome{Op: OpSave, ID: id, Err: err}
		}
		updated, err := c.store.Update(ctx, id, api.EditPatch(title, due))
		c.report(OpSave, id, err)
		return Outcome{Op: OpSave, ID: id, Task: updated, Err: err}
	}
}

// Delete removes id.
func (c *Controller) Delete(id string) Call {
	return func(ctx context.Context) Outcome {
		err := c.store.Delete(ctx, id)
		c.report(OpDelete, id, err)
		return Outcome{Op: OpDelete, ID: id, Err: err}
	}
}

func (c *Controller) report(op Op, id string, err error) {
	if err != nil {
		c.logger.Error(op.FailureMessage(), "op", op, "id", id, "err", err)
		return
	}
	if op != OpFetch {
		c.logger.Debug("remote ok", "op", op, "id", id)
	}
}
