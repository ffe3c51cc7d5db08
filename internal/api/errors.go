package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRemote matches every failure of a remote store operation.
var ErrRemote = errors.New("remote operation failed")

// RemoteError is the single error kind returned by Client. Op names the
// operation ("list", "create", "update", "delete").
type RemoteError struct {
	Op  string
	ID  string
	Err error
}

func (e *RemoteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRemote) hold for any RemoteError.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// StatusError describes a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, body)
}
