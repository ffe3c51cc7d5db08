package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"protask/internal/todo"
)

// DefaultPrefix is the collection path served by NewHandler.
const DefaultPrefix = "/api/todos"

const maxBody = 1 << 20

type server struct {
	store  *Store
	logger *log.Logger
}

// NewHandler serves the task collection at prefix:
//
//	GET    {prefix}       list
//	POST   {prefix}       create
//	PUT    {prefix}/{id}  partial update
//	DELETE {prefix}/{id}  delete
func NewHandler(store *Store, prefix string, logger *log.Logger) http.Handler {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &server{store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix, s.list)
	mux.HandleFunc("POST "+prefix, s.create)
	mux.HandleFunc("PUT "+prefix+"/{id}", s.update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", s.remove)
	return mux
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title     string        `json:"title"`
		Completed bool          `json:"completed"`
		DueDate   *todo.DueDate `json:"dueDate"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&in); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	title, err := todo.ValidTitle(in.Title)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	due := in.DueDate
	if due != nil && due.IsZero() {
		due = nil
	}
	t, err := s.store.Insert(r.Context(), title, in.Completed, due)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("created", "id", t.ID, "title", t.Title)
	writeJSON(w, http.StatusCreated, t)
}

func (s *server) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&fields); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	c, err := parseChanges(fields)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	t, err := s.store.Update(r.Context(), id, c)
	if errors.Is(err, ErrNotFound) {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("updated", "id", t.ID)
	writeJSON(w, http.StatusOK, t)
}

func (s *server) remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
}

func parseChanges(fields map[string]json.RawMessage) (Changes, error) {
	var c Changes
	if raw, ok := fields["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return c, fmt.Errorf("title: %w", err)
		}
		title, err := todo.ValidTitle(title)
		if err != nil {
			return c, err
		}
		c.Title = &title
	}
	if raw, ok := fields["completed"]; ok {
		var done bool
		if err := json.Unmarshal(raw, &done); err != nil {
			return c, fmt.Errorf("completed: %w", err)
		}
		c.Completed = &done
	}
	if raw, ok := fields["dueDate"]; ok {
		var due *todo.DueDate
		if err := json.Unmarshal(raw, &due); err != nil {
			return c, err
		}
		if due != nil && due.IsZero() {
			due = nil
		}
		c.Due = &due
	}
	return c, nil
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	s.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
	writeJSON(w, code, map[string]string{"message": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
