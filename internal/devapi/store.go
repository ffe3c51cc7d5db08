// Package devapi is a local stand-in for the remote task store. It serves the
// same four endpoints over a SQLite file and is used for development and tests.
package devapi

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"protask/internal/todo"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"updated_at": "ALTER TABLE tasks ADD COLUMN updated_at TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

const selectTask = `SELECT id, title, completed, due, created_at, updated_at FROM tasks`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (todo.Task, error) {
	var t todo.Task
	var completed int
	var dueStr, updatedStr sql.NullString
	var createdStr string
	if err := sc.Scan(&t.ID, &t.Title, &completed, &dueStr, &createdStr, &updatedStr); err != nil {
		return todo.Task{}, err
	}
	t.Completed = completed == 1
	if dueStr.Valid {
		if due, err := todo.ParseDue(dueStr.String); err == nil {
			t.Due = &due
		}
	}
	if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
		t.CreatedAt = created
	}
	if updatedStr.Valid {
		if updated, err := time.Parse(time.RFC3339, updatedStr.String); err == nil {
			t.UpdatedAt = updated
		}
	}
	return t, nil
}

// List returns all tasks, newest first.
func (s *Store) List(ctx context.Context) ([]todo.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectTask+` ORDER BY seq DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []todo.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id string) (todo.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, selectTask+` WHERE id = ?;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Task{}, ErrNotFound
	}
	return t, err
}

// Insert stores a new task under a fresh id and returns it.
func (s *Store) Insert(ctx context.Context, title string, completed bool, due *todo.DueDate) (todo.Task, error) {
	id := uuid.NewString()
	now := s.now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks (id, title, completed, due, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?);`,
		id, title, boolInt(completed), dueValue(due), now, now)
	if err != nil {
		return todo.Task{}, err
	}
	return s.Get(ctx, id)
}

// Changes lists the fields of a partial update; nil fields are left alone.
type Changes struct {
	Title     *string
	Completed *bool
	Due       **todo.DueDate
}

// Update applies c to the task with id and returns the stored record.
func (s *Store) Update(ctx context.Context, id string, c Changes) (todo.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{s.now().UTC().Format(time.RFC3339)}
	if c.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *c.Title)
	}
	if c.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolInt(*c.Completed))
	}
	if c.Due != nil {
		sets = append(sets, "due = ?")
		args = append(args, dueValue(*c.Due))
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return todo.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return todo.Task{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dueValue(due *todo.DueDate) sql.NullString {
	if due == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: due.String(), Valid: true}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
