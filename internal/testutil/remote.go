package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"protask/internal/devapi"
)

// Remote is a development task store served over HTTP for a single test.
type Remote struct {
	Server *httptest.Server
	Store  *devapi.Store
}

// URL returns the collection URL clients should use.
func (r *Remote) URL() string {
	return r.Server.URL + devapi.DefaultPrefix
}

// NewRemote starts a SQLite-backed dev store in a temp dir. It is shut down
// when the test ends.
func NewRemote(t testing.TB) *Remote {
	t.Helper()
	store, err := devapi.Open(filepath.Join(t.TempDir(), "remote.db"))
	if err != nil {
		t.Fatalf("open dev store: %v", err)
	}
	srv := httptest.NewServer(devapi.NewHandler(store, devapi.DefaultPrefix, nil))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return &Remote{Server: srv, Store: store}
}
