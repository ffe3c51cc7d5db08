package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"protask/internal/devapi"
)

func newDevServerCmd(app *App) *cobra.Command {
	var (
		addr   string
		dbPath string
		prefix string
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve a local SQLite-backed task API for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := devapi.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			server := &http.Server{
				Handler:           devapi.NewHandler(store, prefix, app.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()
			app.logger.Info("dev task API listening", "addr", listener.Addr().String(), "prefix", prefix, "db", dbPath)

			ctx := contextOf(cmd)
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			app.logger.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "protask-dev.db", "SQLite database path")
	cmd.Flags().StringVar(&prefix, "prefix", devapi.DefaultPrefix, "Collection path")
	return cmd
}
