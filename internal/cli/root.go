package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"protask/internal/api"
	"protask/internal/config"
	"protask/internal/logging"
	"protask/internal/session"
	"protask/internal/ui"
)

type App struct {
	ConfigPath string
	APIURL     string
	LogFile    string
	Debug      bool
	View       string

	cfg      config.Config
	logger   *log.Logger
	closeLog func() error
	now      func() time.Time
}

func NewRootCmd() *cobra.Command {
	app := &App{now: time.Now}

	cmd := &cobra.Command{
		Use:          "protask",
		Short:        "Todo list and calendar for a remote task API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  protask

  # Open the calendar view first
  protask --view calendar

  # Scriptable commands
  protask add "Ship release" --due 2024-03-15T09:00
  protask month 2024-03
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(contextOf(cmd), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default: $PROTASK_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Task collection URL (overrides env and config)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Append logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")
	cmd.Flags().StringVar(&app.View, "view", "", "Initial view (list|calendar)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newMonthCmd(app))
	cmd.AddCommand(newDayCmd(app))
	cmd.AddCommand(newDevServerCmd(app))

	return cmd
}

// load resolves config, env, and flags, in increasing precedence.
func (app *App) load(cmd *cobra.Command) error {
	path := app.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if app.APIURL != "" {
		cfg.APIURL = app.APIURL
	}
	if app.LogFile != "" {
		cfg.LogFile = app.LogFile
	}
	if app.Debug {
		cfg.LogLevel = "debug"
	}
	if app.View != "" {
		if app.View != "list" && app.View != "calendar" {
			return fmt.Errorf("invalid --view %q (want list or calendar)", app.View)
		}
		cfg.DefaultView = app.View
	}
	app.cfg = cfg

	// The TUI owns the terminal, so it only logs to a file.
	var fallback io.Writer
	if cmd.Name() == "devserver" || (app.Debug && cmd != cmd.Root()) {
		fallback = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.New(logging.Options{
		File:     cfg.LogFile,
		Level:    cfg.LogLevel,
		Fallback: fallback,
		Prefix:   config.AppName,
	})
	if err != nil {
		return err
	}
	app.logger = logger
	app.closeLog = closeLog
	return nil
}

func (app *App) controller() (*session.Controller, error) {
	client, err := api.New(app.cfg.APIURL, api.WithTimeout(app.cfg.RequestTimeout.Duration))
	if err != nil {
		return nil, err
	}
	app.logger.Debug("using task API", "url", client.BaseURL())
	return session.NewController(client, app.logger), nil
}

func runTUI(ctx context.Context, app *App) error {
	ctrl, err := app.controller()
	if err != nil {
		return err
	}
	return ui.Run(ctx, ctrl, app.cfg)
}

// opFailed carries the fixed user-facing message of a failed operation.
type opFailed struct {
	msg string
}

func (e opFailed) Error() string { return e.msg }

var errEmptyTitle = errors.New("Title cannot be empty")

// settle runs call against s and reports the fixed message on failure.
func settle(ctx context.Context, ctrl *session.Controller, s *session.State, call session.Call) (session.Outcome, error) {
	o, ran := ctrl.Run(ctx, s, call)
	if !ran {
		return o, errEmptyTitle
	}
	if o.Err != nil {
		return o, opFailed{msg: s.Err}
	}
	return o, nil
}

// fetchState loads the collection into a fresh state.
func fetchState(ctx context.Context, app *App, ctrl *session.Controller) (*session.State, error) {
	s := session.New(session.ParseView(app.cfg.DefaultView), app.now())
	if _, err := settle(ctx, ctrl, s, ctrl.Fetch()); err != nil {
		return s, err
	}
	return s, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
