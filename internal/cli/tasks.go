package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"protask/internal/session"
	"protask/internal/todo"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			s, err := fetchState(contextOf(cmd), app, ctrl)
			if err != nil {
				return err
			}
			writeTasks(cmd.OutOrStdout(), s.Tasks, app.now())
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			s := session.New(session.ViewList, app.now())
			s.New = session.Draft{Title: args[0], Due: due}
			o, err := settle(contextOf(cmd), ctrl, s, ctrl.Create(s))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", o.Task.ID)
			writeTasks(cmd.OutOrStdout(), s.Tasks, app.now())
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a todo between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			s, err := fetchState(ctx, app, ctrl)
			if err != nil {
				return err
			}
			id := args[0]
			if _, ok := s.Task(id); !ok {
				return fmt.Errorf("todo not found: %s", id)
			}
			if _, err := settle(ctx, ctrl, s, ctrl.Toggle(s, id)); err != nil {
				return err
			}
			t, _ := s.Task(id)
			writeTasks(cmd.OutOrStdout(), []todo.Task{t}, app.now())
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var (
		title    string
		due      string
		clearDue bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a todo's title or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearDue && cmd.Flags().Changed("due") {
				return fmt.Errorf("--due and --clear-due are mutually exclusive")
			}
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			s, err := fetchState(ctx, app, ctrl)
			if err != nil {
				return err
			}
			id := args[0]
			if !s.StartEdit(id) {
				return fmt.Errorf("todo not found: %s", id)
			}
			if cmd.Flags().Changed("title") {
				s.Edit.Title = title
			}
			if cmd.Flags().Changed("due") {
				s.Edit.Due = due
			}
			if clearDue {
				s.Edit.Due = ""
			}
			if _, err := settle(ctx, ctrl, s, ctrl.Save(s)); err != nil {
				return err
			}
			t, _ := s.Task(id)
			writeTasks(cmd.OutOrStdout(), []todo.Task{t}, app.now())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			s := session.New(session.ViewList, app.now())
			if _, err := settle(contextOf(cmd), ctrl, s, ctrl.Delete(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
