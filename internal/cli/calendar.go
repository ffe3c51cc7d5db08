package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"protask/internal/calendar"
	"protask/internal/session"
)

func newMonthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month grid with per-day todo counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := calendar.MonthOf(app.now())
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("invalid month %q (want YYYY-MM)", args[0])
				}
				month = calendar.MonthOf(t)
			}
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			s, err := fetchState(contextOf(cmd), app, ctrl)
			if err != nil {
				return err
			}
			s.SwitchView(session.ViewCalendar)
			s.Month = month
			writeMonth(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List the todos due on one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid day %q (want YYYY-MM-DD)", args[0])
			}
			ctrl, err := app.controller()
			if err != nil {
				return err
			}
			s, err := fetchState(contextOf(cmd), app, ctrl)
			if err != nil {
				return err
			}
			s.SwitchView(session.ViewCalendar)
			s.SelectDay(date)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Tasks for %s\n", date.Format("Mon, Jan 2 2006"))
			tasks := s.DayTasks()
			if len(tasks) == 0 {
				fmt.Fprintln(w, "No tasks for this day.")
				return nil
			}
			writeTasks(w, tasks, app.now())
			return nil
		},
	}
}
