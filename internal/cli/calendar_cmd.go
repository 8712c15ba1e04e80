package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	var (
		filters     filterFlags
		month       calendar.Month
		interactive bool
	)

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show tasks by due date for a month",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.today()
			if !cmd.Flags().Changed("month") {
				month = calendar.MonthOf(today)
			}

			if interactive {
				if !app.interactive() {
					return errors.New("interactive calendar needs a terminal")
				}
				model := newCalendarModel(app.Views, filters.criteria(), month, today)
				p := tea.NewProgram(model,
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
				)
				_, err := p.Run()
				return err
			}

			buckets, err := app.Views.Calendar(cmd.Context(), month, filters.criteria())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalendar(month, buckets, today))
			return nil
		},
	}

	cmd.Flags().Var(monthValue{&month}, "month", "Month to show (YYYY-MM, default this month)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse months interactively")
	filters.register(cmd.Flags())

	return cmd
}
