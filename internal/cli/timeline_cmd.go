package cli

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	var (
		filters filterFlags
		width   int
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show tasks as bars ordered by start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Views.Timeline(cmd.Context(), filters.criteria())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(entries, width))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 40, "Bar area width in columns")
	filters.register(cmd.Flags())

	return cmd
}
