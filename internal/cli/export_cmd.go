package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/siteplan/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		filters   filterFlags
		timeframe = export.Weekly
		anchor    time.Time
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tasks active in a day, week or month",
		Long: "Export every task whose start-to-due span overlaps the chosen window.\n" +
			"Weekly windows run seven days from --date; monthly windows cover\n" +
			"the calendar month containing --date.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fm, err := export.FormatterFor(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("date") {
				anchor = app.today()
			}

			report, err := app.Views.Export(cmd.Context(), timeframe, anchor, filters.criteria())
			if err != nil {
				return err
			}
			doc, err := fm.Format(report)
			if err != nil {
				return fmt.Errorf("formatting export: %w", err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(doc.Data)
				return err
			}
			path := output
			if path == "" {
				path = doc.Name
			}
			if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) for %s to %s\n", len(report.Tasks), report.Label, path)
			return nil
		},
	}

	f := cmd.Flags()
	f.VarP(timeframeValue{&timeframe}, "timeframe", "t", "Window size: daily, weekly or monthly")
	f.Var(dateValue{&anchor}, "date", "Anchor date (YYYY-MM-DD, default today)")
	f.StringVarP(&format, "format", "f", "json", "Output format: json or csv")
	f.StringVarP(&output, "output", "o", "", "Output file, or - for stdout (default siteplan-<timeframe>-<date>.<format>)")
	filters.register(f)

	return cmd
}
