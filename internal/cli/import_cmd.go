package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Preview and import tasks from a JSON, YAML or CSV schedule",
		Long: "Stage the rows of a schedule file, show which rows become tasks and\n" +
			"which are rejected, then add the valid ones after confirmation.\n" +
			"Rejected rows never block the others.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			staged, err := app.Import.StageFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatImportPreview(staged.Source, staged.Staged))
			if staged.Valid() == 0 {
				return service.ErrNothingToImport
			}

			if !yes {
				if !app.interactive() {
					fmt.Fprintln(out, "Preview only. Re-run with --yes to import.")
					return nil
				}
				confirmed := false
				form := wizardConfirm(
					fmt.Sprintf("Import %d task(s)?", staged.Valid()),
					fmt.Sprintf("%d row(s) will be skipped.", len(staged.Rejected())),
					&confirmed,
				)
				if err := form.Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Import cancelled.")
					return nil
				}
			}

			result, err := app.Import.Commit(ctx, staged)
			if err != nil {
				return err
			}
			ids := make([]string, len(result.Tasks))
			for i, t := range result.Tasks {
				ids[i] = fmt.Sprintf("#%d", t.ID)
			}
			fmt.Fprintf(out, "Imported %d task(s): %s\n", len(result.Tasks), strings.Join(ids, ", "))
			if result.Skipped > 0 {
				fmt.Fprintf(out, "Skipped %d rejected row(s)\n", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Import without asking for confirmation")
	return cmd
}
