package cli

import (
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks  service.TaskService
	Views  service.ViewService
	Import service.ImportService

	// IsInteractive reports whether prompts and the calendar TUI may run.
	// Nil means never.
	IsInteractive func() bool
	// Now defaults to the wall clock.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// today is the current date, used for relative due dates and default anchors.
func (a *App) today() time.Time {
	if a.Now != nil {
		return domain.DateOnly(a.Now())
	}
	return domain.DateOnly(time.Now())
}

// NewRootCmd creates the top-level "siteplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "siteplan",
		Short:         "Construction task tracker with calendar, timeline and import/export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTaskCmd(app),
		newSubtaskCmd(app),
		newCalendarCmd(app),
		newTimelineCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}
