package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/cobra"
)

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"sub"},
		Short:   "Manage the subtasks of a task",
	}

	cmd.AddCommand(
		newSubtaskAddCmd(app),
		newSubtaskEditCmd(app),
		newSubtaskRemoveCmd(app),
	)

	return cmd
}

// parseSubtaskArgs reads "<task-id> <subtask-id>".
func parseSubtaskArgs(args []string) (taskID, subtaskID int, err error) {
	if taskID, err = parseID("task", args[0]); err != nil {
		return 0, 0, err
	}
	if subtaskID, err = parseID("subtask", args[1]); err != nil {
		return 0, 0, err
	}
	return taskID, subtaskID, nil
}

func newSubtaskAddCmd(app *App) *cobra.Command {
	var (
		in       domain.SubtaskInput
		progress int
	)

	cmd := &cobra.Command{
		Use:   "add <task-id>",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("progress") {
				in.Progress = &progress
			}
			sub, err := app.Tasks.AddSubtask(cmd.Context(), taskID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added subtask #%d %s to task #%d\n", sub.ID, sub.Title, taskID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Subtask title")
	f.StringVar(&in.Assignee, "assignee", "", "Person or crew responsible")
	f.Var(statusValue{&in.Status}, "status", "Status (default pending)")
	f.IntVar(&progress, "progress", 0, "Progress 0-100 (default derived from status)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newSubtaskEditCmd(app *App) *cobra.Command {
	var (
		title, assignee string
		status          domain.TaskStatus
		progress        int
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id> <subtask-id>",
		Short: "Change fields of a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, subtaskID, err := parseSubtaskArgs(args)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var patch domain.SubtaskPatch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("assignee") {
				patch.Assignee = &assignee
			}
			if flags.Changed("status") {
				patch.Status = &status
			}
			if flags.Changed("progress") {
				patch.Progress = &progress
			}
			if patch == (domain.SubtaskPatch{}) {
				return errors.New("nothing to change: pass at least one field flag")
			}

			sub, err := app.Tasks.EditSubtask(cmd.Context(), taskID, subtaskID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated subtask #%d %s (%d%%)\n", sub.ID, sub.Title, sub.Progress)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Subtask title")
	f.StringVar(&assignee, "assignee", "", "Person or crew responsible")
	f.Var(statusValue{&status}, "status", "Status")
	f.IntVar(&progress, "progress", 0, "Progress 0-100")

	return cmd
}

func newSubtaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id> <subtask-id>",
		Aliases: []string{"delete", "remove"},
		Short:   "Remove a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, subtaskID, err := parseSubtaskArgs(args)
			if err != nil {
				return err
			}
			if err := app.Tasks.RemoveSubtask(cmd.Context(), taskID, subtaskID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed subtask #%d from task #%d\n", subtaskID, taskID)
			return nil
		},
	}
}
