package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskEditCmd(app),
		newTaskAssignCmd(app),
		newTaskRemoveCmd(app),
		newTaskReorderCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		in       domain.TaskInput
		end      time.Time
		progress int
		position int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("end") {
				in.EndDate = &end
			}
			if flags.Changed("progress") {
				in.Progress = &progress
			}
			if flags.Changed("position") {
				pos := position - 1
				in.Position = &pos
			}

			task, err := app.Tasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d %s\n", task.ID, task.Title)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Task title")
	f.StringVar(&in.Description, "description", "", "Longer description")
	f.StringVar(&in.Assignee, "assignee", "", "Person or crew responsible")
	f.Var(dateValue{&in.StartDate}, "start", "Start date (YYYY-MM-DD)")
	f.Var(dateValue{&in.DueDate}, "due", "Due date (YYYY-MM-DD)")
	f.Var(dateValue{&end}, "end", "Actual completion date (YYYY-MM-DD)")
	f.Var(statusValue{&in.Status}, "status", "Status (default pending)")
	f.Var(priorityValue{&in.Priority}, "priority", "Priority (default medium)")
	f.IntVar(&progress, "progress", 0, "Progress 0-100 (default derived from status)")
	f.IntVar(&position, "position", 0, "Insert at this 1-based position instead of the end")
	f.StringVar(&in.ProjectID, "project-id", "", "Owning project id")
	f.StringVar(&in.ProjectName, "project", "", "Owning project name")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("assignee")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.List(cmd.Context(), filters.criteria())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, app.today()))
			return nil
		},
	}

	filters.register(cmd.Flags())
	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(task, app.today()))
			return nil
		},
	}
}

func newTaskEditCmd(app *App) *cobra.Command {
	var (
		title, description, assignee string
		projectID, projectName       string
		status                       domain.TaskStatus
		priority                     domain.Priority
		start, due, end              time.Time
		progress                     int
		clearEnd                     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var patch domain.TaskPatch
			changed := false
			set := func(name string, apply func()) {
				if flags.Changed(name) {
					apply()
					changed = true
				}
			}
			set("title", func() { patch.Title = &title })
			set("description", func() { patch.Description = &description })
			set("assignee", func() { patch.Assignee = &assignee })
			set("status", func() { patch.Status = &status })
			set("priority", func() { patch.Priority = &priority })
			set("start", func() { patch.StartDate = &start })
			set("due", func() { patch.DueDate = &due })
			set("end", func() { patch.EndDate = &end })
			set("clear-end", func() { patch.ClearEndDate = clearEnd })
			set("progress", func() { patch.Progress = &progress })
			set("project-id", func() { patch.ProjectID = &projectID })
			set("project", func() { patch.ProjectName = &projectName })
			if !changed {
				return errors.New("nothing to change: pass at least one field flag")
			}

			task, err := app.Tasks.Edit(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d %s\n", task.ID, task.Title)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Task title")
	f.StringVar(&description, "description", "", "Longer description")
	f.StringVar(&assignee, "assignee", "", "Person or crew responsible")
	f.Var(statusValue{&status}, "status", "Status")
	f.Var(priorityValue{&priority}, "priority", "Priority")
	f.Var(dateValue{&start}, "start", "Start date (YYYY-MM-DD)")
	f.Var(dateValue{&due}, "due", "Due date (YYYY-MM-DD)")
	f.Var(dateValue{&end}, "end", "Actual completion date (YYYY-MM-DD)")
	f.BoolVar(&clearEnd, "clear-end", false, "Remove the recorded completion date")
	f.IntVar(&progress, "progress", 0, "Progress 0-100")
	f.StringVar(&projectID, "project-id", "", "Owning project id")
	f.StringVar(&projectName, "project", "", "Owning project name")
	cmd.MarkFlagsMutuallyExclusive("end", "clear-end")

	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <assignee>",
		Short: "Reassign a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Assign(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned task #%d to %s\n", task.ID, task.Assignee)
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete", "remove"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			removed, err := app.Tasks.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No task #%d; nothing deleted\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

func newTaskReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Move the given tasks to the front, in the order given",
		Long: "Move the given tasks to the front of the list in the order given.\n" +
			"Tasks not named keep their relative order after them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, a := range args {
				id, err := parseID("task", a)
				if err != nil {
					return err
				}
				ids[i] = id
			}
			if err := app.Tasks.Reorder(cmd.Context(), ids); err != nil {
				return err
			}
			tasks, err := app.Tasks.List(cmd.Context(), filter.Criteria{})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, app.today()))
			return nil
		},
	}
}
