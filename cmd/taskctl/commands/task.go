package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/dto"
	"github.com/taskdeck/taskdeck/internal/filter"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/normalize"
	"github.com/taskdeck/taskdeck/internal/validation"
)

func newTaskCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with tasks",
	}

	cmd.AddCommand(
		newTaskListCommand(d),
		newTaskCreateCommand(d),
		newTaskDoneCommand(d),
		newTaskRemoveCommand(d),
	)
	return cmd
}

func newTaskListCommand(d *deps) *cobra.Command {
	var (
		keyword  string
		status   string
		priority string
		category string
		sortKey  string
		desc     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireLogin(); err != nil {
				return err
			}

			tasks, err := d.client.ListTasks(cmd.Context(), api.TaskQuery{
				Keyword:  keyword,
				Status:   status,
				Priority: priority,
				Category: category,
			})
			if err != nil {
				return err
			}

			tasks = filter.SortTasks(tasks, sortKey, !desc)

			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
			now := time.Now()
			for _, task := range tasks {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					task.ID,
					colorStatus(task.Status),
					colorPriority(task.Priority),
					formatDue(task, now),
					task.Title,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "search in title, description and category")
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (PENDING, IN_PROGRESS, COMPLETED)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "filter by priority (LOW, MEDIUM, HIGH)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category")
	cmd.Flags().StringVar(&sortKey, "sort", filter.SortByDueDate, "sort key (dueDate, priority, title, createdAt, status)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func newTaskCreateCommand(d *deps) *cobra.Command {
	var (
		description   string
		due           string
		priority      string
		category      string
		collaborators []uint
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireLogin(); err != nil {
				return err
			}

			title := args[0]

			var dueValue any
			if due != "" {
				dueValue = due
			}
			errs := validation.ValidateTaskForm(validation.TaskForm{
				Title:       title,
				Description: description,
				DueDate:     dueValue,
				Priority:    priority,
				Category:    category,
			})
			if validation.HasErrors(errs) {
				return fmt.Errorf("%s", validation.FormatErrors(errs))
			}

			task := models.Task{
				Title:       title,
				Description: description,
				Priority:    models.TaskPriority(priority),
				Category:    category,
			}
			if due != "" {
				parsed, err := time.ParseInLocation(constants.LocalDateLayout, due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", due)
				}
				task.DueDate = &parsed
			}

			ids := make([]uint64, len(collaborators))
			for i, id := range collaborators {
				ids[i] = uint64(id)
			}
			if len(ids) > 0 {
				active, err := d.client.ListActiveUsers(cmd.Context())
				if err != nil {
					return err
				}
				resolved, dropped := normalize.ResolveCollaborators(ids, active)
				for _, id := range dropped {
					color.Yellow("skipping collaborator %d: no such active user", id)
				}
				ids = dto.CollaboratorIDs(resolved)
			}

			created, err := d.client.CreateTask(cmd.Context(), dto.BuildCreateTaskRequest(task, ids))
			if err != nil {
				return err
			}

			color.Green("Created task %d: %s", created.ID, created.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority (LOW, MEDIUM, HIGH)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")
	cmd.Flags().UintSliceVar(&collaborators, "collaborator", nil, "collaborator user id (repeatable)")
	return cmd
}

func newTaskDoneCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark one or more tasks completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireLogin(); err != nil {
				return err
			}

			ids := make([]uint64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseUint(arg, 10, 64)
				if err != nil || id == 0 {
					return fmt.Errorf("invalid task id %q", arg)
				}
				ids = append(ids, id)
			}

			result, err := d.client.BulkUpdateStatus(cmd.Context(), ids, models.TaskStatusCompleted)
			if err != nil {
				return err
			}

			color.Green("Completed %d of %d tasks", result.Succeeded(), result.Requested())
			for _, failure := range result.Failures {
				color.Yellow("  task %d: %v", failure.TaskID, failure.Err)
			}
			return nil
		},
	}
}

func newTaskRemoveCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireLogin(); err != nil {
				return err
			}

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			if err := d.client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			color.Green("Deleted task %d", id)
			return nil
		},
	}
}

func colorStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return color.GreenString(string(status))
	case models.TaskStatusInProgress:
		return color.CyanString(string(status))
	default:
		return string(status)
	}
}

func colorPriority(priority models.TaskPriority) string {
	switch priority {
	case models.TaskPriorityHigh:
		return color.RedString(string(priority))
	case models.TaskPriorityLow:
		return color.HiBlackString(string(priority))
	default:
		return string(priority)
	}
}

func formatDue(task models.Task, now time.Time) string {
	if task.DueDate == nil {
		return "-"
	}
	due := task.DueDate.Format(constants.LocalDateLayout)
	if task.Status != models.TaskStatusCompleted && task.DueDate.Before(now) {
		return color.RedString(due)
	}
	return due
}
