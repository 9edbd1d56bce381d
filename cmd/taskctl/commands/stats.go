package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/dashboard"
)

func newStatsCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireLogin(); err != nil {
				return err
			}

			tasks, err := d.client.ListTasks(cmd.Context(), api.TaskQuery{})
			if err != nil {
				return err
			}

			// Listing users needs admin rights; stats degrade gracefully
			// without them.
			users, err := d.client.ListAllUsers(cmd.Context())
			if err != nil {
				users = nil
			}

			stats := dashboard.Compute(tasks, users, time.Now())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Tasks: %d total, %d pending, %d in progress, %d completed\n",
				stats.TotalTasks, stats.PendingTasks, stats.InProgressTasks, stats.CompletedTasks)
			if stats.OverdueTasks > 0 {
				fmt.Fprintf(out, "Overdue: %s\n", color.RedString("%d", stats.OverdueTasks))
			}
			fmt.Fprintf(out, "Completed: %d today, %d this week, %d this month\n",
				stats.CompletedToday, stats.CompletedThisWeek, stats.CompletedThisMonth)
			if stats.AverageCompletionHours > 0 {
				fmt.Fprintf(out, "Average completion time: %.1f hours\n", stats.AverageCompletionHours)
			}
			if stats.TotalUsers > 0 {
				fmt.Fprintf(out, "Users: %d total, %d active\n", stats.TotalUsers, stats.ActiveUsers)
			}

			if len(stats.TasksByCategory) > 0 {
				fmt.Fprintln(out, "By category:")
				for _, category := range sortedKeys(stats.TasksByCategory) {
					fmt.Fprintf(out, "  %s: %d\n", category, stats.TasksByCategory[category])
				}
			}
			return nil
		},
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
