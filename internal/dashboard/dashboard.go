package dashboard

import (
	"sort"
	"time"

	"github.com/taskdeck/taskdeck/internal/models"
)

// Stats is the aggregate view shown on the dashboard, computed client-side
// from the full task and user sets.
type Stats struct {
	TotalTasks      int `json:"totalTasks"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
	OverdueTasks    int `json:"overdueTasks"`

	TasksByCategory map[string]int `json:"tasksByCategory"`
	TasksByPriority map[string]int `json:"tasksByPriority"`
	CategoriesCount int            `json:"categoriesCount"`

	TotalUsers  int `json:"totalUsers"`
	ActiveUsers int `json:"activeUsers"`

	CompletedToday     int `json:"completedToday"`
	CompletedThisWeek  int `json:"completedThisWeek"`
	CompletedThisMonth int `json:"completedThisMonth"`

	AverageCompletionHours float64 `json:"averageCompletionHours"`

	RecentActivity []models.Task `json:"recentActivity"`
}

const recentActivityLimit = 5

// Compute aggregates tasks and users into dashboard statistics. The now
// argument anchors the overdue and completed-recently buckets.
func Compute(tasks []models.Task, users []models.User, now time.Time) Stats {
	stats := Stats{
		TotalTasks:      len(tasks),
		TasksByCategory: map[string]int{},
		TasksByPriority: map[string]int{},
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfToday.AddDate(0, 0, -int(startOfToday.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var completionTotal time.Duration
	var completionSamples int

	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusPending:
			stats.PendingTasks++
		case models.TaskStatusInProgress:
			stats.InProgressTasks++
		case models.TaskStatusCompleted:
			stats.CompletedTasks++
		}

		if task.Status != models.TaskStatusCompleted && task.DueDate != nil && task.DueDate.Before(now) {
			stats.OverdueTasks++
		}

		category := task.Category
		if category == "" {
			category = "Uncategorized"
		}
		stats.TasksByCategory[category]++

		priority := task.Priority
		if priority == "" {
			priority = models.TaskPriorityMedium
		}
		stats.TasksByPriority[string(priority)]++

		if task.Status == models.TaskStatusCompleted && task.CompletionDate != nil {
			completed := *task.CompletionDate
			if !completed.Before(startOfToday) {
				stats.CompletedToday++
			}
			if !completed.Before(startOfWeek) {
				stats.CompletedThisWeek++
			}
			if !completed.Before(startOfMonth) {
				stats.CompletedThisMonth++
			}
			if task.CreatedAt != nil && !completed.Before(*task.CreatedAt) {
				completionTotal += completed.Sub(*task.CreatedAt)
				completionSamples++
			}
		}
	}

	stats.CategoriesCount = len(stats.TasksByCategory)

	if completionSamples > 0 {
		stats.AverageCompletionHours = completionTotal.Hours() / float64(completionSamples)
	}

	stats.TotalUsers = len(users)
	for _, user := range users {
		if user.IsActive {
			stats.ActiveUsers++
		}
	}

	stats.RecentActivity = recentActivity(tasks)
	return stats
}

// recentActivity returns the most recently touched tasks, newest first.
// Tasks without an update timestamp sort last.
func recentActivity(tasks []models.Task) []models.Task {
	recent := make([]models.Task, len(tasks))
	copy(recent, tasks)

	sort.SliceStable(recent, func(i, j int) bool {
		a, b := recent[i].UpdatedAt, recent[j].UpdatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}
	return recent
}
