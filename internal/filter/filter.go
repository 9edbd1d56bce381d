package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/models"
)

// All is the sentinel filter value meaning "no restriction".
const All = "ALL"

// TaskFilter narrows a task list client-side. Zero or All values leave the
// corresponding dimension unrestricted.
type TaskFilter struct {
	Keyword     string
	Status      string
	Priority    string
	Category    string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// Apply returns the tasks matching every set dimension of the filter. The
// input slice is not modified.
func (f TaskFilter) Apply(tasks []models.Task) []models.Task {
	matched := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if f.matches(task) {
			matched = append(matched, task)
		}
	}
	return matched
}

func (f TaskFilter) matches(task models.Task) bool {
	if keyword := strings.ToLower(strings.TrimSpace(f.Keyword)); keyword != "" {
		haystack := strings.ToLower(task.Title + " " + task.Description + " " + task.Category)
		if !strings.Contains(haystack, keyword) {
			return false
		}
	}
	if f.Status != "" && f.Status != All && string(task.Status) != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != All && string(task.Priority) != f.Priority {
		return false
	}
	if f.Category != "" && f.Category != All && !strings.EqualFold(task.Category, f.Category) {
		return false
	}
	if f.DueDateFrom != nil {
		if task.DueDate == nil || task.DueDate.Before(*f.DueDateFrom) {
			return false
		}
	}
	if f.DueDateTo != nil {
		if task.DueDate == nil || task.DueDate.After(*f.DueDateTo) {
			return false
		}
	}
	return true
}

// Sort keys accepted by SortTasks.
const (
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
	SortByTitle     = "title"
	SortByCreatedAt = "createdAt"
	SortByStatus    = "status"
)

var priorityRank = map[models.TaskPriority]int{
	models.TaskPriorityHigh:   0,
	models.TaskPriorityMedium: 1,
	models.TaskPriorityLow:    2,
}

var statusRank = map[models.TaskStatus]int{
	models.TaskStatusPending:    0,
	models.TaskStatusInProgress: 1,
	models.TaskStatusCompleted:  2,
}

// SortTasks returns a sorted copy of tasks. Unknown keys fall back to the
// due date ordering. Tasks without the sorted-on timestamp go last in
// either direction.
func SortTasks(tasks []models.Task, key string, ascending bool) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	var less func(a, b models.Task) bool
	switch key {
	case SortByPriority:
		less = func(a, b models.Task) bool {
			return directed(priorityRank[a.Priority] < priorityRank[b.Priority],
				priorityRank[a.Priority] == priorityRank[b.Priority], ascending)
		}
	case SortByTitle:
		less = func(a, b models.Task) bool {
			ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
			return directed(ta < tb, ta == tb, ascending)
		}
	case SortByCreatedAt:
		less = func(a, b models.Task) bool {
			return timeLess(a.CreatedAt, b.CreatedAt, ascending)
		}
	case SortByStatus:
		less = func(a, b models.Task) bool {
			return directed(statusRank[a.Status] < statusRank[b.Status],
				statusRank[a.Status] == statusRank[b.Status], ascending)
		}
	default:
		less = func(a, b models.Task) bool {
			return timeLess(a.DueDate, b.DueDate, ascending)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func directed(isLess, equal, ascending bool) bool {
	if equal {
		return false
	}
	if ascending {
		return isLess
	}
	return !isLess
}

// timeLess orders by timestamp honoring direction, with nil timestamps
// pinned after everything else either way.
func timeLess(a, b *time.Time, ascending bool) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return directed(a.Before(*b), a.Equal(*b), ascending)
	}
}
