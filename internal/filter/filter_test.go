package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/models"
)

func date(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	require.NoError(t, err)
	return &parsed
}

func sampleTasks(t *testing.T) []models.Task {
	t.Helper()
	return []models.Task{
		{ID: 1, Title: "Fix login bug", Description: "Session expires early", Category: "Work",
			Status: models.TaskStatusPending, Priority: models.TaskPriorityHigh, DueDate: date(t, "2024-06-10")},
		{ID: 2, Title: "Buy groceries", Category: "Home",
			Status: models.TaskStatusCompleted, Priority: models.TaskPriorityLow, DueDate: date(t, "2024-06-05")},
		{ID: 3, Title: "Write report", Description: "Quarterly numbers", Category: "Work",
			Status: models.TaskStatusInProgress, Priority: models.TaskPriorityMedium},
	}
}

func ids(tasks []models.Task) []uint64 {
	out := make([]uint64, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func TestApply_Keyword(t *testing.T) {
	tasks := sampleTasks(t)

	assert.Equal(t, []uint64{1}, ids(TaskFilter{Keyword: "LOGIN"}.Apply(tasks)),
		"keyword match is case-insensitive")
	assert.Equal(t, []uint64{3}, ids(TaskFilter{Keyword: "quarterly"}.Apply(tasks)),
		"keyword also matches the description")
	assert.Equal(t, []uint64{1, 3}, ids(TaskFilter{Keyword: "work"}.Apply(tasks)),
		"keyword also matches the category")
	assert.Empty(t, TaskFilter{Keyword: "nothing"}.Apply(tasks))
}

func TestApply_AllSentinelMeansUnrestricted(t *testing.T) {
	tasks := sampleTasks(t)

	assert.Len(t, TaskFilter{Status: All, Priority: All, Category: All}.Apply(tasks), 3)
	assert.Len(t, TaskFilter{}.Apply(tasks), 3)
}

func TestApply_Dimensions(t *testing.T) {
	tasks := sampleTasks(t)

	assert.Equal(t, []uint64{1}, ids(TaskFilter{Status: "PENDING"}.Apply(tasks)))
	assert.Equal(t, []uint64{3}, ids(TaskFilter{Priority: "MEDIUM"}.Apply(tasks)))
	assert.Equal(t, []uint64{2}, ids(TaskFilter{Category: "home"}.Apply(tasks)),
		"category filter ignores case")
}

func TestApply_DueDateRange(t *testing.T) {
	tasks := sampleTasks(t)

	got := TaskFilter{DueDateFrom: date(t, "2024-06-06"), DueDateTo: date(t, "2024-06-30")}.Apply(tasks)
	assert.Equal(t, []uint64{1}, ids(got), "undated tasks never match a date range")

	got = TaskFilter{DueDateTo: date(t, "2024-06-06")}.Apply(tasks)
	assert.Equal(t, []uint64{2}, ids(got))
}

func TestApply_CombinesDimensions(t *testing.T) {
	tasks := sampleTasks(t)

	got := TaskFilter{Keyword: "work", Status: "IN_PROGRESS"}.Apply(tasks)
	assert.Equal(t, []uint64{3}, ids(got))
}

func TestSortTasks_DueDate(t *testing.T) {
	tasks := sampleTasks(t)

	asc := SortTasks(tasks, SortByDueDate, true)
	assert.Equal(t, []uint64{2, 1, 3}, ids(asc), "undated tasks sort last ascending")

	desc := SortTasks(tasks, SortByDueDate, false)
	assert.Equal(t, []uint64{1, 2, 3}, ids(desc), "undated tasks stay last descending")
}

func TestSortTasks_Priority(t *testing.T) {
	tasks := sampleTasks(t)

	got := SortTasks(tasks, SortByPriority, true)
	assert.Equal(t, []uint64{1, 3, 2}, ids(got), "high priority first")
}

func TestSortTasks_Title(t *testing.T) {
	tasks := sampleTasks(t)

	got := SortTasks(tasks, SortByTitle, true)
	assert.Equal(t, []uint64{2, 1, 3}, ids(got))
}

func TestSortTasks_Status(t *testing.T) {
	tasks := sampleTasks(t)

	got := SortTasks(tasks, SortByStatus, true)
	assert.Equal(t, []uint64{1, 3, 2}, ids(got))
}

func TestSortTasks_UnknownKeyFallsBackToDueDate(t *testing.T) {
	tasks := sampleTasks(t)

	got := SortTasks(tasks, "bogus", true)
	assert.Equal(t, []uint64{2, 1, 3}, ids(got))
}

func TestSortTasks_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks(t)

	_ = SortTasks(tasks, SortByTitle, true)
	assert.Equal(t, []uint64{1, 2, 3}, ids(tasks))
}
