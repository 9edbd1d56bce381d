package api

import (
	"context"
	"errors"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/taskdeck/taskdeck/internal/models"
)

// ErrAllUpdatesFailed is returned when every task in a bulk update failed.
// Partial failure is not an error; the result reports it instead.
var ErrAllUpdatesFailed = errors.New("failed to update all selected tasks")

// BulkFailure records one task that could not be updated.
type BulkFailure struct {
	TaskID uint64
	Err    error
}

// BulkResult is the outcome of a bulk status update.
type BulkResult struct {
	Updated  []models.Task
	Failures []BulkFailure
}

// Requested returns the number of tasks the caller asked to update.
func (r BulkResult) Requested() int {
	return len(r.Updated) + len(r.Failures)
}

// Succeeded returns the number of tasks actually updated.
func (r BulkResult) Succeeded() int {
	return len(r.Updated)
}

// BulkUpdateStatus moves several tasks to a new status. The remote API
// has no bulk endpoint, so one update is issued per task, in parallel.
// Each task succeeds or fails independently; only when every single one
// fails does the call itself return an error.
func (c *Client) BulkUpdateStatus(ctx context.Context, taskIDs []uint64, status models.TaskStatus) (BulkResult, error) {
	if len(taskIDs) == 0 {
		return BulkResult{}, nil
	}

	type outcome struct {
		task models.Task
		err  error
	}

	outcomes := make([]outcome, len(taskIDs))
	var wg sync.WaitGroup
	for i, id := range taskIDs {
		wg.Add(1)
		go func(i int, id uint64) {
			defer wg.Done()
			task, err := c.UpdateTaskStatus(ctx, id, status)
			outcomes[i] = outcome{task: task, err: err}
		}(i, id)
	}
	wg.Wait()

	var result BulkResult
	for i, o := range outcomes {
		if o.err != nil {
			lgr.Printf("[WARN] failed to update task %d: %v", taskIDs[i], o.err)
			result.Failures = append(result.Failures, BulkFailure{TaskID: taskIDs[i], Err: o.err})
			continue
		}
		result.Updated = append(result.Updated, o.task)
	}

	if len(result.Updated) == 0 {
		return result, ErrAllUpdatesFailed
	}
	if len(result.Failures) > 0 {
		lgr.Printf("[INFO] updated %d out of %d tasks", result.Succeeded(), result.Requested())
	}

	return result, nil
}
