package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/dto"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/normalize"
)

// TaskQuery narrows a task listing server-side. Zero values mean no
// filter; the ALL sentinels from the filter package are treated the same.
type TaskQuery struct {
	Keyword     string
	Status      string
	Priority    string
	Category    string
	AssignedTo  uint64
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

func (q TaskQuery) params() map[string]string {
	params := map[string]string{}
	if q.Keyword != "" {
		params["keyword"] = q.Keyword
	}
	if q.Status != "" && q.Status != "ALL" {
		params["status"] = q.Status
	}
	if q.Priority != "" && q.Priority != "ALL" {
		params["priority"] = q.Priority
	}
	if q.Category != "" && q.Category != "ALL" {
		params["category"] = q.Category
	}
	if q.AssignedTo != 0 {
		params["assignedTo"] = fmt.Sprintf("%d", q.AssignedTo)
	}
	if q.DueDateFrom != nil {
		params["dueDateFrom"] = q.DueDateFrom.Format(time.RFC3339)
	}
	if q.DueDateTo != nil {
		params["dueDateTo"] = q.DueDateTo.Format(time.RFC3339)
	}
	return params
}

// ListTasks fetches and normalizes the task list.
func (c *Client) ListTasks(ctx context.Context, query TaskQuery) ([]models.Task, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query.params()).
		Get("/tasks")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return nil, wrapped
	}

	return normalize.DecodeTaskList(resp.Body())
}

// GetTask fetches and normalizes a single task.
func (c *Client) GetTask(ctx context.Context, id uint64) (models.Task, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/tasks/%d", id))
	if wrapped := wrapError(resp, err); wrapped != nil {
		return models.Task{}, wrapped
	}

	return normalize.DecodeTask(resp.Body())
}

// CreateTask creates a task, collaborators included, in one call.
func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (models.Task, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/tasks/with-collaborators")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return models.Task{}, wrapped
	}

	return normalize.DecodeTask(resp.Body())
}

// UpdateTask updates a task, collaborators included, in one call.
func (c *Client) UpdateTask(ctx context.Context, req dto.UpdateTaskRequest) (models.Task, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/tasks/update-with-collaborators")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return models.Task{}, wrapped
	}

	return normalize.DecodeTask(resp.Body())
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/tasks/%d", id))
	return wrapError(resp, err)
}

// UpdateTaskStatus moves a task to a new status. The remote API has no
// status-only endpoint, so the current task is fetched and sent back with
// only the status changed. Completing a task stamps the completion date
// as today's calendar date.
func (c *Client) UpdateTaskStatus(ctx context.Context, id uint64, status models.TaskStatus) (models.Task, error) {
	current, err := c.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	current.Status = status

	collaboratorIDs := current.CollaboratorIDs
	if len(current.Collaborators) > 0 {
		collaboratorIDs = dto.CollaboratorIDs(current.Collaborators)
	}

	req := dto.BuildUpdateTaskRequest(current, collaboratorIDs)
	req.ID = id

	updated, err := c.UpdateTask(ctx, req)
	if err != nil {
		return models.Task{}, err
	}

	if status == models.TaskStatusCompleted && updated.CompletionDate == nil {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		updated.CompletionDate = &today
	}

	return updated, nil
}
