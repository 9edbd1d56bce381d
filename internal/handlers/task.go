package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/dto"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/utils"
	"github.com/taskdeck/taskdeck/internal/validation"
)

// TaskHandler serves task operations, proxying them to the remote API and
// mirroring results into the local snapshot cache.
type TaskHandler struct {
	client TaskAPI
	store  *cache.Store
}

// NewTaskHandler creates a new TaskHandler. The store may be nil, which
// disables caching.
func NewTaskHandler(client TaskAPI, store *cache.Store) *TaskHandler {
	return &TaskHandler{client: client, store: store}
}

type taskPayload struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	DueDate             string   `json:"dueDate"`
	Status              string   `json:"status"`
	Priority            string   `json:"priority"`
	Category            string   `json:"category"`
	Tags                []string `json:"tags"`
	CollaboratorUserIDs []uint64 `json:"collaboratorUserIds"`
}

func (p taskPayload) validate() validation.FieldErrors {
	var dueDate any
	if p.DueDate != "" {
		dueDate = p.DueDate
	}
	return validation.ValidateTaskForm(validation.TaskForm{
		Title:       p.Title,
		Description: p.Description,
		DueDate:     dueDate,
		Status:      p.Status,
		Category:    p.Category,
		Priority:    p.Priority,
	})
}

// ListTasks fetches the task list, optionally filtered server-side. When
// the remote service is unreachable the last cached snapshot is served
// instead, marked as stale.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	query := api.TaskQuery{
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
	}
	if assignedTo, err := strconv.ParseUint(c.Query("assignedTo"), 10, 64); err == nil {
		query.AssignedTo = assignedTo
	}
	if from := parseDueDate(c.Query("dueDateFrom")); from != nil {
		query.DueDateFrom = from
	}
	if to := parseDueDate(c.Query("dueDateTo")); to != nil {
		query.DueDateTo = to
	}

	tasks, err := h.client.ListTasks(requestContext(c), query)
	if err != nil {
		if h.serveCachedTasks(c, err) {
			return
		}
		respondError(c, err)
		return
	}

	h.cacheTasks(tasks)

	if params, paginated := utils.GetPaginationParams(c); paginated {
		page, meta := utils.PaginateTasks(tasks, params)
		c.JSON(http.StatusOK, gin.H{"tasks": page, "pagination": meta, "stale": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "stale": false})
}

// serveCachedTasks answers from the snapshot when the failure was a
// network one and a snapshot exists.
func (h *TaskHandler) serveCachedTasks(c *gin.Context, cause error) bool {
	var apiErr *apierrors.APIError
	if h.store == nil || !errors.As(cause, &apiErr) || apiErr.Code != apierrors.ErrCodeNetworkError {
		return false
	}

	tasks, err := h.store.Tasks()
	if err != nil || len(tasks) == 0 {
		return false
	}

	lgr.Printf("[WARN] remote unreachable, serving %d cached tasks", len(tasks))
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "stale": true})
	return true
}

// GetTask returns a single task by id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.client.GetTask(requestContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cacheTask(task)
	c.JSON(http.StatusOK, task)
}

// CreateTask validates the submission and creates the task remotely. The
// submission is cached under a placeholder id before the remote call, and
// the placeholder is swapped for the server id once the remote confirms.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if errs := payload.validate(); validation.HasErrors(errs) {
		apierrors.BadRequestWithDetails(c, validation.Summary(errs), errs)
		return
	}

	req := dto.BuildCreateTaskRequest(payload.asTask(0), payload.CollaboratorUserIDs)

	placeholder := h.cacheDraft(payload)

	task, err := h.client.CreateTask(requestContext(c), req)
	if err != nil {
		h.dropDraft(placeholder)
		respondError(c, err)
		return
	}

	h.confirmDraft(placeholder, task)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask validates the submission and updates the task remotely.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if errs := payload.validate(); validation.HasErrors(errs) {
		apierrors.BadRequestWithDetails(c, validation.Summary(errs), errs)
		return
	}

	req := dto.BuildUpdateTaskRequest(payload.asTask(id), payload.CollaboratorUserIDs)

	task, err := h.client.UpdateTask(requestContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cacheTask(task)
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes the task remotely and evicts it from the snapshot.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.client.DeleteTask(requestContext(c), id); err != nil {
		respondError(c, err)
		return
	}

	if h.store != nil {
		if err := h.store.DeleteTask(id); err != nil {
			lgr.Printf("[WARN] failed to evict task %d from cache: %v", id, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UpdateStatus changes just the status of a task.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if errs := requireStatus(req.Status); errs != nil {
		apierrors.BadRequestWithDetails(c, errs["status"][0], errs)
		return
	}

	task, err := h.client.UpdateTaskStatus(requestContext(c), id, models.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	h.cacheTask(task)
	c.JSON(http.StatusOK, task)
}

// BulkStatus changes the status of several tasks at once. Partial failure
// is a success response carrying the per-task failures; only when every
// update fails does the request error.
func (h *TaskHandler) BulkStatus(c *gin.Context) {
	var req struct {
		TaskIDs []uint64 `json:"taskIds"`
		Status  string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if len(req.TaskIDs) == 0 {
		apierrors.BadRequest(c, "No tasks selected")
		return
	}
	if errs := requireStatus(req.Status); errs != nil {
		apierrors.BadRequestWithDetails(c, errs["status"][0], errs)
		return
	}

	result, err := h.client.BulkUpdateStatus(requestContext(c), req.TaskIDs, models.TaskStatus(req.Status))
	if err != nil {
		if errors.Is(err, api.ErrAllUpdatesFailed) {
			apierrors.RespondWithError(c, http.StatusBadGateway,
				apierrors.NewAPIError(apierrors.ErrCodeRemoteError, err.Error()))
			return
		}
		respondError(c, err)
		return
	}

	failures := make([]gin.H, 0, len(result.Failures))
	for _, failure := range result.Failures {
		failures = append(failures, gin.H{"taskId": failure.TaskID, "error": failure.Err.Error()})
	}

	for _, task := range result.Updated {
		h.cacheTask(task)
	}

	c.JSON(http.StatusOK, gin.H{
		"requested": result.Requested(),
		"succeeded": result.Succeeded(),
		"failures":  failures,
		"tasks":     result.Updated,
	})
}

// asTask converts the payload into a canonical task for request building.
func (p taskPayload) asTask(id uint64) models.Task {
	task := models.Task{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Status:      models.TaskStatus(p.Status),
		Priority:    models.TaskPriority(p.Priority),
		Category:    p.Category,
		Tags:        p.Tags,
	}
	if p.DueDate != "" {
		if due := parseDueDate(p.DueDate); due != nil {
			task.DueDate = due
		}
	}
	return task
}

// parseDueDate accepts the calendar-date and timestamp formats the UI may
// submit. Validation has already rejected anything unparsable.
func parseDueDate(value string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", constants.LocalDateLayout} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &parsed
		}
	}
	return nil
}

func (h *TaskHandler) cacheTask(task models.Task) {
	if h.store == nil {
		return
	}
	if err := h.store.SaveTask(task); err != nil {
		lgr.Printf("[WARN] failed to cache task %d: %v", task.ID, err)
	}
}

// cacheDraft stores a submission under a fresh placeholder id so the
// snapshot carries it before the remote confirms. Returns 0 when caching
// is disabled or the write failed.
func (h *TaskHandler) cacheDraft(payload taskPayload) uint64 {
	if h.store == nil {
		return 0
	}
	draft := payload.asTask(models.NewPlaceholderID())
	if err := h.store.SaveTask(draft); err != nil {
		lgr.Printf("[WARN] failed to cache draft task: %v", err)
		return 0
	}
	return draft.ID
}

// dropDraft removes a draft the remote rejected.
func (h *TaskHandler) dropDraft(placeholder uint64) {
	if placeholder == 0 {
		return
	}
	if err := h.store.DeleteTask(placeholder); err != nil {
		lgr.Printf("[WARN] failed to drop draft task %d: %v", placeholder, err)
	}
}

// confirmDraft swaps the placeholder id for the server one, then refreshes
// the row with the server's view of the task.
func (h *TaskHandler) confirmDraft(placeholder uint64, task models.Task) {
	if placeholder != 0 {
		if err := h.store.ReplaceTaskID(placeholder, task.ID); err != nil {
			lgr.Printf("[WARN] failed to confirm draft task %d: %v", placeholder, err)
		}
	}
	h.cacheTask(task)
}

func (h *TaskHandler) cacheTasks(tasks []models.Task) {
	if h.store == nil {
		return
	}
	if err := h.store.SaveTasks(tasks); err != nil {
		lgr.Printf("[WARN] failed to cache task snapshot: %v", err)
	}
}

// requireStatus checks a status value for the status-only endpoints, where
// an empty status cannot mean "leave unchanged".
func requireStatus(status string) validation.FieldErrors {
	if status == "" {
		return validation.FieldErrors{"status": {"Status is required"}}
	}
	if r := validation.ValidateTaskStatus(status); !r.IsValid {
		return validation.FieldErrors{"status": r.Errors}
	}
	return nil
}

// pathID parses the :id path parameter, writing the error response itself
// when the value is not a positive integer.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}
