package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/dto"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
	"github.com/taskdeck/taskdeck/internal/models"
)

func TestTaskHandler_ListTasks(t *testing.T) {
	remote := &stubRemote{
		t: t,
		listTasksFn: func(query api.TaskQuery) ([]models.Task, error) {
			assert.Equal(t, "urgent", query.Keyword)
			assert.Equal(t, "PENDING", query.Status)
			return []models.Task{{ID: 1, Title: "A", Status: models.TaskStatusPending}}, nil
		},
	}
	store := newTestStore(t)

	r := newTestRouter()
	r.GET("/api/tasks", NewTaskHandler(remote, store).ListTasks)

	w := doJSON(t, r, http.MethodGet, "/api/tasks?keyword=urgent&status=PENDING", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
		Stale bool          `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 1)
	assert.False(t, response.Stale)

	cached, err := store.Tasks()
	require.NoError(t, err)
	assert.Len(t, cached, 1, "successful fetches refresh the snapshot")
}

func TestTaskHandler_ListTasksServesCacheWhenOffline(t *testing.T) {
	remote := &stubRemote{
		t: t,
		listTasksFn: func(api.TaskQuery) ([]models.Task, error) {
			return nil, apierrors.NetworkError(errors.New("connection refused"))
		},
	}
	store := newTestStore(t)
	require.NoError(t, store.SaveTasks([]models.Task{{ID: 1, Title: "Cached"}}))

	r := newTestRouter()
	r.GET("/api/tasks", NewTaskHandler(remote, store).ListTasks)

	w := doJSON(t, r, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
		Stale bool          `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 1)
	assert.Equal(t, "Cached", response.Tasks[0].Title)
	assert.True(t, response.Stale)
}

func TestTaskHandler_ListTasksOfflineWithoutCache(t *testing.T) {
	remote := &stubRemote{
		t: t,
		listTasksFn: func(api.TaskQuery) ([]models.Task, error) {
			return nil, apierrors.NetworkError(errors.New("connection refused"))
		},
	}

	r := newTestRouter()
	r.GET("/api/tasks", NewTaskHandler(remote, newTestStore(t)).ListTasks)

	w := doJSON(t, r, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTaskHandler_CreateTask(t *testing.T) {
	remote := &stubRemote{
		t: t,
		createTaskFn: func(req dto.CreateTaskRequest) (models.Task, error) {
			assert.Equal(t, "Ship release", req.Title)
			assert.Equal(t, "2030-01-15", req.DueDate)
			assert.Equal(t, []uint64{3, 5}, req.CollaboratorUserIDs, "duplicates dropped")
			return models.Task{ID: 10, Title: req.Title, Status: models.TaskStatusPending}, nil
		},
	}

	r := newTestRouter()
	r.POST("/api/tasks", NewTaskHandler(remote, nil).CreateTask)

	w := doJSON(t, r, http.MethodPost, "/api/tasks",
		`{"title":"Ship release","dueDate":"2030-01-15","collaboratorUserIds":[3,3,5]}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, uint64(10), task.ID)
}

func TestTaskHandler_CreateTaskConfirmsDraftInCache(t *testing.T) {
	remote := &stubRemote{
		t: t,
		createTaskFn: func(req dto.CreateTaskRequest) (models.Task, error) {
			return models.Task{ID: 42, Title: req.Title, Status: models.TaskStatusPending}, nil
		},
	}
	store := newTestStore(t)

	r := newTestRouter()
	r.POST("/api/tasks", NewTaskHandler(remote, store).CreateTask)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"Ship release"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	cached, err := store.Tasks()
	require.NoError(t, err)
	require.Len(t, cached, 1, "the draft row is swapped, not duplicated")
	assert.Equal(t, uint64(42), cached[0].ID, "the snapshot carries the server id")
	assert.Equal(t, "Ship release", cached[0].Title)
}

func TestTaskHandler_CreateTaskFailureDropsDraft(t *testing.T) {
	remote := &stubRemote{
		t: t,
		createTaskFn: func(dto.CreateTaskRequest) (models.Task, error) {
			return models.Task{}, apierrors.NetworkError(errors.New("connection refused"))
		},
	}
	store := newTestStore(t)

	r := newTestRouter()
	r.POST("/api/tasks", NewTaskHandler(remote, store).CreateTask)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"Ship release"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	cached, err := store.Tasks()
	require.NoError(t, err)
	assert.Empty(t, cached, "rejected drafts do not linger in the snapshot")
}

func TestTaskHandler_CreateTaskValidationFailure(t *testing.T) {
	remote := &stubRemote{t: t}

	r := newTestRouter()
	r.POST("/api/tasks", NewTaskHandler(remote, nil).CreateTask)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	details, ok := response.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "title")
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	remote := &stubRemote{
		t: t,
		updateStatusFn: func(id uint64, status models.TaskStatus) (models.Task, error) {
			assert.Equal(t, uint64(4), id)
			assert.Equal(t, models.TaskStatusCompleted, status)
			return models.Task{ID: id, Status: status}, nil
		},
	}

	r := newTestRouter()
	r.PATCH("/api/tasks/:id/status", NewTaskHandler(remote, nil).UpdateStatus)

	w := doJSON(t, r, http.MethodPatch, "/api/tasks/4/status", `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskHandler_UpdateStatusRejectsUnknownValue(t *testing.T) {
	remote := &stubRemote{t: t}

	r := newTestRouter()
	r.PATCH("/api/tasks/:id/status", NewTaskHandler(remote, nil).UpdateStatus)

	w := doJSON(t, r, http.MethodPatch, "/api/tasks/4/status", `{"status":"DONE"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_UpdateStatusRejectsEmptyValue(t *testing.T) {
	remote := &stubRemote{t: t}

	r := newTestRouter()
	r.PATCH("/api/tasks/:id/status", NewTaskHandler(remote, nil).UpdateStatus)

	w := doJSON(t, r, http.MethodPatch, "/api/tasks/4/status", `{"status":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	details, ok := response.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "status")
}

func TestTaskHandler_DeleteTaskEvictsCache(t *testing.T) {
	remote := &stubRemote{
		t:            t,
		deleteTaskFn: func(id uint64) error { return nil },
	}
	store := newTestStore(t)
	require.NoError(t, store.SaveTask(models.Task{ID: 6, Title: "Doomed"}))

	r := newTestRouter()
	r.DELETE("/api/tasks/:id", NewTaskHandler(remote, store).DeleteTask)

	w := doJSON(t, r, http.MethodDelete, "/api/tasks/6", "")
	require.Equal(t, http.StatusOK, w.Code)

	cached, err := store.Tasks()
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestTaskHandler_BulkStatusPartialSuccess(t *testing.T) {
	remote := &stubRemote{
		t: t,
		bulkFn: func(ids []uint64, status models.TaskStatus) (api.BulkResult, error) {
			assert.Equal(t, []uint64{1, 2, 3}, ids)
			return api.BulkResult{
				Updated: []models.Task{
					{ID: 1, Status: status},
					{ID: 3, Status: status},
				},
				Failures: []api.BulkFailure{{TaskID: 2, Err: errors.New("boom")}},
			}, nil
		},
	}

	r := newTestRouter()
	r.POST("/api/tasks/bulk-status", NewTaskHandler(remote, nil).BulkStatus)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/bulk-status",
		`{"taskIds":[1,2,3],"status":"COMPLETED"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Requested int `json:"requested"`
		Succeeded int `json:"succeeded"`
		Failures  []struct {
			TaskID uint64 `json:"taskId"`
			Error  string `json:"error"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3, response.Requested)
	assert.Equal(t, 2, response.Succeeded)
	require.Len(t, response.Failures, 1)
	assert.Equal(t, uint64(2), response.Failures[0].TaskID)
}

func TestTaskHandler_BulkStatusAllFailed(t *testing.T) {
	remote := &stubRemote{
		t: t,
		bulkFn: func(ids []uint64, status models.TaskStatus) (api.BulkResult, error) {
			return api.BulkResult{
				Failures: []api.BulkFailure{
					{TaskID: 1, Err: errors.New("boom")},
					{TaskID: 2, Err: errors.New("boom")},
				},
			}, api.ErrAllUpdatesFailed
		},
	}

	r := newTestRouter()
	r.POST("/api/tasks/bulk-status", NewTaskHandler(remote, nil).BulkStatus)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/bulk-status",
		`{"taskIds":[1,2],"status":"COMPLETED"}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTaskHandler_BulkStatusRequiresSelection(t *testing.T) {
	remote := &stubRemote{t: t}

	r := newTestRouter()
	r.POST("/api/tasks/bulk-status", NewTaskHandler(remote, nil).BulkStatus)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/bulk-status", `{"taskIds":[],"status":"COMPLETED"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_BulkStatusRequiresStatus(t *testing.T) {
	remote := &stubRemote{t: t}

	r := newTestRouter()
	r.POST("/api/tasks/bulk-status", NewTaskHandler(remote, nil).BulkStatus)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/bulk-status", `{"taskIds":[1,2],"status":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	details, ok := response.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "status")
}
