// Package handlers exposes the remote task service to the browser as a
// small same-origin API, so the UI never talks to the backend directly.
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/dto"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/models"
)

// AuthAPI is the authentication surface of the remote client.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (models.User, error)
	Health(ctx context.Context) (map[string]any, error)
}

// TaskAPI is the task surface of the remote client.
type TaskAPI interface {
	ListTasks(ctx context.Context, query api.TaskQuery) ([]models.Task, error)
	GetTask(ctx context.Context, id uint64) (models.Task, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (models.Task, error)
	UpdateTask(ctx context.Context, req dto.UpdateTaskRequest) (models.Task, error)
	DeleteTask(ctx context.Context, id uint64) error
	UpdateTaskStatus(ctx context.Context, id uint64, status models.TaskStatus) (models.Task, error)
	BulkUpdateStatus(ctx context.Context, taskIDs []uint64, status models.TaskStatus) (api.BulkResult, error)
}

// UserAPI is the user administration surface of the remote client.
type UserAPI interface {
	ListAllUsers(ctx context.Context) ([]models.User, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id uint64, req dto.UpdateUserRequest) (models.User, error)
	ToggleUserStatus(ctx context.Context, id uint64, isActive bool) (models.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// requestContext derives the outgoing request context, carrying the
// session's bearer token when one is present.
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if token, ok := middleware.GetToken(c); ok {
		ctx = api.WithToken(ctx, token)
	}
	return ctx
}

// respondError maps a client error onto the HTTP response.
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		apierrors.Respond(c, apiErr)
		return
	}
	apierrors.InternalError(c, "")
}
