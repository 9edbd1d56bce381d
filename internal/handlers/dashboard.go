package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/dashboard"
)

// DashboardHandler serves the aggregated statistics view.
type DashboardHandler struct {
	tasks TaskAPI
	users UserAPI
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(tasks TaskAPI, users UserAPI) *DashboardHandler {
	return &DashboardHandler{tasks: tasks, users: users}
}

// Stats computes dashboard statistics from the full task and user sets.
// User data is optional: non-admins cannot list users, so that part of
// the stats simply stays empty when the call is refused.
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := requestContext(c)

	tasks, err := h.tasks.ListTasks(ctx, api.TaskQuery{})
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := h.users.ListAllUsers(ctx)
	if err != nil {
		users = nil
	}

	c.JSON(http.StatusOK, dashboard.Compute(tasks, users, time.Now()))
}
