package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/dto"
	"github.com/taskdeck/taskdeck/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRemote fakes the remote client. Unset functions fail the test when
// called.
type stubRemote struct {
	t *testing.T

	loginFn    func(username, password string) (dto.LoginResponse, error)
	registerFn func(req dto.RegisterRequest) (models.User, error)
	healthFn   func() (map[string]any, error)

	listTasksFn    func(query api.TaskQuery) ([]models.Task, error)
	getTaskFn      func(id uint64) (models.Task, error)
	createTaskFn   func(req dto.CreateTaskRequest) (models.Task, error)
	updateTaskFn   func(req dto.UpdateTaskRequest) (models.Task, error)
	deleteTaskFn   func(id uint64) error
	updateStatusFn func(id uint64, status models.TaskStatus) (models.Task, error)
	bulkFn         func(ids []uint64, status models.TaskStatus) (api.BulkResult, error)

	listAllUsersFn    func() ([]models.User, error)
	listActiveUsersFn func() ([]models.User, error)
	updateUserFn      func(id uint64, req dto.UpdateUserRequest) (models.User, error)
	toggleUserFn      func(id uint64, isActive bool) (models.User, error)
	deleteUserFn      func(id uint64) error
}

func (s *stubRemote) Login(_ context.Context, username, password string) (dto.LoginResponse, error) {
	require.NotNil(s.t, s.loginFn, "unexpected Login call")
	return s.loginFn(username, password)
}

func (s *stubRemote) Register(_ context.Context, req dto.RegisterRequest) (models.User, error) {
	require.NotNil(s.t, s.registerFn, "unexpected Register call")
	return s.registerFn(req)
}

func (s *stubRemote) Health(_ context.Context) (map[string]any, error) {
	require.NotNil(s.t, s.healthFn, "unexpected Health call")
	return s.healthFn()
}

func (s *stubRemote) ListTasks(_ context.Context, query api.TaskQuery) ([]models.Task, error) {
	require.NotNil(s.t, s.listTasksFn, "unexpected ListTasks call")
	return s.listTasksFn(query)
}

func (s *stubRemote) GetTask(_ context.Context, id uint64) (models.Task, error) {
	require.NotNil(s.t, s.getTaskFn, "unexpected GetTask call")
	return s.getTaskFn(id)
}

func (s *stubRemote) CreateTask(_ context.Context, req dto.CreateTaskRequest) (models.Task, error) {
	require.NotNil(s.t, s.createTaskFn, "unexpected CreateTask call")
	return s.createTaskFn(req)
}

func (s *stubRemote) UpdateTask(_ context.Context, req dto.UpdateTaskRequest) (models.Task, error) {
	require.NotNil(s.t, s.updateTaskFn, "unexpected UpdateTask call")
	return s.updateTaskFn(req)
}

func (s *stubRemote) DeleteTask(_ context.Context, id uint64) error {
	require.NotNil(s.t, s.deleteTaskFn, "unexpected DeleteTask call")
	return s.deleteTaskFn(id)
}

func (s *stubRemote) UpdateTaskStatus(_ context.Context, id uint64, status models.TaskStatus) (models.Task, error) {
	require.NotNil(s.t, s.updateStatusFn, "unexpected UpdateTaskStatus call")
	return s.updateStatusFn(id, status)
}

func (s *stubRemote) BulkUpdateStatus(_ context.Context, ids []uint64, status models.TaskStatus) (api.BulkResult, error) {
	require.NotNil(s.t, s.bulkFn, "unexpected BulkUpdateStatus call")
	return s.bulkFn(ids, status)
}

func (s *stubRemote) ListAllUsers(_ context.Context) ([]models.User, error) {
	require.NotNil(s.t, s.listAllUsersFn, "unexpected ListAllUsers call")
	return s.listAllUsersFn()
}

func (s *stubRemote) ListActiveUsers(_ context.Context) ([]models.User, error) {
	require.NotNil(s.t, s.listActiveUsersFn, "unexpected ListActiveUsers call")
	return s.listActiveUsersFn()
}

func (s *stubRemote) UpdateUser(_ context.Context, id uint64, req dto.UpdateUserRequest) (models.User, error) {
	require.NotNil(s.t, s.updateUserFn, "unexpected UpdateUser call")
	return s.updateUserFn(id, req)
}

func (s *stubRemote) ToggleUserStatus(_ context.Context, id uint64, isActive bool) (models.User, error) {
	require.NotNil(s.t, s.toggleUserFn, "unexpected ToggleUserStatus call")
	return s.toggleUserFn(id, isActive)
}

func (s *stubRemote) DeleteUser(_ context.Context, id uint64) error {
	require.NotNil(s.t, s.deleteUserFn, "unexpected DeleteUser call")
	return s.deleteUserFn(id)
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	return r
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&cache.TaskRecord{}, &cache.UserRecord{}))
	return cache.NewWithDB(db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
