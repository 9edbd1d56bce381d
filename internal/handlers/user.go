package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"

	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/dto"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
	"github.com/taskdeck/taskdeck/internal/normalize"
	"github.com/taskdeck/taskdeck/internal/validation"
)

// UserHandler serves user administration operations.
type UserHandler struct {
	client UserAPI
	store  *cache.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(client UserAPI, store *cache.Store) *UserHandler {
	return &UserHandler{client: client, store: store}
}

// ListUsers returns either every account or only the active ones,
// depending on the active query parameter. When the remote service is
// unreachable the last cached snapshot is served instead, marked as stale.
func (h *UserHandler) ListUsers(c *gin.Context) {
	activeOnly := normalize.Boolish(c.Query("active"), false)

	ctx := requestContext(c)
	list := h.client.ListAllUsers
	if activeOnly {
		list = h.client.ListActiveUsers
	}

	users, err := list(ctx)
	if err != nil {
		if h.serveCachedUsers(c, activeOnly, err) {
			return
		}
		respondError(c, err)
		return
	}

	if h.store != nil && !activeOnly {
		if err := h.store.SaveUsers(users); err != nil {
			lgr.Printf("[WARN] failed to cache user snapshot: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "stale": false})
}

// serveCachedUsers answers from the snapshot when the failure was a
// network one and a snapshot exists.
func (h *UserHandler) serveCachedUsers(c *gin.Context, activeOnly bool, cause error) bool {
	var apiErr *apierrors.APIError
	if h.store == nil || !errors.As(cause, &apiErr) || apiErr.Code != apierrors.ErrCodeNetworkError {
		return false
	}

	users, err := h.store.Users(activeOnly)
	if err != nil || len(users) == 0 {
		return false
	}

	lgr.Printf("[WARN] remote unreachable, serving %d cached users", len(users))
	c.JSON(http.StatusOK, gin.H{"users": users, "stale": true})
	return true
}

// UpdateUser validates and applies an admin edit to an account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := userPathID(c)
	if !ok {
		return
	}

	var payload struct {
		Username  *string `json:"username"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		Role      *string `json:"role"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		IsActive  *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	form := validation.UserUpdateForm{ID: id}
	if payload.Username != nil {
		form.Username = *payload.Username
	}
	if payload.Email != nil {
		form.Email = *payload.Email
	}
	if payload.Password != nil {
		form.Password = *payload.Password
	}
	if payload.Role != nil {
		form.Role = *payload.Role
	}
	if payload.FirstName != nil {
		form.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		form.LastName = *payload.LastName
	}
	if errs := validation.ValidateUserUpdateForm(form); validation.HasErrors(errs) {
		apierrors.BadRequestWithDetails(c, validation.Summary(errs), errs)
		return
	}

	req := dto.UpdateUserRequest{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      payload.Role,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		IsActive:  payload.IsActive,
	}

	user, err := h.client.UpdateUser(requestContext(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ToggleStatus activates or deactivates an account.
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, ok := userPathID(c)
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.client.ToggleUserStatus(requestContext(c), id, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := userPathID(c)
	if !ok {
		return
	}

	if err := h.client.DeleteUser(requestContext(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func userPathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return id, true
}
