package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/dto"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/normalize"
)

// ListAllUsers fetches every account from the admin endpoint. The list
// arrives in any of the backend's wrapping conventions; normalization
// sorts that out.
func (c *Client) ListAllUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/auth/admin/users")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return nil, wrapped
	}

	return normalize.UserList(resp.Body())
}

// ListActiveUsers fetches the active accounts available for collaborator
// assignment.
func (c *Client) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/auth/users/active")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return nil, wrapped
	}

	return normalize.UserList(resp.Body())
}

// UpdateUser updates an account through the admin endpoint.
func (c *Client) UpdateUser(ctx context.Context, id uint64, req dto.UpdateUserRequest) (models.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/auth/admin/users/%d", id))
	if wrapped := wrapError(resp, err); wrapped != nil {
		return models.User{}, wrapped
	}

	var raw normalize.RawUser
	if unmarshalErr := json.Unmarshal(resp.Body(), &raw); unmarshalErr != nil {
		return models.User{ID: id, Role: models.RoleUser, IsActive: true}, nil
	}

	user := normalize.User(raw)
	if user.ID == 0 {
		user.ID = id
	}
	return user, nil
}

// ToggleUserStatus flips an account's active flag. The server's reply may
// omit the flag or use the legacy field name, so the effective value is
// resolved against what was requested.
func (c *Client) ToggleUserStatus(ctx context.Context, id uint64, isActive bool) (models.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]bool{"isActive": isActive}).
		Post(fmt.Sprintf("/auth/admin/users/%d", id))
	if wrapped := wrapError(resp, err); wrapped != nil {
		return models.User{}, wrapped
	}

	user := normalize.ToggleUserStatus(resp.Body(), isActive)
	if user.ID == 0 {
		user.ID = id
	}
	return user, nil
}

// DeleteUser removes an account through the admin endpoint.
func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/auth/admin/users/%d", id))
	return wrapError(resp, err)
}
