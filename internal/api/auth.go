package api

import (
	"context"
	"encoding/json"

	"github.com/go-pkgz/lgr"

	"github.com/taskdeck/taskdeck/internal/dto"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/normalize"
)

// Login authenticates against /auth/login and installs the returned
// bearer token. Concurrent logins for the same username are coalesced
// into a single in-flight request.
func (c *Client) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	v, err, shared := c.login.Do("login-"+username, func() (any, error) {
		return c.performLogin(ctx, username, password)
	})
	if err != nil {
		return dto.LoginResponse{}, err
	}
	if shared {
		lgr.Printf("[DEBUG] login for %q coalesced with an in-flight request", username)
	}
	return v.(dto.LoginResponse), nil
}

func (c *Client) performLogin(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(dto.LoginRequest{Username: username, Password: password}).
		Post("/auth/login")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return dto.LoginResponse{}, wrapped
	}

	var login dto.LoginResponse
	if err := json.Unmarshal(resp.Body(), &login); err != nil {
		return dto.LoginResponse{}, apierrors.NewAPIError(apierrors.ErrCodeRemoteError, "Login response could not be decoded")
	}

	token := login.BearerToken()
	if token == "" {
		lgr.Printf("[WARN] login response for %q carried no token", username)
		return dto.LoginResponse{}, apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Login response carried no token")
	}

	c.setSession(token, login.EffectiveUsername(username))
	return login, nil
}

// Register creates an account via /auth/register. The endpoint is public;
// both 200 and 201 are success. Some backend versions return an empty
// body, in which case a placeholder user is synthesized until the list
// endpoint supplies the real record.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/auth/register")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return models.User{}, wrapped
	}

	var raw normalize.RawUser
	if unmarshalErr := json.Unmarshal(resp.Body(), &raw); unmarshalErr != nil || raw.Username == "" {
		role := models.UserRole(req.Role)
		if !role.Valid() {
			role = models.RoleUser
		}
		return models.User{
			ID:       models.NewPlaceholderID(),
			Username: req.Username,
			Email:    req.Email,
			Role:     role,
			IsActive: true,
		}, nil
	}

	return normalize.User(raw), nil
}

// Logout drops the local session. The remote API holds no server-side
// session for bearer tokens, so there is nothing to call.
func (c *Client) Logout() {
	c.clearSession()
}

// Health calls the service health endpoint.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/actuator/health")
	if wrapped := wrapError(resp, err); wrapped != nil {
		return nil, wrapped
	}

	health := map[string]any{}
	if err := json.Unmarshal(resp.Body(), &health); err != nil {
		return nil, apierrors.NewAPIError(apierrors.ErrCodeRemoteError, "Health response could not be decoded")
	}
	return health, nil
}
