// Package api is the HTTP access layer for the remote task/user service.
// Every response body passes through the normalize package before it is
// returned, so callers only ever see canonical models.
package api

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/taskdeck/taskdeck/internal/config"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
)

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	http  *resty.Client
	login singleflight.Group

	mu       sync.RWMutex
	token    string
	username string
}

// New creates a client for the remote API described by cfg.
func New(cfg *config.Config) *Client {
	c := &Client{}

	c.http = resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get("Authorization") != "" {
			return nil
		}
		token, ok := tokenFromContext(req.Context())
		if !ok {
			token = c.Token()
		}
		if token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	// A 401 means the remote session is gone; drop the stale token so the
	// shell forces a fresh login.
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == 401 {
			c.clearSession()
		}
		return nil
	})

	return c
}

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a bearer token obtained elsewhere, e.g. restored from
// a saved session.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Username returns the username associated with the current session.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// LoggedIn reports whether a bearer token is held.
func (c *Client) LoggedIn() bool {
	return c.Token() != ""
}

func (c *Client) setSession(token, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.username = username
}

func (c *Client) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.username = ""
}

type ctxKey int

const tokenCtxKey ctxKey = iota

// WithToken returns a context carrying a bearer token that overrides the
// client's stored session for requests made with it. The web shell uses
// this to keep each browser session's token separate.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(tokenCtxKey).(string)
	return token, ok && token != ""
}

// wrapError converts a transport or status failure into the shared error
// taxonomy. A nil response means the request never completed.
func wrapError(resp *resty.Response, err error) error {
	if err != nil {
		return apierrors.NetworkError(err)
	}
	if resp != nil && resp.IsError() {
		return apierrors.FromStatus(resp.StatusCode())
	}
	return nil
}
