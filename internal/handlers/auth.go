package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"

	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/dto"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/validation"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	client AuthAPI
	store  *cache.Store
}

// NewAuthHandler creates a new AuthHandler. The store may be nil, which
// disables caching.
func NewAuthHandler(client AuthAPI, store *cache.Store) *AuthHandler {
	return &AuthHandler{client: client, store: store}
}

// Login validates the credentials, exchanges them for a remote bearer
// token and stores the token in the browser session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validation.ValidateLoginForm(req.Username, req.Password); validation.HasErrors(errs) {
		apierrors.BadRequestWithDetails(c, validation.Summary(errs), errs)
		return
	}

	login, err := h.client.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	username := login.EffectiveUsername(req.Username)

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, login.BearerToken())
	session.Set(constants.SessionKeyUsername, username)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	lgr.Printf("[INFO] user %s logged in", username)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// Register creates a new account on the remote service.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	errs := validation.ValidateRegistrationForm(validation.RegistrationForm{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if validation.HasErrors(errs) {
		apierrors.BadRequestWithDetails(c, validation.Summary(errs), errs)
		return
	}

	// New accounts start active regardless of what the form sent.
	req.IsActive = true
	req.Active = true

	user, err := h.client.Register(requestContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Logout drops the browser session and the cached snapshots. The remote
// service has no logout endpoint; forgetting the token is all there is
// to it.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	if h.store != nil {
		if err := h.store.Clear(); err != nil {
			lgr.Printf("[WARN] failed to clear cached snapshots: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser reports who is logged in according to the session.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username})
}

// Health proxies the remote service's health endpoint.
func (h *AuthHandler) Health(c *gin.Context) {
	status, err := h.client.Health(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
