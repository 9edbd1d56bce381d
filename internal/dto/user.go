package dto

import (
	"github.com/taskdeck/taskdeck/internal/normalize"
)

// LoginRequest is the outgoing credentials payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse covers the backend's inconsistent login reply: the token
// may arrive as accessToken or token, and the username may be top-level or
// nested in a user object.
type LoginResponse struct {
	AccessToken  string             `json:"accessToken"`
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
	Username     string             `json:"username"`
	Role         string             `json:"role"`
	Message      string             `json:"message"`
	User         *normalize.RawUser `json:"user"`
}

// BearerToken returns the effective token, preferring accessToken.
func (r LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// EffectiveUsername returns the username the server associated with the
// session, falling back to the submitted one.
func (r LoginResponse) EffectiveUsername(submitted string) string {
	if r.Username != "" {
		return r.Username
	}
	if r.User != nil && r.User.Username != "" {
		return r.User.Username
	}
	return submitted
}

// RegisterRequest is the outgoing registration payload. The active flag is
// sent under both names because different backend versions read different
// fields.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	IsActive  bool   `json:"isActive"`
	Active    bool   `json:"active"`
}

// UpdateUserRequest is the outgoing admin user-update payload. Pointer
// fields are omitted when the form left them untouched.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}
