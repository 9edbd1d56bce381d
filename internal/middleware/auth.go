package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/constants"
	apierrors "github.com/taskdeck/taskdeck/internal/errors"
)

// RequireAuth checks that the browser session holds a bearer token for the
// remote API.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(constants.SessionKeyToken).(string)

		if token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Stash the token and username in context for easy access in handlers
		c.Set(constants.SessionKeyToken, token)
		if username, ok := session.Get(constants.SessionKeyUsername).(string); ok {
			c.Set(constants.SessionKeyUsername, username)
		}
		c.Next()
	}
}

// GetToken retrieves the remote bearer token from context.
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(constants.SessionKeyToken)
	if !exists {
		return "", false
	}
	value, ok := token.(string)
	return value, ok && value != ""
}

// GetUsername retrieves the logged-in username from context.
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(constants.SessionKeyUsername)
	if !exists {
		return "", false
	}
	value, ok := username.(string)
	return value, ok && value != ""
}
