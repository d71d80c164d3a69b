package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	currentUserKey = "current_user_id"
	tokenKey       = "auth_token"
)

func setCurrentUser(c *gin.Context, userID uint) {
	c.Set(currentUserKey, userID)
}

// CurrentUserID returns the id of the authenticated user.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentToken returns the JWT the request was authenticated with (prod mode only).
func CurrentToken(c *gin.Context) (string, bool) {
	v, exists := c.Get(tokenKey)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
