// internal/utils/auth_context.go
package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthContext is the authenticated identity handed to workflow services.
// Services receive it as an explicit value; they never read session
// state from anywhere ambient.
type AuthContext struct {
	UserID      uuid.UUID
	Username    string
	Email       string
	DisplayName string
	UserType    string
}

const authContextKey = "auth_context"

func SetAuthContext(c *gin.Context, auth AuthContext) {
	c.Set(authContextKey, auth)
}

func GetAuthFromContext(c *gin.Context) (AuthContext, bool) {
	value, exists := c.Get(authContextKey)
	if !exists {
		return AuthContext{}, false
	}
	auth, ok := value.(AuthContext)
	return auth, ok
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if auth, ok := GetAuthFromContext(c); ok {
		return auth.UserID.String(), true
	}
	return "", false
}

func GetUserTypeFromContext(c *gin.Context) (string, bool) {
	if auth, ok := GetAuthFromContext(c); ok {
		return auth.UserType, true
	}
	return "", false
}
