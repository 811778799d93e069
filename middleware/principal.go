package middleware

import (
	"github.com/gin-gonic/gin"
)

// Principal is the authenticated caller extracted from the JWT. Core
// handlers receive it explicitly instead of reaching into ambient
// context values.
type Principal struct {
	UserID uint
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// PrincipalFromContext rebuilds the Principal set by AuthMiddleware.
// The second return is false when the request was not authenticated.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return Principal{}, false
	}

	principal := Principal{UserID: userID.(uint)}
	if email, ok := c.Get(ContextEmail); ok {
		principal.Email = email.(string)
	}
	if role, ok := c.Get(ContextRole); ok {
		principal.Role = role.(string)
	}
	return principal, true
}
