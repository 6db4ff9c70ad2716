package middleware

import (
	"net/http"

	"dtportal/web/session"

	"github.com/gin-gonic/gin"
)

// RoleRequired aborts unless the session user holds one of the given roles.
func RoleRequired(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !allowed[user.UserType] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
