package middleware

import (
	"net/http"

	"dtportal/logger"
	"dtportal/web/session"

	"github.com/gin-gonic/gin"
)

// csrfHeader is checked before the form field so AJAX callers can avoid
// re-reading the body.
const (
	csrfHeader = "X-CSRF-Token"
	csrfField  = "csrf_token"
)

// CSRFProtection rejects state-changing requests whose token does not match
// the one bound to the session. Safe methods pass through untouched.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		candidate := c.GetHeader(csrfHeader)
		if candidate == "" {
			candidate = c.PostForm(csrfField)
		}

		if !session.VerifyCSRFToken(c, candidate) {
			logger.Warningf("CSRF token mismatch on %s from %s", c.Request.URL.Path, c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"msg":     "Invalid request token.",
			})
			return
		}

		c.Next()
	}
}
