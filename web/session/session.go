// Package session wraps the cookie-backed gin session with typed accessors
// for the logged-in user, role checks and the per-session CSRF token.
package session

import (
	"crypto/subtle"
	"encoding/gob"

	"dtportal/database/model"
	"dtportal/util/random"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUser = "LOGIN_USER"
	csrfToken = "CSRF_TOKEN"
)

// SessionCookieName is the cookie under which session state is stored.
const SessionCookieName = "dtportal"

func init() {
	gob.Register(model.User{})
}

func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUser, user)
	return s.Save()
}

// SetMaxAge re-issues the session cookie with the given lifetime, keeping
// the path and secure attributes the store was configured with.
func SetMaxAge(c *gin.Context, maxAge int, secure bool) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     cookiePath(c),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
	})
	return s.Save()
}

// cookiePath returns the configured base path so re-issued cookies replace
// the one the store set, rather than shadowing it on "/".
func cookiePath(c *gin.Context) string {
	if p := c.GetString("base_path"); p != "" {
		return p
	}
	return "/"
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// IsAdmin reports whether the session belongs to an administrator. Role is
// an opaque string compared by exact match; any other value yields false.
func IsAdmin(c *gin.Context) bool {
	user := GetLoginUser(c)
	return user != nil && user.UserType == model.RoleAdmin
}

// IsStudent reports whether the session belongs to a student.
func IsStudent(c *gin.Context) bool {
	user := GetLoginUser(c)
	return user != nil && user.UserType == model.RoleStudent
}

// EnsureCSRFToken returns the session's CSRF token, generating and storing a
// 256-bit random hex token on first use. Idempotent per session.
func EnsureCSRFToken(c *gin.Context) string {
	s := sessions.Default(c)
	if obj := s.Get(csrfToken); obj != nil {
		if token, ok := obj.(string); ok && token != "" {
			return token
		}
	}
	token := random.Hex(32)
	s.Set(csrfToken, token)
	if err := s.Save(); err != nil {
		return ""
	}
	return token
}

// VerifyCSRFToken reports whether candidate equals the session's stored
// token under constant-time comparison. False when no token exists.
func VerifyCSRFToken(c *gin.Context, candidate string) bool {
	s := sessions.Default(c)
	obj := s.Get(csrfToken)
	if obj == nil {
		return false
	}
	token, ok := obj.(string)
	if !ok || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   cookiePath(c),
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	return nil
}
