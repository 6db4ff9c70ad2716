package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dtportal/logger"
	"dtportal/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func csrfTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("DTP_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	engine.Use(sessions.Sessions("dtportal", store))
	engine.Use(CSRFProtection())
	engine.GET("/page", func(c *gin.Context) {
		c.String(http.StatusOK, session.EnsureCSRFToken(c))
	})
	engine.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return engine
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	engine := csrfTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	engine := csrfTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	engine := csrfTestEngine(t)

	issue := httptest.NewRecorder()
	engine.ServeHTTP(issue, httptest.NewRequest(http.MethodGet, "/page", nil))
	token := issue.Body.String()

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range issue.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCSRFAcceptsFormToken(t *testing.T) {
	engine := csrfTestEngine(t)

	issue := httptest.NewRecorder()
	engine.ServeHTTP(issue, httptest.NewRequest(http.MethodGet, "/page", nil))
	token := issue.Body.String()

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("csrf_token="+token))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range issue.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsForeignToken(t *testing.T) {
	engine := csrfTestEngine(t)

	issue := httptest.NewRecorder()
	engine.ServeHTTP(issue, httptest.NewRequest(http.MethodGet, "/page", nil))

	// Token from a different session
	other := httptest.NewRecorder()
	engine.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/page", nil))

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("X-CSRF-Token", other.Body.String())
	for _, c := range issue.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
