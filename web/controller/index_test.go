package controller

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"dtportal/database"
	"dtportal/logger"
	"dtportal/web/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("DTP_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)
	if err := database.InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = database.CloseDB()
	})

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	engine.Use(sessions.Sessions("dtportal", store))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", "/")
	})
	engine.SetHTMLTemplate(template.Must(template.New("login.html").Parse("login page")))

	NewIndexController(engine.Group("/"))
	return engine
}

func seedAdmin(t *testing.T) {
	t.Helper()
	userService := service.UserService{}
	if _, err := userService.SeedAdmin("admin", "admin@drivingtest.com", "admin123"); err != nil {
		t.Fatal(err)
	}
}

func registerStudent(t *testing.T) {
	t.Helper()
	userService := service.UserService{}
	if _, err := userService.RegisterStudent("bob", "bob@example.com", "Bob", "pass1234"); err != nil {
		t.Fatal(err)
	}
}

// login posts credentials and returns the response, whose cookies carry the
// authenticated session.
func login(t *testing.T, engine *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func getRoot(engine *gin.Engine, session *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if session != nil {
		for _, c := range session.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRootRedirectsAnonymousToLogin(t *testing.T) {
	engine := setupRouter(t)

	w := getRoot(engine, nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginPageRendersForAnonymous(t *testing.T) {
	engine := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login page")
}

func TestRootRedirectsAdmin(t *testing.T) {
	engine := setupRouter(t)
	seedAdmin(t)

	session := login(t, engine, "admin", "admin123")
	assert.Contains(t, session.Body.String(), `"success":true`)

	w := getRoot(engine, session)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "admin/", w.Header().Get("Location"))
}

func TestRootRedirectsStudent(t *testing.T) {
	engine := setupRouter(t)
	registerStudent(t)

	session := login(t, engine, "bob", "pass1234")
	assert.Contains(t, session.Body.String(), `"success":true`)

	w := getRoot(engine, session)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "student/", w.Header().Get("Location"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	engine := setupRouter(t)
	seedAdmin(t)

	w := login(t, engine, "admin", "nope")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	root := getRoot(engine, w)
	assert.Equal(t, http.StatusTemporaryRedirect, root.Code)
	assert.Equal(t, "/login", root.Header().Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	engine := setupRouter(t)
	registerStudent(t)

	session := login(t, engine, "bob", "pass1234")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range session.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	engine.ServeHTTP(out, req)
	assert.Equal(t, http.StatusTemporaryRedirect, out.Code)

	root := getRoot(engine, out)
	assert.Equal(t, http.StatusTemporaryRedirect, root.Code)
	assert.Equal(t, "/login", root.Header().Get("Location"))
}
