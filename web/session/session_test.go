package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dtportal/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	engine.Use(sessions.Sessions(SessionCookieName, store))
	return engine
}

// doRequest performs a GET against the engine, carrying over cookies from a
// previous response when given.
func doRequest(engine *gin.Engine, path string, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIsLoginReflectsSession(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/login", func(c *gin.Context) {
		SetLoginUser(c, &model.User{Id: 1, Username: "alice", UserType: model.RoleStudent})
		c.Status(http.StatusOK)
	})
	engine.GET("/check", func(c *gin.Context) {
		if IsLogin(c) {
			c.String(http.StatusOK, "in")
		} else {
			c.String(http.StatusOK, "out")
		}
	})

	if w := doRequest(engine, "/check", nil); w.Body.String() != "out" {
		t.Fatalf("fresh session: got %q, want out", w.Body.String())
	}
	login := doRequest(engine, "/login", nil)
	if w := doRequest(engine, "/check", login); w.Body.String() != "in" {
		t.Fatalf("after login: got %q, want in", w.Body.String())
	}
}

func TestRoleChecksAreExclusive(t *testing.T) {
	tests := []struct {
		name        string
		user        *model.User
		wantAdmin   bool
		wantStudent bool
	}{
		{"admin", &model.User{Id: 1, UserType: model.RoleAdmin}, true, false},
		{"student", &model.User{Id: 2, UserType: model.RoleStudent}, false, true},
		{"unknown role", &model.User{Id: 3, UserType: "moderator"}, false, false},
		{"anonymous", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()
			engine.GET("/seed", func(c *gin.Context) {
				if tt.user != nil {
					SetLoginUser(c, tt.user)
				}
				c.Status(http.StatusOK)
			})
			var gotAdmin, gotStudent bool
			engine.GET("/check", func(c *gin.Context) {
				gotAdmin = IsAdmin(c)
				gotStudent = IsStudent(c)
				c.Status(http.StatusOK)
			})

			seed := doRequest(engine, "/seed", nil)
			doRequest(engine, "/check", seed)
			if gotAdmin != tt.wantAdmin {
				t.Errorf("IsAdmin = %v, want %v", gotAdmin, tt.wantAdmin)
			}
			if gotStudent != tt.wantStudent {
				t.Errorf("IsStudent = %v, want %v", gotStudent, tt.wantStudent)
			}
		})
	}
}

func TestEnsureCSRFTokenIdempotentPerSession(t *testing.T) {
	engine := newTestEngine()
	var tokens []string
	engine.GET("/token", func(c *gin.Context) {
		tokens = append(tokens, EnsureCSRFToken(c))
		c.Status(http.StatusOK)
	})

	first := doRequest(engine, "/token", nil)
	doRequest(engine, "/token", first)

	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0] == "" {
		t.Fatal("token must not be empty")
	}
	if len(tokens[0]) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(tokens[0]))
	}
	if tokens[0] != tokens[1] {
		t.Errorf("same session returned different tokens: %q vs %q", tokens[0], tokens[1])
	}
}

func TestCSRFTokensDifferAcrossSessions(t *testing.T) {
	engine := newTestEngine()
	var tokens []string
	engine.GET("/token", func(c *gin.Context) {
		tokens = append(tokens, EnsureCSRFToken(c))
		c.Status(http.StatusOK)
	})

	doRequest(engine, "/token", nil)
	doRequest(engine, "/token", nil)

	if tokens[0] == tokens[1] {
		t.Error("two independent sessions must not share a CSRF token")
	}
}

func TestVerifyCSRFToken(t *testing.T) {
	engine := newTestEngine()
	var token string
	engine.GET("/token", func(c *gin.Context) {
		token = EnsureCSRFToken(c)
		c.Status(http.StatusOK)
	})
	var verified map[string]bool
	engine.GET("/verify", func(c *gin.Context) {
		verified = map[string]bool{
			"exact":    VerifyCSRFToken(c, token),
			"empty":    VerifyCSRFToken(c, ""),
			"wrong":    VerifyCSRFToken(c, "deadbeef"),
			"prefixed": VerifyCSRFToken(c, token+"x"),
		}
		c.Status(http.StatusOK)
	})

	issued := doRequest(engine, "/token", nil)
	doRequest(engine, "/verify", issued)

	if !verified["exact"] {
		t.Error("exact token should verify")
	}
	for _, k := range []string{"empty", "wrong", "prefixed"} {
		if verified[k] {
			t.Errorf("candidate %q should not verify", k)
		}
	}
}

func TestVerifyCSRFTokenWithoutStoredToken(t *testing.T) {
	engine := newTestEngine()
	var got bool
	engine.GET("/verify", func(c *gin.Context) {
		got = VerifyCSRFToken(c, "anything")
		c.Status(http.StatusOK)
	})

	doRequest(engine, "/verify", nil)
	if got {
		t.Error("verification must fail when no token was issued")
	}
}

func TestClearSessionLogsOut(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/login", func(c *gin.Context) {
		SetLoginUser(c, &model.User{Id: 1, UserType: model.RoleStudent})
		c.Status(http.StatusOK)
	})
	engine.GET("/clear", func(c *gin.Context) {
		ClearSession(c)
		c.Status(http.StatusOK)
	})
	engine.GET("/check", func(c *gin.Context) {
		if IsLogin(c) {
			c.String(http.StatusOK, "in")
		} else {
			c.String(http.StatusOK, "out")
		}
	})

	login := doRequest(engine, "/login", nil)
	cleared := doRequest(engine, "/clear", login)
	if w := doRequest(engine, "/check", cleared); w.Body.String() != "out" {
		t.Fatalf("after clear: got %q, want out", w.Body.String())
	}
}

func TestSetMaxAgeKeepsCookieAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, Secure: true})
	engine.Use(sessions.Sessions(SessionCookieName, store))
	engine.GET("/login", func(c *gin.Context) {
		if err := SetMaxAge(c, 3600, true); err != nil {
			t.Error(err)
		}
		SetLoginUser(c, &model.User{Id: 1, Username: "alice", UserType: model.RoleStudent})
		c.Status(http.StatusOK)
	})

	w := doRequest(engine, "/login", nil)
	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookieName {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie issued")
	}
	if !sessionCookie.Secure {
		t.Error("re-issued cookie lost the Secure flag")
	}
	if !sessionCookie.HttpOnly {
		t.Error("re-issued cookie lost the HttpOnly flag")
	}
	if sessionCookie.Path != "/" {
		t.Errorf("cookie path: got %q, want /", sessionCookie.Path)
	}
	if sessionCookie.MaxAge != 3600 {
		t.Errorf("cookie max age: got %d, want 3600", sessionCookie.MaxAge)
	}
}

func TestSetMaxAgeFollowsBasePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	store.Options(sessions.Options{Path: "/portal/", HttpOnly: true})
	engine.Use(sessions.Sessions(SessionCookieName, store))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", "/portal/")
	})
	engine.GET("/portal/login", func(c *gin.Context) {
		SetMaxAge(c, 600, false)
		c.Status(http.StatusOK)
	})

	w := doRequest(engine, "/portal/login", nil)
	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookieName {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie issued")
	}
	if sessionCookie.Path != "/portal/" {
		t.Errorf("cookie path: got %q, want /portal/", sessionCookie.Path)
	}
}
