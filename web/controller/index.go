package controller

import (
	"net/http"
	"time"

	"dtportal/logger"
	"dtportal/util/common"
	"dtportal/web/service"
	"dtportal/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username      string `json:"username" form:"username"`
	Password      string `json:"password" form:"password"`
	TwoFactorCode string `json:"twoFactorCode" form:"twoFactorCode"`
}

// RegisterForm represents the student self-registration request.
type RegisterForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	FullName string `json:"fullName" form:"fullName"`
	Password string `json:"password" form:"password"`
}

// IndexController handles the public routes: the role-aware landing page,
// login, registration, and logout.
type IndexController struct {
	BaseController

	settingService service.SettingService
	userService    service.UserService
	tgbot          service.Tgbot

	limiter service.LoginLimiter
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.limiter = a.newLimiter()
	a.initRouter(g)
	return a
}

// newLimiter builds the login throttling policy from the settings. Throttling
// is off by default, in which case every attempt is allowed.
func (a *IndexController) newLimiter() service.LoginLimiter {
	enable, err := a.settingService.GetLoginLimitEnable()
	if err != nil || !enable {
		return service.NoopLimiter{}
	}
	attempts, _ := a.settingService.GetLoginLimitAttempts()
	window, _ := a.settingService.GetLoginLimitWindow()
	cooldown, _ := a.settingService.GetLoginLimitCooldown()
	return service.NewMemoryLimiter(attempts, window, cooldown)
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.GET("/register", a.registerPage)
	g.GET("/logout", a.logout)

	g.POST("/login", a.login)
	g.POST("/register", a.register)
	g.POST("/getTwoFactorEnable", a.getTwoFactorEnable)
}

// index routes the visitor by role: administrators to the admin area,
// students to the student area, everyone else to the login route.
func (a *IndexController) index(c *gin.Context) {
	if session.IsAdmin(c) {
		c.Redirect(http.StatusTemporaryRedirect, "admin/")
		return
	}
	if session.IsStudent(c) {
		c.Redirect(http.StatusTemporaryRedirect, "student/")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"login")
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}
	html(c, "login.html", "pages.login.title", nil)
}

func (a *IndexController) registerPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}
	html(c, "register.html", "pages.register.title", nil)
}

// login handles user authentication and session creation.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.emptyUsername"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.emptyPassword"))
		return
	}

	remoteIp := getRemoteIp(c)
	if !a.limiter.Check(remoteIp) {
		logger.Warningf("login throttled for IP: \"%s\"", remoteIp)
		pureJsonMsg(c, http.StatusTooManyRequests, false, I18nWeb(c, "pages.login.toasts.tooManyAttempts"))
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password, form.TwoFactorCode)
	timeStr := time.Now().Format("2006-01-02 15:04:05")
	safeUser := common.SanitizeInput(form.Username)

	if user == nil {
		a.limiter.RecordFailure(remoteIp)
		logger.Warningf("wrong credentials for username: \"%s\", IP: \"%s\"", safeUser, remoteIp)
		a.tgbot.UserLoginNotify(safeUser, remoteIp, timeStr, 0)
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.wrongUsernameOrPassword"))
		return
	}

	a.limiter.Clear(remoteIp)

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB")
	}
	secureCookie, _ := a.settingService.GetSecureCookie()

	session.SetMaxAge(c, sessionMaxAge*60, secureCookie)
	session.SetLoginUser(c, user)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session: ", err)
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", safeUser, remoteIp)
	if user.IsAdmin() {
		a.tgbot.UserLoginNotify(safeUser, remoteIp, timeStr, 1)
	}
	jsonMsg(c, I18nWeb(c, "pages.login.toasts.successLogin"), nil)
}

// register creates a student account and signs it in.
func (a *IndexController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		return
	}
	if form.Username == "" || form.Email == "" || form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.register.toasts.missingFields"))
		return
	}

	user, err := a.userService.RegisterStudent(
		common.SanitizeInput(form.Username),
		common.SanitizeInput(form.Email),
		common.SanitizeInput(form.FullName),
		form.Password,
	)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.register.toasts.registerFailed"), err)
		return
	}

	sessionMaxAge, _ := a.settingService.GetSessionMaxAge()
	secureCookie, _ := a.settingService.GetSecureCookie()
	session.SetMaxAge(c, sessionMaxAge*60, secureCookie)
	session.SetLoginUser(c, user)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session: ", err)
		return
	}

	logger.Infof("student %s registered, IP: %s", user.Username, getRemoteIp(c))
	jsonMsg(c, I18nWeb(c, "pages.register.toasts.registered"), nil)
}

// logout handles user logout by clearing the session and redirecting to the entry point.
func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}

// getTwoFactorEnable retrieves the current status of two-factor authentication.
func (a *IndexController) getTwoFactorEnable(c *gin.Context) {
	status, err := a.settingService.GetTwoFactorEnable()
	if err == nil {
		jsonObj(c, status, nil)
	}
}
