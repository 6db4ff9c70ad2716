package controller

import (
	"net/http"
	"strconv"
	"time"

	"dtportal/database/model"
	"dtportal/logger"
	"dtportal/util/common"
	"dtportal/web/entity"
	"dtportal/web/service"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"github.com/xlzd/gotp"
)

// AdminController serves the admin area: dashboard, exam slots, bookings,
// users, results, learning material, mock questions, settings, and logs.
type AdminController struct {
	BaseController

	settingService  service.SettingService
	userService     service.UserService
	bookingService  service.BookingService
	resultService   service.ResultService
	renewalService  service.RenewalService
	learningService service.LearningService
	mockTestService service.MockTestService
	serverService   service.ServerService
	tgbot           service.Tgbot
}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/admin")
	g.Use(a.checkAdmin)

	g.GET("/", a.dashboard)
	g.POST("/status", a.status)

	g.GET("/slots", a.slots)
	g.POST("/slot/add", a.addSlot)
	g.POST("/slot/del/:id", a.delSlot)
	g.POST("/centre/add", a.addCentre)

	g.GET("/bookings", a.bookings)
	g.POST("/booking/confirm/:id", a.confirmBooking)
	g.POST("/booking/cancel/:id", a.cancelBooking)
	g.POST("/result/record", a.recordResult)

	g.GET("/users", a.users)
	g.POST("/user/status/:id", a.setUserStatus)

	g.GET("/renewals", a.renewals)
	g.POST("/renewal/status/:id", a.setRenewalStatus)

	g.GET("/learning", a.learning)
	g.POST("/learning/save", a.saveLearning)
	g.POST("/learning/del/:id", a.delLearning)

	g.GET("/questions", a.questions)
	g.POST("/question/save", a.saveQuestion)
	g.POST("/question/del/:id", a.delQuestion)

	g.GET("/settings", a.settings)
	g.POST("/setting/all", a.getAllSetting)
	g.POST("/setting/update", a.updateSetting)
	g.POST("/twofactor/enable", a.enableTwoFactor)
	g.GET("/twofactor/qr", a.twoFactorQR)

	g.GET("/logs", a.logsPage)
	g.POST("/logs/:count", a.getLogs)
}

func (a *AdminController) dashboard(c *gin.Context) {
	html(c, "admin_dashboard.html", "pages.admin.title", nil)
}

// status returns the dashboard counters plus host status in one payload.
func (a *AdminController) status(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -1)

	students, err := a.userService.CountStudents()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	pending, _ := a.bookingService.CountByStatus(model.BookingPending)
	confirmed, _ := a.bookingService.CountByStatus(model.BookingConfirmed)
	newBookings, _ := a.bookingService.CountCreatedSince(since)
	newResults, _ := a.resultService.CountRecordedSince(since)

	jsonObj(c, gin.H{
		"students":     students,
		"pending":      pending,
		"confirmed":    confirmed,
		"newBookings":  newBookings,
		"newResults":   newResults,
		"server":       a.serverService.GetStatus(),
		"tgbotRunning": a.tgbot.IsRunning(),
	}, nil)
}

func (a *AdminController) slots(c *gin.Context) {
	slots, err := a.bookingService.ListSlots()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	centres, err := a.bookingService.ListCentres()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	html(c, "admin_slots.html", "pages.admin.slotsTitle", gin.H{
		"slots":   slots,
		"centres": centres,
	})
}

func (a *AdminController) addSlot(c *gin.Context) {
	centreId, err := strconv.Atoi(c.PostForm("centreId"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.invalidSlot"), err)
		return
	}
	testType := c.PostForm("testType")
	if testType != model.TestTypeTheory && testType != model.TestTypePractical {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidSlot"))
		return
	}
	startsAt, err := time.Parse("2006-01-02T15:04", c.PostForm("startsAt"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.invalidSlot"), err)
		return
	}
	capacity, err := strconv.Atoi(c.PostForm("capacity"))
	if err != nil || capacity < 1 {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidSlot"))
		return
	}

	slot, err := a.bookingService.CreateSlot(centreId, testType, startsAt, capacity)
	jsonMsgObj(c, I18nWeb(c, "pages.admin.toasts.slotAdded"), slot, err)
}

func (a *AdminController) delSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.deleteFailed"), err)
		return
	}
	err = a.bookingService.DeleteSlot(id)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.slotDeleted"), err)
}

func (a *AdminController) addCentre(c *gin.Context) {
	name := common.SanitizeInput(c.PostForm("name"))
	if name == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidCentre"))
		return
	}
	address := common.SanitizeInput(c.PostForm("address"))

	centre, err := a.bookingService.CreateCentre(name, address)
	jsonMsgObj(c, I18nWeb(c, "pages.admin.toasts.centreAdded"), centre, err)
}

func (a *AdminController) bookings(c *gin.Context) {
	bookings, err := a.bookingService.ListAll()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	html(c, "admin_bookings.html", "pages.admin.bookingsTitle", gin.H{
		"bookings": bookings,
	})
}

func (a *AdminController) confirmBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
		return
	}
	err = a.bookingService.Confirm(id)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.bookingConfirmed"), err)
}

func (a *AdminController) cancelBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
		return
	}
	err = a.bookingService.Cancel(0, id)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.bookingCancelled"), err)
}

func (a *AdminController) recordResult(c *gin.Context) {
	bookingId, err := strconv.Atoi(c.PostForm("bookingId"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.invalidResult"), err)
		return
	}
	score, err := strconv.Atoi(c.PostForm("score"))
	if err != nil || score < 0 || score > 100 {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidResult"))
		return
	}
	passed := c.PostForm("passed") == "true"

	result, err := a.resultService.RecordResult(bookingId, score, passed)
	jsonMsgObj(c, I18nWeb(c, "pages.admin.toasts.resultRecorded"), result, err)
}

func (a *AdminController) users(c *gin.Context) {
	users, err := a.userService.ListUsers()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	html(c, "admin_users.html", "pages.admin.usersTitle", gin.H{
		"users": users,
	})
}

func (a *AdminController) setUserStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
		return
	}
	status := c.PostForm("status")
	if status != model.StatusActive && status != model.StatusInactive {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.updateFailed"))
		return
	}
	err = a.userService.SetUserStatus(id, status)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.userUpdated"), err)
}

func (a *AdminController) renewals(c *gin.Context) {
	requests, err := a.renewalService.ListAll()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	html(c, "admin_renewals.html", "pages.admin.renewalsTitle", gin.H{
		"requests": requests,
	})
}

func (a *AdminController) setRenewalStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
		return
	}
	status := c.PostForm("status")
	if status != model.RenewalApproved && status != model.RenewalRejected {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.updateFailed"))
		return
	}
	err = a.renewalService.SetStatus(id, status)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.renewalUpdated"), err)
}

func (a *AdminController) learning(c *gin.Context) {
	materials, err := a.learningService.ListAll()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	html(c, "admin_learning.html", "pages.admin.learningTitle", gin.H{
		"materials": materials,
	})
}

func (a *AdminController) saveLearning(c *gin.Context) {
	id, _ := strconv.Atoi(c.PostForm("id"))
	material := &model.LearningMaterial{
		Id:        id,
		Title:     common.SanitizeInput(c.PostForm("title")),
		Category:  common.SanitizeInput(c.PostForm("category")),
		Content:   c.PostForm("content"),
		Published: c.PostForm("published") == "true",
	}
	if material.Title == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidMaterial"))
		return
	}
	err := a.learningService.Save(material)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.materialSaved"), err)
}

func (a *AdminController) delLearning(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.deleteFailed"), err)
		return
	}
	err = a.learningService.Delete(id)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.materialDeleted"), err)
}

func (a *AdminController) questions(c *gin.Context) {
	questions, err := a.mockTestService.ListQuestions()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	html(c, "admin_questions.html", "pages.admin.questionsTitle", gin.H{
		"questions": questions,
	})
}

// saveQuestion accepts option texts as repeated "option" form fields and the
// index of the correct one as "answer".
func (a *AdminController) saveQuestion(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.invalidQuestion"), err)
		return
	}
	options := c.PostFormArray("option")
	answer, err := strconv.Atoi(c.PostForm("answer"))
	if err != nil || len(options) < 2 || answer < 0 || answer >= len(options) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidQuestion"))
		return
	}

	id, _ := strconv.Atoi(c.PostForm("id"))
	q := &model.MockQuestion{
		Id:     id,
		Prompt: common.SanitizeInput(c.PostForm("prompt")),
		Answer: answer,
		Active: c.PostForm("active") != "false",
	}
	if q.Prompt == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.admin.toasts.invalidQuestion"))
		return
	}

	err = a.mockTestService.SaveQuestion(q, options)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.questionSaved"), err)
}

func (a *AdminController) delQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.deleteFailed"), err)
		return
	}
	err = a.mockTestService.DeleteQuestion(id)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.questionDeleted"), err)
}

func (a *AdminController) settings(c *gin.Context) {
	html(c, "admin_settings.html", "pages.admin.settingsTitle", nil)
}

func (a *AdminController) getAllSetting(c *gin.Context) {
	allSetting, err := a.settingService.GetAllSetting()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	jsonObj(c, allSetting, nil)
}

func (a *AdminController) updateSetting(c *gin.Context) {
	allSetting := &entity.AllSetting{}
	if err := c.ShouldBind(allSetting); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.invalidSettings"), err)
		return
	}
	err := a.settingService.UpdateAllSetting(allSetting)
	jsonMsg(c, I18nWeb(c, "pages.admin.toasts.settingsSaved"), err)
}

// enableTwoFactor turns TOTP login on or off for administrators. Enabling
// generates a fresh secret; the QR endpoint serves the enrolment code.
func (a *AdminController) enableTwoFactor(c *gin.Context) {
	enable := c.PostForm("enable") == "true"

	if !enable {
		if err := a.settingService.SetTwoFactorEnable(false); err != nil {
			jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
			return
		}
		err := a.settingService.SetTwoFactorToken("")
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.twoFactorDisabled"), err)
		return
	}

	secret := gotp.RandomSecret(32)
	if err := a.settingService.SetTwoFactorToken(secret); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
		return
	}
	if err := a.settingService.SetTwoFactorEnable(true); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.updateFailed"), err)
		return
	}

	logger.Info("two-factor authentication enabled")
	jsonMsgObj(c, I18nWeb(c, "pages.admin.toasts.twoFactorEnabled"), secret, nil)
}

// twoFactorQR serves a PNG QR code of the TOTP provisioning URI.
func (a *AdminController) twoFactorQR(c *gin.Context) {
	token, err := a.settingService.GetTwoFactorToken()
	if err != nil || token == "" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	siteName, _ := a.settingService.GetSiteName()
	uri := gotp.NewDefaultTOTP(token).ProvisioningUri("admin", siteName)

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.toasts.loadFailed"), err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (a *AdminController) logsPage(c *gin.Context) {
	html(c, "admin_logs.html", "pages.admin.logsTitle", nil)
}

// getLogs returns the most recent in-memory log lines at or above the
// requested level.
func (a *AdminController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 {
		count = 50
	}
	level := c.PostForm("level")
	if level == "" {
		level = "info"
	}
	jsonObj(c, logger.GetLogs(count, level), nil)
}
