package controller

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dtportal/database/model"
	"dtportal/logger"
	"dtportal/util/common"
	"dtportal/web/service"
	"dtportal/web/session"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// StudentController serves the student area: dashboard, learning material,
// mock tests, bookings, results, renewals, and profile.
type StudentController struct {
	BaseController

	settingService  service.SettingService
	userService     service.UserService
	bookingService  service.BookingService
	resultService   service.ResultService
	renewalService  service.RenewalService
	learningService service.LearningService
	mockTestService service.MockTestService
}

func NewStudentController(g *gin.RouterGroup) *StudentController {
	a := &StudentController{}
	a.initRouter(g)
	return a
}

func (a *StudentController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/student")
	g.Use(a.checkStudent)

	g.GET("/", a.dashboard)
	g.GET("/learning", a.learning)
	g.GET("/learning/:id", a.learningDetail)
	g.GET("/mocktest", a.mockTest)
	g.POST("/mocktest", a.submitMockTest)
	g.GET("/bookings", a.bookings)
	g.POST("/booking/add", a.book)
	g.POST("/booking/cancel/:id", a.cancelBooking)
	g.GET("/booking/qr/:ref", a.bookingQR)
	g.GET("/results", a.results)
	g.GET("/renewals", a.renewals)
	g.POST("/renewal/add", a.createRenewal)
	g.GET("/profile", a.profile)
	g.POST("/profile", a.updateProfile)
	g.POST("/profile/photo", a.uploadPhoto)
}

func (a *StudentController) dashboard(c *gin.Context) {
	user := session.GetLoginUser(c)

	next, err := a.bookingService.NextForUser(user.Id)
	if err != nil {
		logger.Warning("load next booking failed:", err)
	}
	latest, err := a.resultService.LatestForUser(user.Id)
	if err != nil {
		logger.Warning("load latest result failed:", err)
	}

	html(c, "dashboard.html", "pages.student.title", gin.H{
		"nextBooking":  next,
		"latestResult": latest,
	})
}

func (a *StudentController) learning(c *gin.Context) {
	materials, err := a.learningService.ListPublished()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	html(c, "learning.html", "pages.student.learningTitle", gin.H{
		"materials": materials,
	})
}

func (a *StudentController) learningDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"student/learning")
		return
	}
	material, err := a.learningService.Get(id)
	if err != nil || material == nil || !material.Published {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"student/learning")
		return
	}
	html(c, "learning_detail.html", "pages.student.learningTitle", gin.H{
		"material": material,
	})
}

func (a *StudentController) mockTest(c *gin.Context) {
	questions, err := a.mockTestService.RandomQuestions(20)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	html(c, "mock_test.html", "pages.student.mockTestTitle", gin.H{
		"questions": questions,
	})
}

// submitMockTest grades a submitted answer sheet. Answers arrive as form
// fields named q<questionId> holding the chosen option index.
func (a *StudentController) submitMockTest(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.invalidAnswers"), err)
		return
	}

	answers := make(map[int]int)
	for key, values := range c.Request.PostForm {
		if !strings.HasPrefix(key, "q") || len(values) == 0 {
			continue
		}
		id, err := strconv.Atoi(key[1:])
		if err != nil {
			continue
		}
		choice, err := strconv.Atoi(values[0])
		if err != nil {
			continue
		}
		answers[id] = choice
	}

	result, err := a.mockTestService.Grade(answers)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.gradeFailed"), err)
		return
	}
	html(c, "mock_test_result.html", "pages.student.mockTestTitle", gin.H{
		"result": result,
	})
}

func (a *StudentController) bookings(c *gin.Context) {
	user := session.GetLoginUser(c)

	bookings, err := a.bookingService.ListForUser(user.Id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	slots, err := a.bookingService.ListOpenSlots()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	html(c, "bookings.html", "pages.student.bookingTitle", gin.H{
		"bookings": bookings,
		"slots":    slots,
	})
}

func (a *StudentController) book(c *gin.Context) {
	user := session.GetLoginUser(c)

	slotId, err := strconv.Atoi(c.PostForm("slotId"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.invalidSlot"), err)
		return
	}

	booking, err := a.bookingService.Book(user.Id, slotId)
	if err != nil {
		switch err {
		case service.ErrSlotFull:
			pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.student.toasts.slotFull"))
		case service.ErrAlreadyBooked:
			pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.student.toasts.alreadyBooked"))
		default:
			jsonMsg(c, I18nWeb(c, "pages.student.toasts.bookFailed"), err)
		}
		return
	}

	logger.Infof("user %d booked slot %d, ref %s", user.Id, slotId, booking.Ref)
	jsonMsgObj(c, I18nWeb(c, "pages.student.toasts.booked"), booking, nil)
}

func (a *StudentController) cancelBooking(c *gin.Context) {
	user := session.GetLoginUser(c)

	bookingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.cancelFailed"), err)
		return
	}
	err = a.bookingService.Cancel(user.Id, bookingId)
	jsonMsg(c, I18nWeb(c, "pages.student.toasts.cancelled"), err)
}

// bookingQR serves a PNG QR code of the booking reference, for showing at
// the test centre.
func (a *StudentController) bookingQR(c *gin.Context) {
	user := session.GetLoginUser(c)

	ref := c.Param("ref")
	booking, err := a.bookingService.GetByRef(user.Id, ref)
	if err != nil || booking == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(booking.Ref, qrcode.Medium, 256)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (a *StudentController) results(c *gin.Context) {
	user := session.GetLoginUser(c)

	results, err := a.resultService.ListForUser(user.Id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	html(c, "results.html", "pages.student.resultsTitle", gin.H{
		"results": results,
	})
}

func (a *StudentController) renewals(c *gin.Context) {
	user := session.GetLoginUser(c)

	requests, err := a.renewalService.ListForUser(user.Id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	html(c, "renewal.html", "pages.student.renewalTitle", gin.H{
		"requests": requests,
	})
}

func (a *StudentController) createRenewal(c *gin.Context) {
	user := session.GetLoginUser(c)

	kind := c.PostForm("kind")
	if kind != model.RenewalLicence && kind != model.RenewalRegistration {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.student.toasts.invalidRenewal"))
		return
	}
	licenceNo := common.SanitizeInput(c.PostForm("licenceNo"))
	if licenceNo == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.student.toasts.invalidRenewal"))
		return
	}

	_, err := a.renewalService.Create(user.Id, kind, licenceNo)
	jsonMsg(c, I18nWeb(c, "pages.student.toasts.renewalSubmitted"), err)
}

func (a *StudentController) profile(c *gin.Context) {
	user := session.GetLoginUser(c)

	fresh, err := a.userService.GetUser(user.Id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.loadFailed"), err)
		return
	}
	html(c, "profile.html", "pages.student.profileTitle", gin.H{
		"user": fresh,
	})
}

func (a *StudentController) updateProfile(c *gin.Context) {
	user := session.GetLoginUser(c)

	email := common.SanitizeInput(c.PostForm("email"))
	fullName := common.SanitizeInput(c.PostForm("fullName"))
	password := c.PostForm("password")

	err := a.userService.UpdateProfile(user.Id, email, fullName, password)
	jsonMsg(c, I18nWeb(c, "pages.student.toasts.profileUpdated"), err)
}

// uploadPhoto stores a profile photo under the configured upload folder,
// enforcing the configured size cap.
func (a *StudentController) uploadPhoto(c *gin.Context) {
	user := session.GetLoginUser(c)

	file, err := c.FormFile("photo")
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.uploadFailed"), err)
		return
	}

	maxMB, err := a.settingService.GetUploadMaxMB()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.uploadFailed"), err)
		return
	}
	if file.Size > int64(maxMB)<<20 {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.student.toasts.uploadTooLarge", "max=="+strconv.Itoa(maxMB)))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg":
	default:
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.student.toasts.uploadBadType"))
		return
	}

	folder, err := a.settingService.GetUploadFolder()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.uploadFailed"), err)
		return
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.uploadFailed"), err)
		return
	}

	name := "user_" + strconv.Itoa(user.Id) + "_" + strconv.FormatInt(time.Now().Unix(), 10) + ext
	dst := filepath.Join(folder, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.student.toasts.uploadFailed"), err)
		return
	}

	err = a.userService.SetPhotoPath(user.Id, dst)
	jsonMsg(c, I18nWeb(c, "pages.student.toasts.photoUpdated"), err)
}
