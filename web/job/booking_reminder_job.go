package job

import (
	"strconv"
	"time"

	"dtportal/logger"
	"dtportal/util/common"
	"dtportal/web/service"
)

// reminderHorizon is how far ahead the job looks for tests to flag.
const reminderHorizon = 24 * time.Hour

type BookingReminderJob struct {
	bookingService service.BookingService
	tgbotService   service.Tgbot
}

func NewBookingReminderJob() *BookingReminderJob {
	return new(BookingReminderJob)
}

// Here Run is an interface method of the Job interface
func (j *BookingReminderJob) Run() {
	defer common.Recover("booking reminder job")

	bookings, err := j.bookingService.UpcomingUnreminded(reminderHorizon)
	if err != nil {
		logger.Warning("booking reminder job err:", err)
		return
	}
	if len(bookings) == 0 {
		return
	}

	if j.tgbotService.IsRunning() {
		msg := j.tgbotService.I18nBot("tgbot.upcomingTests", "count=="+strconv.Itoa(len(bookings)))
		j.tgbotService.SendMsgToAdmins(msg)
	}

	for _, booking := range bookings {
		if err := j.bookingService.MarkReminded(booking.Id); err != nil {
			logger.Warning("booking reminder job err:", err)
		}
	}
}
