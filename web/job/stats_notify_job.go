package job

import (
	"strconv"
	"time"

	"dtportal/database/model"
	"dtportal/logger"
	"dtportal/util/common"
	"dtportal/web/service"
)

// StatsNotifyJob sends the daily booking summary to the admin chats.
type StatsNotifyJob struct {
	bookingService service.BookingService
	resultService  service.ResultService
	tgbotService   service.Tgbot
}

func NewStatsNotifyJob() *StatsNotifyJob {
	return new(StatsNotifyJob)
}

// Here Run is an interface method of the Job interface
func (j *StatsNotifyJob) Run() {
	defer common.Recover("stats notify job")

	if !j.tgbotService.IsRunning() {
		return
	}

	since := time.Now().AddDate(0, 0, -1)
	bookings, err := j.bookingService.CountCreatedSince(since)
	if err != nil {
		logger.Warning("stats notify job err:", err)
		return
	}
	pending, err := j.bookingService.CountByStatus(model.BookingPending)
	if err != nil {
		logger.Warning("stats notify job err:", err)
		return
	}
	results, err := j.resultService.CountRecordedSince(since)
	if err != nil {
		logger.Warning("stats notify job err:", err)
		return
	}

	msg := j.tgbotService.I18nBot("tgbot.dailySummary",
		"bookings=="+strconv.FormatInt(bookings, 10),
		"pending=="+strconv.FormatInt(pending, 10),
		"results=="+strconv.FormatInt(results, 10))
	j.tgbotService.SendMsgToAdmins(msg)
}
