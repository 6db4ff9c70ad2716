package job

import (
	"time"

	"dtportal/logger"
	"dtportal/web/service"
)

// pendingMaxAge is how long a booking may stay pending before it is
// released back to the slot.
const pendingMaxAge = 48 * time.Hour

type ExpirePendingBookingsJob struct {
	bookingService service.BookingService
}

func NewExpirePendingBookingsJob() *ExpirePendingBookingsJob {
	return new(ExpirePendingBookingsJob)
}

// Here Run is an interface method of the Job interface
func (j *ExpirePendingBookingsJob) Run() {
	count, err := j.bookingService.ExpirePending(pendingMaxAge)
	if err != nil {
		logger.Warning("expire pending bookings job err:", err)
		return
	}
	if count > 0 {
		logger.Infof("expired %d stale pending bookings", count)
	}
}
