package service

import (
	"errors"
	"time"

	"dtportal/database"
	"dtportal/database/model"
	"dtportal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSlotFull      = errors.New("slot is fully booked")
	ErrAlreadyBooked = errors.New("user already holds a booking for this slot")
)

type BookingService struct{}

// ListOpenSlots returns future slots that still have capacity.
func (s *BookingService) ListOpenSlots() ([]*model.ExamSlot, error) {
	db := database.GetDB()
	slots := make([]*model.ExamSlot, 0)
	err := db.Model(model.ExamSlot{}).
		Preload("Centre").
		Where("starts_at > ? AND booked < capacity", time.Now()).
		Order("starts_at asc").
		Find(&slots).Error
	return slots, err
}

func (s *BookingService) ListSlots() ([]*model.ExamSlot, error) {
	db := database.GetDB()
	slots := make([]*model.ExamSlot, 0)
	err := db.Model(model.ExamSlot{}).Preload("Centre").Order("starts_at asc").Find(&slots).Error
	return slots, err
}

func (s *BookingService) CreateSlot(centreId int, testType string, startsAt time.Time, capacity int) (*model.ExamSlot, error) {
	if testType != model.TestTypeTheory && testType != model.TestTypePractical {
		return nil, errors.New("unknown test type: " + testType)
	}
	if capacity <= 0 {
		return nil, errors.New("capacity must be positive")
	}
	slot := &model.ExamSlot{
		CentreId: centreId,
		TestType: testType,
		StartsAt: startsAt,
		Capacity: capacity,
	}
	db := database.GetDB()
	return slot, db.Create(slot).Error
}

// DeleteSlot removes a slot that has no pending or confirmed bookings.
func (s *BookingService) DeleteSlot(slotId int) error {
	db := database.GetDB()
	var count int64
	err := db.Model(model.Booking{}).
		Where("slot_id = ? AND status IN ?", slotId, []string{model.BookingPending, model.BookingConfirmed}).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("slot still has active bookings")
	}
	return db.Delete(&model.ExamSlot{}, slotId).Error
}

// Book places a pending booking for the user on the slot, enforcing the
// capacity invariant inside a transaction.
func (s *BookingService) Book(userId, slotId int) (*model.Booking, error) {
	db := database.GetDB()
	booking := &model.Booking{
		Ref:    uuid.NewString(),
		UserId: userId,
		SlotId: slotId,
		Status: model.BookingPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		slot := &model.ExamSlot{}
		if err := tx.First(slot, slotId).Error; err != nil {
			return err
		}
		if slot.Booked >= slot.Capacity {
			return ErrSlotFull
		}

		var existing int64
		err := tx.Model(model.Booking{}).
			Where("user_id = ? AND slot_id = ? AND status IN ?",
				userId, slotId, []string{model.BookingPending, model.BookingConfirmed}).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyBooked
		}

		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return tx.Model(slot).Update("booked", gorm.Expr("booked + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel releases the slot seat. A zero userId skips the ownership check
// (admin cancellation).
func (s *BookingService) Cancel(userId, bookingId int) error {
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		booking := &model.Booking{}
		if err := tx.First(booking, bookingId).Error; err != nil {
			return err
		}
		if userId != 0 && booking.UserId != userId {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != model.BookingPending && booking.Status != model.BookingConfirmed {
			return errors.New("booking is not cancellable in status " + booking.Status)
		}
		if err := tx.Model(booking).Update("status", model.BookingCancelled).Error; err != nil {
			return err
		}
		return tx.Model(model.ExamSlot{}).
			Where("id = ?", booking.SlotId).
			Update("booked", gorm.Expr("booked - 1")).Error
	})
}

func (s *BookingService) Confirm(bookingId int) error {
	db := database.GetDB()
	return db.Model(model.Booking{}).
		Where("id = ? AND status = ?", bookingId, model.BookingPending).
		Update("status", model.BookingConfirmed).Error
}

func (s *BookingService) ListForUser(userId int) ([]*model.Booking, error) {
	db := database.GetDB()
	bookings := make([]*model.Booking, 0)
	err := db.Model(model.Booking{}).
		Preload("Slot").Preload("Slot.Centre").
		Where("user_id = ?", userId).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListAll() ([]*model.Booking, error) {
	db := database.GetDB()
	bookings := make([]*model.Booking, 0)
	err := db.Model(model.Booking{}).
		Preload("User").Preload("Slot").Preload("Slot.Centre").
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

// NextForUser returns the user's earliest upcoming booking, or nil.
func (s *BookingService) NextForUser(userId int) (*model.Booking, error) {
	db := database.GetDB()
	booking := &model.Booking{}
	err := db.Model(model.Booking{}).
		Preload("Slot").Preload("Slot.Centre").
		Joins("JOIN exam_slots ON exam_slots.id = bookings.slot_id").
		Where("bookings.user_id = ? AND bookings.status IN ? AND exam_slots.starts_at > ?",
			userId, []string{model.BookingPending, model.BookingConfirmed}, time.Now()).
		Order("exam_slots.starts_at asc").
		First(booking).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetByRef fetches a booking by its public reference, scoped to the owner.
func (s *BookingService) GetByRef(userId int, ref string) (*model.Booking, error) {
	db := database.GetDB()
	booking := &model.Booking{}
	err := db.Model(model.Booking{}).
		Preload("Slot").Preload("Slot.Centre").
		Where("ref = ? AND user_id = ?", ref, userId).
		First(booking).Error
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ExpirePending marks pending bookings older than maxAge as expired and
// releases their seats. Returns the number of bookings expired.
func (s *BookingService) ExpirePending(maxAge time.Duration) (int, error) {
	db := database.GetDB()
	cutoff := time.Now().Add(-maxAge)

	stale := make([]*model.Booking, 0)
	err := db.Model(model.Booking{}).
		Where("status = ? AND created_at < ?", model.BookingPending, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, booking := range stale {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(booking).Update("status", model.BookingExpired).Error; err != nil {
				return err
			}
			return tx.Model(model.ExamSlot{}).
				Where("id = ?", booking.SlotId).
				Update("booked", gorm.Expr("booked - 1")).Error
		})
		if err != nil {
			logger.Warning("expire booking err:", err)
			continue
		}
		expired++
	}
	return expired, nil
}

// CountCreatedSince counts bookings created at or after the given time.
func (s *BookingService) CountCreatedSince(t time.Time) (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.Booking{}).Where("created_at >= ?", t).Count(&count).Error
	return count, err
}

func (s *BookingService) CountByStatus(status string) (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.Booking{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ListCentres returns active test centres for the slot form.
func (s *BookingService) ListCentres() ([]*model.TestCentre, error) {
	db := database.GetDB()
	centres := make([]*model.TestCentre, 0)
	err := db.Model(model.TestCentre{}).Where("active = ?", true).Order("name asc").Find(&centres).Error
	return centres, err
}

func (s *BookingService) CreateCentre(name, address string) (*model.TestCentre, error) {
	centre := &model.TestCentre{Name: name, Address: address, Active: true}
	db := database.GetDB()
	return centre, db.Create(centre).Error
}

// UpcomingUnreminded returns confirmed bookings starting within the horizon
// that have not yet received a reminder.
func (s *BookingService) UpcomingUnreminded(horizon time.Duration) ([]*model.Booking, error) {
	db := database.GetDB()
	now := time.Now()
	bookings := make([]*model.Booking, 0)
	err := db.Model(model.Booking{}).
		Preload("User").Preload("Slot").Preload("Slot.Centre").
		Joins("JOIN exam_slots ON exam_slots.id = bookings.slot_id").
		Where("bookings.status = ? AND bookings.reminded = ? AND exam_slots.starts_at BETWEEN ? AND ?",
			model.BookingConfirmed, false, now, now.Add(horizon)).
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) MarkReminded(bookingId int) error {
	db := database.GetDB()
	return db.Model(model.Booking{}).Where("id = ?", bookingId).Update("reminded", true).Error
}
