package service

import (
	"errors"
	"time"

	"dtportal/database"
	"dtportal/database/model"

	"gorm.io/gorm"
)

type ResultService struct{}

// RecordResult stores the outcome of a booking and marks it completed.
// A booking can carry at most one result.
func (s *ResultService) RecordResult(bookingId, score int, passed bool) (*model.TestResult, error) {
	db := database.GetDB()
	result := &model.TestResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		booking := &model.Booking{}
		if err := tx.First(booking, bookingId).Error; err != nil {
			return err
		}
		if booking.Status != model.BookingConfirmed && booking.Status != model.BookingCompleted {
			return errors.New("result requires a confirmed booking")
		}

		var existing int64
		if err := tx.Model(model.TestResult{}).Where("booking_id = ?", bookingId).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errors.New("booking already has a recorded result")
		}

		result.BookingId = bookingId
		result.UserId = booking.UserId
		result.Score = score
		result.Passed = passed
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		return tx.Model(booking).Update("status", model.BookingCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ResultService) ListForUser(userId int) ([]*model.TestResult, error) {
	db := database.GetDB()
	results := make([]*model.TestResult, 0)
	err := db.Model(model.TestResult{}).
		Preload("Booking").Preload("Booking.Slot").Preload("Booking.Slot.Centre").
		Where("user_id = ?", userId).
		Order("recorded_at desc").
		Find(&results).Error
	return results, err
}

// LatestForUser returns the most recent result, or nil when none exists.
func (s *ResultService) LatestForUser(userId int) (*model.TestResult, error) {
	db := database.GetDB()
	result := &model.TestResult{}
	err := db.Model(model.TestResult{}).
		Where("user_id = ?", userId).
		Order("recorded_at desc").
		First(result).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ResultService) CountRecordedSince(t time.Time) (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.TestResult{}).Where("recorded_at >= ?", t).Count(&count).Error
	return count, err
}
