package service

import (
	"testing"
	"time"

	"dtportal/database"
	"dtportal/database/model"
)

func confirmedBooking(t *testing.T) *model.Booking {
	t.Helper()
	s := BookingService{}
	slot := newSlot(t, 1, 24*time.Hour)
	alice := newStudent(t, "alice")
	booking, err := s.Book(alice.Id, slot.Id)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Confirm(booking.Id); err != nil {
		t.Fatal(err)
	}
	return booking
}

func TestRecordResult(t *testing.T) {
	setupDB(t)
	booking := confirmedBooking(t)
	s := ResultService{}

	result, err := s.RecordResult(booking.Id, 91, true)
	if err != nil {
		t.Fatal(err)
	}
	if result.UserId != booking.UserId {
		t.Errorf("result user = %d, want %d", result.UserId, booking.UserId)
	}

	var fresh model.Booking
	if err := database.GetDB().First(&fresh, booking.Id).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.Status != model.BookingCompleted {
		t.Errorf("booking status = %q, want completed", fresh.Status)
	}
}

func TestRecordResultRequiresConfirmed(t *testing.T) {
	setupDB(t)
	b := BookingService{}
	slot := newSlot(t, 1, 24*time.Hour)
	alice := newStudent(t, "alice")
	booking, err := b.Book(alice.Id, slot.Id)
	if err != nil {
		t.Fatal(err)
	}

	s := ResultService{}
	if _, err := s.RecordResult(booking.Id, 50, false); err == nil {
		t.Error("recording against a pending booking should fail")
	}
}

func TestRecordResultOncePerBooking(t *testing.T) {
	setupDB(t)
	booking := confirmedBooking(t)
	s := ResultService{}

	if _, err := s.RecordResult(booking.Id, 70, true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordResult(booking.Id, 80, true); err == nil {
		t.Error("second result for the same booking should fail")
	}
}

func TestListAndLatestForUser(t *testing.T) {
	setupDB(t)
	booking := confirmedBooking(t)
	s := ResultService{}

	if _, err := s.RecordResult(booking.Id, 88, true); err != nil {
		t.Fatal(err)
	}

	results, err := s.ListForUser(booking.UserId)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	latest, err := s.LatestForUser(booking.UserId)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.Score != 88 {
		t.Errorf("latest = %+v", latest)
	}
}
