// Package model defines the persistent entities of the portal.
package model

import (
	"time"

	"dtportal/util/json_util"
)

// Setting is a key/value row backing the runtime-changeable configuration.
type Setting struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"uniqueIndex"`
	Value string `json:"value"`
}

// TestCentre is a physical location where driving tests are held.
type TestCentre struct {
	Id      int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"not null"`
	Address string `json:"address"`
	Active  bool   `json:"active" gorm:"default:true"`
}

// Test types offered by a slot.
const (
	TestTypeTheory    = "theory"
	TestTypePractical = "practical"
)

// ExamSlot is a bookable test sitting at a centre. Booked counts confirmed
// and pending bookings and never exceeds Capacity.
type ExamSlot struct {
	Id       int         `json:"id" gorm:"primaryKey;autoIncrement"`
	CentreId int         `json:"centreId" gorm:"not null;index"`
	Centre   *TestCentre `json:"centre" gorm:"foreignKey:CentreId"`
	TestType string      `json:"testType" gorm:"not null;default:theory"`
	StartsAt time.Time   `json:"startsAt" gorm:"not null;index"`
	Capacity int         `json:"capacity" gorm:"not null;default:1"`
	Booked   int         `json:"booked" gorm:"not null;default:0"`
}

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingExpired   = "expired"
	BookingCompleted = "completed"
)

// Booking ties a student to an exam slot. Ref is the public reference shown
// on confirmations and encoded into the booking QR code.
type Booking struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Ref       string    `json:"ref" gorm:"uniqueIndex;not null"`
	UserId    int       `json:"userId" gorm:"not null;index"`
	User      *User     `json:"user" gorm:"foreignKey:UserId"`
	SlotId    int       `json:"slotId" gorm:"not null;index"`
	Slot      *ExamSlot `json:"slot" gorm:"foreignKey:SlotId"`
	Status    string    `json:"status" gorm:"not null;default:pending;index"`
	Reminded  bool      `json:"-" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TestResult records the outcome of a completed booking.
type TestResult struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingId  int       `json:"bookingId" gorm:"uniqueIndex;not null"`
	Booking    *Booking  `json:"booking" gorm:"foreignKey:BookingId"`
	UserId     int       `json:"userId" gorm:"not null;index"`
	Score      int       `json:"score"`
	Passed     bool      `json:"passed"`
	RecordedAt time.Time `json:"recordedAt" gorm:"autoCreateTime"`
}

// Renewal request kinds and statuses.
const (
	RenewalLicence      = "licence"
	RenewalRegistration = "registration"

	RenewalSubmitted = "submitted"
	RenewalApproved  = "approved"
	RenewalRejected  = "rejected"
)

// RenewalRequest is a student-filed licence or vehicle-registration renewal.
type RenewalRequest struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId    int       `json:"userId" gorm:"not null;index"`
	User      *User     `json:"user" gorm:"foreignKey:UserId"`
	Kind      string    `json:"kind" gorm:"not null"`
	LicenceNo string    `json:"licenceNo" gorm:"not null"`
	Status    string    `json:"status" gorm:"not null;default:submitted"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// LearningMaterial is a published study article shown in the learning section.
type LearningMaterial struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null"`
	Category  string    `json:"category" gorm:"index"`
	Content   string    `json:"content"`
	Published bool      `json:"published" gorm:"default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// MockQuestion is a multiple-choice mock-test question. Options holds a JSON
// array of answer texts; Answer is the index of the correct option.
type MockQuestion struct {
	Id      int                  `json:"id" gorm:"primaryKey;autoIncrement"`
	Prompt  string               `json:"prompt" gorm:"not null"`
	Options json_util.RawMessage `json:"options" gorm:"type:text"`
	Answer  int                  `json:"-"`
	Active  bool                 `json:"active" gorm:"default:true"`
}
