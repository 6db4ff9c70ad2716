package service

import (
	"errors"

	"dtportal/database"
	"dtportal/database/model"
)

type RenewalService struct{}

// Create files a renewal request for the user. Callers pass
// already-sanitized input.
func (s *RenewalService) Create(userId int, kind, licenceNo string) (*model.RenewalRequest, error) {
	if kind != model.RenewalLicence && kind != model.RenewalRegistration {
		return nil, errors.New("unknown renewal kind: " + kind)
	}
	if licenceNo == "" {
		return nil, errors.New("licence number can not be empty")
	}
	request := &model.RenewalRequest{
		UserId:    userId,
		Kind:      kind,
		LicenceNo: licenceNo,
		Status:    model.RenewalSubmitted,
	}
	db := database.GetDB()
	return request, db.Create(request).Error
}

func (s *RenewalService) ListForUser(userId int) ([]*model.RenewalRequest, error) {
	db := database.GetDB()
	requests := make([]*model.RenewalRequest, 0)
	err := db.Model(model.RenewalRequest{}).
		Where("user_id = ?", userId).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (s *RenewalService) ListAll() ([]*model.RenewalRequest, error) {
	db := database.GetDB()
	requests := make([]*model.RenewalRequest, 0)
	err := db.Model(model.RenewalRequest{}).
		Preload("User").
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (s *RenewalService) SetStatus(id int, status string) error {
	if status != model.RenewalApproved && status != model.RenewalRejected && status != model.RenewalSubmitted {
		return errors.New("unknown renewal status: " + status)
	}
	db := database.GetDB()
	return db.Model(model.RenewalRequest{}).Where("id = ?", id).Update("status", status).Error
}
