package service

import (
	"dtportal/database"
	"dtportal/database/model"
)

type LearningService struct{}

func (s *LearningService) ListPublished() ([]*model.LearningMaterial, error) {
	db := database.GetDB()
	materials := make([]*model.LearningMaterial, 0)
	err := db.Model(model.LearningMaterial{}).
		Where("published = ?", true).
		Order("category asc, created_at desc").
		Find(&materials).Error
	return materials, err
}

func (s *LearningService) ListAll() ([]*model.LearningMaterial, error) {
	db := database.GetDB()
	materials := make([]*model.LearningMaterial, 0)
	err := db.Model(model.LearningMaterial{}).Order("created_at desc").Find(&materials).Error
	return materials, err
}

func (s *LearningService) Get(id int) (*model.LearningMaterial, error) {
	db := database.GetDB()
	material := &model.LearningMaterial{}
	err := db.First(material, id).Error
	if err != nil {
		return nil, err
	}
	return material, nil
}

func (s *LearningService) Save(material *model.LearningMaterial) error {
	db := database.GetDB()
	return db.Save(material).Error
}

func (s *LearningService) Delete(id int) error {
	db := database.GetDB()
	return db.Delete(&model.LearningMaterial{}, id).Error
}
