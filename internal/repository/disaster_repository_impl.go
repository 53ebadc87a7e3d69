package repository

import (
	"go-disaster-management/internal/domain/entity"
	domainRepo "go-disaster-management/internal/domain/repository"

	"gorm.io/gorm"
)

type disasterRepository struct{}

func NewDisasterRepository() domainRepo.DisasterRepository {
	return &disasterRepository{}
}

func (r *disasterRepository) FindAll(db *gorm.DB) ([]entity.Disaster, error) {
	var disasters []entity.Disaster
	err := db.Order("occurred_at desc").Find(&disasters).Error
	return disasters, err
}

func (r *disasterRepository) ReplaceAll(db *gorm.DB, disasters []entity.Disaster) error {
	if err := db.Where("1 = 1").Delete(&entity.Disaster{}).Error; err != nil {
		return err
	}
	if len(disasters) == 0 {
		return nil
	}
	return db.Create(&disasters).Error
}
