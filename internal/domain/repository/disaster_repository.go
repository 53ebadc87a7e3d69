package repository

import (
	"go-disaster-management/internal/domain/entity"

	"gorm.io/gorm"
)

type DisasterRepository interface {
	FindAll(db *gorm.DB) ([]entity.Disaster, error)
	ReplaceAll(db *gorm.DB, disasters []entity.Disaster) error
}
