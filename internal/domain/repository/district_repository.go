package repository

import (
	"go-disaster-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DistrictRepository interface {
	Create(db *gorm.DB, district *entity.District) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.District, error)
	// FindByIDForUpdate takes a row lock on the district so ledger checks
	// against its ceilings serialize with concurrent writers.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.District, error)
	FindByName(db *gorm.DB, name string) (*entity.District, error)
	FindAll(db *gorm.DB) ([]entity.District, error)
	Update(db *gorm.DB, district *entity.District) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
