package repository

import (
	"errors"

	"go-disaster-management/internal/domain/entity"
	domainRepo "go-disaster-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type districtRepository struct{}

func NewDistrictRepository() domainRepo.DistrictRepository {
	return &districtRepository{}
}

func (r *districtRepository) Create(db *gorm.DB, district *entity.District) error {
	return db.Create(district).Error
}

func (r *districtRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.District, error) {
	var district entity.District
	err := db.Where("id = ?", id).First(&district).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &district, nil
}

// FindByIDForUpdate reads the district under SELECT ... FOR UPDATE. The sqlite
// driver drops the locking clause, which is fine there: the whole database is
// a single writer anyway.
func (r *districtRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.District, error) {
	var district entity.District
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&district).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *districtRepository) FindByName(db *gorm.DB, name string) (*entity.District, error) {
	var district entity.District
	err := db.Where("name = ?", name).First(&district).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *districtRepository) FindAll(db *gorm.DB) ([]entity.District, error) {
	var districts []entity.District
	err := db.Order("name asc").Find(&districts).Error
	return districts, err
}

func (r *districtRepository) Update(db *gorm.DB, district *entity.District) error {
	return db.Save(district).Error
}

func (r *districtRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.District{}).Error
}
