package repository

import (
	"errors"

	"go-disaster-management/internal/domain/entity"
	domainRepo "go-disaster-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type shelterRepository struct{}

func NewShelterRepository() domainRepo.ShelterRepository {
	return &shelterRepository{}
}

func (r *shelterRepository) Create(db *gorm.DB, shelter *entity.Shelter) error {
	return db.Create(shelter).Error
}

func (r *shelterRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Shelter, error) {
	var shelter entity.Shelter
	err := db.Where("id = ?", id).First(&shelter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shelter, nil
}

func (r *shelterRepository) FindAll(db *gorm.DB) ([]entity.Shelter, error) {
	var shelters []entity.Shelter
	err := db.Order("name asc").Find(&shelters).Error
	return shelters, err
}

func (r *shelterRepository) Update(db *gorm.DB, shelter *entity.Shelter) error {
	return db.Save(shelter).Error
}

func (r *shelterRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Shelter{}).Error
}

func (r *shelterRepository) DeleteAll(db *gorm.DB) error {
	return db.Where("1 = 1").Delete(&entity.Shelter{}).Error
}

func (r *shelterRepository) CountByDistrict(db *gorm.DB, districtID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Shelter{}).Where("district_id = ?", districtID).Count(&count).Error
	return count, err
}

func (r *shelterRepository) SumByDistrict(db *gorm.DB, districtID uuid.UUID) (*entity.ResourceSum, error) {
	var sum entity.ResourceSum
	err := db.Model(&entity.Shelter{}).
		Select("COALESCE(SUM(food), 0) AS food, COALESCE(SUM(water), 0) AS water, COALESCE(SUM(medicine), 0) AS medicine").
		Where("district_id = ?", districtID).
		Scan(&sum).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func (r *shelterRepository) GetMeta(db *gorm.DB) (*entity.ShelterCollectionMeta, error) {
	var meta entity.ShelterCollectionMeta
	err := db.Where("id = ?", 1).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		meta = entity.ShelterCollectionMeta{ID: 1, Revision: 0}
		if err := db.Create(&meta).Error; err != nil {
			return nil, err
		}
		return &meta, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *shelterRepository) BumpRevision(db *gorm.DB, meta *entity.ShelterCollectionMeta) error {
	// Compare-and-swap on the revision column so two writers that read the
	// same base cannot both commit.
	result := db.Model(&entity.ShelterCollectionMeta{}).
		Where("id = ? AND revision = ?", meta.ID, meta.Revision).
		Update("revision", gorm.Expr("revision + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrRevisionMismatch
	}
	meta.Revision++
	return nil
}
