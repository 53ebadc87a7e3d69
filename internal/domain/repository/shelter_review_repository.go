package repository

import (
	"go-disaster-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShelterReviewRepository interface {
	Create(db *gorm.DB, review *entity.ShelterReview) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ShelterReview, error)
	FindAll(db *gorm.DB) ([]entity.ShelterReview, error)
	FindByShelter(db *gorm.DB, shelterID string) ([]entity.ShelterReview, error)
	FindByUserAndShelter(db *gorm.DB, userID, shelterID string) (*entity.ShelterReview, error)
	Update(db *gorm.DB, review *entity.ShelterReview) error
	Delete(db *gorm.DB, id uuid.UUID) error
	Summary(db *gorm.DB, shelterID string) (*entity.RatingSummary, error)
	SummaryAll(db *gorm.DB) (map[string]entity.RatingSummary, error)
}
