package repository

import (
	"errors"

	"go-disaster-management/internal/domain/entity"
	domainRepo "go-disaster-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type shelterReviewRepository struct{}

func NewShelterReviewRepository() domainRepo.ShelterReviewRepository {
	return &shelterReviewRepository{}
}

func (r *shelterReviewRepository) Create(db *gorm.DB, review *entity.ShelterReview) error {
	return db.Create(review).Error
}

func (r *shelterReviewRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ShelterReview, error) {
	var review entity.ShelterReview
	err := db.Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *shelterReviewRepository) FindAll(db *gorm.DB) ([]entity.ShelterReview, error) {
	var reviews []entity.ShelterReview
	err := db.Order("created_at desc").Find(&reviews).Error
	return reviews, err
}

func (r *shelterReviewRepository) FindByShelter(db *gorm.DB, shelterID string) ([]entity.ShelterReview, error) {
	var reviews []entity.ShelterReview
	err := db.Where("shelter_id = ?", shelterID).Order("created_at desc").Find(&reviews).Error
	return reviews, err
}

func (r *shelterReviewRepository) FindByUserAndShelter(db *gorm.DB, userID, shelterID string) (*entity.ShelterReview, error) {
	var review entity.ShelterReview
	err := db.Where("user_id = ? AND shelter_id = ?", userID, shelterID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *shelterReviewRepository) Update(db *gorm.DB, review *entity.ShelterReview) error {
	return db.Save(review).Error
}

func (r *shelterReviewRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.ShelterReview{}).Error
}

func (r *shelterReviewRepository) Summary(db *gorm.DB, shelterID string) (*entity.RatingSummary, error) {
	var row struct {
		AverageRating float64
		ReviewCount   int64
	}
	err := db.Model(&entity.ShelterReview{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Where("shelter_id = ?", shelterID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &entity.RatingSummary{AverageRating: row.AverageRating, ReviewCount: row.ReviewCount}, nil
}

func (r *shelterReviewRepository) SummaryAll(db *gorm.DB) (map[string]entity.RatingSummary, error) {
	var rows []struct {
		ShelterID     string
		AverageRating float64
		ReviewCount   int64
	}
	err := db.Model(&entity.ShelterReview{}).
		Select("shelter_id, AVG(rating) AS average_rating, COUNT(*) AS review_count").
		Group("shelter_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]entity.RatingSummary, len(rows))
	for _, row := range rows {
		summaries[row.ShelterID] = entity.RatingSummary{
			AverageRating: row.AverageRating,
			ReviewCount:   row.ReviewCount,
		}
	}
	return summaries, nil
}
