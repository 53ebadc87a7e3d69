package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShelterReview is one user's rating of one shelter. ShelterID and UserID are
// stored as free text because review rows outlive the typed identifiers on the
// client side; aggregation compares them as strings. One review per
// (user, shelter) pair is enforced.
type ShelterReview struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShelterID string    `gorm:"type:varchar(64);not null;index:idx_review_user_shelter,unique" json:"shelter_id"`
	UserID    string    `gorm:"type:varchar(64);not null;index:idx_review_user_shelter,unique" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ShelterReview) TableName() string {
	return "shelter_reviews"
}

func (r *ShelterReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RatingSummary is the aggregate rating for one shelter.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}
