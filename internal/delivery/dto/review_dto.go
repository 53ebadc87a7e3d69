package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	ShelterID string `json:"shelter_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	ID      string  `json:"id" validate:"required,uuid"`
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewIDRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ShelterID string    `json:"shelter_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int              `json:"total"`
}

type RatingSummaryResponse struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}
