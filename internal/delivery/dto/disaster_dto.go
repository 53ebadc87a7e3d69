package dto

import (
	"time"

	"github.com/google/uuid"
)

type DisasterInput struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `json:"lng" validate:"gte=-180,lte=180"`
	Severity    int     `json:"severity" validate:"omitempty,gte=1,lte=5"`
	OccurredAt  string  `json:"occurred_at" validate:"required"` // Format: YYYY-MM-DD
}

type SaveDisastersRequest struct {
	Disasters []DisasterInput `json:"disasters" validate:"dive"`
}

type DisasterResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Severity    int       `json:"severity"`
	OccurredAt  string    `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type DisasterListResponse struct {
	Disasters []DisasterResponse `json:"disasters"`
	Total     int                `json:"total"`
}
