package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDistrictRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	TotalFood     int    `json:"total_food" validate:"gte=0"`
	TotalWater    int    `json:"total_water" validate:"gte=0"`
	TotalMedicine int    `json:"total_medicine" validate:"gte=0"`
}

// UpdateDistrictRequest is partial; at least one resource field or the name
// must be present.
type UpdateDistrictRequest struct {
	ID            string `json:"id" validate:"required,uuid"`
	Name          string `json:"name" validate:"omitempty,min=2"`
	TotalFood     *int   `json:"total_food" validate:"omitempty,gte=0"`
	TotalWater    *int   `json:"total_water" validate:"omitempty,gte=0"`
	TotalMedicine *int   `json:"total_medicine" validate:"omitempty,gte=0"`
}

type DistrictIDRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type DistrictResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TotalFood     int       `json:"total_food"`
	TotalWater    int       `json:"total_water"`
	TotalMedicine int       `json:"total_medicine"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DistrictListResponse struct {
	Districts []DistrictResponse `json:"districts"`
	Total     int                `json:"total"`
}
