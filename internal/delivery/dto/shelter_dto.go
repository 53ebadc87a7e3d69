package dto

import (
	"time"

	"github.com/google/uuid"
)

type ShelterInput struct {
	ID         string  `json:"id" validate:"omitempty,uuid"`
	Name       string  `json:"name" validate:"required,min=2"`
	Lat        float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64 `json:"lng" validate:"gte=-180,lte=180"`
	DistrictID string  `json:"district_id" validate:"required,uuid"`
	Food       int     `json:"food" validate:"gte=0"`
	Water      int     `json:"water" validate:"gte=0"`
	Medicine   int     `json:"medicine" validate:"gte=0"`
}

// BulkSaveSheltersRequest replaces the whole shelter set. BaseRevision must
// match the revision the caller read, otherwise the save is stale.
type BulkSaveSheltersRequest struct {
	BaseRevision int64          `json:"base_revision" validate:"gte=0"`
	Shelters     []ShelterInput `json:"shelters" validate:"dive"`
}

type CreateShelterRequest struct {
	Name       string  `json:"name" validate:"required,min=2"`
	Lat        float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64 `json:"lng" validate:"gte=-180,lte=180"`
	DistrictID string  `json:"district_id" validate:"required,uuid"`
	Food       int     `json:"food" validate:"gte=0"`
	Water      int     `json:"water" validate:"gte=0"`
	Medicine   int     `json:"medicine" validate:"gte=0"`
}

type UpdateShelterRequest struct {
	ID       string   `json:"id" validate:"required,uuid"`
	Name     string   `json:"name" validate:"omitempty,min=2"`
	Lat      *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng      *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	Food     *int     `json:"food" validate:"omitempty,gte=0"`
	Water    *int     `json:"water" validate:"omitempty,gte=0"`
	Medicine *int     `json:"medicine" validate:"omitempty,gte=0"`
}

type ShelterIDRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type ShelterResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	DistrictID uuid.UUID `json:"district_id"`
	Food       int       `json:"food"`
	Water      int       `json:"water"`
	Medicine   int       `json:"medicine"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ShelterListResponse struct {
	Shelters []ShelterResponse `json:"shelters"`
	Revision int64             `json:"revision"`
	Total    int               `json:"total"`
}

type ShelterWithRatingResponse struct {
	ShelterResponse
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

type ShelterWithRatingListResponse struct {
	Shelters []ShelterWithRatingResponse `json:"shelters"`
	Total    int                         `json:"total"`
}
