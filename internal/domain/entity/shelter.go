package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shelter is a physical site under a district tracking consumed resources.
// Shelters are keyed by generated ID only; coordinates are plain attributes
// and carry no uniqueness constraint.
type Shelter struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Lat        float64   `gorm:"not null" json:"lat"`
	Lng        float64   `gorm:"not null" json:"lng"`
	DistrictID uuid.UUID `gorm:"type:uuid;not null;index" json:"district_id"`
	Food       int       `gorm:"not null;default:0" json:"food"`
	Water      int       `gorm:"not null;default:0" json:"water"`
	Medicine   int       `gorm:"not null;default:0" json:"medicine"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	District *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

func (Shelter) TableName() string {
	return "shelters"
}

func (s *Shelter) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ShelterCollectionMeta is a single row tracking the revision of the shelter
// set. Bulk saves must present the revision they read; a mismatch means a
// concurrent writer got there first.
type ShelterCollectionMeta struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Revision  int64     `gorm:"not null;default:0" json:"revision"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ShelterCollectionMeta) TableName() string {
	return "shelter_collection_meta"
}
