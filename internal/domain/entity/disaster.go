package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Disaster is a recorded disaster event shown on the map timeline.
type Disaster struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Type        string    `gorm:"type:varchar(64);not null" json:"type"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Lat         float64   `gorm:"not null" json:"lat"`
	Lng         float64   `gorm:"not null" json:"lng"`
	Severity    int       `gorm:"not null;default:1" json:"severity"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Disaster) TableName() string {
	return "disasters"
}

func (d *Disaster) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
