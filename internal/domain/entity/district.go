package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// District holds the total allocated resource ceilings for a region. The
// ceilings are upper bounds on the aggregate consumption of the district's
// shelters.
type District struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	TotalFood     int       `gorm:"not null;default:0" json:"total_food"`
	TotalWater    int       `gorm:"not null;default:0" json:"total_water"`
	TotalMedicine int       `gorm:"not null;default:0" json:"total_medicine"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Shelters []Shelter `gorm:"foreignKey:DistrictID" json:"shelters,omitempty"`
}

func (District) TableName() string {
	return "districts"
}

func (d *District) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ResourceSum is the aggregate consumption of a set of shelters.
type ResourceSum struct {
	Food     int `json:"food"`
	Water    int `json:"water"`
	Medicine int `json:"medicine"`
}
