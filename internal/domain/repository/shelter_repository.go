package repository

import (
	"errors"

	"go-disaster-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrRevisionMismatch is returned by BumpRevision when the stored revision no
// longer matches the one the caller read, meaning another writer committed in
// between.
var ErrRevisionMismatch = errors.New("shelter collection revision mismatch")

type ShelterRepository interface {
	Create(db *gorm.DB, shelter *entity.Shelter) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Shelter, error)
	FindAll(db *gorm.DB) ([]entity.Shelter, error)
	Update(db *gorm.DB, shelter *entity.Shelter) error
	Delete(db *gorm.DB, id uuid.UUID) error
	DeleteAll(db *gorm.DB) error
	CountByDistrict(db *gorm.DB, districtID uuid.UUID) (int64, error)
	SumByDistrict(db *gorm.DB, districtID uuid.UUID) (*entity.ResourceSum, error)

	// Collection revision for optimistic bulk saves. BumpRevision increments
	// the stored revision only if it still equals meta.Revision and returns
	// ErrRevisionMismatch otherwise.
	GetMeta(db *gorm.DB) (*entity.ShelterCollectionMeta, error)
	BumpRevision(db *gorm.DB, meta *entity.ShelterCollectionMeta) error
}
