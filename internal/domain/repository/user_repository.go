package repository

import (
	"go-disaster-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByResetToken(db *gorm.DB, token string) (*entity.User, error)
	FindAll(db *gorm.DB) ([]entity.User, error)
	Update(db *gorm.DB, user *entity.User) error
}

type FriendshipRepository interface {
	Create(db *gorm.DB, friendship *entity.Friendship) error
	Delete(db *gorm.DB, userID, friendID uuid.UUID) (int64, error)
	Exists(db *gorm.DB, userID, friendID uuid.UUID) (bool, error)
}
