package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. Accounts are never hard-deleted in the
// normal flow; IsActive=false is the terminal state.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID       int            `gorm:"not null;index" json:"role_id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"type:text;not null" json:"-"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	DistrictID   *uuid.UUID     `gorm:"type:uuid;index" json:"district_id,omitempty"`
	Approved     bool           `gorm:"not null;default:false" json:"approved"`
	Verified     bool           `gorm:"not null;default:false" json:"verified"`
	IsActive     bool           `gorm:"not null;default:true;index" json:"is_active"`
	Permissions  PermissionList `gorm:"type:text" json:"permissions"`
	DocumentPath string         `gorm:"type:text" json:"document_path,omitempty"`

	VerificationCode      string     `gorm:"type:varchar(16)" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	ResetToken            string     `gorm:"type:varchar(64);index" json:"-"`
	ResetExpiresAt        *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	District *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Friendship is an undirected relation between two accounts, stored once and
// checked in both directions.
type Friendship struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_friend_pair,unique" json:"user_id"`
	FriendID  uuid.UUID `gorm:"type:uuid;not null;index:idx_friend_pair,unique" json:"friend_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
