package dto

import (
	"time"

	"go-disaster-management/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

// SignupRequest arrives as a multipart form so the role document can ride
// along; the handler fills this struct before validation.
type SignupRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required,min=2"`
	Role       string `json:"role" validate:"required,oneof=admin authority volunteer user"`
	DistrictID string `json:"district_id" validate:"omitempty,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Response DTOs

type UserResponse struct {
	ID          uuid.UUID             `json:"id"`
	Email       string                `json:"email"`
	FullName    string                `json:"full_name"`
	Role        string                `json:"role"`
	DistrictID  *uuid.UUID            `json:"district_id,omitempty"`
	Approved    bool                  `json:"approved"`
	Verified    bool                  `json:"verified"`
	Permissions entity.PermissionList `json:"permissions"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type LoginResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}
