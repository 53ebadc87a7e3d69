package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/domain/repository"
	"go-disaster-management/pkg/jwt"
	"go-disaster-management/pkg/mailer"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidRole           = errors.New("unknown role")
	ErrDocumentRequired      = errors.New("document is required for this role")
	ErrDistrictRequired      = errors.New("district is required for this role")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired verification code")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrUserNotFound          = errors.New("user not found")
)

const (
	verificationCodeTTL = 24 * time.Hour
	resetTokenTTL       = time.Hour
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.SignupRequest, documentPath string) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	FederatedLogin(ctx context.Context, email, name string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenID string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, token, password string) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	districtRepo repository.DistrictRepository
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
	mail         mailer.Mailer
	frontendURL  string
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	districtRepo repository.DistrictRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	mail mailer.Mailer,
	frontendURL string,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		districtRepo: districtRepo,
		jwtService:   jwtService,
		redisClient:  redisClient,
		mail:         mail,
		frontendURL:  frontendURL,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.SignupRequest, documentPath string) (*dto.UserResponse, error) {
	roleID, err := entity.RoleIDFromName(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	// Authorities and volunteers must present a document and a district.
	if entity.RequiresDistrict(roleID) {
		if documentPath == "" {
			return nil, ErrDocumentRequired
		}
		if req.DistrictID == "" {
			return nil, ErrDistrictRequired
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to look up email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	var districtID *uuid.UUID
	if req.DistrictID != "" {
		id, err := uuid.Parse(req.DistrictID)
		if err != nil {
			return nil, ErrDistrictNotFound
		}
		district, err := u.districtRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to look up district: %+v", err)
			return nil, err
		}
		if district == nil {
			return nil, ErrDistrictNotFound
		}
		districtID = &id
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	code, err := generateVerificationCode()
	if err != nil {
		u.log.Warnf("Failed to generate verification code: %+v", err)
		return nil, err
	}
	codeExpiry := time.Now().Add(verificationCodeTTL)

	user := &entity.User{
		Email:                 req.Email,
		Password:              string(hashedPassword),
		FullName:              req.Name,
		RoleID:                roleID,
		DistrictID:            districtID,
		Approved:              !entity.RequiresDistrict(roleID),
		Permissions:           entity.PermissionsFor(roleID),
		DocumentPath:          documentPath,
		IsActive:              true,
		VerificationCode:      code,
		VerificationExpiresAt: &codeExpiry,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if err := u.mail.SendVerificationCode(ctx, user.Email, user.FullName, code); err != nil {
		// Delivery failure must not undo the signup; the code can be resent.
		u.log.Warnf("Failed to send verification mail: %+v", err)
	}

	return toUserResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	// Same error for unknown email and wrong password.
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{User: toUserResponse(user), Token: token}, nil
}

func (u *authUsecase) FederatedLogin(ctx context.Context, email, name string) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}

	if user == nil {
		// First federated login creates a regular user account. The password
		// slot holds random bytes so it can never match a local login.
		filler := make([]byte, 32)
		if _, err := rand.Read(filler); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(filler)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user = &entity.User{
			Email:       email,
			Password:    string(hashed),
			FullName:    name,
			RoleID:      entity.RoleIDUser,
			Approved:    true,
			Verified:    true,
			IsActive:    true,
			Permissions: entity.PermissionsFor(entity.RoleIDUser),
		}
		if err := u.userRepo.Create(u.db.WithContext(ctx), user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return nil, ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create federated user: %+v", err)
			return nil, err
		}
	}

	token, err := u.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{User: toUserResponse(user), Token: token}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	key := sessionKey(userID, tokenID)
	if err := u.redisClient.Del(ctx, key).Err(); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil || user.VerificationCode == "" || user.VerificationCode != req.Code {
		return ErrInvalidOrExpiredCode
	}
	if user.VerificationExpiresAt == nil || time.Now().After(*user.VerificationExpiresAt) {
		return ErrInvalidOrExpiredCode
	}

	user.Verified = true
	user.VerificationCode = ""
	user.VerificationExpiresAt = nil

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to mark user verified: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	// Unknown addresses succeed silently so the endpoint cannot be used to
	// probe for accounts.
	if user == nil {
		return nil
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)
	expiry := time.Now().Add(resetTokenTTL)

	user.ResetToken = token
	user.ResetExpiresAt = &expiry

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to store reset token: %+v", err)
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(u.frontendURL, "/"), token)
	if err := u.mail.SendPasswordReset(ctx, user.Email, user.FullName, resetURL); err != nil {
		u.log.Warnf("Failed to send reset mail: %+v", err)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, token, password string) error {
	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByResetToken(db, token)
	if err != nil {
		u.log.Warnf("Failed to find user by reset token: %+v", err)
		return err
	}
	if user == nil || user.ResetToken == "" {
		return ErrInvalidOrExpiredToken
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return ErrInvalidOrExpiredToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	user.Password = string(hashedPassword)
	user.ResetToken = ""
	user.ResetExpiresAt = nil

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	// A password change invalidates every live session for the account.
	return u.revokeAllSessions(ctx, user.ID)
}

func (u *authUsecase) issueSession(ctx context.Context, user *entity.User) (string, error) {
	token, tokenID, err := u.jwtService.GenerateSessionToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return "", err
	}

	key := sessionKey(user.ID, tokenID)
	if err := u.redisClient.Set(ctx, key, "valid", u.jwtService.GetSessionExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store session in Redis: %+v", err)
		return "", err
	}

	return token, nil
}

func (u *authUsecase) revokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("session:%s:*", userID.String())
	keys, err := u.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		u.log.Warnf("Failed to list sessions: %+v", err)
		return err
	}
	if len(keys) > 0 {
		if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
			u.log.Warnf("Failed to revoke sessions: %+v", err)
			return err
		}
	}
	return nil
}

func sessionKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("session:%s:%s", userID.String(), tokenID)
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        entity.RoleName(user.RoleID),
		DistrictID:  user.DistrictID,
		Approved:    user.Approved,
		Verified:    user.Verified,
		Permissions: user.Permissions,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// isDuplicateKeyError checks for a PostgreSQL unique constraint violation on
// the named constraint. Unique violations are also pre-checked explicitly, so
// this only catches races between the check and the insert.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
