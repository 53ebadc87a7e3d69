package usecase

import (
	"context"
	"errors"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrFriendNotFound     = errors.New("friend not found")
	ErrSelfFriendship     = errors.New("cannot befriend yourself")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrFriendshipNotFound = errors.New("friendship not found")
)

type UserUsecase interface {
	GetAllUsers(ctx context.Context) (*dto.UserListResponse, error)
	AddFriend(ctx context.Context, userID, friendID uuid.UUID) error
	DeleteFriend(ctx context.Context, userID, friendID uuid.UUID) error
	CheckFriendship(ctx context.Context, userID, friendID uuid.UUID) (*dto.FriendshipResponse, error)
	ApproveUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type userUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
) UserUsecase {
	return &userUsecase{
		db:             db,
		log:            log,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
	}
}

func (u *userUsecase) GetAllUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	responses := make([]dto.UserResponse, len(users))
	for i, user := range users {
		responses[i] = *toUserResponse(&user)
	}

	return &dto.UserListResponse{Users: responses, Total: len(responses)}, nil
}

func (u *userUsecase) AddFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	if userID == friendID {
		return ErrSelfFriendship
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	friend, err := u.userRepo.FindByID(tx, friendID)
	if err != nil {
		u.log.Warnf("Failed to find friend: %+v", err)
		return err
	}
	if friend == nil {
		return ErrFriendNotFound
	}

	exists, err := u.friendshipRepo.Exists(tx, userID, friendID)
	if err != nil {
		u.log.Warnf("Failed to check friendship: %+v", err)
		return err
	}
	if exists {
		return ErrAlreadyFriends
	}

	friendship := &entity.Friendship{UserID: userID, FriendID: friendID}
	if err := u.friendshipRepo.Create(tx, friendship); err != nil {
		u.log.Warnf("Failed to create friendship: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *userUsecase) DeleteFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	deleted, err := u.friendshipRepo.Delete(u.db.WithContext(ctx), userID, friendID)
	if err != nil {
		u.log.Warnf("Failed to delete friendship: %+v", err)
		return err
	}
	if deleted == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (u *userUsecase) CheckFriendship(ctx context.Context, userID, friendID uuid.UUID) (*dto.FriendshipResponse, error) {
	exists, err := u.friendshipRepo.Exists(u.db.WithContext(ctx), userID, friendID)
	if err != nil {
		u.log.Warnf("Failed to check friendship: %+v", err)
		return nil, err
	}
	return &dto.FriendshipResponse{Friends: exists}, nil
}

func (u *userUsecase) ApproveUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Approved = true
	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to approve user: %+v", err)
		return nil, err
	}

	return toUserResponse(user), nil
}
