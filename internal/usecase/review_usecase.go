package usecase

import (
	"context"
	"errors"
	"strings"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewMissingFields = errors.New("shelter_id, user_id and rating are required")
	ErrReviewAlreadyExists = errors.New("user has already reviewed this shelter")
)

type ShelterReviewUsecase interface {
	CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID) error
	GetAllReviews(ctx context.Context) (*dto.ReviewListResponse, error)
	GetReviewsByShelter(ctx context.Context, shelterID string) (*dto.ReviewListResponse, error)
	GetReviewByUserAndShelter(ctx context.Context, userID, shelterID string) (*dto.ReviewResponse, error)
	GetAverage(ctx context.Context, shelterID string) (*dto.RatingSummaryResponse, error)
}

type shelterReviewUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	reviewRepo repository.ShelterReviewRepository
}

func NewShelterReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ShelterReviewRepository,
) ShelterReviewUsecase {
	return &shelterReviewUsecase{
		db:         db,
		log:        log,
		reviewRepo: reviewRepo,
	}
}

// sanitizeID strips angle brackets from caller-supplied identifiers. Minimal
// defense on top of parameterized queries, not a substitute for them.
func sanitizeID(id string) string {
	id = strings.ReplaceAll(id, "<", "")
	id = strings.ReplaceAll(id, ">", "")
	return strings.TrimSpace(id)
}

func (u *shelterReviewUsecase) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	shelterID := sanitizeID(req.ShelterID)
	userID := sanitizeID(req.UserID)
	if shelterID == "" || userID == "" || req.Rating == 0 {
		return nil, ErrReviewMissingFields
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.reviewRepo.FindByUserAndShelter(tx, userID, shelterID)
	if err != nil {
		u.log.Warnf("Failed to look up review: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	review := &entity.ShelterReview{
		ShelterID: shelterID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := u.reviewRepo.Create(tx, review); err != nil {
		if isDuplicateKeyError(err, "user_shelter") {
			return nil, ErrReviewAlreadyExists
		}
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return toReviewResponse(review), nil
}

func (u *shelterReviewUsecase) UpdateReview(ctx context.Context, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	reviewID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	db := u.db.WithContext(ctx)
	review, err := u.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		u.log.Warnf("Failed to find review: %+v", err)
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := u.reviewRepo.Update(db, review); err != nil {
		u.log.Warnf("Failed to update review: %+v", err)
		return nil, err
	}

	return toReviewResponse(review), nil
}

func (u *shelterReviewUsecase) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	db := u.db.WithContext(ctx)
	review, err := u.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		u.log.Warnf("Failed to find review: %+v", err)
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if err := u.reviewRepo.Delete(db, reviewID); err != nil {
		u.log.Warnf("Failed to delete review: %+v", err)
		return err
	}

	return nil
}

func (u *shelterReviewUsecase) GetAllReviews(ctx context.Context) (*dto.ReviewListResponse, error) {
	reviews, err := u.reviewRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find reviews: %+v", err)
		return nil, err
	}
	return toReviewListResponse(reviews), nil
}

func (u *shelterReviewUsecase) GetReviewsByShelter(ctx context.Context, shelterID string) (*dto.ReviewListResponse, error) {
	reviews, err := u.reviewRepo.FindByShelter(u.db.WithContext(ctx), sanitizeID(shelterID))
	if err != nil {
		u.log.Warnf("Failed to find reviews by shelter: %+v", err)
		return nil, err
	}
	return toReviewListResponse(reviews), nil
}

func (u *shelterReviewUsecase) GetReviewByUserAndShelter(ctx context.Context, userID, shelterID string) (*dto.ReviewResponse, error) {
	review, err := u.reviewRepo.FindByUserAndShelter(u.db.WithContext(ctx), sanitizeID(userID), sanitizeID(shelterID))
	if err != nil {
		u.log.Warnf("Failed to find review: %+v", err)
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return toReviewResponse(review), nil
}

func (u *shelterReviewUsecase) GetAverage(ctx context.Context, shelterID string) (*dto.RatingSummaryResponse, error) {
	summary, err := u.reviewRepo.Summary(u.db.WithContext(ctx), sanitizeID(shelterID))
	if err != nil {
		u.log.Warnf("Failed to aggregate reviews: %+v", err)
		return nil, err
	}
	return &dto.RatingSummaryResponse{
		AverageRating: roundRating(summary.AverageRating),
		ReviewCount:   summary.ReviewCount,
	}, nil
}

func toReviewResponse(review *entity.ShelterReview) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:        review.ID,
		ShelterID: review.ShelterID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func toReviewListResponse(reviews []entity.ShelterReview) *dto.ReviewListResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i, review := range reviews {
		responses[i] = *toReviewResponse(&review)
	}
	return &dto.ReviewListResponse{Reviews: responses, Total: len(responses)}
}
