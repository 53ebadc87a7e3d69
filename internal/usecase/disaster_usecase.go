package usecase

import (
	"context"
	"errors"
	"time"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidDisasterDate = errors.New("invalid date format, use YYYY-MM-DD")

type DisasterUsecase interface {
	GetAllDisasters(ctx context.Context) (*dto.DisasterListResponse, error)
	SaveDisasters(ctx context.Context, req *dto.SaveDisastersRequest) (*dto.DisasterListResponse, error)
}

type disasterUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	disasterRepo repository.DisasterRepository
}

func NewDisasterUsecase(db *gorm.DB, log *logrus.Logger, disasterRepo repository.DisasterRepository) DisasterUsecase {
	return &disasterUsecase{
		db:           db,
		log:          log,
		disasterRepo: disasterRepo,
	}
}

func (u *disasterUsecase) GetAllDisasters(ctx context.Context) (*dto.DisasterListResponse, error) {
	disasters, err := u.disasterRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find disasters: %+v", err)
		return nil, err
	}
	return toDisasterListResponse(disasters), nil
}

func (u *disasterUsecase) SaveDisasters(ctx context.Context, req *dto.SaveDisastersRequest) (*dto.DisasterListResponse, error) {
	disasters := make([]entity.Disaster, len(req.Disasters))
	for i, input := range req.Disasters {
		occurredAt, err := time.Parse("2006-01-02", input.OccurredAt)
		if err != nil {
			return nil, ErrInvalidDisasterDate
		}
		severity := input.Severity
		if severity == 0 {
			severity = 1
		}
		disasters[i] = entity.Disaster{
			Title:       input.Title,
			Type:        input.Type,
			Description: input.Description,
			Lat:         input.Lat,
			Lng:         input.Lng,
			Severity:    severity,
			OccurredAt:  occurredAt,
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.disasterRepo.ReplaceAll(tx, disasters); err != nil {
		u.log.Warnf("Failed to replace disasters: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return toDisasterListResponse(disasters), nil
}

func toDisasterListResponse(disasters []entity.Disaster) *dto.DisasterListResponse {
	responses := make([]dto.DisasterResponse, len(disasters))
	for i, disaster := range disasters {
		responses[i] = dto.DisasterResponse{
			ID:          disaster.ID,
			Title:       disaster.Title,
			Type:        disaster.Type,
			Description: disaster.Description,
			Lat:         disaster.Lat,
			Lng:         disaster.Lng,
			Severity:    disaster.Severity,
			OccurredAt:  disaster.OccurredAt.Format("2006-01-02"),
			CreatedAt:   disaster.CreatedAt,
		}
	}
	return &dto.DisasterListResponse{Disasters: responses, Total: len(responses)}
}
