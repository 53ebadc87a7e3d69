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
	ErrDistrictNotFound    = errors.New("district not found")
	ErrDistrictNameTaken   = errors.New("district name already exists")
	ErrDistrictHasShelters = errors.New("district has dependent shelters")
	ErrAllocationExceeded  = errors.New("allocated totals below current shelter consumption")
	ErrNoFieldsToUpdate    = errors.New("at least one field is required")
)

type DistrictUsecase interface {
	CreateDistrict(ctx context.Context, req *dto.CreateDistrictRequest) (*dto.DistrictResponse, error)
	GetDistrict(ctx context.Context, districtID uuid.UUID) (*dto.DistrictResponse, error)
	GetAllDistricts(ctx context.Context) (*dto.DistrictListResponse, error)
	UpdateDistrict(ctx context.Context, req *dto.UpdateDistrictRequest) (*dto.DistrictResponse, error)
	DeleteDistrict(ctx context.Context, districtID uuid.UUID) error
}

type districtUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	districtRepo repository.DistrictRepository
	shelterRepo  repository.ShelterRepository
}

func NewDistrictUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	districtRepo repository.DistrictRepository,
	shelterRepo repository.ShelterRepository,
) DistrictUsecase {
	return &districtUsecase{
		db:           db,
		log:          log,
		districtRepo: districtRepo,
		shelterRepo:  shelterRepo,
	}
}

func (u *districtUsecase) CreateDistrict(ctx context.Context, req *dto.CreateDistrictRequest) (*dto.DistrictResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.districtRepo.FindByName(tx, req.Name)
	if err != nil {
		u.log.Warnf("Failed to look up district name: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDistrictNameTaken
	}

	district := &entity.District{
		Name:          req.Name,
		TotalFood:     req.TotalFood,
		TotalWater:    req.TotalWater,
		TotalMedicine: req.TotalMedicine,
	}

	if err := u.districtRepo.Create(tx, district); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDistrictNameTaken
		}
		u.log.Warnf("Failed to create district: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return toDistrictResponse(district), nil
}

func (u *districtUsecase) GetDistrict(ctx context.Context, districtID uuid.UUID) (*dto.DistrictResponse, error) {
	district, err := u.districtRepo.FindByID(u.db.WithContext(ctx), districtID)
	if err != nil {
		u.log.Warnf("Failed to find district: %+v", err)
		return nil, err
	}
	if district == nil {
		return nil, ErrDistrictNotFound
	}
	return toDistrictResponse(district), nil
}

func (u *districtUsecase) GetAllDistricts(ctx context.Context) (*dto.DistrictListResponse, error) {
	districts, err := u.districtRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all districts: %+v", err)
		return nil, err
	}

	responses := make([]dto.DistrictResponse, len(districts))
	for i, district := range districts {
		responses[i] = *toDistrictResponse(&district)
	}

	return &dto.DistrictListResponse{Districts: responses, Total: len(responses)}, nil
}

func (u *districtUsecase) UpdateDistrict(ctx context.Context, req *dto.UpdateDistrictRequest) (*dto.DistrictResponse, error) {
	if req.Name == "" && req.TotalFood == nil && req.TotalWater == nil && req.TotalMedicine == nil {
		return nil, ErrNoFieldsToUpdate
	}

	districtID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrDistrictNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Locked read: a concurrent shelter create against this district must not
	// slip between the ceiling check below and the commit.
	district, err := u.districtRepo.FindByIDForUpdate(tx, districtID)
	if err != nil {
		u.log.Warnf("Failed to find district: %+v", err)
		return nil, err
	}
	if district == nil {
		return nil, ErrDistrictNotFound
	}

	if req.Name != "" && req.Name != district.Name {
		existing, err := u.districtRepo.FindByName(tx, req.Name)
		if err != nil {
			u.log.Warnf("Failed to look up district name: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrDistrictNameTaken
		}
		district.Name = req.Name
	}
	if req.TotalFood != nil {
		district.TotalFood = *req.TotalFood
	}
	if req.TotalWater != nil {
		district.TotalWater = *req.TotalWater
	}
	if req.TotalMedicine != nil {
		district.TotalMedicine = *req.TotalMedicine
	}

	// The ceilings may never drop below what the district's shelters already
	// consume; the check and the write share the transaction.
	sum, err := u.shelterRepo.SumByDistrict(tx, districtID)
	if err != nil {
		u.log.Warnf("Failed to sum shelter resources: %+v", err)
		return nil, err
	}
	if sum.Food > district.TotalFood || sum.Water > district.TotalWater || sum.Medicine > district.TotalMedicine {
		return nil, ErrAllocationExceeded
	}

	if err := u.districtRepo.Update(tx, district); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDistrictNameTaken
		}
		u.log.Warnf("Failed to update district: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return toDistrictResponse(district), nil
}

func (u *districtUsecase) DeleteDistrict(ctx context.Context, districtID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	district, err := u.districtRepo.FindByIDForUpdate(tx, districtID)
	if err != nil {
		u.log.Warnf("Failed to find district: %+v", err)
		return err
	}
	if district == nil {
		return ErrDistrictNotFound
	}

	count, err := u.shelterRepo.CountByDistrict(tx, districtID)
	if err != nil {
		u.log.Warnf("Failed to count shelters: %+v", err)
		return err
	}
	if count > 0 {
		return ErrDistrictHasShelters
	}

	if err := u.districtRepo.Delete(tx, districtID); err != nil {
		u.log.Warnf("Failed to delete district: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func toDistrictResponse(district *entity.District) *dto.DistrictResponse {
	return &dto.DistrictResponse{
		ID:            district.ID,
		Name:          district.Name,
		TotalFood:     district.TotalFood,
		TotalWater:    district.TotalWater,
		TotalMedicine: district.TotalMedicine,
		CreatedAt:     district.CreatedAt,
		UpdatedAt:     district.UpdatedAt,
	}
}
