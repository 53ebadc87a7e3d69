package usecase

import (
	"context"
	"errors"
	"math"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrShelterNotFound = errors.New("shelter not found")
	ErrStaleWrite      = errors.New("shelter collection was modified by another writer")
)

type ShelterUsecase interface {
	GetAllShelters(ctx context.Context) (*dto.ShelterListResponse, error)
	GetAllSheltersWithRatings(ctx context.Context) (*dto.ShelterWithRatingListResponse, error)
	BulkSaveShelters(ctx context.Context, req *dto.BulkSaveSheltersRequest) (*dto.ShelterListResponse, error)
	CreateShelter(ctx context.Context, req *dto.CreateShelterRequest) (*dto.ShelterResponse, error)
	UpdateShelter(ctx context.Context, req *dto.UpdateShelterRequest) (*dto.ShelterResponse, error)
	DeleteShelter(ctx context.Context, shelterID uuid.UUID) error
}

type shelterUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	shelterRepo  repository.ShelterRepository
	districtRepo repository.DistrictRepository
	reviewRepo   repository.ShelterReviewRepository
}

func NewShelterUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	shelterRepo repository.ShelterRepository,
	districtRepo repository.DistrictRepository,
	reviewRepo repository.ShelterReviewRepository,
) ShelterUsecase {
	return &shelterUsecase{
		db:           db,
		log:          log,
		shelterRepo:  shelterRepo,
		districtRepo: districtRepo,
		reviewRepo:   reviewRepo,
	}
}

func (u *shelterUsecase) GetAllShelters(ctx context.Context) (*dto.ShelterListResponse, error) {
	db := u.db.WithContext(ctx)

	shelters, err := u.shelterRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find shelters: %+v", err)
		return nil, err
	}

	meta, err := u.shelterRepo.GetMeta(db)
	if err != nil {
		u.log.Warnf("Failed to read collection meta: %+v", err)
		return nil, err
	}

	responses := make([]dto.ShelterResponse, len(shelters))
	for i, shelter := range shelters {
		responses[i] = *toShelterResponse(&shelter)
	}

	return &dto.ShelterListResponse{
		Shelters: responses,
		Revision: meta.Revision,
		Total:    len(responses),
	}, nil
}

func (u *shelterUsecase) GetAllSheltersWithRatings(ctx context.Context) (*dto.ShelterWithRatingListResponse, error) {
	db := u.db.WithContext(ctx)

	shelters, err := u.shelterRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find shelters: %+v", err)
		return nil, err
	}

	summaries, err := u.reviewRepo.SummaryAll(db)
	if err != nil {
		u.log.Warnf("Failed to aggregate reviews: %+v", err)
		return nil, err
	}

	responses := make([]dto.ShelterWithRatingResponse, len(shelters))
	for i, shelter := range shelters {
		response := dto.ShelterWithRatingResponse{ShelterResponse: *toShelterResponse(&shelter)}
		// Reviews reference shelters by free-text ID, so the join key is the
		// shelter UUID rendered as a string.
		if summary, ok := summaries[shelter.ID.String()]; ok {
			response.AverageRating = roundRating(summary.AverageRating)
			response.ReviewCount = summary.ReviewCount
		}
		responses[i] = response
	}

	return &dto.ShelterWithRatingListResponse{Shelters: responses, Total: len(responses)}, nil
}

func (u *shelterUsecase) BulkSaveShelters(ctx context.Context, req *dto.BulkSaveSheltersRequest) (*dto.ShelterListResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	meta, err := u.shelterRepo.GetMeta(tx)
	if err != nil {
		u.log.Warnf("Failed to read collection meta: %+v", err)
		return nil, err
	}
	if meta.Revision != req.BaseRevision {
		return nil, ErrStaleWrite
	}

	shelters := make([]entity.Shelter, len(req.Shelters))
	consumed := make(map[uuid.UUID]entity.ResourceSum)
	for i, input := range req.Shelters {
		districtID, err := uuid.Parse(input.DistrictID)
		if err != nil {
			return nil, ErrDistrictNotFound
		}

		var shelterID uuid.UUID
		if input.ID != "" {
			shelterID, err = uuid.Parse(input.ID)
			if err != nil {
				return nil, ErrShelterNotFound
			}
		}

		shelters[i] = entity.Shelter{
			ID:         shelterID,
			Name:       input.Name,
			Lat:        input.Lat,
			Lng:        input.Lng,
			DistrictID: districtID,
			Food:       input.Food,
			Water:      input.Water,
			Medicine:   input.Medicine,
		}

		sum := consumed[districtID]
		sum.Food += input.Food
		sum.Water += input.Water
		sum.Medicine += input.Medicine
		consumed[districtID] = sum
	}

	// Every referenced district must exist and keep its ceilings respected by
	// the incoming consumption sums. The locked read serializes the check with
	// other writers touching the same district.
	for districtID, sum := range consumed {
		district, err := u.districtRepo.FindByIDForUpdate(tx, districtID)
		if err != nil {
			u.log.Warnf("Failed to find district: %+v", err)
			return nil, err
		}
		if district == nil {
			return nil, ErrDistrictNotFound
		}
		if sum.Food > district.TotalFood || sum.Water > district.TotalWater || sum.Medicine > district.TotalMedicine {
			return nil, ErrAllocationExceeded
		}
	}

	if err := u.shelterRepo.DeleteAll(tx); err != nil {
		u.log.Warnf("Failed to clear shelters: %+v", err)
		return nil, err
	}
	for i := range shelters {
		if err := u.shelterRepo.Create(tx, &shelters[i]); err != nil {
			u.log.Warnf("Failed to insert shelter: %+v", err)
			return nil, err
		}
	}

	if err := u.shelterRepo.BumpRevision(tx, meta); err != nil {
		if errors.Is(err, repository.ErrRevisionMismatch) {
			return nil, ErrStaleWrite
		}
		u.log.Warnf("Failed to bump revision: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	responses := make([]dto.ShelterResponse, len(shelters))
	for i := range shelters {
		responses[i] = *toShelterResponse(&shelters[i])
	}

	return &dto.ShelterListResponse{
		Shelters: responses,
		Revision: meta.Revision,
		Total:    len(responses),
	}, nil
}

func (u *shelterUsecase) CreateShelter(ctx context.Context, req *dto.CreateShelterRequest) (*dto.ShelterResponse, error) {
	districtID, err := uuid.Parse(req.DistrictID)
	if err != nil {
		return nil, ErrDistrictNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Lock the district before summing so concurrent creators cannot both
	// pass the ceiling check on the same stale sum.
	district, err := u.districtRepo.FindByIDForUpdate(tx, districtID)
	if err != nil {
		u.log.Warnf("Failed to find district: %+v", err)
		return nil, err
	}
	if district == nil {
		return nil, ErrDistrictNotFound
	}

	sum, err := u.shelterRepo.SumByDistrict(tx, districtID)
	if err != nil {
		u.log.Warnf("Failed to sum shelter resources: %+v", err)
		return nil, err
	}
	if sum.Food+req.Food > district.TotalFood ||
		sum.Water+req.Water > district.TotalWater ||
		sum.Medicine+req.Medicine > district.TotalMedicine {
		return nil, ErrAllocationExceeded
	}

	shelter := &entity.Shelter{
		Name:       req.Name,
		Lat:        req.Lat,
		Lng:        req.Lng,
		DistrictID: districtID,
		Food:       req.Food,
		Water:      req.Water,
		Medicine:   req.Medicine,
	}

	if err := u.shelterRepo.Create(tx, shelter); err != nil {
		u.log.Warnf("Failed to create shelter: %+v", err)
		return nil, err
	}

	meta, err := u.shelterRepo.GetMeta(tx)
	if err != nil {
		return nil, err
	}
	if err := u.shelterRepo.BumpRevision(tx, meta); err != nil {
		if errors.Is(err, repository.ErrRevisionMismatch) {
			return nil, ErrStaleWrite
		}
		u.log.Warnf("Failed to bump revision: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return toShelterResponse(shelter), nil
}

func (u *shelterUsecase) UpdateShelter(ctx context.Context, req *dto.UpdateShelterRequest) (*dto.ShelterResponse, error) {
	shelterID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrShelterNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	shelter, err := u.shelterRepo.FindByID(tx, shelterID)
	if err != nil {
		u.log.Warnf("Failed to find shelter: %+v", err)
		return nil, err
	}
	if shelter == nil {
		return nil, ErrShelterNotFound
	}

	origFood, origWater, origMedicine := shelter.Food, shelter.Water, shelter.Medicine

	if req.Name != "" {
		shelter.Name = req.Name
	}
	if req.Lat != nil {
		shelter.Lat = *req.Lat
	}
	if req.Lng != nil {
		shelter.Lng = *req.Lng
	}
	if req.Food != nil {
		shelter.Food = *req.Food
	}
	if req.Water != nil {
		shelter.Water = *req.Water
	}
	if req.Medicine != nil {
		shelter.Medicine = *req.Medicine
	}

	district, err := u.districtRepo.FindByIDForUpdate(tx, shelter.DistrictID)
	if err != nil {
		u.log.Warnf("Failed to find district: %+v", err)
		return nil, err
	}
	if district == nil {
		return nil, ErrDistrictNotFound
	}

	sum, err := u.shelterRepo.SumByDistrict(tx, shelter.DistrictID)
	if err != nil {
		u.log.Warnf("Failed to sum shelter resources: %+v", err)
		return nil, err
	}
	// The sum still includes this shelter's stored values; swap in the new
	// ones before checking the ceilings.
	sum.Food += shelter.Food - origFood
	sum.Water += shelter.Water - origWater
	sum.Medicine += shelter.Medicine - origMedicine
	if sum.Food > district.TotalFood || sum.Water > district.TotalWater || sum.Medicine > district.TotalMedicine {
		return nil, ErrAllocationExceeded
	}

	if err := u.shelterRepo.Update(tx, shelter); err != nil {
		u.log.Warnf("Failed to update shelter: %+v", err)
		return nil, err
	}

	meta, err := u.shelterRepo.GetMeta(tx)
	if err != nil {
		return nil, err
	}
	if err := u.shelterRepo.BumpRevision(tx, meta); err != nil {
		if errors.Is(err, repository.ErrRevisionMismatch) {
			return nil, ErrStaleWrite
		}
		u.log.Warnf("Failed to bump revision: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return toShelterResponse(shelter), nil
}

func (u *shelterUsecase) DeleteShelter(ctx context.Context, shelterID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	shelter, err := u.shelterRepo.FindByID(tx, shelterID)
	if err != nil {
		u.log.Warnf("Failed to find shelter: %+v", err)
		return err
	}
	if shelter == nil {
		return ErrShelterNotFound
	}

	if err := u.shelterRepo.Delete(tx, shelterID); err != nil {
		u.log.Warnf("Failed to delete shelter: %+v", err)
		return err
	}

	meta, err := u.shelterRepo.GetMeta(tx)
	if err != nil {
		return err
	}
	if err := u.shelterRepo.BumpRevision(tx, meta); err != nil {
		if errors.Is(err, repository.ErrRevisionMismatch) {
			return ErrStaleWrite
		}
		u.log.Warnf("Failed to bump revision: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// roundRating rounds a mean rating to one decimal place.
func roundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}

func toShelterResponse(shelter *entity.Shelter) *dto.ShelterResponse {
	return &dto.ShelterResponse{
		ID:         shelter.ID,
		Name:       shelter.Name,
		Lat:        shelter.Lat,
		Lng:        shelter.Lng,
		DistrictID: shelter.DistrictID,
		Food:       shelter.Food,
		Water:      shelter.Water,
		Medicine:   shelter.Medicine,
		CreatedAt:  shelter.CreatedAt,
		UpdatedAt:  shelter.UpdatedAt,
	}
}
