package usecase

import (
	"context"
	"testing"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newShelterFixture(t *testing.T) (ShelterUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	uc := NewShelterUsecase(
		db,
		newTestLogger(),
		repository.NewShelterRepository(),
		repository.NewDistrictRepository(),
		repository.NewShelterReviewRepository(),
	)
	return uc, db
}

func createTestDistrict(t *testing.T, db *gorm.DB, name string, food, water, medicine int) *entity.District {
	t.Helper()
	district := &entity.District{Name: name, TotalFood: food, TotalWater: water, TotalMedicine: medicine}
	require.NoError(t, db.Create(district).Error)
	return district
}

func TestCreateShelterBumpsRevision(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	before, err := uc.GetAllShelters(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, before.Revision)

	resp, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		Lat:        -6.2,
		Lng:        106.8,
		DistrictID: district.ID.String(),
		Food:       40,
		Water:      30,
		Medicine:   10,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	after, err := uc.GetAllShelters(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, after.Revision)
	assert.Equal(t, 1, after.Total)
}

func TestCreateShelterExceedsAllocation(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	_, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: district.ID.String(),
		Food:       80,
	})
	require.NoError(t, err)

	// 80 + 30 > 100
	_, err = uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp B",
		DistrictID: district.ID.String(),
		Food:       30,
	})
	assert.ErrorIs(t, err, ErrAllocationExceeded)
}

func TestCreateShelterUnknownDistrict(t *testing.T) {
	uc, _ := newShelterFixture(t)

	_, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestBulkSaveSheltersReplacesCollection(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	_, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Old Camp",
		DistrictID: district.ID.String(),
		Food:       90,
	})
	require.NoError(t, err)

	saved, err := uc.BulkSaveShelters(context.Background(), &dto.BulkSaveSheltersRequest{
		BaseRevision: 1,
		Shelters: []dto.ShelterInput{
			{Name: "Camp A", DistrictID: district.ID.String(), Food: 40, Water: 20},
			{Name: "Camp B", DistrictID: district.ID.String(), Food: 40, Water: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Total)
	assert.EqualValues(t, 2, saved.Revision)

	list, err := uc.GetAllShelters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total, "old rows are gone")
}

func TestBulkSaveSheltersStaleRevision(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	_, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: district.ID.String(),
		Food:       10,
	})
	require.NoError(t, err)

	// The collection is now at revision 1; a writer that read revision 0
	// must be rejected, not silently merged.
	_, err = uc.BulkSaveShelters(context.Background(), &dto.BulkSaveSheltersRequest{
		BaseRevision: 0,
		Shelters:     []dto.ShelterInput{{Name: "Camp B", DistrictID: district.ID.String()}},
	})
	assert.ErrorIs(t, err, ErrStaleWrite)

	list, err := uc.GetAllShelters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total, "stale write leaves the collection untouched")
}

func TestBulkSaveSheltersAllocationCheckedPerDistrict(t *testing.T) {
	uc, db := newShelterFixture(t)
	north := createTestDistrict(t, db, "North", 100, 100, 100)
	south := createTestDistrict(t, db, "South", 50, 50, 50)

	_, err := uc.BulkSaveShelters(context.Background(), &dto.BulkSaveSheltersRequest{
		BaseRevision: 0,
		Shelters: []dto.ShelterInput{
			{Name: "Camp A", DistrictID: north.ID.String(), Water: 60},
			{Name: "Camp B", DistrictID: south.ID.String(), Water: 60},
		},
	})
	assert.ErrorIs(t, err, ErrAllocationExceeded, "south ceiling is 50")

	_, err = uc.BulkSaveShelters(context.Background(), &dto.BulkSaveSheltersRequest{
		BaseRevision: 0,
		Shelters: []dto.ShelterInput{
			{Name: "Camp A", DistrictID: north.ID.String(), Water: 60},
			{Name: "Camp B", DistrictID: south.ID.String(), Water: 50},
		},
	})
	assert.NoError(t, err)
}

func TestBulkSaveSheltersUnknownDistrict(t *testing.T) {
	uc, _ := newShelterFixture(t)

	_, err := uc.BulkSaveShelters(context.Background(), &dto.BulkSaveSheltersRequest{
		BaseRevision: 0,
		Shelters:     []dto.ShelterInput{{Name: "Camp A", DistrictID: uuid.New().String()}},
	})
	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestUpdateShelterRespectsCeiling(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	created, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: district.ID.String(),
		Food:       40,
	})
	require.NoError(t, err)

	_, err = uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp B",
		DistrictID: district.ID.String(),
		Food:       50,
	})
	require.NoError(t, err)

	// 50 consumed elsewhere leaves room for exactly 50 here.
	updated, err := uc.UpdateShelter(context.Background(), &dto.UpdateShelterRequest{
		ID:   created.ID.String(),
		Food: intPtr(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Food)

	_, err = uc.UpdateShelter(context.Background(), &dto.UpdateShelterRequest{
		ID:   created.ID.String(),
		Food: intPtr(51),
	})
	assert.ErrorIs(t, err, ErrAllocationExceeded)
}

func TestUpdateShelterNotFound(t *testing.T) {
	uc, _ := newShelterFixture(t)

	_, err := uc.UpdateShelter(context.Background(), &dto.UpdateShelterRequest{
		ID:   uuid.New().String(),
		Food: intPtr(1),
	})
	assert.ErrorIs(t, err, ErrShelterNotFound)
}

func TestDeleteShelter(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	created, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: district.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteShelter(context.Background(), created.ID))
	assert.ErrorIs(t, uc.DeleteShelter(context.Background(), created.ID), ErrShelterNotFound)

	list, err := uc.GetAllShelters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
	assert.EqualValues(t, 2, list.Revision, "create and delete both bump the revision")
}

func TestGetAllSheltersWithRatings(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	rated, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: district.ID.String(),
	})
	require.NoError(t, err)
	unrated, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp B",
		DistrictID: district.ID.String(),
	})
	require.NoError(t, err)

	for i, rating := range []int{5, 3, 4} {
		review := &entity.ShelterReview{
			ShelterID: rated.ID.String(),
			UserID:    uuid.New().String(),
			Rating:    rating,
			Comment:   "review",
		}
		require.NoError(t, db.Create(review).Error, "review %d", i)
	}

	list, err := uc.GetAllSheltersWithRatings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)

	byID := make(map[uuid.UUID]dto.ShelterWithRatingResponse)
	for _, shelter := range list.Shelters {
		byID[shelter.ID] = shelter
	}

	assert.InDelta(t, 4.0, byID[rated.ID].AverageRating, 1e-9)
	assert.EqualValues(t, 3, byID[rated.ID].ReviewCount)

	assert.Zero(t, byID[unrated.ID].AverageRating)
	assert.Zero(t, byID[unrated.ID].ReviewCount)
}

func TestGetAllSheltersWithRatingsRoundsMean(t *testing.T) {
	uc, db := newShelterFixture(t)
	district := createTestDistrict(t, db, "North", 100, 100, 100)

	shelter, err := uc.CreateShelter(context.Background(), &dto.CreateShelterRequest{
		Name:       "Camp A",
		DistrictID: district.ID.String(),
	})
	require.NoError(t, err)

	// mean of 4, 4, 5 is 4.333..., shown as 4.3
	for _, rating := range []int{4, 4, 5} {
		review := &entity.ShelterReview{
			ShelterID: shelter.ID.String(),
			UserID:    uuid.New().String(),
			Rating:    rating,
		}
		require.NoError(t, db.Create(review).Error)
	}

	list, err := uc.GetAllSheltersWithRatings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.InDelta(t, 4.3, list.Shelters[0].AverageRating, 1e-9)
}

func TestRoundRating(t *testing.T) {
	assert.InDelta(t, 4.3, roundRating(4.3333333), 1e-9)
	assert.InDelta(t, 4.7, roundRating(4.6666666), 1e-9)
	assert.InDelta(t, 0.0, roundRating(0), 1e-9)
	assert.InDelta(t, 5.0, roundRating(4.95), 1e-9)
}
