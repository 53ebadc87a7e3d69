package repository

import (
	"testing"

	"go-disaster-management/internal/domain/entity"
	domainRepo "go-disaster-management/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpRevisionRejectsStaleBase(t *testing.T) {
	db := newTestDB(t)
	repo := NewShelterRepository()

	current, err := repo.GetMeta(db)
	require.NoError(t, err)

	// A second writer that read the same base before the first one committed.
	stale := &entity.ShelterCollectionMeta{ID: current.ID, Revision: current.Revision}

	require.NoError(t, repo.BumpRevision(db, current))
	assert.Equal(t, int64(1), current.Revision)

	err = repo.BumpRevision(db, stale)
	assert.ErrorIs(t, err, domainRepo.ErrRevisionMismatch)

	reread, err := repo.GetMeta(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reread.Revision, "losing writer must not advance the revision")
}

func TestBumpRevisionAdvancesFromCurrentBase(t *testing.T) {
	db := newTestDB(t)
	repo := NewShelterRepository()

	meta, err := repo.GetMeta(db)
	require.NoError(t, err)

	require.NoError(t, repo.BumpRevision(db, meta))
	require.NoError(t, repo.BumpRevision(db, meta))
	assert.Equal(t, int64(2), meta.Revision)
}
