package services

import (
	"testing"

	"freestyle-backoffice/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueSlugSuffixesOnCollision(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMoveService(db)

	category := models.MoveCategory{
		ID:   uuid.NewString(),
		Name: "Lowers",
		Slug: "lowers",
	}
	require.NoError(t, db.Create(&category).Error)

	first := svc.uniqueSlug(&models.Move{}, "Crossover")
	assert.Equal(t, "crossover", first)
	require.NoError(t, db.Create(&models.Move{
		ID:         uuid.NewString(),
		Name:       "Crossover",
		Slug:       first,
		SearchName: models.SearchFold("Crossover"),
		CategoryID: category.ID,
	}).Error)

	second := svc.uniqueSlug(&models.Move{}, "Crossover")
	assert.Equal(t, "crossover-2", second)
	require.NoError(t, db.Create(&models.Move{
		ID:         uuid.NewString(),
		Name:       "Crossover",
		Slug:       second,
		SearchName: models.SearchFold("Crossover"),
		CategoryID: category.ID,
	}).Error)

	assert.Equal(t, "crossover-3", svc.uniqueSlug(&models.Move{}, "Crossover"))
}

func TestUniqueSlugFoldsNonASCII(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMoveService(db)
	assert.Equal(t, "tore-andre-spin", svc.uniqueSlug(&models.Move{}, "Tore André Spin"))
}
