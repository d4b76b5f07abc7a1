package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presmtech/storefront/gangsheet/pkg/model"
	inErrors "github.com/presmtech/storefront/internal/errors"
)

func draftSheet(userID string) *model.GangSheet {
	now := time.Now().UTC()
	return &model.GangSheet{
		ID:           uuid.New(),
		UserID:       userID,
		TemplateID:   "template_12x16",
		TemplateName: "12x16 Standard Sheet",
		Width:        12,
		Height:       16,
		BasePrice:    decimal.RequireFromString("18.99"),
		Designs:      []model.Design{},
		Status:       model.StatusDraft,
		TotalPrice:   decimal.RequireFromString("18.99"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryInsertAndFind(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	sheet := draftSheet("user-1")
	require.NoError(t, store.Insert(c, sheet))
	assert.Equal(t, int64(1), sheet.Version)

	found, err := store.FindById(c, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, sheet.ID, found.ID)
}

func TestMemoryFindMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.FindById(context.Background(), uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrSheetNotFound)
}

func TestMemoryFindByUserNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	older := draftSheet("user-1")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := draftSheet("user-1")
	other := draftSheet("user-2")
	require.NoError(t, store.Insert(c, older))
	require.NoError(t, store.Insert(c, newer))
	require.NoError(t, store.Insert(c, other))

	sheets, err := store.FindByUser(c, "user-1", 0, 10)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, newer.ID, sheets[0].ID)
	assert.Equal(t, older.ID, sheets[1].ID)
}

func TestMemoryUpdateConflict(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	sheet := draftSheet("user-1")
	require.NoError(t, store.Insert(c, sheet))

	stale := sheet.Clone()
	require.NoError(t, store.Update(c, sheet))
	assert.Equal(t, int64(2), sheet.Version)

	err := store.Update(c, stale)
	assert.ErrorIs(t, err, inErrors.ErrVersionConflict)
}
