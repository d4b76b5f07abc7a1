package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presmtech/storefront/cart/pkg/model"
	inErrors "github.com/presmtech/storefront/internal/errors"
)

func TestMemoryLoadMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestMemorySaveBumpsVersion(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	cart := model.NewCart("session-a", "")
	require.NoError(t, store.Save(c, cart))
	assert.Equal(t, int64(1), cart.Version)

	require.NoError(t, store.Save(c, cart))
	assert.Equal(t, int64(2), cart.Version)
}

func TestMemorySaveConflict(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	cart := model.NewCart("session-a", "")
	require.NoError(t, store.Save(c, cart))

	stale := cart.Clone()
	stale.Version = 0
	err := store.Save(c, stale)
	assert.ErrorIs(t, err, inErrors.ErrVersionConflict)
}

func TestMemoryDelete(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	cart := model.NewCart("session-a", "")
	require.NoError(t, store.Save(c, cart))
	require.NoError(t, store.Delete(c, "session-a"))

	_, err := store.Load(c, "session-a")
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	c := context.Background()

	cart := model.NewCart("session-a", "")
	cart.Lines = []model.CartLine{{Quantity: 1}}
	require.NoError(t, store.Save(c, cart))

	loaded, err := store.Load(c, "session-a")
	require.NoError(t, err)
	loaded.Lines[0].Quantity = 99

	again, err := store.Load(c, "session-a")
	require.NoError(t, err)
	assert.Equal(t, int32(1), again.Lines[0].Quantity)
}
