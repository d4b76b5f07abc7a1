package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presmtech/storefront/cart/internal/store"
	"github.com/presmtech/storefront/cart/pkg/request"
	inErrors "github.com/presmtech/storefront/internal/errors"
)

type stubResolver struct {
	products map[uuid.UUID]Snapshot
	sheets   map[uuid.UUID]Snapshot
}

func (r stubResolver) ResolveProduct(
	_ context.Context,
	productID uuid.UUID,
	_ string,
) (Snapshot, error) {
	snapshot, ok := r.products[productID]
	if !ok {
		return Snapshot{}, inErrors.ErrProductNotFound
	}
	return snapshot, nil
}

func (r stubResolver) ResolveGangSheet(_ context.Context, sheetID uuid.UUID) (Snapshot, error) {
	snapshot, ok := r.sheets[sheetID]
	if !ok {
		return Snapshot{}, inErrors.ErrSheetNotFound
	}
	return snapshot, nil
}

func newTestService(t *testing.T) (CartService, uuid.UUID, uuid.UUID) {
	t.Helper()
	productID := uuid.New()
	sheetID := uuid.New()
	resolver := stubResolver{
		products: map[uuid.UUID]Snapshot{
			productID: {Name: "DTF Transfer", Price: decimal.RequireFromString("12.50")},
		},
		sheets: map[uuid.UUID]Snapshot{
			sheetID: {Name: "Custom Gang Sheet - 12x16", Price: decimal.RequireFromString("21.99")},
		},
	}
	return NewCartService(store.NewMemoryStore(), resolver), productID, sheetID
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := context.Background()

	first, err := svc.GetOrCreate(c, "session-a")
	require.NoError(t, err)
	second, err := svc.GetOrCreate(c, "session-a")
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Empty(t, second.Lines)
}

func TestAddItemMergesEqualReferences(t *testing.T) {
	svc, productID, _ := newTestService(t)
	c := context.Background()

	param := request.AddItem{
		ProductId: &productID,
		Quantity:  1,
		Options:   map[string]string{"size": "M", "color": "black"},
	}
	cart, err := svc.AddItem(c, "session-a", param)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	param.Quantity = 2
	cart, err = svc.AddItem(c, "session-a", param)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(3), cart.Lines[0].Quantity)
	assert.Equal(t, "DTF Transfer", cart.Lines[0].Name)
}

func TestAddItemKeepsDifferentOptionsApart(t *testing.T) {
	svc, productID, _ := newTestService(t)
	c := context.Background()

	cart, err := svc.AddItem(c, "session-a", request.AddItem{
		ProductId: &productID,
		Quantity:  1,
		Options:   map[string]string{"size": "M"},
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	cart, err = svc.AddItem(c, "session-a", request.AddItem{
		ProductId: &productID,
		Quantity:  1,
		Options:   map[string]string{"size": "L"},
	})
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	unknown := uuid.New()

	_, err := svc.AddItem(context.Background(), "session-a", request.AddItem{
		ProductId: &unknown,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestAddItemGangSheetReference(t *testing.T) {
	svc, _, sheetID := newTestService(t)

	cart, err := svc.AddItem(context.Background(), "session-a", request.AddItem{
		GangSheetId: &sheetID,
		Quantity:    1,
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Custom Gang Sheet - 12x16", cart.Lines[0].Name)
	assert.True(t, cart.Lines[0].Price.Equal(decimal.RequireFromString("21.99")))
}

func TestUpdateItemToZeroRemovesLine(t *testing.T) {
	svc, productID, _ := newTestService(t)
	c := context.Background()

	cart, err := svc.AddItem(c, "session-a", request.AddItem{ProductId: &productID, Quantity: 2})
	require.NoError(t, err)
	lineID := cart.Lines[0].ID

	cart, err = svc.UpdateItem(c, "session-a", lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	svc, productID, _ := newTestService(t)
	c := context.Background()

	cart, err := svc.AddItem(c, "session-a", request.AddItem{ProductId: &productID, Quantity: 2})
	require.NoError(t, err)
	lineID := cart.Lines[0].ID

	cart, err = svc.UpdateItem(c, "session-a", lineID, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), cart.Lines[0].Quantity)
}

func TestUpdateItemUnknownLine(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateItem(context.Background(), "session-a", uuid.New(), 1)
	assert.ErrorIs(t, err, inErrors.ErrLineNotFound)
}

func TestRemoveItemUnknownLine(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RemoveItem(context.Background(), "session-a", uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrLineNotFound)
}

func TestClearKeepsCartRecord(t *testing.T) {
	svc, productID, _ := newTestService(t)
	c := context.Background()

	_, err := svc.AddItem(c, "session-a", request.AddItem{ProductId: &productID, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.Clear(c, "session-a")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	cart, err = svc.GetOrCreate(c, "session-a")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Greater(t, cart.Version, int64(1))
}
