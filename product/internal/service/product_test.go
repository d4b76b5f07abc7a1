package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/presmtech/storefront/internal/errors"
	"github.com/presmtech/storefront/product/pkg/store"
	"github.com/presmtech/storefront/product/pkg/model"
	"github.com/presmtech/storefront/product/pkg/request"
)

func newTestService(t *testing.T) ProductService {
	t.Helper()
	return NewProductService(store.NewMemoryStore(), nil)
}

func createProduct(t *testing.T, svc ProductService, name, category string) *model.Product {
	t.Helper()
	product, err := svc.Create(context.Background(), request.CreateProduct{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString("24.99"),
		Variants: []request.Variant{
			{ID: "sku-small", Title: "Small", Price: decimal.RequireFromString("19.99")},
			{ID: "sku-large", Title: "Large", Price: decimal.RequireFromString("29.99")},
		},
	})
	require.NoError(t, err)
	return product
}

func TestCreateDefaults(t *testing.T) {
	svc := newTestService(t)
	product := createProduct(t, svc, "DTF Transfer", "transfers")

	assert.Equal(t, model.StatusActive, product.Status)
	assert.Equal(t, int32(1), product.MinQuantity)
	assert.Len(t, product.Variants, 2)
}

func TestFindByIdMissing(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.FindById(context.Background(), uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	svc := newTestService(t)
	product := createProduct(t, svc, "DTF Transfer", "transfers")
	c := context.Background()

	price := decimal.RequireFromString("27.50")
	updated, err := svc.Update(c, product.ID, request.UpdateProduct{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, "DTF Transfer", updated.Name)
	assert.Equal(t, "transfers", updated.Category)
}

func TestArchiveHidesFromActiveListing(t *testing.T) {
	svc := newTestService(t)
	product := createProduct(t, svc, "DTF Transfer", "transfers")
	c := context.Background()

	archived, err := svc.Archive(c, product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, archived.Status)

	active, err := svc.Find(c, request.FindProducts{Status: string(model.StatusActive)})
	require.NoError(t, err)
	assert.Empty(t, active)

	// Still resolvable by id for carts that hold a reference.
	found, err := svc.FindById(c, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestFindFiltersByCategoryAndSearch(t *testing.T) {
	svc := newTestService(t)
	createProduct(t, svc, "DTF Transfer Sheet", "transfers")
	createProduct(t, svc, "Heat Press Glove", "accessories")
	c := context.Background()

	products, err := svc.Find(c, request.FindProducts{Category: "accessories"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Heat Press Glove", products[0].Name)

	products, err = svc.Find(c, request.FindProducts{Search: "transfer"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "DTF Transfer Sheet", products[0].Name)
}

func TestCategoriesCountsActiveOnly(t *testing.T) {
	svc := newTestService(t)
	createProduct(t, svc, "Sheet A", "transfers")
	createProduct(t, svc, "Sheet B", "transfers")
	archived := createProduct(t, svc, "Old Glove", "accessories")
	c := context.Background()

	_, err := svc.Archive(c, archived.ID)
	require.NoError(t, err)

	categories, err := svc.Categories(c)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "transfers", categories[0].Category)
	assert.Equal(t, int64(2), categories[0].Count)
}
