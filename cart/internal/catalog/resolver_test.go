package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gangsheetStore "github.com/presmtech/storefront/gangsheet/pkg/store"
	gangsheetModel "github.com/presmtech/storefront/gangsheet/pkg/model"
	inErrors "github.com/presmtech/storefront/internal/errors"
	productStore "github.com/presmtech/storefront/product/pkg/store"
	productModel "github.com/presmtech/storefront/product/pkg/model"
)

func seedResolver(t *testing.T) (Resolver, *productModel.Product, *gangsheetModel.GangSheet) {
	t.Helper()
	c := context.Background()

	products := productStore.NewMemoryStore()
	product := &productModel.Product{
		ID:          uuid.New(),
		Name:        "DTF Transfer",
		Category:    "transfers",
		Price:       decimal.RequireFromString("24.99"),
		Image:       "transfer.png",
		Description: "full color transfer",
		Status:      productModel.StatusActive,
		Variants: []productModel.Variant{
			{ID: "sku-small", Title: "Small", Price: decimal.RequireFromString("19.99")},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, products.Insert(c, product))

	sheets := gangsheetStore.NewMemoryStore()
	sheet := &gangsheetModel.GangSheet{
		ID:           uuid.New(),
		UserID:       "user-1",
		TemplateID:   "template_12x16",
		TemplateName: "12x16 Standard Sheet",
		Width:        12,
		Height:       16,
		BasePrice:    decimal.RequireFromString("18.99"),
		Designs:      []gangsheetModel.Design{{ID: "design-1", Quantity: 2}},
		Status:       gangsheetModel.StatusDraft,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	sheet.CalculateTotalPrice()
	require.NoError(t, sheets.Insert(c, sheet))

	return NewResolver(products, sheets), product, sheet
}

func TestResolveProductWithoutVariant(t *testing.T) {
	resolver, product, _ := seedResolver(t)

	snapshot, err := resolver.ResolveProduct(context.Background(), product.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "DTF Transfer", snapshot.Name)
	assert.True(t, snapshot.Price.Equal(decimal.RequireFromString("24.99")))
	assert.Equal(t, "transfer.png", snapshot.Image)
}

func TestResolveProductVariant(t *testing.T) {
	resolver, product, _ := seedResolver(t)

	snapshot, err := resolver.ResolveProduct(context.Background(), product.ID, "sku-small")
	require.NoError(t, err)
	assert.Equal(t, "DTF Transfer - Small", snapshot.Name)
	assert.True(t, snapshot.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestResolveProductUnknownVariant(t *testing.T) {
	resolver, product, _ := seedResolver(t)

	_, err := resolver.ResolveProduct(context.Background(), product.ID, "sku-missing")
	assert.ErrorIs(t, err, inErrors.ErrVariantNotFound)
}

func TestResolveProductUnknownProduct(t *testing.T) {
	resolver, _, _ := seedResolver(t)

	_, err := resolver.ResolveProduct(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestResolveGangSheet(t *testing.T) {
	resolver, _, sheet := seedResolver(t)

	snapshot, err := resolver.ResolveGangSheet(context.Background(), sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Custom Gang Sheet - 12x16 Standard Sheet", snapshot.Name)
	// 18.99 + 0.50 * 2
	assert.True(t, snapshot.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestResolveGangSheetMissing(t *testing.T) {
	resolver, _, _ := seedResolver(t)

	_, err := resolver.ResolveGangSheet(context.Background(), uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrSheetNotFound)
}
