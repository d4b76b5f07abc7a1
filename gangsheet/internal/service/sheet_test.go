package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presmtech/storefront/gangsheet/pkg/store"
	"github.com/presmtech/storefront/gangsheet/pkg/model"
	"github.com/presmtech/storefront/gangsheet/pkg/request"
	inErrors "github.com/presmtech/storefront/internal/errors"
)

func encodePng(t *testing.T, width, height int) string {
	t.Helper()
	buf := bytes.Buffer{}
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)))
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newSheet(t *testing.T, svc GangSheetService) *model.GangSheet {
	t.Helper()
	sheet, err := svc.Create(context.Background(), request.CreateGangSheet{
		TemplateId: "template_12x16",
		UserId:     "user-1",
	})
	require.NoError(t, err)
	return sheet
}

func TestCreateFromTemplate(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)

	assert.Equal(t, "12x16 Standard Sheet", sheet.TemplateName)
	assert.Equal(t, 12.0, sheet.Width)
	assert.Equal(t, 16.0, sheet.Height)
	assert.Equal(t, model.StatusDraft, sheet.Status)
	assert.True(t, sheet.TotalPrice.Equal(decimal.RequireFromString("18.99")))
	assert.Empty(t, sheet.Designs)
}

func TestCreateUnknownTemplate(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	_, err := svc.Create(context.Background(), request.CreateGangSheet{TemplateId: "template_9x9"})
	assert.ErrorIs(t, err, inErrors.ErrSheetNotFound)
}

func TestAddDesignDerivesRenderSize(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	sheet, err := svc.AddDesign(c, sheet.ID, request.UploadDesign{
		Name:     "logo",
		FileData: encodePng(t, 600, 2400),
	})
	require.NoError(t, err)
	require.Len(t, sheet.Designs, 1)

	design := sheet.Designs[0]
	assert.NotEmpty(t, design.ID)
	assert.Equal(t, 60.0, design.Width)
	assert.Equal(t, 100.0, design.Height, "render height is capped")
	assert.Equal(t, 600, design.OriginalWidth)
	assert.Equal(t, 2400, design.OriginalHeight)
	assert.Equal(t, 50.0, design.X)
	assert.Equal(t, 50.0, design.Y)
	assert.Equal(t, int32(1), design.Quantity)
	assert.True(t, sheet.TotalPrice.Equal(decimal.RequireFromString("19.49")))
}

func TestAddDesignInvalidPayload(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)

	_, err := svc.AddDesign(context.Background(), sheet.ID, request.UploadDesign{
		Name:     "broken",
		FileData: "!!not base64!!",
	})
	assert.ErrorIs(t, err, inErrors.ErrInvalidImage)
}

func TestPriceFollowsDesignQuantities(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	quantity := int32(4)
	sheet, err := svc.AddDesign(c, sheet.ID, request.UploadDesign{
		Name:     "logo",
		FileData: encodePng(t, 100, 100),
		Quantity: &quantity,
	})
	require.NoError(t, err)
	// 18.99 + 0.50 * 4
	assert.True(t, sheet.TotalPrice.Equal(decimal.RequireFromString("20.99")))

	newQuantity := int32(10)
	sheet, err = svc.UpdateDesign(c, sheet.ID, sheet.Designs[0].ID, request.UpdateDesign{
		Quantity: &newQuantity,
	})
	require.NoError(t, err)
	assert.True(t, sheet.TotalPrice.Equal(decimal.RequireFromString("23.99")))
}

func TestUpdateDesignUnknownId(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)

	x := 10.0
	_, err := svc.UpdateDesign(context.Background(), sheet.ID, "missing", request.UpdateDesign{X: &x})
	assert.ErrorIs(t, err, inErrors.ErrDesignNotFound)
}

func TestRemoveDesignUnknownIdIsNoOp(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	sheet, err := svc.AddDesign(c, sheet.ID, request.UploadDesign{
		Name:     "logo",
		FileData: encodePng(t, 100, 100),
	})
	require.NoError(t, err)
	priceBefore := sheet.TotalPrice

	sheet, err = svc.RemoveDesign(c, sheet.ID, "missing")
	require.NoError(t, err)
	assert.Len(t, sheet.Designs, 1)
	assert.True(t, sheet.TotalPrice.Equal(priceBefore))
}

func TestRemoveDesign(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	sheet, err := svc.AddDesign(c, sheet.ID, request.UploadDesign{
		Name:     "logo",
		FileData: encodePng(t, 100, 100),
	})
	require.NoError(t, err)

	sheet, err = svc.RemoveDesign(c, sheet.ID, sheet.Designs[0].ID)
	require.NoError(t, err)
	assert.Empty(t, sheet.Designs)
	assert.True(t, sheet.TotalPrice.Equal(decimal.RequireFromString("18.99")))
}

func TestAutoNestKeepsPrice(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	for range 3 {
		var err error
		sheet, err = svc.AddDesign(c, sheet.ID, request.UploadDesign{
			Name:     "logo",
			FileData: encodePng(t, 1000, 1000),
		})
		require.NoError(t, err)
	}
	priceBefore := sheet.TotalPrice

	sheet, err := svc.AutoNest(c, sheet.ID)
	require.NoError(t, err)
	require.Len(t, sheet.Designs, 3)
	assert.Equal(t, 5.0, sheet.Designs[0].X)
	assert.Equal(t, 5.0, sheet.Designs[0].Y)
	assert.Equal(t, 110.0, sheet.Designs[1].X)
	assert.True(t, sheet.TotalPrice.Equal(priceBefore))
}

func TestUpdateStatus(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	sheet, err := svc.UpdateStatus(c, sheet.ID, model.StatusOrdered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOrdered, sheet.Status)

	_, err = svc.UpdateStatus(c, sheet.ID, model.Status("shipped"))
	assert.ErrorIs(t, err, inErrors.ErrInvalidStatus)
}

func TestFindByIdUnknown(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	_, err := svc.FindById(context.Background(), uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrSheetNotFound)
}

func TestSheetJsonRoundTripKeepsPrice(t *testing.T) {
	svc := NewGangSheetService(store.NewMemoryStore())
	sheet := newSheet(t, svc)
	c := context.Background()

	for range 2 {
		var err error
		sheet, err = svc.AddDesign(c, sheet.ID, request.UploadDesign{
			Name:     "logo",
			FileData: encodePng(t, 100, 100),
		})
		require.NoError(t, err)
	}

	payload, err := json.Marshal(sheet)
	require.NoError(t, err)
	decoded := model.GangSheet{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.True(t, decoded.CalculateTotalPrice().Equal(sheet.TotalPrice))
}
