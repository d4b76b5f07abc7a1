package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/presmtech/storefront/cart/internal/otel"
	"github.com/presmtech/storefront/cart/internal/service"
	gangsheetStore "github.com/presmtech/storefront/gangsheet/pkg/store"
	"github.com/presmtech/storefront/internal/constants"
	inErrors "github.com/presmtech/storefront/internal/errors"
	inOtel "github.com/presmtech/storefront/internal/otel"
	productStore "github.com/presmtech/storefront/product/pkg/store"
)

// Resolver resolves cart line references against the shared catalog and gang
// sheet stores. A variant reference snapshots the variant price and a
// "Product - Variant" display name; an empty variant id falls back to the
// product itself.
type Resolver struct {
	products productStore.Store
	sheets   gangsheetStore.Store
}

func NewResolver(products productStore.Store, sheets gangsheetStore.Store) Resolver {
	return Resolver{products: products, sheets: sheets}
}

func (r Resolver) ResolveProduct(
	c context.Context,
	productID uuid.UUID,
	variantID string,
) (service.Snapshot, error) {
	c, span := otel.Tracer.Start(c, "Resolver ResolveProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Resolver ResolveProduct").
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_VARIANT_ID, variantID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Trace().Msg("finding product")
	product, err := r.products.FindById(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return service.Snapshot{}, err
	}
	logger.Info().Msg("found product")

	snapshot := service.Snapshot{
		Name:        product.Name,
		Price:       product.Price,
		Image:       product.Image,
		Description: product.Description,
	}
	if variantID == "" {
		return snapshot, nil
	}

	variant := product.Variant(variantID)
	if variant == nil {
		err = fmt.Errorf("variantId=%s with error=%w", variantID, inErrors.ErrVariantNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return service.Snapshot{}, err
	}
	snapshot.Name = product.Name + " - " + variant.Title
	snapshot.Price = variant.Price
	return snapshot, nil
}

func (r Resolver) ResolveGangSheet(
	c context.Context,
	sheetID uuid.UUID,
) (service.Snapshot, error) {
	c, span := otel.Tracer.Start(c, "Resolver ResolveGangSheet")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Resolver ResolveGangSheet").
		Str(constants.KEY_SHEET_ID, sheetID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding gang sheet").Logger()
	logger.Trace().Msg("finding gang sheet")
	sheet, err := r.sheets.FindById(c, sheetID)
	if err != nil {
		err = fmt.Errorf("failed finding gang sheet with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return service.Snapshot{}, err
	}
	logger.Info().Msg("found gang sheet")

	return service.Snapshot{
		Name:        "Custom Gang Sheet - " + sheet.TemplateName,
		Price:       sheet.TotalPrice,
		Description: fmt.Sprintf("%d design(s) on %s", len(sheet.Designs), sheet.TemplateName),
	}, nil
}
