package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/presmtech/storefront/cart/internal/otel"
	"github.com/presmtech/storefront/cart/internal/store"
	"github.com/presmtech/storefront/cart/pkg/model"
	"github.com/presmtech/storefront/cart/pkg/request"
	"github.com/presmtech/storefront/internal/constants"
	inErrors "github.com/presmtech/storefront/internal/errors"
	inOtel "github.com/presmtech/storefront/internal/otel"
)

// Snapshot carries the display fields copied onto a cart line at add-time.
type Snapshot struct {
	Name        string
	Price       decimal.Decimal
	Image       string
	Description string
}

// Resolver resolves a line reference against the catalog or the gang sheet
// collection. Implementations return inErrors.ErrProductNotFound,
// inErrors.ErrVariantNotFound or inErrors.ErrSheetNotFound when the
// reference does not exist.
type Resolver interface {
	ResolveProduct(c context.Context, productID uuid.UUID, variantID string) (Snapshot, error)
	ResolveGangSheet(c context.Context, sheetID uuid.UUID) (Snapshot, error)
}

type CartService struct {
	store    store.Store
	resolver Resolver
}

func NewCartService(store store.Store, resolver Resolver) CartService {
	return CartService{store: store, resolver: resolver}
}

// GetOrCreate returns the cart for the session, creating and persisting an
// empty one on first access. Safe to call repeatedly for the same session.
func (svc CartService) GetOrCreate(c context.Context, sessionID string) (*model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService GetOrCreate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService GetOrCreate").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "loading cart").Logger()
	logger.Trace().Msg("loading cart")
	cart, err := svc.store.Load(c, sessionID)
	if err == nil {
		logger.Info().Msg("loaded cart")
		return cart, nil
	}
	if !errors.Is(err, inErrors.ErrCartNotFound) {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "creating cart").Logger()
	logger.Info().Msg("creating cart")
	cart = model.NewCart(sessionID, "")
	err = svc.store.Save(c, cart)
	if err != nil {
		// A concurrent first-request won the create; use its cart.
		if errors.Is(err, inErrors.ErrVersionConflict) {
			logger.Info().Msg("cart created concurrently, reloading")
			return svc.store.Load(c, sessionID)
		}
		err = fmt.Errorf("failed saving new cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("created cart")

	return cart, nil
}

// AddItem resolves the reference, snapshots a line and merges it into the
// cart: the first line with the same reference and structurally equal options
// gets its quantity incremented, otherwise the line is appended.
func (svc CartService) AddItem(
	c context.Context,
	sessionID string,
	param request.AddItem,
) (*model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "resolving reference").Logger()
	logger.Trace().Msg("resolving reference")
	line := model.CartLine{
		ID:       uuid.New(),
		Quantity: param.Quantity,
		Options:  param.Options,
	}
	var (
		snapshot Snapshot
		err      error
	)
	switch {
	case param.ProductId != nil:
		logger = logger.With().Str(constants.KEY_PRODUCT_ID, param.ProductId.String()).Logger()
		snapshot, err = svc.resolver.ResolveProduct(c, *param.ProductId, param.VariantId)
		line.ProductID = param.ProductId
		line.VariantID = param.VariantId
	case param.GangSheetId != nil:
		logger = logger.With().Str(constants.KEY_SHEET_ID, param.GangSheetId.String()).Logger()
		snapshot, err = svc.resolver.ResolveGangSheet(c, *param.GangSheetId)
		line.GangSheetID = param.GangSheetId
	default:
		err = inErrors.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed resolving reference with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	line.Name = snapshot.Name
	line.Price = snapshot.Price
	line.Image = snapshot.Image
	line.Description = snapshot.Description
	logger.Info().Msg("resolved reference")

	logger = logger.With().Str(constants.KEY_PROCESS, "merging line").Logger()
	logger.Trace().Msg("merging line")
	c = logger.WithContext(c)
	cart, err := svc.GetOrCreate(c, sessionID)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].Matches(line) {
			cart.Lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, line)
	}
	logger = logger.With().Bool("merged", merged).Logger()
	logger.Info().Msg("merged line")
	span.AddEvent("merged line")

	return svc.save(c, span, cart)
}

// UpdateItem sets the quantity of the line with the given id; a quantity of
// zero or less removes the line instead.
func (svc CartService) UpdateItem(
	c context.Context,
	sessionID string,
	lineID uuid.UUID,
	quantity int32,
) (*model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService UpdateItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_LINE_ID, lineID.String()).
		Int32("quantity", quantity).
		Logger()

	c = logger.WithContext(c)
	cart, err := svc.GetOrCreate(c, sessionID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating line").Logger()
	logger.Trace().Msg("updating line")
	idx := lineIndex(cart, lineID)
	if idx < 0 {
		err = fmt.Errorf("lineId=%s with error=%w", lineID.String(), inErrors.ErrLineNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	} else {
		cart.Lines[idx].Quantity = quantity
	}
	logger.Info().Msg("updated line")

	return svc.save(c, span, cart)
}

// RemoveItem removes the line with the given id unconditionally.
func (svc CartService) RemoveItem(
	c context.Context,
	sessionID string,
	lineID uuid.UUID,
) (*model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_LINE_ID, lineID.String()).
		Logger()

	c = logger.WithContext(c)
	cart, err := svc.GetOrCreate(c, sessionID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "removing line").Logger()
	logger.Trace().Msg("removing line")
	idx := lineIndex(cart, lineID)
	if idx < 0 {
		err = fmt.Errorf("lineId=%s with error=%w", lineID.String(), inErrors.ErrLineNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	logger.Info().Msg("removed line")

	return svc.save(c, span, cart)
}

// Clear empties the line list but keeps the cart record.
func (svc CartService) Clear(c context.Context, sessionID string) (*model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService Clear").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	c = logger.WithContext(c)
	cart, err := svc.GetOrCreate(c, sessionID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	cart.Lines = []model.CartLine{}
	logger.Info().Msg("cleared cart")

	return svc.save(c, span, cart)
}

func (svc CartService) save(
	c context.Context,
	span trace.Span,
	cart *model.Cart,
) (*model.Cart, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "saving cart").
		Logger()

	logger.Trace().Msg("saving cart")
	cart.UpdatedAt = time.Now().UTC()
	err := svc.store.Save(c, cart)
	if err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("saved cart")
	return cart, nil
}

func lineIndex(cart *model.Cart, lineID uuid.UUID) int {
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}
