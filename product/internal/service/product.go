package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/presmtech/storefront/internal/constants"
	inOtel "github.com/presmtech/storefront/internal/otel"
	"github.com/presmtech/storefront/product/internal/cache"
	"github.com/presmtech/storefront/product/internal/otel"
	"github.com/presmtech/storefront/product/pkg/store"
	"github.com/presmtech/storefront/product/pkg/model"
	"github.com/presmtech/storefront/product/pkg/request"
)

type ProductService struct {
	store store.Store
	cache *redis.Client
}

// NewProductService wires the catalog store with an optional redis read
// cache; a nil cache disables caching.
func NewProductService(store store.Store, cache *redis.Client) ProductService {
	return ProductService{store: store, cache: cache}
}

func (svc ProductService) Create(
	c context.Context,
	param request.CreateProduct,
) (*model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService Create")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService Create").
		Str("name", param.Name).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product").Logger()
	logger.Trace().Msg("inserting product")
	now := time.Now().UTC()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        param.Name,
		Category:    param.Category,
		Price:       param.Price,
		Image:       param.Image,
		Images:      param.Images,
		Description: param.Description,
		Features:    param.Features,
		Sizes:       param.Sizes,
		MinQuantity: param.MinQuantity,
		MaxQuantity: param.MaxQuantity,
		Inventory:   param.Inventory,
		Status:      model.StatusActive,
		Variants:    variants(param.Variants),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.MinQuantity <= 0 {
		product.MinQuantity = 1
	}
	err := svc.store.Insert(c, product)
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Str(constants.KEY_PRODUCT_ID, product.ID.String()).Msg("inserted product")

	return product, nil
}

// FindById serves reads through the cache; a miss or a cache failure falls
// back to the store and repopulates the key.
func (svc ProductService) FindById(c context.Context, id uuid.UUID) (*model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindById")
	defer span.End()

	cacheKey := cache.KEY_PRODUCTS + id.String()
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindById").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	if svc.cache != nil {
		logger := logger.With().Str(constants.KEY_PROCESS, "finding product in cache").Logger()
		logger.Trace().Msg("finding product in cache")
		jsonCache, err := svc.cache.Get(c, cacheKey).Result()
		if err == nil {
			product := model.Product{}
			err = json.Unmarshal([]byte(jsonCache), &product)
			if err == nil {
				logger.Debug().Msg("found product in cache")
				return &product, nil
			}
			logger.Info().Err(err).Msg("failed unmarshalling cached product")
		} else if err != redis.Nil {
			logger.Info().Err(err).Msg("failed finding product in cache")
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in database").Logger()
	logger.Trace().Msg("finding product in database")
	product, err := svc.store.FindById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found product in database")

	svc.fillCache(c, cacheKey, product)

	return product, nil
}

func (svc ProductService) Find(
	c context.Context,
	param request.FindProducts,
) ([]model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService Find")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService Find").
		Str("category", param.Category).
		Str("search", param.Search).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "listing products").Logger()
	logger.Trace().Msg("listing products")
	products, err := svc.store.Find(c, store.Filter{
		Category: param.Category,
		Status:   model.Status(param.Status),
		Search:   param.Search,
		Skip:     param.Skip,
		Limit:    param.Limit,
	})
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(products)).Msg("listed products")

	return products, nil
}

// Update applies the set fields of param to the product and invalidates the
// cache entry.
func (svc ProductService) Update(
	c context.Context,
	id uuid.UUID,
	param request.UpdateProduct,
) (*model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService Update").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Logger()

	c = logger.WithContext(c)
	product, err := svc.store.FindById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Trace().Msg("updating product")
	if param.Name != nil {
		product.Name = *param.Name
	}
	if param.Category != nil {
		product.Category = *param.Category
	}
	if param.Price != nil {
		product.Price = *param.Price
	}
	if param.Image != nil {
		product.Image = *param.Image
	}
	if param.Images != nil {
		product.Images = *param.Images
	}
	if param.Description != nil {
		product.Description = *param.Description
	}
	if param.Features != nil {
		product.Features = *param.Features
	}
	if param.Sizes != nil {
		product.Sizes = *param.Sizes
	}
	if param.MinQuantity != nil {
		product.MinQuantity = *param.MinQuantity
	}
	if param.MaxQuantity != nil {
		product.MaxQuantity = *param.MaxQuantity
	}
	if param.Inventory != nil {
		product.Inventory = *param.Inventory
	}
	if param.Variants != nil {
		product.Variants = variants(*param.Variants)
	}
	product.UpdatedAt = time.Now().UTC()
	err = svc.store.Update(c, product)
	if err != nil {
		err = fmt.Errorf("failed updating product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("updated product")

	svc.dropCache(c, cache.KEY_PRODUCTS+id.String())

	return product, nil
}

// Archive soft-deletes the product by flipping its status; the record and its
// id stay resolvable for carts that still reference it.
func (svc ProductService) Archive(c context.Context, id uuid.UUID) (*model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService Archive")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService Archive").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Logger()

	c = logger.WithContext(c)
	product, err := svc.store.FindById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "archiving product").Logger()
	logger.Trace().Msg("archiving product")
	product.Status = model.StatusArchived
	product.UpdatedAt = time.Now().UTC()
	err = svc.store.Update(c, product)
	if err != nil {
		err = fmt.Errorf("failed archiving product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("archived product")

	svc.dropCache(c, cache.KEY_PRODUCTS+id.String())

	return product, nil
}

func (svc ProductService) Categories(c context.Context) ([]model.CategoryCount, error) {
	c, span := otel.Tracer.Start(c, "ProductService Categories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService Categories").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "aggregating categories").Logger()
	logger.Trace().Msg("aggregating categories")
	categories, err := svc.store.Categories(c)
	if err != nil {
		err = fmt.Errorf("failed aggregating categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(categories)).Msg("aggregated categories")

	return categories, nil
}

// fillCache and dropCache are best effort; a failing cache never fails the
// request.
func (svc ProductService) fillCache(c context.Context, cacheKey string, product *model.Product) {
	if svc.cache == nil {
		return
	}
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "inserting product to cache").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	payload, err := json.Marshal(product)
	if err != nil {
		logger.Info().Err(err).Msg("failed marshalling product for cache")
		return
	}
	err = svc.cache.Set(c, cacheKey, payload, 0).Err()
	if err != nil {
		logger.Info().Err(err).Msg("failed inserting product to cache")
		return
	}
	logger.Debug().Msg("inserted product to cache")
}

func (svc ProductService) dropCache(c context.Context, cacheKey string) {
	if svc.cache == nil {
		return
	}
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "removing product from cache").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	err := svc.cache.Del(c, cacheKey).Err()
	if err != nil {
		logger.Info().Err(err).Msg("failed removing product from cache")
		return
	}
	logger.Debug().Msg("removed product from cache")
}

func variants(params []request.Variant) []model.Variant {
	out := make([]model.Variant, 0, len(params))
	for _, v := range params {
		out = append(out, model.Variant{ID: v.ID, Title: v.Title, Price: v.Price})
	}
	return out
}
