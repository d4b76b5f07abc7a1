package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/presmtech/storefront/internal/constants"
	inErrors "github.com/presmtech/storefront/internal/errors"
	inHttp "github.com/presmtech/storefront/internal/http"
	"github.com/presmtech/storefront/internal/middleware"
	inOtel "github.com/presmtech/storefront/internal/otel"
	"github.com/presmtech/storefront/product/internal/otel"
	"github.com/presmtech/storefront/product/internal/service"
	"github.com/presmtech/storefront/product/pkg/request"
)

type ProductController struct {
	service *service.ProductService
}

// AttachProductController mounts the catalog routes. Reads are public;
// mutations sit behind bearer auth.
func AttachProductController(router *mux.Router, service *service.ProductService, secretKey string) {
	controller := ProductController{service: service}

	productRouter := router.PathPrefix("/products").Subrouter()
	productRouter.Use(
		otelmux.Middleware(constants.APP_PRODUCT_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	productRouter.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	productRouter.HandleFunc("/categories", controller.Categories).Methods(http.MethodGet)
	productRouter.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)

	adminRouter := productRouter.NewRoute().Subrouter()
	adminRouter.Use(middleware.Auth(secretKey))
	adminRouter.HandleFunc("", controller.CreateProduct).Methods(http.MethodPost)
	adminRouter.HandleFunc("/{productId}", controller.UpdateProduct).Methods(http.MethodPut)
	adminRouter.HandleFunc("/{productId}", controller.ArchiveProduct).Methods(http.MethodDelete)
}

func (ctrl ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController CreateProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.CreateProduct{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating product").Logger()
	logger.Trace().Msg("creating product")
	c = logger.WithContext(c)
	product, err := ctrl.service.Create(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("created product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully created product",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (ctrl ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProducts").
		Logger()

	query := r.URL.Query()
	param := request.FindProducts{
		Category: query.Get("category"),
		Status:   query.Get("status"),
		Search:   query.Get("search"),
		Skip:     queryInt(query.Get("skip")),
		Limit:    queryInt(query.Get("limit")),
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "listing products").Logger()
	logger.Trace().Msg("listing products")
	c = logger.WithContext(c)
	products, err := ctrl.service.Find(c, param)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("listed products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (ctrl ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductById").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing productId").Logger()
	logger.Trace().Msg("parsing productId")
	id, err := uuid.Parse(mux.Vars(r)["productId"])
	if err != nil {
		err = fmt.Errorf("failed parsing productId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, id.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Trace().Msg("finding product")
	c = logger.WithContext(c)
	product, err := ctrl.service.FindById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("product id=%s found", id.String()),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (ctrl ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController UpdateProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing productId").Logger()
	logger.Trace().Msg("parsing productId")
	id, err := uuid.Parse(mux.Vars(r)["productId"])
	if err != nil {
		err = fmt.Errorf("failed parsing productId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, id.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	reqBody := request.UpdateProduct{}
	if err := decoder.Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Trace().Msg("updating product")
	c = logger.WithContext(c)
	product, err := ctrl.service.Update(c, id, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("updated product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully updated product",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (ctrl ProductController) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController ArchiveProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController ArchiveProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing productId").Logger()
	logger.Trace().Msg("parsing productId")
	id, err := uuid.Parse(mux.Vars(r)["productId"])
	if err != nil {
		err = fmt.Errorf("failed parsing productId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, id.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "archiving product").Logger()
	logger.Trace().Msg("archiving product")
	c = logger.WithContext(c)
	product, err := ctrl.service.Archive(c, id)
	if err != nil {
		err = fmt.Errorf("failed archiving product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("archived product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully archived product",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (ctrl ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Categories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController Categories").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "aggregating categories").Logger()
	logger.Trace().Msg("aggregating categories")
	c = logger.WithContext(c)
	categories, err := ctrl.service.Categories(c)
	if err != nil {
		err = fmt.Errorf("failed aggregating categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("aggregated categories")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "categories found",
		"data": map[string]interface{}{
			"categories": categories,
		},
	})
}

func writeFailedResponse(c context.Context, w http.ResponseWriter, statusCode int, err error) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    err.Error(),
	})
}

func queryInt(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
