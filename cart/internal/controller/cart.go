package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/presmtech/storefront/cart/internal/otel"
	"github.com/presmtech/storefront/cart/internal/service"
	"github.com/presmtech/storefront/cart/pkg/request"
	"github.com/presmtech/storefront/internal/constants"
	inErrors "github.com/presmtech/storefront/internal/errors"
	inHttp "github.com/presmtech/storefront/internal/http"
	"github.com/presmtech/storefront/internal/middleware"
	inOtel "github.com/presmtech/storefront/internal/otel"
)

// defaultSession keys anonymous carts when the client sends no session
// header.
const defaultSession = "default_session"

type CartController struct {
	service *service.CartService
}

func AttachCartController(router *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	cartRouter := router.PathPrefix("/carts").Subrouter()
	cartRouter.Use(
		otelmux.Middleware(constants.APP_CART_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	cartRouter.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	cartRouter.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/summary", controller.GetSummary).Methods(http.MethodGet)
	cartRouter.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	cartRouter.HandleFunc("/items/{lineId}", controller.UpdateItem).Methods(http.MethodPut)
	cartRouter.HandleFunc("/items/{lineId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	sessionID := sessionId(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController GetCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting cart").Logger()
	logger.Trace().Msg("getting cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.GetOrCreate(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("got cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart found",
		"data": map[string]interface{}{
			"cart":   cart,
			"totals": service.ComputeTotals(cart),
		},
	})
}

func (ctrl CartController) GetSummary(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetSummary")
	defer span.End()

	sessionID := sessionId(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController GetSummary").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "computing summary").Logger()
	logger.Trace().Msg("computing summary")
	c = logger.WithContext(c)
	cart, err := ctrl.service.GetOrCreate(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed computing summary with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("computed summary")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "summary computed",
		"data": map[string]interface{}{
			"summary": service.ComputeTotals(cart),
		},
	})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	sessionID := sessionId(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.AddItem{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item").Logger()
	logger.Trace().Msg("adding item")
	c = logger.WithContext(c)
	cart, err := ctrl.service.AddItem(c, sessionID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "item added to cart",
		"data": map[string]interface{}{
			"cart":   cart,
			"totals": service.ComputeTotals(cart),
		},
	})
}

func (ctrl CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateItem")
	defer span.End()

	sessionID := sessionId(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing lineId").Logger()
	logger.Trace().Msg("parsing lineId")
	lineID, err := uuid.Parse(mux.Vars(r)["lineId"])
	if err != nil {
		err = fmt.Errorf("failed parsing lineId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(constants.KEY_LINE_ID, lineID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	reqBody := request.UpdateItem{}
	if err := decoder.Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating item").Logger()
	logger.Trace().Msg("updating item")
	c = logger.WithContext(c)
	cart, err := ctrl.service.UpdateItem(c, sessionID, lineID, reqBody.Quantity)
	if err != nil {
		err = fmt.Errorf("failed updating item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("updated item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "item updated",
		"data": map[string]interface{}{
			"cart":   cart,
			"totals": service.ComputeTotals(cart),
		},
	})
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	sessionID := sessionId(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing lineId").Logger()
	logger.Trace().Msg("parsing lineId")
	lineID, err := uuid.Parse(mux.Vars(r)["lineId"])
	if err != nil {
		err = fmt.Errorf("failed parsing lineId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(constants.KEY_LINE_ID, lineID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing item").Logger()
	logger.Trace().Msg("removing item")
	c = logger.WithContext(c)
	cart, err := ctrl.service.RemoveItem(c, sessionID, lineID)
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("removed item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "item removed",
		"data": map[string]interface{}{
			"cart":   cart,
			"totals": service.ComputeTotals(cart),
		},
	})
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	sessionID := sessionId(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ClearCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.Clear(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart cleared",
		"data": map[string]interface{}{
			"cart":   cart,
			"totals": service.ComputeTotals(cart),
		},
	})
}

func sessionId(r *http.Request) string {
	sessionID := r.Header.Get(inHttp.KEY_HEADER_SESSION_ID)
	if sessionID == "" {
		return defaultSession
	}
	return sessionID
}

func writeFailedResponse(c context.Context, w http.ResponseWriter, statusCode int, err error) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    err.Error(),
	})
}
