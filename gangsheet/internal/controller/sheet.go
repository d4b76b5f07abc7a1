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

	"github.com/presmtech/storefront/gangsheet/internal/otel"
	"github.com/presmtech/storefront/gangsheet/internal/service"
	"github.com/presmtech/storefront/gangsheet/pkg/model"
	"github.com/presmtech/storefront/gangsheet/pkg/request"
	"github.com/presmtech/storefront/internal/constants"
	inErrors "github.com/presmtech/storefront/internal/errors"
	inHttp "github.com/presmtech/storefront/internal/http"
	"github.com/presmtech/storefront/internal/middleware"
	inOtel "github.com/presmtech/storefront/internal/otel"
)

type GangSheetController struct {
	service *service.GangSheetService
}

func AttachGangSheetController(router *mux.Router, service *service.GangSheetService) {
	controller := GangSheetController{service: service}

	sheetRouter := router.PathPrefix("/gang-sheets").Subrouter()
	sheetRouter.Use(
		otelmux.Middleware(constants.APP_GANGSHEET_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	sheetRouter.HandleFunc("", controller.CreateGangSheet).Methods(http.MethodPost)
	sheetRouter.HandleFunc("", controller.FindGangSheets).Methods(http.MethodGet)
	sheetRouter.HandleFunc("/templates", controller.Templates).Methods(http.MethodGet)
	sheetRouter.HandleFunc("/{sheetId}", controller.FindGangSheetById).Methods(http.MethodGet)
	sheetRouter.HandleFunc("/{sheetId}/status", controller.UpdateStatus).Methods(http.MethodPut)
	sheetRouter.HandleFunc("/{sheetId}/auto-nest", controller.AutoNest).Methods(http.MethodPost)
	sheetRouter.HandleFunc("/{sheetId}/designs", controller.AddDesign).Methods(http.MethodPost)
	sheetRouter.HandleFunc("/{sheetId}/designs/{designId}", controller.UpdateDesign).
		Methods(http.MethodPut)
	sheetRouter.HandleFunc("/{sheetId}/designs/{designId}", controller.RemoveDesign).
		Methods(http.MethodDelete)
}

func (ctrl GangSheetController) Templates(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController Templates")
	defer span.End()

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "templates found",
		"data": map[string]interface{}{
			"templates": ctrl.service.Templates(),
		},
	})
}

func (ctrl GangSheetController) CreateGangSheet(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController CreateGangSheet")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController CreateGangSheet").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.CreateGangSheet{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "creating gang sheet").Logger()
	logger.Trace().Msg("creating gang sheet")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.Create(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating gang sheet with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("created gang sheet")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "gang sheet created",
		"data": map[string]interface{}{
			"gang_sheet": sheet,
		},
	})
}

func (ctrl GangSheetController) FindGangSheets(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController FindGangSheets")
	defer span.End()

	query := r.URL.Query()
	userID := query.Get("user_id")
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController FindGangSheets").
		Str(constants.KEY_USER_ID, userID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "listing gang sheets").Logger()
	logger.Trace().Msg("listing gang sheets")
	c = logger.WithContext(c)
	sheets, err := ctrl.service.FindByUser(c, userID, queryInt(query.Get("skip")), queryInt(query.Get("limit")))
	if err != nil {
		err = fmt.Errorf("failed listing gang sheets with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("listed gang sheets")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "gang sheets found",
		"data": map[string]interface{}{
			"gang_sheets": sheets,
		},
	})
}

func (ctrl GangSheetController) FindGangSheetById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController FindGangSheetById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController FindGangSheetById").
		Logger()

	sheetID, ok := ctrl.sheetId(c, w, r, &logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding gang sheet").Logger()
	logger.Trace().Msg("finding gang sheet")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.FindById(c, sheetID)
	if err != nil {
		err = fmt.Errorf("failed finding gang sheet with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("found gang sheet")

	writeSheetResponse(c, w, http.StatusOK, "gang sheet found", sheet)
}

func (ctrl GangSheetController) AddDesign(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController AddDesign")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController AddDesign").
		Logger()

	sheetID, ok := ctrl.sheetId(c, w, r, &logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.UploadDesign{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "adding design").Logger()
	logger.Trace().Msg("adding design")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.AddDesign(c, sheetID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding design with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("added design")

	writeSheetResponse(c, w, http.StatusCreated, "design added", sheet)
}

func (ctrl GangSheetController) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController UpdateDesign")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController UpdateDesign").
		Logger()

	sheetID, ok := ctrl.sheetId(c, w, r, &logger)
	if !ok {
		return
	}
	designID := mux.Vars(r)["designId"]
	logger = logger.With().Str(constants.KEY_DESIGN_ID, designID).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	reqBody := request.UpdateDesign{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "updating design").Logger()
	logger.Trace().Msg("updating design")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.UpdateDesign(c, sheetID, designID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating design with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("updated design")

	writeSheetResponse(c, w, http.StatusOK, "design updated", sheet)
}

func (ctrl GangSheetController) RemoveDesign(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController RemoveDesign")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController RemoveDesign").
		Logger()

	sheetID, ok := ctrl.sheetId(c, w, r, &logger)
	if !ok {
		return
	}
	designID := mux.Vars(r)["designId"]
	logger = logger.With().Str(constants.KEY_DESIGN_ID, designID).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing design").Logger()
	logger.Trace().Msg("removing design")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.RemoveDesign(c, sheetID, designID)
	if err != nil {
		err = fmt.Errorf("failed removing design with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("removed design")

	writeSheetResponse(c, w, http.StatusOK, "design removed", sheet)
}

func (ctrl GangSheetController) AutoNest(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController AutoNest")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController AutoNest").
		Logger()

	sheetID, ok := ctrl.sheetId(c, w, r, &logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "nesting designs").Logger()
	logger.Trace().Msg("nesting designs")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.AutoNest(c, sheetID)
	if err != nil {
		err = fmt.Errorf("failed nesting designs with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("nested designs")

	writeSheetResponse(c, w, http.StatusOK, "designs nested", sheet)
}

func (ctrl GangSheetController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "GangSheetController UpdateStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetController UpdateStatus").
		Logger()

	sheetID, ok := ctrl.sheetId(c, w, r, &logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.UpdateStatus{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "updating status").Logger()
	logger.Trace().Msg("updating status")
	c = logger.WithContext(c)
	sheet, err := ctrl.service.UpdateStatus(c, sheetID, model.Status(reqBody.Status))
	if err != nil {
		err = fmt.Errorf("failed updating status with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, inErrors.HttpStatusCode(err), err)
		return
	}
	logger.Info().Msg("updated status")

	writeSheetResponse(c, w, http.StatusOK, "status updated", sheet)
}

func (ctrl GangSheetController) sheetId(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) (uuid.UUID, bool) {
	sheetID, err := uuid.Parse(mux.Vars(r)["sheetId"])
	if err != nil {
		err = fmt.Errorf("failed parsing sheetId with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		writeFailedResponse(c, w, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	*logger = logger.With().Str(constants.KEY_SHEET_ID, sheetID.String()).Logger()
	return sheetID, true
}

func writeSheetResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	message string,
	sheet *model.GangSheet,
) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": statusCode,
		"message":    message,
		"data": map[string]interface{}{
			"gang_sheet": sheet,
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
