package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/presmtech/storefront/gangsheet/internal/imaging"
	"github.com/presmtech/storefront/gangsheet/internal/otel"
	"github.com/presmtech/storefront/gangsheet/pkg/store"
	"github.com/presmtech/storefront/gangsheet/pkg/model"
	"github.com/presmtech/storefront/gangsheet/pkg/request"
	"github.com/presmtech/storefront/internal/constants"
	inErrors "github.com/presmtech/storefront/internal/errors"
	inOtel "github.com/presmtech/storefront/internal/otel"
)

const (
	renderScale    = 10.0
	maxRenderUnits = 100.0
	defaultX       = 50.0
	defaultY       = 50.0
)

type GangSheetService struct {
	store store.Store
}

func NewGangSheetService(store store.Store) GangSheetService {
	return GangSheetService{store: store}
}

// Templates returns the fixed sheet size offerings.
func (svc GangSheetService) Templates() []model.Template {
	return model.Templates()
}

// Create starts an empty draft sheet from a template.
func (svc GangSheetService) Create(
	c context.Context,
	param request.CreateGangSheet,
) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService Create")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService Create").
		Str("templateId", param.TemplateId).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding template").Logger()
	logger.Trace().Msg("finding template")
	var template *model.Template
	for _, t := range model.Templates() {
		if t.ID == param.TemplateId {
			template = &t
			break
		}
	}
	if template == nil {
		err := fmt.Errorf("templateId=%s with error=%w", param.TemplateId, inErrors.ErrSheetNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found template")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting sheet").Logger()
	logger.Trace().Msg("inserting sheet")
	now := time.Now().UTC()
	sheet := &model.GangSheet{
		ID:           uuid.New(),
		UserID:       param.UserId,
		TemplateID:   template.ID,
		TemplateName: template.Name,
		Width:        template.Width,
		Height:       template.Height,
		BasePrice:    template.Price,
		Designs:      []model.Design{},
		Status:       model.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	sheet.CalculateTotalPrice()
	err := svc.store.Insert(c, sheet)
	if err != nil {
		err = fmt.Errorf("failed inserting sheet with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Str(constants.KEY_SHEET_ID, sheet.ID.String()).Msg("inserted sheet")

	return sheet, nil
}

func (svc GangSheetService) FindById(c context.Context, id uuid.UUID) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService FindById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService FindById").
		Str(constants.KEY_SHEET_ID, id.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding sheet").Logger()
	logger.Trace().Msg("finding sheet")
	sheet, err := svc.store.FindById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding sheet with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found sheet")

	return sheet, nil
}

func (svc GangSheetService) FindByUser(
	c context.Context,
	userID string,
	skip, limit int,
) ([]model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService FindByUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService FindByUser").
		Str(constants.KEY_USER_ID, userID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "listing sheets").Logger()
	logger.Trace().Msg("listing sheets")
	sheets, err := svc.store.FindByUser(c, userID, skip, limit)
	if err != nil {
		err = fmt.Errorf("failed listing sheets with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(sheets)).Msg("listed sheets")

	return sheets, nil
}

// AddDesign probes the uploaded image, derives its render size and places it
// on the sheet. Render dimensions shrink the native pixel size by a fixed
// scale, capped so large assets still land inside the canvas.
func (svc GangSheetService) AddDesign(
	c context.Context,
	sheetID uuid.UUID,
	param request.UploadDesign,
) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService AddDesign")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService AddDesign").
		Str(constants.KEY_SHEET_ID, sheetID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "probing image").Logger()
	logger.Trace().Msg("probing image")
	width, height, err := imaging.Probe(param.FileData)
	if err != nil {
		err = fmt.Errorf("failed probing image with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("width", width).Int("height", height).Msg("probed image")

	c = logger.WithContext(c)
	sheet, err := svc.FindById(c, sheetID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "adding design").Logger()
	logger.Trace().Msg("adding design")
	design := model.Design{
		ID:             ulid.Make().String(),
		Name:           param.Name,
		Src:            param.FileData,
		Width:          renderSize(width),
		Height:         renderSize(height),
		OriginalWidth:  width,
		OriginalHeight: height,
		X:              defaultX,
		Y:              defaultY,
		Quantity:       1,
	}
	if param.X != nil {
		design.X = *param.X
	}
	if param.Y != nil {
		design.Y = *param.Y
	}
	if param.Quantity != nil {
		design.Quantity = *param.Quantity
	}
	sheet.Designs = append(sheet.Designs, design)
	sheet.CalculateTotalPrice()
	logger = logger.With().Str(constants.KEY_DESIGN_ID, design.ID).Logger()
	logger.Info().Msg("added design")

	return svc.save(c, span, sheet)
}

// UpdateDesign applies the set fields of param to the design with the given
// id and recomputes the sheet total.
func (svc GangSheetService) UpdateDesign(
	c context.Context,
	sheetID uuid.UUID,
	designID string,
	param request.UpdateDesign,
) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService UpdateDesign")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService UpdateDesign").
		Str(constants.KEY_SHEET_ID, sheetID.String()).
		Str(constants.KEY_DESIGN_ID, designID).
		Logger()

	c = logger.WithContext(c)
	sheet, err := svc.FindById(c, sheetID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating design").Logger()
	logger.Trace().Msg("updating design")
	idx := designIndex(sheet, designID)
	if idx < 0 {
		err = fmt.Errorf("designId=%s with error=%w", designID, inErrors.ErrDesignNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	design := &sheet.Designs[idx]
	if param.Name != nil {
		design.Name = *param.Name
	}
	if param.X != nil {
		design.X = *param.X
	}
	if param.Y != nil {
		design.Y = *param.Y
	}
	if param.Width != nil {
		design.Width = *param.Width
	}
	if param.Height != nil {
		design.Height = *param.Height
	}
	if param.Rotation != nil {
		design.Rotation = *param.Rotation
	}
	if param.Quantity != nil {
		design.Quantity = *param.Quantity
	}
	sheet.CalculateTotalPrice()
	logger.Info().Msg("updated design")

	return svc.save(c, span, sheet)
}

// RemoveDesign removes the design with the given id. Removing an id that is
// not on the sheet is a no-op, not an error.
func (svc GangSheetService) RemoveDesign(
	c context.Context,
	sheetID uuid.UUID,
	designID string,
) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService RemoveDesign")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService RemoveDesign").
		Str(constants.KEY_SHEET_ID, sheetID.String()).
		Str(constants.KEY_DESIGN_ID, designID).
		Logger()

	c = logger.WithContext(c)
	sheet, err := svc.FindById(c, sheetID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "removing design").Logger()
	logger.Trace().Msg("removing design")
	designs := sheet.Designs[:0:0]
	for _, design := range sheet.Designs {
		if design.ID != designID {
			designs = append(designs, design)
		}
	}
	removed := len(designs) != len(sheet.Designs)
	sheet.Designs = designs
	sheet.CalculateTotalPrice()
	logger.Info().Bool("removed", removed).Msg("removed design")

	return svc.save(c, span, sheet)
}

// AutoNest repacks the sheet's designs into shelf rows. Designs that do not
// fit on the sheet are dropped from the layout; the total price is left as it
// was, quantities included dropped designs when it was last computed.
func (svc GangSheetService) AutoNest(c context.Context, sheetID uuid.UUID) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService AutoNest")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService AutoNest").
		Str(constants.KEY_SHEET_ID, sheetID.String()).
		Logger()

	c = logger.WithContext(c)
	sheet, err := svc.FindById(c, sheetID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "nesting designs").Logger()
	logger.Trace().Msg("nesting designs")
	before := len(sheet.Designs)
	sheet.Designs = nestDesigns(sheet.Designs, sheet.Width, sheet.Height)
	logger.Info().
		Int("designs", len(sheet.Designs)).
		Int("dropped", before-len(sheet.Designs)).
		Msg("nested designs")
	span.AddEvent("nested designs")

	return svc.save(c, span, sheet)
}

// UpdateStatus replaces the sheet status. Any member of the status set may
// replace any other.
func (svc GangSheetService) UpdateStatus(
	c context.Context,
	sheetID uuid.UUID,
	status model.Status,
) (*model.GangSheet, error) {
	c, span := otel.Tracer.Start(c, "GangSheetService UpdateStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "GangSheetService UpdateStatus").
		Str(constants.KEY_SHEET_ID, sheetID.String()).
		Str("status", string(status)).
		Logger()

	if !model.ValidStatus(status) {
		err := fmt.Errorf("status=%s with error=%w", status, inErrors.ErrInvalidStatus)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	c = logger.WithContext(c)
	sheet, err := svc.FindById(c, sheetID)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating status").Logger()
	logger.Trace().Msg("updating status")
	sheet.Status = status
	logger.Info().Msg("updated status")

	return svc.save(c, span, sheet)
}

func (svc GangSheetService) save(
	c context.Context,
	span trace.Span,
	sheet *model.GangSheet,
) (*model.GangSheet, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "saving sheet").
		Logger()

	logger.Trace().Msg("saving sheet")
	sheet.UpdatedAt = time.Now().UTC()
	err := svc.store.Update(c, sheet)
	if err != nil {
		err = fmt.Errorf("failed saving sheet with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("saved sheet")
	return sheet, nil
}

func renderSize(pixels int) float64 {
	size := float64(pixels) / renderScale
	if size > maxRenderUnits {
		return maxRenderUnits
	}
	return size
}

func designIndex(sheet *model.GangSheet, designID string) int {
	for i := range sheet.Designs {
		if sheet.Designs[i].ID == designID {
			return i
		}
	}
	return -1
}
