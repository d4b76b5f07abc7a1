package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/presmtech/storefront/gangsheet/internal/controller"
	sheetOtel "github.com/presmtech/storefront/gangsheet/internal/otel"
	"github.com/presmtech/storefront/gangsheet/internal/service"
	"github.com/presmtech/storefront/gangsheet/pkg/store"
	"github.com/presmtech/storefront/internal/config"
	"github.com/presmtech/storefront/internal/constants"
	"github.com/presmtech/storefront/internal/infra"
	"github.com/presmtech/storefront/internal/otel"
)

// RunGangSheetService wires the layout engine on postgres.
func RunGangSheetService(c context.Context) {
	c, span := sheetOtel.Tracer.Start(c, "RunGangSheetService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_GANGSHEET_SERVICE).
		Str(constants.KEY_TAG, "main RunGangSheetService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_GANGSHEET_SERVICE)
	logger = logger.With().Any(constants.KEY_CONFIG, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_GANGSHEET_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing gang sheet service").Logger()
	logger.Info().Msg("initializing gang sheet service")
	sheetService := service.NewGangSheetService(store.NewPostgresStore(db))
	logger.Info().Msg("initialized gang sheet service")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing gang sheet controller").Logger()
	logger.Info().Msg("initializing gang sheet controller")
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	controller.AttachGangSheetController(router, &sheetService)
	logger.Info().Msg("initialized gang sheet controller")

	runHttpServer(c, logger, cfg.Application, router)
}

func runHttpServer(
	c context.Context,
	logger zerolog.Logger,
	appConfig config.Application,
	handler http.Handler,
) {
	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", appConfig.Host, appConfig.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "starting server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(constants.KEY_PROCESS, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
