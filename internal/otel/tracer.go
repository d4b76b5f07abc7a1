package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/presmtech/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_MAIN_STOREFRONT)
