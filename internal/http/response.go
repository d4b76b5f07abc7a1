package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/presmtech/storefront/internal/otel"
)

const (
	HeaderContentType = "Content-Type"
	HeaderValueJson   = "application/json"

	KEY_HEADER_REQUEST_ID = "X-Request-Id"
	KEY_HEADER_SESSION_ID = "X-Session-Id"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c)

	w.Header().Add(HeaderContentType, HeaderValueJson)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"]; ok {
		if statusCode, ok := v.(int); ok {
			w.WriteHeader(statusCode)
		}
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		logger.Error().
			Err(err).
			Msgf("failed encode response body with error=%s", err.Error())
		return
	}
}
