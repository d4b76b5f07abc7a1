package errors

import (
	"errors"
	"net/http"
)

var (
	ErrEmptyAuth    = errors.New("missing authorization")
	ErrTokenInvalid = errors.New("invalid token")

	ErrCartNotFound    = errors.New("cart not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")

	ErrSheetNotFound  = errors.New("gang sheet not found")
	ErrDesignNotFound = errors.New("design not found")
	ErrInvalidImage   = errors.New("invalid image payload")
	ErrInvalidStatus  = errors.New("invalid gang sheet status")

	ErrVersionConflict = errors.New("version conflict")
)

// HttpStatusCode maps the error taxonomy to response codes: missing
// references map to 404, rejected input to 400, lost optimistic saves to 409
// and anything unrecognized to 500.
func HttpStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrLineNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrVariantNotFound),
		errors.Is(err, ErrSheetNotFound),
		errors.Is(err, ErrDesignNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidImage), errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyAuth), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
