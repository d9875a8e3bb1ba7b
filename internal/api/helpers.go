package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/matrixio/internal/convert"
	"github.com/samcharles93/matrixio/pkg/edf"
	"github.com/samcharles93/matrixio/pkg/matrix"
)

func writeBadRequest(c *echo.Context, msg, param string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, param)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, param string) error {
	return c.JSON(status, ErrorResponse{Error: ResponseError{
		Message: msg,
		Type:    errType,
		Param:   param,
	}})
}

// writeCodecError maps dispatcher and codec failures onto HTTP statuses.
func writeCodecError(c *echo.Context, err error, param string) error {
	switch {
	case errors.Is(err, convert.ErrUnknownFormat), errors.Is(err, convert.ErrUnsupported):
		return writeError(c, http.StatusUnsupportedMediaType, "unsupported_format_error", err.Error(), param)
	case errors.Is(err, errBodyTooLarge):
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", err.Error(), param)
	case errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error(), param)
	case errors.Is(err, matrix.ErrTruncated),
		errors.Is(err, matrix.ErrCorruptHeader),
		errors.Is(err, matrix.ErrUnsupportedLayout),
		errors.Is(err, edf.ErrMissingProperty),
		errors.Is(err, edf.ErrMalformed),
		errors.Is(err, edf.ErrNoData),
		errors.Is(err, edf.ErrNoProperties):
		return writeError(c, http.StatusBadRequest, "invalid_matrix_error", err.Error(), "")
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
}
