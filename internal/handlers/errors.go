package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/middleware"
	"volunteerHub/internal/service"
)

const (
	codeInternal             = "INTERNAL"
	codeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	codeUnavailable          = "UNAVAILABLE"
)

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeValidation, service.CodeConflict:
		return http.StatusBadRequest
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// RespondError writes a BusinessError with its mapped status. Anything else is
// logged and reported as a bare 500.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	requestId := middleware.GetRequestID(r.Context())

	if busErr, ok := service.AsBusinessError(err); ok {
		statusCode := mapBusinessErrorToHTTP(busErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("request_id", requestId),
			zap.String("error_code", busErr.Code),
			zap.String("message", busErr.Message),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", busErr.Code),
			toPayload("message", busErr.Message),
			toPayload("details", busErr.Details),
		)
		return
	}

	logger.Error("HTTP: internal error", err,
		zap.String("request_id", requestId),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))

	responseWithError(w, http.StatusInternalServerError, codeInternal, "internal server error")
}
