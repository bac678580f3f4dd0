package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"brewcart/internal/model"

	"github.com/rs/zerolog"
)

// ownerKeyHeader carries the shopper's identity. The gateway issues it;
// the API treats it as opaque.
const ownerKeyHeader = "X-Owner-Key"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error to an HTTP response. Domain
// errors carry their own code and message; anything else is an opaque
// internal error.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeLineNotFound, model.ErrCodeOrderNotFound, model.ErrCodeCouponNotFound:
		status = http.StatusNotFound
	case model.ErrCodeCartConflict:
		status = http.StatusConflict
	case model.ErrCodeInternalError, model.ErrCodeCouponInvalidKind:
		status = http.StatusInternalServerError
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}

// ownerKey extracts the shopper's owner key, writing a 400 when absent.
func ownerKey(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (string, bool) {
	key := r.Header.Get(ownerKeyHeader)
	if key == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "X-Owner-Key header is required", logger)
		return "", false
	}
	return key, true
}
