package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusFor maps an application error kind to its HTTP status
func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation,
		apperrors.ErrorTypeCapacityExceeded,
		apperrors.ErrorTypeInvalidState,
		apperrors.ErrorTypeDuplicateReview:
		return http.StatusBadRequest
	case apperrors.ErrorTypeIntervalConflict, apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondWithAppError writes err using its kind. Internal details never
// reach the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Type == apperrors.ErrorTypeInternal {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		observability.RecordError(trace.SpanFromContext(r.Context()), err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if appErr.Type == apperrors.ErrorTypeUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	respondWithError(w, statusFor(appErr.Type), appErr.Message)
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// optionalFloat parses an optional numeric query parameter
func optionalFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(name + " must be a number")
	}
	return &v, nil
}
