package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err onto a status code and writes it.
// Nothing is written once the client has gone away.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())

	if errors.Is(err, context.Canceled) {
		logger.Debug().Err(err).Msg("request canceled by client")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		respondWithError(w, http.StatusGatewayTimeout, clientMessage(err))
		return
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error().Err(err).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}

	status := statusFor(appErr.Type)
	if status >= http.StatusInternalServerError {
		event := logger.Error().Err(err).Str("error_type", string(appErr.Type))
		if len(appErr.Stack) > 0 {
			event = event.Str("stack", string(appErr.Stack))
		}
		event.Msg("request failed")
	}
	respondWithError(w, status, clientMessage(appErr))
}

// clientMessage is the part of err safe to show a client. Causes stay in the logs.
func clientMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

func statusFor(errType apperrors.ErrorType) int {
	switch errType {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeParse:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict, apperrors.ErrorTypeWrite:
		return http.StatusConflict
	case apperrors.ErrorTypeFetch, apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
