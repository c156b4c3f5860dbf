package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/game-store-service/internal/http/middleware"
	"github.com/preston-bernstein/game-store-service/internal/http/requestutil"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/validation"
)

const msgInternal = "internal server error"

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string                 `json:"error"`
	RequestID string                 `json:"requestId,omitempty"`
	Errors    validation.FieldErrors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, errorBody{Error: message, RequestID: requestID(r)}, logger)
}

func writeValidation(w http.ResponseWriter, r *http.Request, fields validation.FieldErrors, logger *slog.Logger) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error:     "validation failed",
		RequestID: requestID(r),
		Errors:    fields,
	}, logger)
}

// writeInternal logs err against the request and answers 500 without leaking it.
func writeInternal(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	logging.Error(loggerFromContext(r, logger), "request failed", err)
	writeError(w, r, http.StatusInternalServerError, msgInternal, logger)
}

func requestID(r *http.Request) string {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	return reqID
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// decodeAndValidate reads a JSON body into dest and runs its validation tags.
// It writes the 400 itself and reports false when the request must stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validation.Validator, dest any, logger *slog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return false
	}
	if err := v.Struct(dest); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			writeValidation(w, r, fields, logger)
			return false
		}
		writeInternal(w, r, err, logger)
		return false
	}
	return true
}
