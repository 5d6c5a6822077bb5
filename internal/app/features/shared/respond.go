// internal/app/features/shared/respond.go

// Package shared holds the JSON request/response helpers common to all
// API features: encoding, body decoding, and the mapping from store
// errors to HTTP status codes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/colloquy/internal/app/system/apperr"
	"go.uber.org/zap"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error string `json:"error"`
}

// Error maps a store error to an HTTP response. Application errors
// (NotFound, InvalidArgument, AlreadyExists, Conflict) surface their
// message and a matching status; anything else is logged and hidden
// behind a generic 500.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case apperr.IsNotFound(err):
		JSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case apperr.IsInvalidArgument(err):
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case apperr.IsAlreadyExists(err), apperr.IsConflict(err):
		JSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// DecodeJSON decodes the request body into dst, rejecting unknown
// fields so typos in request payloads fail loudly.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
