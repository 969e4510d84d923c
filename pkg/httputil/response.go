package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/0xsarwagya/thahrav-new/pkg/errors"
	"github.com/0xsarwagya/thahrav-new/pkg/logger"
)

// Response is the JSON envelope used for every outcome. On success Data is
// set; on failure Error carries a single human-readable message.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a 200 success envelope with the given payload.
func WriteData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteErrorMessage writes a failure envelope with the given status and message.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Success: false, Error: message})
}

// WriteError maps err onto the envelope. AppErrors below 500 surface their own
// message; anything else becomes a 500 carrying only internalMessage while the
// underlying detail goes to the log. Pure-validation 400s should not reach
// here at error level; they are expected outcomes and are written by the
// handler via WriteErrorMessage without logging.
func WriteError(w http.ResponseWriter, r *http.Request, err error, internalMessage string, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		WriteErrorMessage(w, appErr.Status, appErr.Message)
		return
	}

	// A bare sentinel that escaped without an AppError wrapper still maps to
	// its status, but only the sentinel text is safe to surface.
	if status := apperrors.HTTPStatus(err); status < http.StatusInternalServerError {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteErrorMessage(w, status, "Resource not found")
		case errors.Is(err, apperrors.ErrUnauthorized):
			WriteErrorMessage(w, status, "Unauthorized: No valid session found")
		default:
			WriteErrorMessage(w, status, "Invalid input")
		}
		return
	}

	// Store-level and unclassified failures: log the detail, return a generic
	// message that never exposes it.
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	WriteErrorMessage(w, http.StatusInternalServerError, internalMessage)
}
