package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so the envelope is
// the same everywhere:
//
//	success: the resource itself, e.g. {"id":1,"name":"A","email":"a@x.com"}
//	failure: {"error": "User not found"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/postboard/internal/apperror"
)

// internalErrorMessage is the only text a client ever sees for a 500.
const internalErrorMessage = "Internal server error"

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends data as JSON with the given status code.
// Headers must be set before WriteHeader; nothing after the first Write counts.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a domain error to its HTTP status.
//
//	ErrValidation, ErrConstraint → 400
//	ErrNotFound                  → 404
//	anything else                → 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConstraint):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates err into an error envelope. errors.As walks the
// fmt.Errorf("...: %w") chain the service adds, so the AppError message
// survives wrapping.
//
// Storage failures never leak their text: raw driver errors can contain SQL
// and file paths.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	var appErr *apperror.AppError
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	writeJSON(w, status, ErrorResponse{Error: appErr.Message})
}

// writeBadRequest is for failures detected before the service runs, such as
// an unreadable body.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}
