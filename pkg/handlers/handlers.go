// Package handlers provides HTTP response utilities for JSON APIs.
// These stateless functions standardize response formatting across handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
)

// Detailer is implemented by errors that carry structured fields for the
// response body in addition to the message.
type Detailer interface {
	Details() map[string]any
}

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a JSON error response.
// The body is {"error": "<message>"} merged with any Details the error
// chain exposes. Server errors log at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}

	body := map[string]any{"error": err.Error()}

	var d Detailer
	if errors.As(err, &d) {
		maps.Copy(body, d.Details())
		body["error"] = err.Error()
	}

	RespondJSON(w, status, body)
}

// RespondBytes writes a binary payload with the given content type.
func RespondBytes(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(data)
}
