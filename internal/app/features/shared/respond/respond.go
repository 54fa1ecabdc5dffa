// internal/app/features/shared/respond/respond.go

// Package respond writes JSON responses for the feature handlers.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// BadRequest reports a client error with msg.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Status: "error", Message: msg})
}

// NotFound reports a missing resource with msg.
func NotFound(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusNotFound, errorBody{Status: "error", Message: msg})
}

// ServerError logs err and reports a generic failure. Database details are
// not sent to the client.
func ServerError(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	JSON(w, http.StatusInternalServerError, errorBody{Status: "error", Message: msg})
}
