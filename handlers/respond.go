package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sudip-bhr/Task-Management-System-backend/errs"
	"github.com/sudip-bhr/Task-Management-System-backend/logging"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError converts a service error to a client response. Internal errors
// are logged in full but answered with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("request failed: %v", err)
		message = "Server error"
	}
	writeJSON(w, status, errorResponse{Message: message})
}
