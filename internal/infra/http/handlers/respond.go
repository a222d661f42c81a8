package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flowtada/crm/internal/usecase"
)

// Response is the envelope shared by every JSON endpoint.
type Response struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Data     any    `json:"data,omitempty"`
}

const genericErrorMessage = "An error occurred. Please try again."

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps a use case failure onto the wire. Validation problems keep
// their message; anything else degrades to a generic 500 body so internal
// detail never leaks.
func writeError(w http.ResponseWriter, err error) {
	if usecase.IsDomainError(err) {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
}
