package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flowtada/crm/internal/infra/http/middleware"
	"github.com/flowtada/crm/internal/usecase"
)

// PortalHandler serves the authenticated self-service area. Every route here
// sits behind RequireSession; the session email is the sole identity input.
type PortalHandler struct {
	Portal *usecase.PortalUseCase
}

func NewPortalHandler(portal *usecase.PortalUseCase) *PortalHandler {
	return &PortalHandler{Portal: portal}
}

// Dashboard handles GET /portal/dashboard/.
func (h *PortalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	email := middleware.SessionEmail(r.Context())

	output, err := h.Portal.Dashboard(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: "success", Message: output.Message, Data: output})
}

// Profile handles GET and POST /portal/profile/.
func (h *PortalHandler) Profile(w http.ResponseWriter, r *http.Request) {
	email := middleware.SessionEmail(r.Context())

	if r.Method == http.MethodGet {
		output, err := h.Portal.Dashboard(r.Context(), email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Status: "success", Data: output.Customer})
		return
	}

	var input usecase.ProfileInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
			return
		}
		input = usecase.ProfileInput{
			FirstName: r.PostFormValue("first_name"),
			LastName:  r.PostFormValue("last_name"),
			Phone:     r.PostFormValue("phone"),
			Position:  r.PostFormValue("position"),
		}
	}

	customer, err := h.Portal.UpdateProfile(r.Context(), email, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: "success", Message: "Profile updated successfully!", Data: customer})
}

// Deals handles GET /portal/deals/.
func (h *PortalHandler) Deals(w http.ResponseWriter, r *http.Request) {
	email := middleware.SessionEmail(r.Context())

	deals, err := h.Portal.CustomerDeals(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: "success", Data: deals})
}

// Interactions handles GET /portal/interactions/.
func (h *PortalHandler) Interactions(w http.ResponseWriter, r *http.Request) {
	email := middleware.SessionEmail(r.Context())

	interactions, err := h.Portal.CustomerInteractions(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: "success", Data: interactions})
}
