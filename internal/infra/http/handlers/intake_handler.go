package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/flowtada/crm/internal/entity"
	"github.com/flowtada/crm/internal/infra/http/middleware"
	"github.com/flowtada/crm/internal/usecase"
)

// IntakeHandler fronts the two public lead-capture endpoints. Both are
// CSRF-exempt JSON endpoints reachable without a session, so they sit behind
// the per-IP rate limiter.
type IntakeHandler struct {
	Intake      *usecase.IntakeUseCase
	rateLimiter *RateLimiter
}

func NewIntakeHandler(intake *usecase.IntakeUseCase) *IntakeHandler {
	return &IntakeHandler{
		Intake:      intake,
		rateLimiter: NewRateLimiter(10, time.Minute),
	}
}

// Contact handles POST /api/contact/.
func (h *IntakeHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var input usecase.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}

	output, err := h.Intake.SubmitContact(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	if output.Created {
		middleware.RecordLeadCaptured(entity.LeadSourceContactForm)
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Message: output.Message})
}

// TrialSignup handles POST /api/trial-signup/.
func (h *IntakeHandler) TrialSignup(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var input usecase.TrialInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}

	output, err := h.Intake.SignupTrial(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	// A replayed signup resolves to the existing customer and issues nothing.
	if output.Created {
		middleware.RecordLeadCaptured(entity.LeadSourceTrialSignup)
		middleware.RecordCredentialIssued()
	}
	writeJSON(w, http.StatusOK, Response{
		Status:   "success",
		Message:  output.Message,
		Redirect: output.Redirect,
	})
}

func (h *IntakeHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.rateLimiter.Allow(getClientIP(r)) {
		return true
	}
	writeJSON(w, http.StatusTooManyRequests, Response{
		Status:  "error",
		Message: "Too many requests. Please try again later.",
	})
	return false
}
