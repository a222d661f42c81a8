package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowtada/crm/internal/entity"
	"github.com/flowtada/crm/internal/infra/database"
)

// AdminHandler is the management surface: plain CRUD over the entity store.
// It is the only path that mutates or deletes records after intake; edits
// are direct field replacement, there is no versioning or audit trail.
// Referential cleanup (cascade deals/interactions, detach companies) happens
// in the database schema, not here.
type AdminHandler struct {
	Customers    *database.CustomerRepository
	Companies    *database.CompanyRepository
	Deals        *database.DealRepository
	Interactions *database.InteractionRepository
}

func NewAdminHandler(
	customers *database.CustomerRepository,
	companies *database.CompanyRepository,
	deals *database.DealRepository,
	interactions *database.InteractionRepository,
) *AdminHandler {
	return &AdminHandler{
		Customers:    customers,
		Companies:    companies,
		Deals:        deals,
		Interactions: interactions,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/customers", h.ListCustomers)
	r.Get("/customers/{id}", h.GetCustomer)
	r.Put("/customers/{id}", h.UpdateCustomer)
	r.Delete("/customers/{id}", h.DeleteCustomer)
	r.Get("/customers/{id}/deals", h.ListDeals)
	r.Get("/customers/{id}/interactions", h.ListInteractions)

	r.Get("/companies", h.ListCompanies)
	r.Post("/companies", h.CreateCompany)
	r.Get("/companies/{id}", h.GetCompany)
	r.Put("/companies/{id}", h.UpdateCompany)
	r.Delete("/companies/{id}", h.DeleteCompany)

	r.Post("/deals", h.CreateDeal)
	r.Put("/deals/{id}", h.UpdateDeal)
	r.Delete("/deals/{id}", h.DeleteDeal)

	r.Post("/interactions", h.CreateInteraction)
	r.Delete("/interactions/{id}", h.DeleteInteraction)

	return r
}

func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: customers})
}

func (h *AdminHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Customers.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, entity.ErrCustomerNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Status: "error", Message: "Customer not found."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: customer})
}

type updateCustomerRequest struct {
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone"`
	CompanyID     *string    `json:"company_id"`
	Position      string     `json:"position"`
	LeadStatus    string     `json:"lead_status"`
	LeadSource    string     `json:"lead_source"`
	AssignedTo    *string    `json:"assigned_to"`
	LastContacted *time.Time `json:"last_contacted"`
}

func (h *AdminHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}

	customer, err := h.Customers.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, entity.ErrCustomerNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Status: "error", Message: "Customer not found."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}

	if req.LeadStatus != "" && !entity.ValidLeadStatus(req.LeadStatus) {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid lead status."})
		return
	}

	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Position != "" {
		customer.Position = req.Position
	}
	if req.LeadStatus != "" {
		customer.LeadStatus = req.LeadStatus
	}
	if req.LeadSource != "" {
		customer.LeadSource = req.LeadSource
	}
	if req.CompanyID != nil {
		customer.CompanyID = req.CompanyID
	}
	if req.AssignedTo != nil {
		customer.AssignedTo = req.AssignedTo
	}
	if req.LastContacted != nil {
		customer.LastContacted = req.LastContacted
	}

	if err := h.Customers.Update(r.Context(), customer); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: customer})
}

func (h *AdminHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success"})
}

func (h *AdminHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.Deals.ListByCustomer(r.Context(), chi.URLParam(r, "id"), 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: deals})
}

func (h *AdminHandler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := h.Interactions.ListByCustomer(r.Context(), chi.URLParam(r, "id"), 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: interactions})
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Companies.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: companies})
}

type companyRequest struct {
	Name     string `json:"name"`
	Website  string `json:"website"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
}

// CreateCompany resolves by name the same way intake does: posting an
// existing name returns that row rather than a duplicate.
func (h *AdminHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}
	if !entity.ValidCompanySize(req.Size) {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid company size."})
		return
	}

	company, err := entity.NewCompany(req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
		return
	}
	company.Website = req.Website
	company.Industry = req.Industry
	company.Size = req.Size

	resolved, created, err := h.Companies.GetOrCreate(r.Context(), company)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, Response{Status: "success", Data: resolved})
}

func (h *AdminHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Companies.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, entity.ErrCompanyNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Status: "error", Message: "Company not found."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: company})
}

func (h *AdminHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}
	if !entity.ValidCompanySize(req.Size) {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid company size."})
		return
	}

	company, err := h.Companies.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, entity.ErrCompanyNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Status: "error", Message: "Company not found."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Website != "" {
		company.Website = req.Website
	}
	if req.Industry != "" {
		company.Industry = req.Industry
	}
	if req.Size != "" {
		company.Size = req.Size
	}

	if err := h.Companies.Update(r.Context(), company); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: company})
}

func (h *AdminHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.Companies.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success"})
}

type createDealRequest struct {
	CustomerID        string  `json:"customer_id"`
	Title             string  `json:"title"`
	ValueCents        int64   `json:"value_cents"`
	Stage             string  `json:"stage"`
	Probability       *int    `json:"probability"`
	ExpectedCloseDate string  `json:"expected_close_date"`
	AssignedTo        *string `json:"assigned_to"`
}

func (h *AdminHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req createDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}

	closeDate, err := time.Parse("2006-01-02", req.ExpectedCloseDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "expected_close_date must be YYYY-MM-DD."})
		return
	}

	deal, err := entity.NewDeal(req.CustomerID, req.Title, req.ValueCents, closeDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
		return
	}
	if req.Stage != "" {
		deal.Stage = req.Stage
	}
	if req.Probability != nil {
		deal.Probability = *req.Probability
	}
	deal.AssignedTo = req.AssignedTo

	if err := deal.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
		return
	}

	if err := h.Deals.Create(r.Context(), deal); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusCreated, Response{Status: "success", Data: deal})
}

type updateDealRequest struct {
	Title             string  `json:"title"`
	ValueCents        *int64  `json:"value_cents"`
	Stage             string  `json:"stage"`
	Probability       *int    `json:"probability"`
	ExpectedCloseDate string  `json:"expected_close_date"`
	AssignedTo        *string `json:"assigned_to"`
}

func (h *AdminHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	var req updateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}

	deal, err := h.Deals.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, entity.ErrDealNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Status: "error", Message: "Deal not found."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}

	if req.Title != "" {
		deal.Title = req.Title
	}
	if req.ValueCents != nil {
		deal.ValueCents = *req.ValueCents
	}
	if req.Stage != "" {
		deal.Stage = req.Stage
	}
	if req.Probability != nil {
		deal.Probability = *req.Probability
	}
	if req.ExpectedCloseDate != "" {
		closeDate, err := time.Parse("2006-01-02", req.ExpectedCloseDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "expected_close_date must be YYYY-MM-DD."})
			return
		}
		deal.ExpectedCloseDate = closeDate
	}
	if req.AssignedTo != nil {
		deal.AssignedTo = req.AssignedTo
	}

	if err := deal.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
		return
	}

	if err := h.Deals.Update(r.Context(), deal); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Data: deal})
}

func (h *AdminHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := h.Deals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success"})
}

type createInteractionRequest struct {
	CustomerID string `json:"customer_id"`
	Type       string `json:"type"`
	Subject    string `json:"subject"`
	Notes      string `json:"notes"`
	UserID     string `json:"user_id"`
}

func (h *AdminHandler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	var req createInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
		return
	}

	interaction, err := entity.NewInteraction(req.CustomerID, req.Type, req.Subject, req.Notes, req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
		return
	}

	if err := h.Interactions.Create(r.Context(), interaction); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusCreated, Response{Status: "success", Data: interaction})
}

func (h *AdminHandler) DeleteInteraction(w http.ResponseWriter, r *http.Request) {
	if err := h.Interactions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success"})
}
