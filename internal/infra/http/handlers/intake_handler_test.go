package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/flowtada/crm/internal/entity"
	"github.com/flowtada/crm/internal/infra/http/handlers"
	"github.com/flowtada/crm/internal/usecase"
)

// In-memory fakes; the handler tests exercise wire behavior, the usecase
// tests cover the protocol itself.

type fakeCustomerRepo struct {
	byEmail map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byEmail: make(map[string]*entity.Customer)}
}

func (f *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, entity.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) GetOrCreate(ctx context.Context, c *entity.Customer) (*entity.Customer, bool, error) {
	if existing, ok := f.byEmail[c.Email]; ok {
		return existing, false, nil
	}
	f.byEmail[c.Email] = c
	return c, true, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	f.byEmail[c.Email] = c
	return nil
}

type fakeCompanyRepo struct {
	byName map[string]*entity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{byName: make(map[string]*entity.Company)}
}

func (f *fakeCompanyRepo) GetOrCreate(ctx context.Context, c *entity.Company) (*entity.Company, bool, error) {
	if existing, ok := f.byName[c.Name]; ok {
		return existing, false, nil
	}
	f.byName[c.Name] = c
	return c, true, nil
}

type fakeIssuer struct {
	issued []string
}

func (f *fakeIssuer) Issue(ctx context.Context, email, firstName, lastName string) error {
	f.issued = append(f.issued, email)
	return nil
}

func newIntakeHandler() (*handlers.IntakeHandler, *fakeCustomerRepo, *fakeCompanyRepo, *fakeIssuer) {
	customers := newFakeCustomerRepo()
	companies := newFakeCompanyRepo()
	issuer := &fakeIssuer{}
	uc := usecase.NewIntakeUseCase(customers, companies, issuer, nil, zap.NewNop())
	return handlers.NewIntakeHandler(uc), customers, companies, issuer
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) handlers.Response {
	t.Helper()
	var resp handlers.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestContactSuccess(t *testing.T) {
	h, customers, _, _ := newIntakeHandler()

	rec := postJSON(t, h.Contact, "/api/contact/", map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@acme.com",
		"message": "Tell me more",
		"company": "Acme",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Thank you for your interest! Our team will contact you soon.", resp.Message)

	created := customers.byEmail["jane@acme.com"]
	assert.NotNil(t, created)
	assert.Equal(t, "Jane", created.FirstName)
	assert.Equal(t, "Doe", created.LastName)
	assert.Equal(t, entity.LeadSourceContactForm, created.LeadSource)
}

func TestContactMalformedBody(t *testing.T) {
	h, customers, _, _ := newIntakeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/contact/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Contact(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Invalid data format.", resp.Message)
	assert.Empty(t, customers.byEmail)
}

func TestContactMissingFields(t *testing.T) {
	h, customers, _, _ := newIntakeHandler()

	rec := postJSON(t, h.Contact, "/api/contact/", map[string]string{
		"name":  "Jane Doe",
		"email": "jane@acme.com",
		// message missing
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Name, email, and message are required.", resp.Message)
	assert.Empty(t, customers.byEmail)
}

func TestTrialSignupSuccess(t *testing.T) {
	h, _, _, issuer := newIntakeHandler()

	rec := postJSON(t, h.TrialSignup, "/api/trial-signup/", map[string]string{
		"email":      "new@acme.com",
		"first_name": "Jane",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "/portal/login/", resp.Redirect)
	assert.Equal(t, []string{"new@acme.com"}, issuer.issued)
}

func TestTrialSignupIdempotent(t *testing.T) {
	h, customers, _, issuer := newIntakeHandler()

	first := postJSON(t, h.TrialSignup, "/api/trial-signup/", map[string]string{
		"email":      "dup@acme.com",
		"first_name": "Jane",
		"last_name":  "Doe",
		"company":    "Acme",
	})
	assert.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, h.TrialSignup, "/api/trial-signup/", map[string]string{
		"email":      "dup@acme.com",
		"first_name": "Janet",
		"last_name":  "Replaced",
		"company":    "Other Corp",
	})
	assert.Equal(t, http.StatusOK, second.Code)

	// Exactly one customer row; the second call changed nothing.
	assert.Len(t, customers.byEmail, 1)
	c := customers.byEmail["dup@acme.com"]
	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "Doe", c.LastName)
	assert.Equal(t, entity.LeadSourceTrialSignup, c.LeadSource)

	// Credential issued only for the first (creating) call.
	assert.Equal(t, []string{"dup@acme.com"}, issuer.issued)
}

func TestCompanyReuseAcrossIntakes(t *testing.T) {
	h, customers, companies, _ := newIntakeHandler()

	postJSON(t, h.Contact, "/api/contact/", map[string]string{
		"name": "A One", "email": "a@x.com", "message": "hi", "company": "Acme",
	})
	postJSON(t, h.Contact, "/api/contact/", map[string]string{
		"name": "B Two", "email": "b@x.com", "message": "hi", "company": "Acme",
	})

	assert.Len(t, companies.byName, 1)
	a := customers.byEmail["a@x.com"]
	b := customers.byEmail["b@x.com"]
	assert.NotNil(t, a.CompanyID)
	assert.NotNil(t, b.CompanyID)
	assert.Equal(t, *a.CompanyID, *b.CompanyID)
}

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			got := make(map[string]string)
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestIntakeCountersRecordedOnlyOnCreate(t *testing.T) {
	h, _, _, _ := newIntakeHandler()

	trialLabel := map[string]string{"source": entity.LeadSourceTrialSignup}
	leadsBefore := counterValue(t, "leads_captured_total", trialLabel)
	credsBefore := counterValue(t, "credentials_issued_total", nil)

	body := map[string]string{"email": "metrics@acme.com", "first_name": "Jane"}

	first := postJSON(t, h.TrialSignup, "/api/trial-signup/", body)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, leadsBefore+1, counterValue(t, "leads_captured_total", trialLabel))
	assert.Equal(t, credsBefore+1, counterValue(t, "credentials_issued_total", nil))

	// The replay resolves to the existing customer: same wire response, no
	// extra lead or credential counted.
	second := postJSON(t, h.TrialSignup, "/api/trial-signup/", body)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, leadsBefore+1, counterValue(t, "leads_captured_total", trialLabel))
	assert.Equal(t, credsBefore+1, counterValue(t, "credentials_issued_total", nil))
}

func TestTrialSignupValidation(t *testing.T) {
	h, customers, _, issuer := newIntakeHandler()

	rec := postJSON(t, h.TrialSignup, "/api/trial-signup/", map[string]string{
		"last_name": "Doe",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "Email and first name are required.", resp.Message)
	assert.Empty(t, customers.byEmail)
	assert.Empty(t, issuer.issued)
}
