package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrCustomerNotFound = errors.New("customer not found")
var ErrEmailAlreadyExists = errors.New("a customer with this email already exists")

// Lead status pipeline: new -> contacted -> qualified -> proposal -> {won|lost}.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusProposal  = "proposal"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

// Lead source tags written by the public intake endpoints.
const (
	LeadSourceContactForm = "Website Contact Form"
	LeadSourceTrialSignup = "Free Trial Signup"
)

// Customer is a contact record. Email is the natural key: it carries the only
// uniqueness constraint used for deduplication across every intake path.
type Customer struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
	Position  string  `json:"position,omitempty"`

	LeadStatus string  `json:"lead_status"`
	LeadSource string  `json:"lead_source,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`

	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
}

func NewCustomer(firstName, lastName, email string) (*Customer, error) {
	now := time.Now()
	c := &Customer{
		ID:         uuid.New().String(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		LeadStatus: LeadStatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Customer) Validate() error {
	if c.FirstName == "" {
		return errors.New("first name is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	if !ValidLeadStatus(c.LeadStatus) {
		return errors.New("invalid lead status")
	}
	return nil
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func ValidLeadStatus(status string) bool {
	switch status {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposal, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}
