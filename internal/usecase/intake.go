package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/flowtada/crm/internal/entity"
)

// IntakeUseCase turns anonymous web submissions into canonical, deduplicated
// customer records. Both entry points are idempotent with respect to email:
// the first submission creates the customer, every later one resolves to the
// existing row without touching it.
type IntakeUseCase struct {
	Customers   CustomerRepositoryInterface
	Companies   CompanyRepositoryInterface
	Credentials CredentialIssuer
	Notifier    Notifier
	Logger      *zap.Logger
}

func NewIntakeUseCase(
	customers CustomerRepositoryInterface,
	companies CompanyRepositoryInterface,
	credentials CredentialIssuer,
	notifier Notifier,
	logger *zap.Logger,
) *IntakeUseCase {
	return &IntakeUseCase{
		Customers:   customers,
		Companies:   companies,
		Credentials: credentials,
		Notifier:    notifier,
		Logger:      logger,
	}
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Company string `json:"company"`
}

type TrialInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
}

type IntakeOutput struct {
	Message  string
	Redirect string
	Created  bool
}

// SplitName splits a full name on the first space: everything before it is
// the first name, the remainder (possibly empty) the last name.
func SplitName(full string) (first, last string) {
	first, last, _ = strings.Cut(full, " ")
	return first, last
}

// SubmitContact handles a public contact form submission.
func (uc *IntakeUseCase) SubmitContact(ctx context.Context, input ContactInput) (*IntakeOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)
	companyName := strings.TrimSpace(input.Company)

	if name == "" || email == "" || message == "" {
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: "Name, email, and message are required.",
		}
	}

	firstName, lastName := SplitName(name)

	customer, created, err := uc.upsertCustomer(ctx, firstName, lastName, email, companyName, entity.LeadSourceContactForm)
	if err != nil {
		return nil, err
	}

	if created {
		uc.Logger.Info("contact lead captured",
			zap.String("customer_id", customer.ID),
			zap.String("source", entity.LeadSourceContactForm))
		uc.notifyLeadCaptured(ctx, customer, companyName, entity.LeadSourceContactForm, message)
	}

	return &IntakeOutput{
		Message: "Thank you for your interest! Our team will contact you soon.",
		Created: created,
	}, nil
}

// SignupTrial handles a free trial signup. A portal credential is issued only
// when this call created the customer; an existing customer keeps whatever
// access state it already has.
func (uc *IntakeUseCase) SignupTrial(ctx context.Context, input TrialInput) (*IntakeOutput, error) {
	email := strings.TrimSpace(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	companyName := strings.TrimSpace(input.Company)

	if email == "" || firstName == "" {
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: "Email and first name are required.",
		}
	}

	customer, created, err := uc.upsertCustomer(ctx, firstName, lastName, email, companyName, entity.LeadSourceTrialSignup)
	if err != nil {
		return nil, err
	}

	if created {
		uc.Logger.Info("trial lead captured",
			zap.String("customer_id", customer.ID),
			zap.String("source", entity.LeadSourceTrialSignup))

		if err := uc.Credentials.Issue(ctx, email, firstName, lastName); err != nil {
			return nil, &TechnicalError{
				Code:    CodeInternalError,
				Message: "failed to issue trial credential: " + err.Error(),
			}
		}
		uc.notifyLeadCaptured(ctx, customer, companyName, entity.LeadSourceTrialSignup, "")
	}

	return &IntakeOutput{
		Message:  "Trial account created! Check your email for login details.",
		Redirect: "/portal/login/",
		Created:  created,
	}, nil
}

// upsertCustomer runs the shared company-then-customer resolution. The two
// steps are not one transaction: a fault after company creation leaves an
// orphaned company row, which is clutter, not corruption.
func (uc *IntakeUseCase) upsertCustomer(ctx context.Context, firstName, lastName, email, companyName, source string) (*entity.Customer, bool, error) {
	var companyID *string
	if companyName != "" {
		company, err := entity.NewCompany(companyName)
		if err != nil {
			return nil, false, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
		}
		company.Industry = entity.IndustryUnknown

		resolved, _, err := uc.Companies.GetOrCreate(ctx, company)
		if err != nil {
			return nil, false, &TechnicalError{
				Code:    CodeInternalError,
				Message: "company resolution failed: " + err.Error(),
			}
		}
		companyID = &resolved.ID
	}

	customer, err := entity.NewCustomer(firstName, lastName, email)
	if err != nil {
		return nil, false, &DomainError{Code: CodeValidationError, Message: err.Error()}
	}
	customer.CompanyID = companyID
	customer.LeadSource = source

	resolved, created, err := uc.Customers.GetOrCreate(ctx, customer)
	if err != nil {
		return nil, false, &TechnicalError{
			Code:    CodeInternalError,
			Message: "customer resolution failed: " + err.Error(),
		}
	}
	return resolved, created, nil
}

func (uc *IntakeUseCase) notifyLeadCaptured(ctx context.Context, c *entity.Customer, company, source, message string) {
	if uc.Notifier == nil {
		return
	}
	err := uc.Notifier.PublishLeadCaptured(ctx, LeadCapturedNotification{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Company:   company,
		Source:    source,
		Message:   message,
	})
	if err != nil {
		// Notification is best effort; the lead is already persisted.
		uc.Logger.Warn("lead notification publish failed", zap.Error(err))
	}
}
