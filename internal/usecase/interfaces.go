package usecase

import (
	"context"

	"github.com/flowtada/crm/internal/entity"
)

type CustomerRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	GetOrCreate(ctx context.Context, c *entity.Customer) (*entity.Customer, bool, error)
	Update(ctx context.Context, c *entity.Customer) error
}

type CompanyRepositoryInterface interface {
	GetOrCreate(ctx context.Context, c *entity.Company) (*entity.Company, bool, error)
}

type UserRepositoryInterface interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	GetOrCreate(ctx context.Context, u *entity.User) (*entity.User, bool, error)
	RotatePassword(ctx context.Context, userID, passwordHash string) error
	SetPassword(ctx context.Context, userID, passwordHash string) error
}

type DealRepositoryInterface interface {
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Deal, error)
}

type InteractionRepositoryInterface interface {
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Interaction, error)
}

// CredentialIssuer provisions portal access for a freshly captured trial
// lead: an account plus a deliverable one-time credential.
type CredentialIssuer interface {
	Issue(ctx context.Context, email, firstName, lastName string) error
}

// TokenStore holds one-time login tokens with an expiry. Get returns ""
// when no token is outstanding; Revoke must be safe to call for tokens that
// were never stored.
type TokenStore interface {
	Save(ctx context.Context, email, token string) error
	Get(ctx context.Context, email string) (string, error)
	Revoke(ctx context.Context, email string) error
}

// Notifier publishes intake events for out-of-band delivery (sales alerts,
// credential emails). Dispatch happens in the queue worker, never inline.
type Notifier interface {
	PublishLeadCaptured(ctx context.Context, n LeadCapturedNotification) error
	PublishCredentialIssued(ctx context.Context, n CredentialIssuedNotification) error
}

type LeadCapturedNotification struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Source    string `json:"source"`
	Message   string `json:"message,omitempty"`
}

type CredentialIssuedNotification struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Token     string `json:"token"`
	LoginURL  string `json:"login_url"`
}
