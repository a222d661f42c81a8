package usecase

import (
	"context"
	"math"

	"github.com/flowtada/crm/internal/entity"
)

// dashboardWindow bounds the deals and interactions shown on the dashboard;
// the derived stats are computed over this retrieved window.
const dashboardWindow = 5

// PortalUseCase resolves an authenticated identity to its customer record.
// The linkage is an exact email match and is strictly read-only apart from
// the profile update.
type PortalUseCase struct {
	Customers    CustomerRepositoryInterface
	Deals        DealRepositoryInterface
	Interactions InteractionRepositoryInterface
}

func NewPortalUseCase(customers CustomerRepositoryInterface, deals DealRepositoryInterface, interactions InteractionRepositoryInterface) *PortalUseCase {
	return &PortalUseCase{
		Customers:    customers,
		Deals:        deals,
		Interactions: interactions,
	}
}

type DashboardStats struct {
	TotalDeals      int     `json:"total_deals"`
	WonDeals        int     `json:"won_deals"`
	TotalValueCents int64   `json:"total_value_cents"`
	SuccessRate     float64 `json:"success_rate"`
}

type DashboardOutput struct {
	Customer     *entity.Customer      `json:"customer"`
	Deals        []*entity.Deal        `json:"deals,omitempty"`
	Interactions []*entity.Interaction `json:"interactions,omitempty"`
	Stats        *DashboardStats       `json:"stats,omitempty"`
	Message      string                `json:"message,omitempty"`
}

// Dashboard loads the portal landing data for the given session email. An
// authenticated user without a customer record is a degenerate render state,
// not an error.
func (uc *PortalUseCase) Dashboard(ctx context.Context, email string) (*DashboardOutput, error) {
	customer, err := uc.Customers.FindByEmail(ctx, email)
	if err == entity.ErrCustomerNotFound {
		return &DashboardOutput{
			Message: "No customer record found. Please contact support.",
		}, nil
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	deals, err := uc.Deals.ListByCustomer(ctx, customer.ID, dashboardWindow)
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	interactions, err := uc.Interactions.ListByCustomer(ctx, customer.ID, dashboardWindow)
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	return &DashboardOutput{
		Customer:     customer,
		Deals:        deals,
		Interactions: interactions,
		Stats:        ComputeStats(deals),
	}, nil
}

// ComputeStats derives the dashboard figures from the retrieved deal window.
// Success rate is won/total as a percentage rounded to one decimal, defined
// as 0 when the window is empty.
func ComputeStats(deals []*entity.Deal) *DashboardStats {
	stats := &DashboardStats{TotalDeals: len(deals)}
	for _, d := range deals {
		stats.TotalValueCents += d.ValueCents
		if d.Stage == entity.DealStageClosedWon {
			stats.WonDeals++
		}
	}
	if stats.TotalDeals > 0 {
		rate := float64(stats.WonDeals) / float64(stats.TotalDeals) * 100
		stats.SuccessRate = math.Round(rate*10) / 10
	}
	return stats
}

type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
}

// UpdateProfile lets a portal user edit their own contact fields. Empty
// fields keep their current value; CRM fields are not reachable from here.
func (uc *PortalUseCase) UpdateProfile(ctx context.Context, email string, input ProfileInput) (*entity.Customer, error) {
	customer, err := uc.Customers.FindByEmail(ctx, email)
	if err == entity.ErrCustomerNotFound {
		return nil, &DomainError{Code: CodeValidationError, Message: "Customer profile not found."}
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	if input.FirstName != "" {
		customer.FirstName = input.FirstName
	}
	if input.LastName != "" {
		customer.LastName = input.LastName
	}
	if input.Phone != "" {
		customer.Phone = input.Phone
	}
	if input.Position != "" {
		customer.Position = input.Position
	}

	if err := uc.Customers.Update(ctx, customer); err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	return customer, nil
}

// CustomerDeals returns the full deal history, empty when no customer record
// is linked to the email.
func (uc *PortalUseCase) CustomerDeals(ctx context.Context, email string) ([]*entity.Deal, error) {
	customer, err := uc.Customers.FindByEmail(ctx, email)
	if err == entity.ErrCustomerNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	return uc.Deals.ListByCustomer(ctx, customer.ID, 0)
}

// CustomerInteractions returns the full interaction history.
func (uc *PortalUseCase) CustomerInteractions(ctx context.Context, email string) ([]*entity.Interaction, error) {
	customer, err := uc.Customers.FindByEmail(ctx, email)
	if err == entity.ErrCustomerNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	return uc.Interactions.ListByCustomer(ctx, customer.ID, 0)
}
