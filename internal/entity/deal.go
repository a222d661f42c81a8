package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrDealNotFound = errors.New("deal not found")

// Deal stages: prospecting -> qualification -> proposal -> negotiation -> {closed_won|closed_lost}.
const (
	DealStageProspecting   = "prospecting"
	DealStageQualification = "qualification"
	DealStageProposal      = "proposal"
	DealStageNegotiation   = "negotiation"
	DealStageClosedWon     = "closed_won"
	DealStageClosedLost    = "closed_lost"
)

// Deal is a sales opportunity tied to one customer. Value is held in cents so
// two-decimal money never touches floating point. Probability is advisory
// only and is not reconciled against the stage.
type Deal struct {
	ID                string    `json:"id"`
	CustomerID        string    `json:"customer_id"`
	Title             string    `json:"title"`
	ValueCents        int64     `json:"value_cents"`
	Stage             string    `json:"stage"`
	Probability       int       `json:"probability"`
	ExpectedCloseDate time.Time `json:"expected_close_date"`
	AssignedTo        *string   `json:"assigned_to,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewDeal(customerID, title string, valueCents int64, expectedClose time.Time) (*Deal, error) {
	if customerID == "" {
		return nil, errors.New("customer_id is required")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if valueCents < 0 {
		return nil, errors.New("value must not be negative")
	}
	now := time.Now()
	return &Deal{
		ID:                uuid.New().String(),
		CustomerID:        customerID,
		Title:             title,
		ValueCents:        valueCents,
		Stage:             DealStageProspecting,
		Probability:       10,
		ExpectedCloseDate: expectedClose,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (d *Deal) Validate() error {
	if !ValidDealStage(d.Stage) {
		return errors.New("invalid deal stage")
	}
	if d.Probability < 0 || d.Probability > 100 {
		return errors.New("probability must be between 0 and 100")
	}
	if d.ValueCents < 0 {
		return errors.New("value must not be negative")
	}
	return nil
}

// ValueDisplay renders the cent amount with two decimals, e.g. "1250.00".
func (d *Deal) ValueDisplay() string {
	return fmt.Sprintf("%d.%02d", d.ValueCents/100, d.ValueCents%100)
}

func ValidDealStage(stage string) bool {
	switch stage {
	case DealStageProspecting, DealStageQualification, DealStageProposal, DealStageNegotiation, DealStageClosedWon, DealStageClosedLost:
		return true
	}
	return false
}
