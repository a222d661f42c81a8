package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Interaction types.
const (
	InteractionCall     = "call"
	InteractionEmail    = "email"
	InteractionMeeting  = "meeting"
	InteractionDemo     = "demo"
	InteractionProposal = "proposal"
	InteractionFollowUp = "follow_up"
)

// Interaction is one logged touchpoint with a customer. Append-only from the
// portal's point of view; rows cascade away with their customer.
type Interaction struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	Notes      string    `json:"notes,omitempty"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewInteraction(customerID, interactionType, subject, notes, userID string) (*Interaction, error) {
	if customerID == "" {
		return nil, errors.New("customer_id is required")
	}
	if !ValidInteractionType(interactionType) {
		return nil, errors.New("invalid interaction type")
	}
	if subject == "" {
		return nil, errors.New("subject is required")
	}
	return &Interaction{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Type:       interactionType,
		Subject:    subject,
		Notes:      notes,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}, nil
}

func ValidInteractionType(t string) bool {
	switch t {
	case InteractionCall, InteractionEmail, InteractionMeeting, InteractionDemo, InteractionProposal, InteractionFollowUp:
		return true
	}
	return false
}
