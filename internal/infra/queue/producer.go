package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/flowtada/crm/internal/usecase"
)

// Notification kinds carried on the bus.
const (
	KindLeadCaptured     = "lead_captured"
	KindCredentialIssued = "credential_issued"
)

// Envelope wraps every published notification with its kind so the worker
// can route without sniffing fields.
type Envelope struct {
	Kind       string                                `json:"kind"`
	Lead       *usecase.LeadCapturedNotification     `json:"lead,omitempty"`
	Credential *usecase.CredentialIssuedNotification `json:"credential,omitempty"`
}

type Producer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) PublishLeadCaptured(ctx context.Context, n usecase.LeadCapturedNotification) error {
	return p.publish(ctx, Envelope{Kind: KindLeadCaptured, Lead: &n})
}

func (p *Producer) PublishCredentialIssued(ctx context.Context, n usecase.CredentialIssuedNotification) error {
	return p.publish(ctx, Envelope{Kind: KindCredentialIssued, Credential: &n})
}

func (p *Producer) publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
