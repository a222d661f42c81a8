package queue

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/flowtada/crm/internal/usecase"
)

// MailDispatcher is the delivery side of the notification pipeline.
type MailDispatcher interface {
	SendLeadAlert(n usecase.LeadCapturedNotification) error
	SendCredential(n usecase.CredentialIssuedNotification) error
}

// Worker drains the notification queue and hands each event to the mailer.
// Undeliverable messages are nacked without requeue and end up on the DLQ.
type Worker struct {
	Channel *amqp.Channel
	Mailer  MailDispatcher
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, mailer MailDispatcher, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Mailer: mailer, Logger: logger}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		w.Logger.Fatal("failed to register queue consumer", zap.Error(err))
	}

	w.Logger.Info("notification worker started", zap.String("queue", queueName))

	for d := range msgs {
		var env Envelope
		if err := json.Unmarshal(d.Body, &env); err != nil {
			w.Logger.Error("malformed notification, sending to DLQ", zap.Error(err))
			d.Nack(false, false)
			continue
		}

		if err := w.process(env); err != nil {
			w.Logger.Error("notification delivery failed",
				zap.String("kind", env.Kind), zap.Error(err))
			d.Nack(false, false)
			continue
		}
		d.Ack(false)
	}
}

func (w *Worker) process(env Envelope) error {
	switch env.Kind {
	case KindLeadCaptured:
		if env.Lead == nil {
			return nil
		}
		return w.Mailer.SendLeadAlert(*env.Lead)

	case KindCredentialIssued:
		if env.Credential == nil {
			return nil
		}
		return w.Mailer.SendCredential(*env.Credential)

	default:
		// Unknown kinds are acked away; there is nothing to retry.
		w.Logger.Warn("unknown notification kind", zap.String("kind", env.Kind))
		return nil
	}
}
