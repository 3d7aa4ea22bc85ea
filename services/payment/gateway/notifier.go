package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
	natspkg "github.com/myreprise/payflow/internal/pkg/nats"
	nsqpkg "github.com/myreprise/payflow/internal/pkg/nsq"
	"github.com/myreprise/payflow/internal/pkg/retry"
)

// Notifier publishes terminal-state notifications to the configured sink
// (NATS subject or NSQ topic) with retry, giving at-least-once delivery.
// Consumers must dedup.
type Notifier struct {
	subject     string
	natsClient  *natspkg.Client
	nsqProducer *nsqpkg.Producer
	retrier     *retry.Retrier
	logger      *logger.ZapLogger
}

// NewNATSNotifier creates a notifier publishing to a NATS subject
func NewNATSNotifier(client *natspkg.Client, subject string, zapLogger *logger.ZapLogger) *Notifier {
	return &Notifier{
		subject:    subject,
		natsClient: client,
		retrier:    retry.NewWithDefaults(zapLogger),
		logger:     zapLogger,
	}
}

// NewNSQNotifier creates a notifier publishing to an NSQ topic
func NewNSQNotifier(producer *nsqpkg.Producer, topic string, zapLogger *logger.ZapLogger) *Notifier {
	return &Notifier{
		subject:     topic,
		nsqProducer: producer,
		retrier:     retry.NewWithDefaults(zapLogger),
		logger:      zapLogger,
	}
}

// PublishStateChange publishes a terminal-state notification
func (n *Notifier) PublishStateChange(ctx context.Context, notification *models.StateNotification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = n.retrier.Execute(ctx, func(ctx context.Context) error {
		if n.nsqProducer != nil {
			return n.nsqProducer.Publish(n.subject, notification)
		}
		return n.natsClient.Publish(n.subject, data)
	})
	if err != nil {
		return fmt.Errorf("failed to publish state notification: %w", err)
	}

	n.logger.Info("Published state notification",
		logger.String("transaction_id", notification.TransactionID.String()),
		logger.String("new_state", string(notification.NewState)),
		logger.String("subject", n.subject))

	return nil
}
