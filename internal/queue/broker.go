package queue

import (
	"context"
)

// Broker is the push side of notification dispatch. The backend stores every
// notification as a feed row and additionally publishes it here so delivery
// workers (push, SMS, whatever) can consume downstream.
type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueNotifications    = "khata-notifications"
	QueueNotificationsDLQ = "khata-notifications-dlq"
)
