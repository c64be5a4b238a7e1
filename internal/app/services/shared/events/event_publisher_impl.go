package events

import (
	"context"
	"fmt"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/pkg/constvars"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	publisherInstance contracts.EventPublisher
	oncePublisher     sync.Once
)

type rabbitPublisher struct {
	ch                *amqp.Channel
	notificationQueue string
	analyticsQueue    string
	Log               *zap.Logger
	mu                sync.Mutex
}

// NewRabbitPublisher declares the durable notification and analytics queues
// and publishes terminal settlement outcomes to both. Delivery is
// at-most-once-effort: no retry, no confirm wait beyond the publish call.
func NewRabbitPublisher(conn *amqp.Connection, internalConfig *config.InternalConfig, logger *zap.Logger) (contracts.EventPublisher, error) {
	var initErr error
	oncePublisher.Do(func() {
		ch, err := conn.Channel()
		if err != nil {
			initErr = err
			return
		}

		for _, queue := range []string{
			internalConfig.RabbitMQ.NotificationQueue,
			internalConfig.RabbitMQ.AnalyticsQueue,
		} {
			_, err = ch.QueueDeclare(
				queue, // name
				true,  // durable
				false, // autoDelete
				false, // exclusive
				false, // noWait
				nil,   // args
			)
			if err != nil {
				initErr = err
				return
			}
		}

		publisherInstance = &rabbitPublisher{
			ch:                ch,
			notificationQueue: internalConfig.RabbitMQ.NotificationQueue,
			analyticsQueue:    internalConfig.RabbitMQ.AnalyticsQueue,
			Log:               logger,
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return publisherInstance, nil
}

func (p *rabbitPublisher) PublishSettlementOutcome(ctx context.Context, event *contracts.SettlementEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for _, queue := range []string{p.notificationQueue, p.analyticsQueue} {
		err := p.ch.PublishWithContext(ctx,
			"",    // exchange
			queue, // routing key
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  constvars.MIMEApplicationJSON,
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		if err != nil {
			p.Log.Warn("rabbitPublisher.PublishSettlementOutcome publish failed",
				zap.String(constvars.LoggingQueueKey, queue),
				zap.String(constvars.LoggingInvoiceIDKey, event.InvoiceID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("publish to %s: %w", queue, err)
			}
		}
	}
	return firstErr
}
