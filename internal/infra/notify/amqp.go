// Package notify publishes domain events to RabbitMQ. Delivery is
// best-effort from the caller's point of view; the checkout never blocks
// on the broker.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

const routingKeyOrderConfirmed = "order.confirmed"

type amqpNotifier struct {
	ch       *amqp.Channel
	exchange string
}

// NewNotifier connects to the broker named in config. An empty broker URL
// selects the no-op notifier so local development works without RabbitMQ.
func NewNotifier(cfg config.Config) (commands.Notifier, func(), error) {
	if cfg.Broker.URL == "" {
		slog.Info("broker url not set, order events will not be published")
		return noopNotifier{}, func() {}, nil
	}

	conn, err := amqp.Dial(cfg.Broker.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open broker channel")
	}

	if err := ch.ExchangeDeclare(cfg.Broker.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare exchange")
	}

	cleanup := func() {
		if err := ch.Close(); err != nil {
			slog.Warn("broker channel close failed", "error", err.Error())
		}
		if err := conn.Close(); err != nil {
			slog.Warn("broker connection close failed", "error", err.Error())
		}
	}
	return &amqpNotifier{ch: ch, exchange: cfg.Broker.Exchange}, cleanup, nil
}

func (n *amqpNotifier) OrderConfirmed(ctx context.Context, event commands.OrderConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal order confirmed event")
	}

	return n.ch.PublishWithContext(ctx, n.exchange, routingKeyOrderConfirmed, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

type noopNotifier struct{}

func (noopNotifier) OrderConfirmed(context.Context, commands.OrderConfirmedEvent) error {
	return nil
}
