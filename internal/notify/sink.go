package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/kafka"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type producer interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafkago.Header) error
}

// Publisher hands notifications to Kafka. Delivery happens in the notifier
// service; an error here only means the handoff failed.
type Publisher struct {
	Producer producer
	Service  string
}

func (p *Publisher) Notify(ctx context.Context, n orders.Notification) error {
	payload, err := kafka.Marshal(n)
	if err != nil {
		return err
	}
	env := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventNotificationRequested,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: strconv.FormatInt(n.Order.ID, 10),
		Payload:       payload,
	}
	value, err := kafka.Marshal(env)
	if err != nil {
		return err
	}
	if err := p.Producer.Publish(ctx, orders.PartitionKey(n.Order.ID), value,
		kafkago.Header{Key: "x-event-type", Value: []byte(env.EventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	); err != nil {
		return fmt.Errorf("publish %s for order %d: %w", n.Template, n.Order.ID, err)
	}
	return nil
}

// Inline delivers in the caller's goroutine. Used when no broker is
// configured.
type Inline struct {
	Dispatcher *Dispatcher
}

func (i *Inline) Notify(ctx context.Context, n orders.Notification) error {
	return i.Dispatcher.Deliver(ctx, n)
}

var (
	_ orders.Notifier = (*Publisher)(nil)
	_ orders.Notifier = (*Inline)(nil)
)
