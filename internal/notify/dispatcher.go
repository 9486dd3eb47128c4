package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/kafka"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/ariefcatur/go-shop-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

const maxBackoff = 30 * time.Second

// Directory resolves a user id to a mail address.
type Directory interface {
	Email(ctx context.Context, userID int64) (string, error)
}

type Products interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Dispatcher turns a notification into a rendered mail and sends it,
// retrying the send with capped exponential backoff.
type Dispatcher struct {
	Users       Directory
	Products    Products
	Mailer      Mailer
	SellerEmail string

	MaxAttempts int
	BaseBackoff time.Duration

	// Redis holds dedup claims for HandleMessage. Nil disables dedup.
	Redis   redis.Cmdable
	Service string

	Log *slog.Logger
}

func (d *Dispatcher) log() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// Deliver sends n. A recipient that cannot be resolved is logged and
// skipped; only a send that keeps failing is returned as an error.
func (d *Dispatcher) Deliver(ctx context.Context, n orders.Notification) error {
	customer, err := d.Users.Email(ctx, n.Order.UserID)
	if apperr.Is(err, apperr.CodeNotFound) {
		d.log().Warn("notification skipped: customer not found", "order_id", n.Order.ID, "user_id", n.Order.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve customer: %w", err)
	}

	to := customer
	if n.Recipient.Kind == orders.RecipientSeller {
		to = d.SellerEmail
	}
	if to == "" {
		d.log().Warn("notification skipped: no recipient", "order_id", n.Order.ID, "template", n.Template)
		return nil
	}

	v := view{OrderID: n.Order.ID, CustomerEmail: customer, Total: n.Order.TotalAmount.StringFixed(2)}
	for _, it := range n.Items {
		p, err := d.Products.GetProduct(ctx, it.ProductID)
		if apperr.Is(err, apperr.CodeNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("resolve product %d: %w", it.ProductID, err)
		}
		v.Items = append(v.Items, line{
			Name:     p.Name,
			Size:     string(it.Size),
			Quantity: it.Quantity,
			Price:    it.UnitPrice.StringFixed(2),
		})
	}

	subject, body, err := render(n.Template, v)
	if err != nil {
		return err
	}
	return d.send(ctx, to, subject, body)
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body string) error {
	attempts := d.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = d.Mailer.Send(ctx, to, subject, body); err == nil {
			d.log().Info("notification sent", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}
		d.log().Warn("send failed", "to", to, "subject", subject, "attempt", attempt, "error", err)
		if attempt == attempts {
			break
		}
		if werr := wait(ctx, backoff(d.BaseBackoff, attempt)); werr != nil {
			return werr
		}
	}
	return fmt.Errorf("send %q after %d attempts: %w", subject, attempts, err)
}

// HandleMessage is the consumer handler for notification envelopes. Each
// event id is claimed in Redis before delivery and released again when
// delivery fails, so the consumer's retry of the same message is not taken
// for a duplicate.
func (d *Dispatcher) HandleMessage(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafka.UnmarshalEnvelope(m.Value, &env); err != nil {
		d.log().Error("dropping undecodable message", "offset", m.Offset, "error", err)
		return nil
	}
	if env.EventType != orders.EventNotificationRequested {
		return nil
	}
	n, err := kafka.UnwrapPayload[orders.Notification](env.Payload)
	if err != nil {
		d.log().Error("dropping undecodable payload", "event_id", env.EventID, "error", err)
		return nil
	}

	if d.Redis == nil || env.EventID == "" {
		return d.Deliver(ctx, n)
	}
	key := redisx.DedupKey(d.Service, env.EventID)
	claimed, err := redisx.Claim(ctx, d.Redis, key, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("claim %s: %w", key, err)
	}
	if !claimed {
		d.log().Info("duplicate notification skipped", "event_id", env.EventID)
		return nil
	}
	if err := d.Deliver(ctx, n); err != nil {
		if rerr := redisx.Release(context.WithoutCancel(ctx), d.Redis, key); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	b := base * time.Duration(1<<uint(attempt-1))
	if b > maxBackoff || b <= 0 {
		b = maxBackoff
	}
	return b
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
