package orders

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventNotificationRequested = "NotificationRequested"
)

// Notification templates. Each state change addresses the customer and the
// seller separately.
const (
	TemplateOrderConfirmed       = "order_confirmed"
	TemplateNewOrder             = "new_order"
	TemplateOrderCancelled       = "order_cancelled"
	TemplateOrderCancelledSeller = "order_cancelled_seller"
)

type RecipientKind string

const (
	RecipientCustomer RecipientKind = "customer"
	RecipientSeller   RecipientKind = "seller"
)

// Recipient is resolved to an address at delivery time.
type Recipient struct {
	Kind   RecipientKind `json:"kind"`
	UserID int64         `json:"user_id,omitempty"`
}

type Notification struct {
	Template  string      `json:"template"`
	Recipient Recipient   `json:"recipient"`
	Order     Order       `json:"order"`
	Items     []OrderItem `json:"items"`
}

// Notifier is the best-effort sink fired after a successful transition.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}
