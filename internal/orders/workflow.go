package orders

import (
	"context"
	"log/slog"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/metrics"
	"github.com/ariefcatur/go-shop-orders/internal/money"
	"github.com/shopspring/decimal"
)

// Engine runs order creation, cancellation and completion against the order
// store and the stock ledger. It holds no state between calls.
type Engine struct {
	Store    Store
	Ledger   Ledger
	Notifier Notifier
	Metrics  *metrics.Workflow
	Log      *slog.Logger
}

func (e *Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// CreateOrder persists a pending order and reserves stock item by item, in
// input order. Items are not applied atomically as a group: when item k fails,
// the order header and items 0..k-1 stay persisted with their stock taken.
func (e *Engine) CreateOrder(ctx context.Context, userID int64, items []ItemRequest) (*Order, error) {
	if err := validateRequest(userID, items); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(money.Extended(it.UnitPrice, it.Quantity))
	}

	order := &Order{UserID: userID, Status: StatusPending, TotalAmount: total}
	if _, err := e.Store.InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	placed := make([]OrderItem, 0, len(items))
	for _, it := range items {
		if err := e.Ledger.Reserve(ctx, it.ProductID, it.Size, it.Quantity); err != nil {
			if apperr.Is(err, apperr.CodeInsufficientStock) {
				e.Metrics.StockRejected()
			}
			e.log().Warn("order item rejected",
				"order_id", order.ID, "product_id", it.ProductID, "size", it.Size,
				"quantity", it.Quantity, "placed", len(placed), "error", err)
			return nil, err
		}
		line := OrderItem{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
		if _, err := e.Store.InsertItem(ctx, &line); err != nil {
			// Nothing records the reservation, so give it back.
			if _, rerr := e.Ledger.Restore(ctx, it.ProductID, it.Size, it.Quantity); rerr != nil {
				e.log().Error("stock restore after failed item insert",
					"order_id", order.ID, "product_id", it.ProductID, "size", it.Size,
					"quantity", it.Quantity, "error", rerr)
			}
			return nil, err
		}
		placed = append(placed, line)
	}

	e.Metrics.Transition(string(StatusPending))
	e.log().Info("order created", "order_id", order.ID, "user_id", userID, "total", order.TotalAmount.StringFixed(2))

	e.notify(ctx, order, placed, TemplateOrderConfirmed, TemplateNewOrder)
	return order, nil
}

func (e *Engine) GetOrderByID(ctx context.Context, orderID int64) (*Details, error) {
	order, err := e.Store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := e.Store.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Details{Order: order, Items: items}, nil
}

func (e *Engine) GetUserOrders(ctx context.Context, userID int64) ([]Order, error) {
	return e.Store.ListByUser(ctx, userID)
}

// CancelOrder restores the stock of every line and marks the order cancelled.
// Only the owner may cancel, and only while the order is pending.
func (e *Engine) CancelOrder(ctx context.Context, orderID int64, actor Actor) (bool, error) {
	order, err := e.Store.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.UserID != actor.UserID {
		return false, apperr.New(apperr.CodeForbidden, "Unauthorized")
	}
	switch order.Status {
	case StatusCompleted:
		return false, apperr.New(apperr.CodeInvalidTransition, "Cannot cancel a completed order")
	case StatusCancelled:
		return false, apperr.New(apperr.CodeInvalidTransition, "Order is already cancelled")
	}
	if !CanTransition(order.Status, StatusCancelled) {
		return false, apperr.Newf(apperr.CodeInvalidTransition, "Order is %s, cannot be cancelled", order.Status)
	}

	items, err := e.Store.ListItems(ctx, orderID)
	if err != nil {
		return false, err
	}
	returned := make([]OrderItem, 0, len(items))
	for _, it := range items {
		restored, err := e.Ledger.Restore(ctx, it.ProductID, it.Size, it.Quantity)
		if err != nil {
			return false, err
		}
		if !restored {
			e.log().Warn("stock row missing on cancel", "order_id", orderID, "product_id", it.ProductID, "size", it.Size)
			continue
		}
		returned = append(returned, it)
	}

	ok, err := e.Store.UpdateStatus(ctx, orderID, StatusCancelled)
	if err != nil {
		return false, err
	}
	if !ok {
		// Another request moved the order out of pending first; take back
		// what this call restored.
		e.retake(ctx, orderID, returned)
		return false, nil
	}
	order.Status = StatusCancelled
	e.Metrics.Transition(string(StatusCancelled))
	e.log().Info("order cancelled", "order_id", orderID, "user_id", actor.UserID)
	e.notify(ctx, order, items, TemplateOrderCancelled, TemplateOrderCancelledSeller)
	return true, nil
}

// CompleteOrder moves a pending order to completed. Stock was already taken at
// creation and no notification is sent. Restricting this to sellers is the
// caller's job.
func (e *Engine) CompleteOrder(ctx context.Context, orderID int64) (bool, error) {
	order, err := e.Store.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != StatusPending {
		return false, apperr.Newf(apperr.CodeInvalidTransition, "Order is %s, not pending", order.Status)
	}
	ok, err := e.Store.UpdateStatus(ctx, orderID, StatusCompleted)
	if err != nil {
		return false, err
	}
	if ok {
		e.Metrics.Transition(string(StatusCompleted))
		e.log().Info("order completed", "order_id", orderID)
	}
	return ok, nil
}

func (e *Engine) retake(ctx context.Context, orderID int64, items []OrderItem) {
	for _, it := range items {
		if err := e.Ledger.Reserve(ctx, it.ProductID, it.Size, it.Quantity); err != nil {
			e.log().Error("stock retake after lost cancel",
				"order_id", orderID, "product_id", it.ProductID, "size", it.Size, "error", err)
		}
	}
}

func (e *Engine) GetPendingOrders(ctx context.Context) ([]Order, error) {
	return e.Store.ListPending(ctx)
}

// notify fires the customer template then the seller template. Failures are
// logged and dropped; the transition they follow is already committed.
func (e *Engine) notify(ctx context.Context, order *Order, items []OrderItem, customerTpl, sellerTpl string) {
	if e.Notifier == nil {
		return
	}
	batch := []Notification{
		{Template: customerTpl, Recipient: Recipient{Kind: RecipientCustomer, UserID: order.UserID}},
		{Template: sellerTpl, Recipient: Recipient{Kind: RecipientSeller}},
	}
	for _, n := range batch {
		n.Order = *order
		n.Items = items
		if err := e.Notifier.Notify(ctx, n); err != nil {
			e.Metrics.NotifyFailed(n.Template)
			e.log().Warn("notification failed", "order_id", order.ID, "template", n.Template, "error", err)
		}
	}
}
