package orders

import (
	"context"

	"github.com/ariefcatur/go-shop-orders/internal/catalog"
)

// Store persists order headers and line items.
type Store interface {
	InsertOrder(ctx context.Context, o *Order) (int64, error)
	InsertItem(ctx context.Context, it *OrderItem) (int64, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListItems(ctx context.Context, orderID int64) ([]OrderItem, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, s Status) (bool, error)
	ListPending(ctx context.Context) ([]Order, error)
}

// Ledger is the stock side of the catalog. Reserve must be atomic per row.
type Ledger interface {
	Reserve(ctx context.Context, productID int64, size catalog.Size, qty int) error
	Restore(ctx context.Context, productID int64, size catalog.Size, qty int) (bool, error)
}

var (
	_ Store  = (*Repo)(nil)
	_ Ledger = (*catalog.Repo)(nil)
)
