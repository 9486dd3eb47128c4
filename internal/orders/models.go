package orders

import (
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem captures the unit price at order time.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Size      catalog.Size    `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

type Details struct {
	Order *Order      `json:"order"`
	Items []OrderItem `json:"items"`
}

// ItemRequest is one requested line with its price already resolved.
type ItemRequest struct {
	ProductID int64
	Size      catalog.Size
	Quantity  int
	UnitPrice decimal.Decimal
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Actor is the authenticated caller, validated by the HTTP layer.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsSeller() bool { return a.Role == RoleSeller }
