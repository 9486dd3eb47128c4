package httpx

import (
	"context"

	"github.com/ariefcatur/go-shop-orders/internal/cart"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/ariefcatur/go-shop-orders/internal/users"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, items []orders.ItemRequest) (*orders.Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (*orders.Details, error)
	GetUserOrders(ctx context.Context, userID int64) ([]orders.Order, error)
	CancelOrder(ctx context.Context, orderID int64, actor orders.Actor) (bool, error)
	CompleteOrder(ctx context.Context, orderID int64) (bool, error)
	GetPendingOrders(ctx context.Context) ([]orders.Order, error)
}

type Catalog interface {
	ListProducts(ctx context.Context, page, limit int) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch catalog.ProductPatch) (bool, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	Stock(ctx context.Context, productID int64) ([]catalog.StockLevel, error)
	SetStock(ctx context.Context, productID int64, size catalog.Size, count int) (bool, error)
}

type Carts interface {
	Add(ctx context.Context, userID, productID int64, qty int) ([]cart.Item, error)
	Remove(ctx context.Context, userID, productID int64) ([]cart.Item, error)
	Items(ctx context.Context, userID int64) ([]cart.Item, error)
	Clear(ctx context.Context, userID int64) ([]cart.Item, error)
}

type Accounts interface {
	Register(ctx context.Context, email, password string, role users.Role) (*users.Session, error)
	Login(ctx context.Context, email, password string) (*users.Session, error)
	ParseToken(token string) (*users.Claims, error)
	FindByID(ctx context.Context, id int64) (*users.User, error)
}

var (
	_ OrderService = (*orders.Engine)(nil)
	_ Catalog      = (*catalog.Repo)(nil)
	_ Carts        = (*cart.Service)(nil)
	_ Accounts     = (*users.Service)(nil)
)
