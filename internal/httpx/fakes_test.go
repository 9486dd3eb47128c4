package httpx

import (
	"context"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/cart"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/ariefcatur/go-shop-orders/internal/users"
	"github.com/shopspring/decimal"
)

type fakeOrders struct {
	created   []orders.ItemRequest
	createErr error
	details   map[int64]*orders.Details
	cancelled []orders.Actor
	completed []int64
}

func (f *fakeOrders) CreateOrder(_ context.Context, userID int64, items []orders.ItemRequest) (*orders.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = items
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return &orders.Order{ID: 1, UserID: userID, Status: orders.StatusPending, TotalAmount: total}, nil
}

func (f *fakeOrders) GetOrderByID(_ context.Context, id int64) (*orders.Details, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, orders.ErrOrderNotFound
}

func (f *fakeOrders) GetUserOrders(_ context.Context, userID int64) ([]orders.Order, error) {
	return []orders.Order{{ID: 1, UserID: userID, Status: orders.StatusPending}}, nil
}

func (f *fakeOrders) CancelOrder(_ context.Context, _ int64, actor orders.Actor) (bool, error) {
	f.cancelled = append(f.cancelled, actor)
	return true, nil
}

func (f *fakeOrders) CompleteOrder(_ context.Context, id int64) (bool, error) {
	if d, ok := f.details[id]; ok && d.Order.Status != orders.StatusPending {
		return false, apperr.Newf(apperr.CodeInvalidTransition, "Order is %s, not pending", d.Order.Status)
	}
	f.completed = append(f.completed, id)
	return true, nil
}

func (f *fakeOrders) GetPendingOrders(context.Context) ([]orders.Order, error) {
	return []orders.Order{}, nil
}

type fakeCatalog struct {
	products map[int64]*catalog.Product
	stockSet []catalog.StockLevel
}

func (f *fakeCatalog) ListProducts(_ context.Context, page, limit int) ([]catalog.Product, error) {
	out := []catalog.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, apperr.New(apperr.CodeNotFound, "Product not found")
}

func (f *fakeCatalog) CreateProduct(_ context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &catalog.Product{ID: 99, Name: in.Name, Price: in.Price}, nil
}

func (f *fakeCatalog) UpdateProduct(context.Context, int64, catalog.ProductPatch) (bool, error) {
	return true, nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id int64) (bool, error) {
	_, ok := f.products[id]
	return ok, nil
}

func (f *fakeCatalog) Stock(_ context.Context, id int64) ([]catalog.StockLevel, error) {
	return []catalog.StockLevel{{ProductID: id, Size: catalog.SizeS, StockCount: 4}}, nil
}

func (f *fakeCatalog) SetStock(_ context.Context, id int64, size catalog.Size, count int) (bool, error) {
	f.stockSet = append(f.stockSet, catalog.StockLevel{ProductID: id, Size: size, StockCount: count})
	return true, nil
}

type fakeCarts struct {
	items map[int64][]cart.Item
}

func (f *fakeCarts) Add(_ context.Context, userID, productID int64, qty int) ([]cart.Item, error) {
	if qty <= 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "Product ID and quantity are required")
	}
	f.items[userID] = append(f.items[userID], cart.Item{ProductID: productID, Quantity: qty})
	return f.items[userID], nil
}

func (f *fakeCarts) Remove(_ context.Context, userID, productID int64) ([]cart.Item, error) {
	kept := []cart.Item{}
	for _, it := range f.items[userID] {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	f.items[userID] = kept
	return kept, nil
}

func (f *fakeCarts) Items(_ context.Context, userID int64) ([]cart.Item, error) {
	if f.items[userID] == nil {
		return []cart.Item{}, nil
	}
	return f.items[userID], nil
}

func (f *fakeCarts) Clear(_ context.Context, userID int64) ([]cart.Item, error) {
	delete(f.items, userID)
	return []cart.Item{}, nil
}

// fakeAccounts treats the token string as a key into its user table.
type fakeAccounts struct {
	byToken map[string]*users.User
	findErr error
}

func (f *fakeAccounts) Register(_ context.Context, email, password string, role users.Role) (*users.Session, error) {
	if len(password) < 6 {
		return nil, apperr.New(apperr.CodeInvalidInput, "Password must be at least 6 characters long")
	}
	return &users.Session{User: &users.User{ID: 50, Email: email, Role: role}, Token: "new-token"}, nil
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*users.Session, error) {
	for tok, u := range f.byToken {
		if u.Email == email && password == "secret1" {
			return &users.Session{User: u, Token: tok}, nil
		}
	}
	return nil, apperr.New(apperr.CodeUnauthorized, "Invalid email or password")
}

func (f *fakeAccounts) ParseToken(token string) (*users.Claims, error) {
	u, ok := f.byToken[token]
	if !ok {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid token")
	}
	return &users.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (f *fakeAccounts) FindByID(_ context.Context, id int64) (*users.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byToken {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

var testTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
