package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/money"
	"github.com/ariefcatur/go-shop-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = apperr.New(apperr.CodeNotFound, "Order not found")

// Repo is the Postgres order store. Amounts are kept as integer cents.
type Repo struct{ DB postgres.DB }

const orderColumns = `id, user_id, status, total_amount_cents, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		status string
		cents  int64
	)
	if err := row.Scan(&o.ID, &o.UserID, &status, &cents, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	o.TotalAmount = money.FromCents(cents)
	return &o, nil
}

func (r *Repo) InsertOrder(ctx context.Context, o *Order) (int64, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(user_id, status, total_amount_cents)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		o.UserID, string(o.Status), money.Cents(o.TotalAmount),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return o.ID, nil
}

func (r *Repo) InsertItem(ctx context.Context, it *OrderItem) (int64, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO order_items(order_id, product_id, size, quantity, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		it.OrderID, it.ProductID, string(it.Size), it.Quantity, money.Cents(it.UnitPrice),
	).Scan(&it.ID)
	if err != nil {
		return 0, fmt.Errorf("insert order item: %w", err)
	}
	return it.ID, nil
}

func (r *Repo) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (r *Repo) ListItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, size, quantity, price_cents
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	out := []OrderItem{}
	for rows.Next() {
		var (
			it    OrderItem
			size  string
			cents int64
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &size, &it.Quantity, &cents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.Size = catalog.Size(size)
		it.UnitPrice = money.FromCents(cents)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY id`, userID)
}

func (r *Repo) ListPending(ctx context.Context) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE status='pending' ORDER BY id`)
}

func (r *Repo) listOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatus moves a pending order to s. It reports false when the order is
// missing or no longer pending.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, s Status) (bool, error) {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1 AND status='pending'`, id, string(s))
	if err != nil {
		return false, fmt.Errorf("update order %d status: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
