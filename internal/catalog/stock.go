package catalog

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
)

// Stock returns the ledger rows of a product in S, M, L order.
func (r *Repo) Stock(ctx context.Context, productID int64) ([]StockLevel, error) {
	if _, err := r.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, size, stock_count FROM product_stock
		WHERE product_id=$1
		ORDER BY array_position(ARRAY['S','M','L'], size)`, productID)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}
	defer rows.Close()

	out := []StockLevel{}
	for rows.Next() {
		var (
			s    StockLevel
			size string
		)
		if err := rows.Scan(&s.ProductID, &size, &s.StockCount); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		s.Size = Size(size)
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetStock writes an explicit stock count for one size (seller restock).
func (r *Repo) SetStock(ctx context.Context, productID int64, size Size, count int) (bool, error) {
	if !size.Valid() {
		return false, apperr.New(apperr.CodeInvalidInput, "Size must be one of S, M, L")
	}
	if count < 0 {
		return false, apperr.New(apperr.CodeInvalidInput, "Count must be a non-negative integer")
	}
	if _, err := r.GetProduct(ctx, productID); err != nil {
		return false, err
	}
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO product_stock(product_id, size, stock_count) VALUES ($1, $2, $3)
		ON CONFLICT (product_id, size) DO UPDATE SET stock_count = EXCLUDED.stock_count`,
		productID, string(size), count)
	if err != nil {
		return false, fmt.Errorf("set stock: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Reserve takes qty units off the (product, size) counter in a single
// conditional statement, so two concurrent orders cannot both spend the same
// units. A missing row counts as no stock.
func (r *Repo) Reserve(ctx context.Context, productID int64, size Size, qty int) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE product_stock SET stock_count = stock_count - $3
		WHERE product_id=$1 AND size=$2 AND stock_count >= $3`,
		productID, string(size), qty)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if ct.RowsAffected() != 1 {
		return apperr.Newf(apperr.CodeInsufficientStock,
			"Not enough stock for product ID %d, size %s", productID, size)
	}
	return nil
}

// Restore puts qty units back. It reports false when the ledger row no longer
// exists, in which case nothing is restored.
func (r *Repo) Restore(ctx context.Context, productID int64, size Size, qty int) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE product_stock SET stock_count = stock_count + $3
		WHERE product_id=$1 AND size=$2`,
		productID, string(size), qty)
	if err != nil {
		return false, fmt.Errorf("restore stock: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}
