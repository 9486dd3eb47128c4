package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/money"
	"github.com/ariefcatur/go-shop-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var errProductNotFound = apperr.New(apperr.CodeNotFound, "Product not found")

// Repo is the product store. It also owns the stock ledger (product_stock).
type Repo struct{ DB postgres.DB }

const productColumns = `id, name, description, price_cents, image_url, category, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p     Product
		cents int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &cents, &p.ImageURL, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Price = money.FromCents(cents)
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context, page, limit int) ([]Product, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// CreateProduct inserts the product together with an empty stock row per size.
func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
	}
	err := r.DB.QueryRow(ctx, `
		WITH p AS (
			INSERT INTO products(name, description, price_cents, image_url, category)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		), s AS (
			INSERT INTO product_stock(product_id, size, stock_count)
			SELECT p.id, sz, 0 FROM p, unnest(ARRAY['S','M','L']) AS sz
		)
		SELECT id, created_at, updated_at FROM p`,
		in.Name, in.Description, money.Cents(in.Price), in.ImageURL, in.Category,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}
	if _, err := r.GetProduct(ctx, id); err != nil {
		return false, err
	}

	sets := make([]string, 0, 6)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price_cents", money.Cents(*patch.Price))
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	args = append(args, id)

	ct, err := r.DB.Exec(ctx, `UPDATE products SET `+strings.Join(sets, ", ")+`, updated_at=now() WHERE id=$`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return false, fmt.Errorf("update product %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	if _, err := r.GetProduct(ctx, id); err != nil {
		return false, err
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, apperr.New(apperr.CodeConflict, "Product is referenced by orders and cannot be deleted")
		}
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
