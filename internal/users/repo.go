package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound = apperr.New(apperr.CodeNotFound, "User not found")
	ErrUserExists   = apperr.New(apperr.CodeConflict, "User already exists")
)

type Repo struct{ DB postgres.DB }

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, email, hash string, role Role) (*User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		INSERT INTO users(email, password_hash, role) VALUES ($1, $2, $3)
		RETURNING `+userColumns, email, hash, string(role)))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.find(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.find(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *Repo) find(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Email looks up the address of a user. It backs notification delivery.
func (r *Repo) Email(ctx context.Context, id int64) (string, error) {
	var email string
	err := r.DB.QueryRow(ctx, `SELECT email FROM users WHERE id=$1`, id).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("user email: %w", err)
	}
	return email, nil
}
