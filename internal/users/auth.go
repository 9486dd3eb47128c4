package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = apperr.New(apperr.CodeUnauthorized, "Invalid email or password")

type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Service handles registration and login and issues HS256 tokens.
type Service struct {
	Repo   *Repo
	Secret []byte
	TTL    time.Duration
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func (s *Service) Register(ctx context.Context, email, password string, role Role) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, apperr.New(apperr.CodeInvalidInput, "Please provide a valid email")
	}
	if len(password) < 6 {
		return nil, apperr.New(apperr.CodeInvalidInput, "Password must be at least 6 characters long")
	}
	if role == "" {
		role = RoleCustomer
	}
	if !role.Valid() {
		return nil, apperr.New(apperr.CodeInvalidInput, "Role must be customer or seller")
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.Repo.Create(ctx, email, string(hash), role)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if apperr.Is(err, apperr.CodeNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return s.session(u)
}

func (s *Service) session(u *User) (*Session, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u, Token: token}, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func (s *Service) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.CodeUnauthorized, "Token expired", err)
		}
		return nil, apperr.Wrap(apperr.CodeUnauthorized, "Invalid token", err)
	}
	return claims, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.Repo.FindByID(ctx, id)
}
