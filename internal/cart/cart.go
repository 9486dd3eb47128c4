package cart

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type Item struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Service keeps one cart per user as a Redis hash. Every write pushes the
// expiry out by TTL, so abandoned carts disappear on their own.
type Service struct {
	Redis redis.Cmdable
	TTL   time.Duration
}

func (s *Service) Add(ctx context.Context, userID, productID int64, qty int) ([]Item, error) {
	if productID <= 0 || qty <= 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "Product ID and quantity are required")
	}
	key := redisx.CartKey(userID)
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, key, strconv.FormatInt(productID, 10), int64(qty))
		p.Expire(ctx, key, s.TTL)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cart add: %w", err)
	}
	return s.Items(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID int64) ([]Item, error) {
	key := redisx.CartKey(userID)
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, key, strconv.FormatInt(productID, 10))
		p.Expire(ctx, key, s.TTL)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cart remove: %w", err)
	}
	return s.Items(ctx, userID)
}

// Items returns the cart ordered by product id. A missing or expired cart is
// empty.
func (s *Service) Items(ctx context.Context, userID int64) ([]Item, error) {
	raw, err := s.Redis.HGetAll(ctx, redisx.CartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}
	out := make([]Item, 0, len(raw))
	for field, v := range raw {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(v)
		if err != nil || qty <= 0 {
			continue
		}
		out = append(out, Item{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *Service) Clear(ctx context.Context, userID int64) ([]Item, error) {
	if err := s.Redis.Del(ctx, redisx.CartKey(userID)).Err(); err != nil {
		return nil, fmt.Errorf("cart clear: %w", err)
	}
	return []Item{}, nil
}
