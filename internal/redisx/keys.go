package redisx

import (
	"fmt"
	"time"
)

const (
	// Cart per user: hash cart:{user_id} -> field {product_id} = quantity
	KeyCart = "cart:%d"

	// Dedup notification delivery: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)

func CartKey(userID int64) string { return fmt.Sprintf(KeyCart, userID) }

func DedupKey(service, id string) string { return fmt.Sprintf(KeyDedup, service, id) }
