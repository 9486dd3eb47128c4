package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*Order
	items  map[int64][]OrderItem
}

func newMemStore() *memStore {
	return &memStore{orders: map[int64]*Order{}, items: map[int64][]OrderItem{}}
}

func (s *memStore) InsertOrder(_ context.Context, o *Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	s.orders[o.ID] = &cp
	return o.ID, nil
}

func (s *memStore) InsertItem(_ context.Context, it *OrderItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	it.ID = s.nextID
	s.items[it.OrderID] = append(s.items[it.OrderID], *it)
	return it.ID, nil
}

func (s *memStore) GetOrder(_ context.Context, id int64) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) ListItems(_ context.Context, orderID int64) ([]OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]OrderItem{}, s.items[orderID]...), nil
}

func (s *memStore) ListByUser(_ context.Context, userID int64) ([]Order, error) {
	return s.filter(func(o *Order) bool { return o.UserID == userID }), nil
}

func (s *memStore) ListPending(_ context.Context) ([]Order, error) {
	return s.filter(func(o *Order) bool { return o.Status == StatusPending }), nil
}

func (s *memStore) filter(keep func(*Order) bool) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Order{}
	for id := int64(1); id <= s.nextID; id++ {
		if o, ok := s.orders[id]; ok && keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

func (s *memStore) UpdateStatus(_ context.Context, id int64, st Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != StatusPending {
		return false, nil
	}
	o.Status = st
	return true, nil
}

var errInsertFailed = errors.New("insert failed")

// brokenItems fails every item insert.
type brokenItems struct{ *memStore }

func (brokenItems) InsertItem(context.Context, *OrderItem) (int64, error) {
	return 0, errInsertFailed
}

// raceStore lets another caller cancel the order just before UpdateStatus runs.
type raceStore struct{ *memStore }

func (s raceStore) UpdateStatus(ctx context.Context, id int64, st Status) (bool, error) {
	s.mu.Lock()
	if o, ok := s.orders[id]; ok {
		o.Status = StatusCancelled
	}
	s.mu.Unlock()
	return s.memStore.UpdateStatus(ctx, id, st)
}

type stockKey struct {
	product int64
	size    catalog.Size
}

type memLedger struct {
	mu    sync.Mutex
	stock map[stockKey]int
	err   error
}

func newMemLedger() *memLedger { return &memLedger{stock: map[stockKey]int{}} }

func (l *memLedger) set(product int64, size catalog.Size, n int) {
	l.stock[stockKey{product, size}] = n
}

func (l *memLedger) get(product int64, size catalog.Size) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[stockKey{product, size}]
}

func (l *memLedger) Reserve(_ context.Context, product int64, size catalog.Size, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	k := stockKey{product, size}
	n, ok := l.stock[k]
	if !ok || n < qty {
		return apperr.Newf(apperr.CodeInsufficientStock, "Not enough stock for product ID %d, size %s", product, size)
	}
	l.stock[k] = n - qty
	return nil
}

func (l *memLedger) Restore(_ context.Context, product int64, size catalog.Size, qty int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := stockKey{product, size}
	n, ok := l.stock[k]
	if !ok {
		return false, nil
	}
	l.stock[k] = n + qty
	return true, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) templates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Template)
	}
	return out
}

var errSMTPDown = errors.New("smtp down")
