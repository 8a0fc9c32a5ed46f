package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
	"packaging_cell/internal/repository"
)

var (
	ErrOrderIDMissing  = errors.New("order id is required")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidBagCount = errors.New("bag count must be zero or more")
)

// DemoOrders are loaded into an empty database by Seed.
var DemoOrders = []models.Order{
	{ID: "12345", BagCount: 4},
	{ID: "10452", BagCount: 7},
	{ID: "1001", BagCount: 3},
}

// OrderService tracks the order currently on the line. The expected bag
// count is a snapshot taken at fetch time; later edits to the stored order
// do not change it until the next Fetch.
type OrderService struct {
	orders repository.OrderRepo
	events recorder
	log    *logger.Logger

	mu      sync.RWMutex
	current OrderSnapshot
}

func NewOrderService(orders repository.OrderRepo, events repository.EventRepo, log *logger.Logger) *OrderService {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderService{orders: orders, events: recorder{events: events, log: log}, log: log}
}

// Fetch selects orderID and snapshots its bag count. An unknown order still
// becomes the current one, with no expected count, and ErrOrderNotFound is returned.
func (s *OrderService) Fetch(ctx context.Context, orderID string) (OrderSnapshot, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return OrderSnapshot{}, ErrOrderIDMissing
	}

	count, err := s.orders.BagCount(ctx, orderID)
	if err != nil {
		s.events.recordError(ctx, "order_fetch", err, map[string]any{"order_id": orderID})
		return OrderSnapshot{}, err
	}

	snap := OrderSnapshot{OrderID: orderID, BagCount: count}
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	meta := map[string]any{"order_id": orderID}
	if count != nil {
		meta["bag_count"] = *count
	}
	s.events.record(ctx, models.EventOrderFetch, "order fetched", meta)

	if count == nil {
		return snap, ErrOrderNotFound
	}
	return snap.clone(), nil
}

// Current returns a copy of the selected order snapshot.
func (s *OrderService) Current() OrderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

func (s *OrderService) Upsert(ctx context.Context, orderID string, bagCount int) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrOrderIDMissing
	}
	if bagCount < 0 {
		return ErrInvalidBagCount
	}
	return s.orders.Upsert(ctx, models.Order{ID: orderID, BagCount: bagCount})
}

// Seed loads DemoOrders. Without force it leaves a non-empty table untouched.
func (s *OrderService) Seed(ctx context.Context, force bool) (bool, error) {
	seeded, err := s.orders.Seed(ctx, DemoOrders, force)
	if err != nil {
		return false, err
	}
	if seeded {
		s.log.Infow("orders_seeded", "count", len(DemoOrders), "force", force)
	}
	return seeded, nil
}

// Reset deletes every order and clears the selection.
func (s *OrderService) Reset(ctx context.Context) error {
	if err := s.orders.DeleteAll(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = OrderSnapshot{}
	s.mu.Unlock()
	return nil
}

func (o OrderSnapshot) clone() OrderSnapshot {
	if o.BagCount != nil {
		n := *o.BagCount
		o.BagCount = &n
	}
	return o
}
