package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"packaging_cell/internal/models"
)

type OrderSQLite struct {
	db *sql.DB
}

func NewOrderSQLite(db *sql.DB) *OrderSQLite {
	return &OrderSQLite{db: db}
}

var _ OrderRepo = (*OrderSQLite)(nil)

const (
	selectBagCountSQL = `SELECT bag_count FROM orders WHERE id = ?`

	upsertOrderSQL = `
		INSERT INTO orders (id, bag_count)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bag_count=excluded.bag_count
	`

	countOrdersSQL  = `SELECT COUNT(*) FROM orders`
	deleteOrdersSQL = `DELETE FROM orders`
)

// BagCount returns the bag count for orderID, or (nil, nil) if the order does not exist.
func (r *OrderSQLite) BagCount(ctx context.Context, orderID string) (*int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, selectBagCountSQL, orderID).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order %q: %w", orderID, err)
	}
	return &count, nil
}

// Upsert inserts the order or replaces its bag count.
func (r *OrderSQLite) Upsert(ctx context.Context, o models.Order) error {
	if _, err := r.db.ExecContext(ctx, upsertOrderSQL, o.ID, o.BagCount); err != nil {
		return fmt.Errorf("upsert order %q: %w", o.ID, err)
	}
	return nil
}

// Seed writes orders in one transaction. Unless force is set, it does nothing
// when the table already has rows. Reports whether anything was written.
func (r *OrderSQLite) Seed(ctx context.Context, orders []models.Order, force bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if !force {
		var n int
		if err := tx.QueryRowContext(ctx, countOrdersSQL).Scan(&n); err != nil {
			return false, fmt.Errorf("count orders: %w", err)
		}
		if n > 0 {
			return false, nil
		}
	}

	for _, o := range orders {
		if _, err := tx.ExecContext(ctx, upsertOrderSQL, o.ID, o.BagCount); err != nil {
			return false, fmt.Errorf("seed order %q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed transaction: %w", err)
	}
	return true, nil
}

// DeleteAll removes every order.
func (r *OrderSQLite) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteOrdersSQL); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	return nil
}
