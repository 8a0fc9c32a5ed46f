package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"packaging_cell/internal/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*AccountRepository)(nil)

const (
	insertAccountSQL           = `INSERT INTO accounts (username, password_hash, is_admin) VALUES (?, ?, ?)`
	selectAccountByUsernameSQL = `SELECT username, password_hash, is_admin FROM accounts WHERE username = ?`
	updateAccountAdminSQL      = `UPDATE accounts SET is_admin = ? WHERE username = ?`
)

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a models.Account) error {
	if _, err := r.db.ExecContext(ctx, insertAccountSQL, a.Username, a.PasswordHash, a.IsAdmin); err != nil {
		return fmt.Errorf("insert account %q: %w", a.Username, err)
	}
	return nil
}

// GetByUsername fetches an account by username. Returns (nil, nil) if not found.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRowContext(ctx, selectAccountByUsernameSQL, username).Scan(&a.Username, &a.PasswordHash, &a.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select account %q: %w", username, err)
	}
	return &a, nil
}

// SetAdmin changes the admin flag of an existing account.
func (r *AccountRepository) SetAdmin(ctx context.Context, username string, isAdmin bool) error {
	res, err := r.db.ExecContext(ctx, updateAccountAdminSQL, isAdmin, username)
	if err != nil {
		return fmt.Errorf("update account %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for account %q: %w", username, err)
	}
	if n == 0 {
		return fmt.Errorf("update account %q: %w", username, sql.ErrNoRows)
	}
	return nil
}
