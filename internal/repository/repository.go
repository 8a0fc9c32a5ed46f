package repository

import (
	"context"
	"database/sql"
	"time"

	"packaging_cell/internal/models"

	"github.com/spf13/afero"
)

type Authorization interface {
	Create(ctx context.Context, a models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	SetAdmin(ctx context.Context, username string, isAdmin bool) error
}

type OrderRepo interface {
	BagCount(ctx context.Context, orderID string) (*int, error)
	Upsert(ctx context.Context, o models.Order) error
	Seed(ctx context.Context, orders []models.Order, force bool) (bool, error)
	DeleteAll(ctx context.Context) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.CellEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.CellEvent, error)
}

// ProgramStore loads controller programs by identifier.
type ProgramStore interface {
	Load(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]string, error)
}

type Repository struct {
	Orders   OrderRepo
	Events   EventRepo
	Auth     Authorization
	Programs ProgramStore
}

// NewRepository wires the SQLite repositories and a program store rooted at programsDir on fs.
func NewRepository(db *sql.DB, fs afero.Fs, programsDir string) *Repository {
	return &Repository{
		Orders:   NewOrderSQLite(db),
		Events:   NewEventSQLite(db),
		Auth:     NewAccountRepository(db),
		Programs: NewProgramFiles(fs, programsDir),
	}
}
