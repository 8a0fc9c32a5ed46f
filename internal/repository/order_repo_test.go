package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"packaging_cell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockOrders(t *testing.T) (*OrderSQLite, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewOrderSQLite(db), mock
}

func TestOrderBagCount(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectBagCountSQL)).
			WithArgs("10452").
			WillReturnRows(sqlmock.NewRows([]string{"bag_count"}).AddRow(7))

		got, err := repo.BagCount(testCtx(t), "10452")
		if err != nil {
			t.Fatalf("BagCount: %v", err)
		}
		if got == nil || *got != 7 {
			t.Fatalf("want 7, got %v", got)
		}
	})

	t.Run("zero is a real count", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectBagCountSQL)).
			WithArgs("empty").
			WillReturnRows(sqlmock.NewRows([]string{"bag_count"}).AddRow(0))

		got, err := repo.BagCount(testCtx(t), "empty")
		if err != nil || got == nil || *got != 0 {
			t.Fatalf("want 0, got %v (err %v)", got, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectBagCountSQL)).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.BagCount(testCtx(t), "nope")
		if err != nil || got != nil {
			t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
		}
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectBagCountSQL)).
			WithArgs("x").
			WillReturnError(errors.New("disk I/O"))

		if _, err := repo.BagCount(testCtx(t), "x"); err == nil || !strings.Contains(err.Error(), "disk I/O") {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestOrderUpsert(t *testing.T) {
	t.Parallel()

	repo, mock := newMockOrders(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).
		WithArgs("12345", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).
		WithArgs("12345", 9).
		WillReturnError(errors.New("locked"))

	if err := repo.Upsert(testCtx(t), models.Order{ID: "12345", BagCount: 4}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	err := repo.Upsert(testCtx(t), models.Order{ID: "12345", BagCount: 9})
	if err == nil || !strings.Contains(err.Error(), `upsert order "12345"`) {
		t.Fatalf("expected upsert error, got %v", err)
	}
}

func TestOrderSeed(t *testing.T) {
	t.Parallel()

	orders := []models.Order{{ID: "12345", BagCount: 4}, {ID: "10452", BagCount: 7}}

	t.Run("empty table", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(countOrdersSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).WithArgs("12345", 4).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).WithArgs("10452", 7).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		seeded, err := repo.Seed(testCtx(t), orders, false)
		if err != nil || !seeded {
			t.Fatalf("want seeded, got %v (err %v)", seeded, err)
		}
	})

	t.Run("table has rows", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(countOrdersSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectRollback()

		seeded, err := repo.Seed(testCtx(t), orders, false)
		if err != nil || seeded {
			t.Fatalf("want untouched table, got %v (err %v)", seeded, err)
		}
	})

	t.Run("forced", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).WithArgs("12345", 4).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).WithArgs("10452", 7).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		seeded, err := repo.Seed(testCtx(t), orders, true)
		if err != nil || !seeded {
			t.Fatalf("want seeded, got %v (err %v)", seeded, err)
		}
	})

	t.Run("exec failure rolls back", func(t *testing.T) {
		repo, mock := newMockOrders(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(upsertOrderSQL)).WithArgs("12345", 4).WillReturnError(errors.New("constraint"))
		mock.ExpectRollback()

		seeded, err := repo.Seed(testCtx(t), orders, true)
		if err == nil || seeded {
			t.Fatalf("want failure, got %v (err %v)", seeded, err)
		}
	})
}

func TestOrderDeleteAll(t *testing.T) {
	t.Parallel()

	repo, mock := newMockOrders(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteOrdersSQL)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAll(testCtx(t)); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
}
