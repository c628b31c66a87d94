package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var brickCols = []string{"id", "name", "sku", "material", "size", "color", "length", "width", "height", "price", "stock",
	"min_stock_threshold", "manufacturer", "storage_location", "image", "description", "featured", "created_at", "updated_at"}

func TestUpdate_CommitsUnderWriterLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewStore(db)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).WithArgs(writerLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE bricks").WithArgs("b1", "Red", "", "", "", "", 0.0, 0.0, 0.0,
		sqlmock.AnyArg(), 3, 0, "", "", "", "", false, now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO stock_history").WithArgs("e1", "b1", "Red", 2, entity.Debit, entity.SourceOrder, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = store.Update(context.Background(), func(tx repository.Tx) error {
		if err := tx.Bricks().Update(context.Background(), entity.Brick{ID: "b1", Name: "Red", Stock: 3, UpdatedAt: now}); err != nil {
			return err
		}
		return tx.StockHistory().Append(context.Background(), entity.StockEntry{
			ID: "e1", BrickID: "b1", BrickName: "Red", Quantity: 2, Direction: entity.Debit, Source: entity.SourceOrder, Timestamp: now,
		})
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE bricks").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = store.Update(context.Background(), func(tx repository.Tx) error {
		return tx.Bricks().Update(context.Background(), entity.Brick{ID: "missing"})
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestView_GetBricksByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewStore(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	rows := sqlmock.NewRows(brickCols).
		AddRow("b1", "Red", "R-1", "Clay", "Standard", "red", 21.5, 10.0, 6.5, "1.25", 40, 10, "", "", "", "", true, now, now).
		AddRow("b2", "Grey", "G-1", "Concrete", "Large", "grey", 30.0, 15.0, 10.0, "2.10", 5, 10, "", "", "", "", false, now, now)
	mock.ExpectQuery("FROM bricks WHERE id = ANY").WithArgs(pq.Array([]string{"b1", "b2"})).WillReturnRows(rows)
	mock.ExpectRollback()

	var got []entity.Brick
	err = store.View(context.Background(), func(tx repository.Tx) error {
		var err error
		got, err = tx.Bricks().GetByIDs(context.Background(), []string{"b1", "b2"})
		return err
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bricks, got %d", len(got))
	}
	if got[0].Material != entity.MaterialClay || !got[0].Price.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("unexpected brick %+v", got[0])
	}
	if !got[1].LowStock() {
		t.Fatalf("expected b2 to be low on stock")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestView_RejectsWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = store.View(context.Background(), func(tx repository.Tx) error {
		return tx.Carts().Delete(context.Background(), "u1")
	})
	if !errors.Is(err, repository.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestOrderRepo_GetByIDDecodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	r := orderRepo{&tx{q: db}}

	rows := sqlmock.NewRows([]string{"id", "customer_id", "customer_info", "items", "total", "status", "stock_deducted", "created_at", "updated_at"}).
		AddRow("o1", "c1", []byte(`{"name":"Ann"}`), []byte(`[{"brickId":"b1","quantity":3,"price":1.5,"total":4.5}]`), "4.50", "done", true, now, now)
	mock.ExpectQuery("FROM orders WHERE id").WithArgs("o1").WillReturnRows(rows)

	o, err := r.GetByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != entity.StatusDone || !o.StockDeducted || o.Quantity() != 3 {
		t.Fatalf("unexpected order %+v", o)
	}
	if o.CustomerInfo == nil || o.CustomerInfo.Name != "Ann" {
		t.Fatalf("customer info not decoded: %+v", o.CustomerInfo)
	}

	mock.ExpectQuery("FROM orders WHERE id").WithArgs("nope").WillReturnRows(sqlmock.NewRows(nil))
	if _, err := r.GetByID(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSpendRepo_UpsertReturnsStoredID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	created := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	r := spendRepo{&tx{q: db}}

	mock.ExpectQuery("INSERT INTO spends").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing", created))

	s, err := r.Upsert(context.Background(), entity.Spend{ID: "fresh", Year: 2024, Month: 1, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if s.ID != "existing" || !s.CreatedAt.Equal(created) {
		t.Fatalf("expected stored id and creation time, got %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStockRepo_ListPassesFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	r := stockRepo{&tx{q: db}}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "brick_id", "brick_name", "quantity", "direction", "source", "created_at"}).
		AddRow("e1", "b1", "Red", 4, "credit", "inventory", now)
	mock.ExpectQuery("FROM stock_history").WithArgs("credit", "", "b1").WillReturnRows(rows)

	got, err := r.List(context.Background(), entity.StockFilter{Direction: entity.Credit, BrickID: "b1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Delta() != 4 {
		t.Fatalf("unexpected entries %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMigrate_RunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
