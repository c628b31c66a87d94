package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickco/brickco-api/internal/domain/repository"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// writerLockKey is the pg_advisory_xact_lock key shared by all writers.
const writerLockKey int64 = 0x4272_6963

// querier is satisfied by *sql.Tx and *sql.DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a Postgres implementation of repository.UnitOfWork.
type Store struct {
	db *sql.DB
}

var _ repository.UnitOfWork = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects through the pgx database/sql driver and pings the server.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Update runs fn in a transaction holding the writer lock and commits
// when fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(tx repository.Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			sqlTx.Rollback()
		}
	}()

	if _, err = sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, writerLockKey); err != nil {
		return fmt.Errorf("acquire writer lock: %w", err)
	}
	if err = fn(&tx{q: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer sqlTx.Rollback()
	return fn(&tx{q: sqlTx, readOnly: true})
}

type tx struct {
	q        querier
	readOnly bool
}

func (t *tx) Bricks() repository.BrickRepository             { return brickRepo{t} }
func (t *tx) Orders() repository.OrderRepository             { return orderRepo{t} }
func (t *tx) Carts() repository.CartRepository               { return cartRepo{t} }
func (t *tx) Customers() repository.CustomerRepository       { return customerRepo{t} }
func (t *tx) StockHistory() repository.StockHistoryRepository { return stockRepo{t} }
func (t *tx) Spends() repository.SpendRepository             { return spendRepo{t} }

func (t *tx) writable() error {
	if t.readOnly {
		return repository.ErrReadOnly
	}
	return nil
}

// exec runs a write and maps "no rows affected" to ErrNotFound.
func (t *tx) exec(ctx context.Context, query string, args ...any) error {
	if err := t.writable(); err != nil {
		return err
	}
	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
