package repository

import (
	"context"
	"errors"

	"github.com/brickco/brickco-api/internal/domain/entity"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrReadOnly = errors.New("write attempted in a read-only transaction")
)

// BrickRepository defines persistence operations for bricks.
type BrickRepository interface {
	List(ctx context.Context) ([]entity.Brick, error)
	GetByID(ctx context.Context, id string) (entity.Brick, error)
	// GetByIDs skips ids that do not exist.
	GetByIDs(ctx context.Context, ids []string) ([]entity.Brick, error)
	Create(ctx context.Context, b entity.Brick) error
	Update(ctx context.Context, b entity.Brick) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository lists orders newest first.
type OrderRepository interface {
	List(ctx context.Context) ([]entity.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]entity.Order, error)
	GetByID(ctx context.Context, id string) (entity.Order, error)
	Create(ctx context.Context, o entity.Order) error
	Update(ctx context.Context, o entity.Order) error
	Delete(ctx context.Context, id string) error
}

type CartRepository interface {
	Get(ctx context.Context, userID string) (entity.Cart, error)
	Save(ctx context.Context, c entity.Cart) error
	Delete(ctx context.Context, userID string) error
}

type CustomerRepository interface {
	List(ctx context.Context) ([]entity.Customer, error)
	GetByID(ctx context.Context, id string) (entity.Customer, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (entity.Customer, error)
	Create(ctx context.Context, c entity.Customer) error
	Update(ctx context.Context, c entity.Customer) error
	Delete(ctx context.Context, id string) error
}

// StockHistoryRepository is append-only. List returns entries in append order.
type StockHistoryRepository interface {
	Append(ctx context.Context, e entity.StockEntry) error
	List(ctx context.Context, f entity.StockFilter) ([]entity.StockEntry, error)
}

type SpendRepository interface {
	List(ctx context.Context) ([]entity.Spend, error)
	Get(ctx context.Context, year, month int) (entity.Spend, error)
	// Upsert keys on (year, month) and keeps the id of an existing row.
	Upsert(ctx context.Context, s entity.Spend) (entity.Spend, error)
}

// Tx exposes the per-table repositories bound to one transaction.
type Tx interface {
	Bricks() BrickRepository
	Orders() OrderRepository
	Carts() CartRepository
	Customers() CustomerRepository
	StockHistory() StockHistoryRepository
	Spends() SpendRepository
}

// UnitOfWork serialises writers. Every write made through the Tx passed to
// Update is committed together, or not at all when fn returns an error.
type UnitOfWork interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}
