package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/google/uuid"
)

// Record appends one ledger entry for b through tx. It does not touch the
// brick's stock and does not check the source against a vocabulary.
func Record(ctx context.Context, tx repository.Tx, b entity.Brick, quantity int, dir entity.Direction, source string) (entity.StockEntry, error) {
	if quantity <= 0 {
		return entity.StockEntry{}, fmt.Errorf("ledger quantity must be positive, got %d", quantity)
	}
	e := entity.StockEntry{
		ID:        uuid.NewString(),
		BrickID:   b.ID,
		BrickName: b.Name,
		Quantity:  quantity,
		Direction: dir,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
	if err := tx.StockHistory().Append(ctx, e); err != nil {
		return entity.StockEntry{}, fmt.Errorf("append ledger entry: %w", err)
	}
	return e, nil
}

// RecordDelta ledgers a signed change: credit when positive, debit when
// negative, nothing when zero.
func RecordDelta(ctx context.Context, tx repository.Tx, b entity.Brick, delta int, source string) error {
	switch {
	case delta > 0:
		_, err := Record(ctx, tx, b, delta, entity.Credit, source)
		return err
	case delta < 0:
		_, err := Record(ctx, tx, b, -delta, entity.Debit, source)
		return err
	}
	return nil
}

// Adjust sets stock to max(0, stock+delta) and ledgers the change actually
// applied, so a clamped decrement never leaves the ledger ahead of stock.
// A missing brick yields repository.ErrNotFound.
func Adjust(ctx context.Context, tx repository.Tx, brickID string, delta int, source string) (entity.Brick, error) {
	b, err := tx.Bricks().GetByID(ctx, brickID)
	if err != nil {
		return entity.Brick{}, err
	}
	next := max(b.Stock+delta, 0)
	return apply(ctx, tx, b, next, source)
}

// SetAbsolute overwrites stock and ledgers the difference.
func SetAbsolute(ctx context.Context, tx repository.Tx, b entity.Brick, newStock int, source string) (entity.Brick, error) {
	if newStock < 0 {
		return entity.Brick{}, fmt.Errorf("stock cannot be negative, got %d", newStock)
	}
	return apply(ctx, tx, b, newStock, source)
}

func apply(ctx context.Context, tx repository.Tx, b entity.Brick, next int, source string) (entity.Brick, error) {
	applied := next - b.Stock
	if applied == 0 {
		return b, nil
	}
	b.Stock = next
	b.UpdatedAt = time.Now().UTC()
	if err := tx.Bricks().Update(ctx, b); err != nil {
		return entity.Brick{}, err
	}
	if err := RecordDelta(ctx, tx, b, applied, source); err != nil {
		return entity.Brick{}, err
	}
	return b, nil
}
