package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
)

const (
	appendStockEntryQuery = `
		INSERT INTO stock_history (id, brick_id, brick_name, quantity, direction, source, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	// empty filter arguments match every row
	listStockEntriesQuery = `
		SELECT id, brick_id, brick_name, quantity, direction, source, created_at
		FROM stock_history
		WHERE ($1 = '' OR direction = $1)
		  AND ($2 = '' OR source = $2)
		  AND ($3 = '' OR brick_id = $3)
		ORDER BY seq
	`

	spendColumns     = `id, year, month, labour, clay, coal, transport, other, total, created_at`
	listSpendsQuery  = `SELECT ` + spendColumns + ` FROM spends ORDER BY year, month`
	getSpendQuery    = `SELECT ` + spendColumns + ` FROM spends WHERE year = $1 AND month = $2`
	upsertSpendQuery = `
		INSERT INTO spends (id, year, month, labour, clay, coal, transport, other, total, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (year, month) DO UPDATE
		SET labour = EXCLUDED.labour, clay = EXCLUDED.clay, coal = EXCLUDED.coal,
			transport = EXCLUDED.transport, other = EXCLUDED.other, total = EXCLUDED.total
		RETURNING id, created_at
	`
)

type stockRepo struct{ t *tx }

func (r stockRepo) Append(ctx context.Context, e entity.StockEntry) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	_, err := r.t.q.ExecContext(ctx, appendStockEntryQuery,
		e.ID, e.BrickID, e.BrickName, e.Quantity, e.Direction, e.Source, e.Timestamp)
	return err
}

func (r stockRepo) List(ctx context.Context, f entity.StockFilter) ([]entity.StockEntry, error) {
	rows, err := r.t.q.QueryContext(ctx, listStockEntriesQuery, string(f.Direction), f.Source, f.BrickID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.StockEntry, 0)
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ID, &e.BrickID, &e.BrickName, &e.Quantity, &e.Direction, &e.Source, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type spendRepo struct{ t *tx }

func scanSpend(row scanner) (entity.Spend, error) {
	var s entity.Spend
	err := row.Scan(&s.ID, &s.Year, &s.Month, &s.Labour, &s.Clay, &s.Coal, &s.Transport, &s.Other, &s.Total, &s.CreatedAt)
	return s, err
}

func (r spendRepo) List(ctx context.Context) ([]entity.Spend, error) {
	rows, err := r.t.q.QueryContext(ctx, listSpendsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Spend, 0)
	for rows.Next() {
		s, err := scanSpend(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r spendRepo) Get(ctx context.Context, year, month int) (entity.Spend, error) {
	s, err := scanSpend(r.t.q.QueryRowContext(ctx, getSpendQuery, year, month))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Spend{}, repository.ErrNotFound
	}
	return s, err
}

func (r spendRepo) Upsert(ctx context.Context, s entity.Spend) (entity.Spend, error) {
	if err := r.t.writable(); err != nil {
		return entity.Spend{}, err
	}
	err := r.t.q.QueryRowContext(ctx, upsertSpendQuery,
		s.ID, s.Year, s.Month, s.Labour, s.Clay, s.Coal, s.Transport, s.Other, s.Total, s.CreatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	return s, err
}
