package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
)

const (
	orderColumns = `id, customer_id, customer_info, items, total, status, stock_deducted, created_at, updated_at`

	listOrdersQuery           = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, seq DESC`
	listOrdersByCustomerQuery = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC, seq DESC`
	getOrderByIDQuery         = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	insertOrderQuery          = `
		INSERT INTO orders (id, customer_id, customer_info, items, total, status, stock_deducted, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	updateOrderQuery = `
		UPDATE orders
		SET customer_id = $2, customer_info = $3, items = $4, total = $5,
			status = $6, stock_deducted = $7, updated_at = $8
		WHERE id = $1
	`
	deleteOrderQuery = `DELETE FROM orders WHERE id = $1`
)

func scanOrder(row scanner) (entity.Order, error) {
	var (
		o        entity.Order
		infoJSON []byte
		itemJSON []byte
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &infoJSON, &itemJSON, &o.Total, &o.Status,
		&o.StockDeducted, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return entity.Order{}, err
	}
	if len(infoJSON) > 0 && string(infoJSON) != "null" {
		o.CustomerInfo = new(entity.CustomerInfo)
		if err := json.Unmarshal(infoJSON, o.CustomerInfo); err != nil {
			return entity.Order{}, fmt.Errorf("decode customer info of order %s: %w", o.ID, err)
		}
	}
	if err := json.Unmarshal(itemJSON, &o.Items); err != nil {
		return entity.Order{}, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	return o, nil
}

// encodeOrder returns the JSONB arguments for customer_info and items.
func encodeOrder(o entity.Order) (info, items []byte, err error) {
	if o.CustomerInfo != nil {
		if info, err = json.Marshal(o.CustomerInfo); err != nil {
			return nil, nil, err
		}
	}
	lines := o.Items
	if lines == nil {
		lines = []entity.OrderItem{}
	}
	items, err = json.Marshal(lines)
	return info, items, err
}

type orderRepo struct{ t *tx }

func (r orderRepo) query(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r orderRepo) List(ctx context.Context) ([]entity.Order, error) {
	return r.query(ctx, listOrdersQuery)
}

func (r orderRepo) ListByCustomer(ctx context.Context, customerID string) ([]entity.Order, error) {
	return r.query(ctx, listOrdersByCustomerQuery, customerID)
}

func (r orderRepo) GetByID(ctx context.Context, id string) (entity.Order, error) {
	o, err := scanOrder(r.t.q.QueryRowContext(ctx, getOrderByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, repository.ErrNotFound
	}
	return o, err
}

func (r orderRepo) Create(ctx context.Context, o entity.Order) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	info, items, err := encodeOrder(o)
	if err != nil {
		return err
	}
	_, err = r.t.q.ExecContext(ctx, insertOrderQuery,
		o.ID, o.CustomerID, info, items, o.Total, o.Status, o.StockDeducted, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r orderRepo) Update(ctx context.Context, o entity.Order) error {
	info, items, err := encodeOrder(o)
	if err != nil {
		return err
	}
	return r.t.exec(ctx, updateOrderQuery,
		o.ID, o.CustomerID, info, items, o.Total, o.Status, o.StockDeducted, o.UpdatedAt)
}

func (r orderRepo) Delete(ctx context.Context, id string) error {
	return r.t.exec(ctx, deleteOrderQuery, id)
}
