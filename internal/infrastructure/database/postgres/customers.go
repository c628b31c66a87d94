package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
)

const (
	customerColumns = `id, name, email, phone, address, created_at, updated_at`

	listCustomersQuery      = `SELECT ` + customerColumns + ` FROM customers ORDER BY seq`
	getCustomerByIDQuery    = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	getCustomerByEmailQuery = `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1)`
	insertCustomerQuery     = `
		INSERT INTO customers (id, name, email, phone, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	updateCustomerQuery = `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $1
	`
	deleteCustomerQuery = `DELETE FROM customers WHERE id = $1`

	getCartQuery    = `SELECT user_id, items, updated_at FROM carts WHERE user_id = $1`
	upsertCartQuery = `
		INSERT INTO carts (user_id, items, updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`
	deleteCartQuery = `DELETE FROM carts WHERE user_id = $1`
)

func scanCustomer(row scanner) (entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type customerRepo struct{ t *tx }

func (r customerRepo) List(ctx context.Context) ([]entity.Customer, error) {
	rows, err := r.t.q.QueryContext(ctx, listCustomersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r customerRepo) get(ctx context.Context, query, arg string) (entity.Customer, error) {
	c, err := scanCustomer(r.t.q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Customer{}, repository.ErrNotFound
	}
	return c, err
}

func (r customerRepo) GetByID(ctx context.Context, id string) (entity.Customer, error) {
	return r.get(ctx, getCustomerByIDQuery, id)
}

func (r customerRepo) GetByEmail(ctx context.Context, email string) (entity.Customer, error) {
	return r.get(ctx, getCustomerByEmailQuery, email)
}

func (r customerRepo) Create(ctx context.Context, c entity.Customer) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	_, err := r.t.q.ExecContext(ctx, insertCustomerQuery,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r customerRepo) Update(ctx context.Context, c entity.Customer) error {
	return r.t.exec(ctx, updateCustomerQuery, c.ID, c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt)
}

func (r customerRepo) Delete(ctx context.Context, id string) error {
	return r.t.exec(ctx, deleteCustomerQuery, id)
}

type cartRepo struct{ t *tx }

func (r cartRepo) Get(ctx context.Context, userID string) (entity.Cart, error) {
	var (
		c        entity.Cart
		itemJSON []byte
	)
	err := r.t.q.QueryRowContext(ctx, getCartQuery, userID).Scan(&c.UserID, &itemJSON, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Cart{}, repository.ErrNotFound
	}
	if err != nil {
		return entity.Cart{}, err
	}
	if err := json.Unmarshal(itemJSON, &c.Items); err != nil {
		return entity.Cart{}, err
	}
	return c, nil
}

func (r cartRepo) Save(ctx context.Context, c entity.Cart) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	items := c.Items
	if items == nil {
		items = []entity.CartItem{}
	}
	itemJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = r.t.q.ExecContext(ctx, upsertCartQuery, c.UserID, itemJSON, c.UpdatedAt)
	return err
}

func (r cartRepo) Delete(ctx context.Context, userID string) error {
	return r.t.exec(ctx, deleteCartQuery, userID)
}
