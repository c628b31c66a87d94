package inmemory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
)

func cloneOrder(o entity.Order) entity.Order {
	o.Items = slices.Clone(o.Items)
	if o.CustomerInfo != nil {
		info := *o.CustomerInfo
		o.CustomerInfo = &info
	}
	return o
}

func cloneCart(c entity.Cart) entity.Cart {
	c.Items = slices.Clone(c.Items)
	return c
}

type brickRepo struct{ t *tx }

func (r brickRepo) List(ctx context.Context) ([]entity.Brick, error) {
	return append([]entity.Brick{}, r.t.st.Bricks...), nil
}

func (r brickRepo) GetByID(ctx context.Context, id string) (entity.Brick, error) {
	i := slices.IndexFunc(r.t.st.Bricks, func(b entity.Brick) bool { return b.ID == id })
	if i < 0 {
		return entity.Brick{}, repository.ErrNotFound
	}
	return r.t.st.Bricks[i], nil
}

func (r brickRepo) GetByIDs(ctx context.Context, ids []string) ([]entity.Brick, error) {
	out := make([]entity.Brick, 0, len(ids))
	for _, b := range r.t.st.Bricks {
		if slices.Contains(ids, b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r brickRepo) Create(ctx context.Context, b entity.Brick) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, err := r.GetByID(ctx, b.ID); err == nil {
		return fmt.Errorf("brick %s already exists", b.ID)
	}
	r.t.st.Bricks = append(r.t.st.Bricks, b)
	return nil
}

func (r brickRepo) Update(ctx context.Context, b entity.Brick) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	i := slices.IndexFunc(r.t.st.Bricks, func(x entity.Brick) bool { return x.ID == b.ID })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.t.st.Bricks[i] = b
	return nil
}

func (r brickRepo) Delete(ctx context.Context, id string) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	i := slices.IndexFunc(r.t.st.Bricks, func(x entity.Brick) bool { return x.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.t.st.Bricks = slices.Delete(r.t.st.Bricks, i, i+1)
	return nil
}

type orderRepo struct{ t *tx }

func newestFirst(orders []entity.Order) []entity.Order {
	out := make([]entity.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		out = append(out, cloneOrder(orders[i]))
	}
	slices.SortStableFunc(out, func(a, b entity.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (r orderRepo) List(ctx context.Context) ([]entity.Order, error) {
	return newestFirst(r.t.st.Orders), nil
}

func (r orderRepo) ListByCustomer(ctx context.Context, customerID string) ([]entity.Order, error) {
	var matched []entity.Order
	for _, o := range r.t.st.Orders {
		if o.CustomerID == customerID {
			matched = append(matched, o)
		}
	}
	return newestFirst(matched), nil
}

func (r orderRepo) index(id string) int {
	return slices.IndexFunc(r.t.st.Orders, func(o entity.Order) bool { return o.ID == id })
}

func (r orderRepo) GetByID(ctx context.Context, id string) (entity.Order, error) {
	i := r.index(id)
	if i < 0 {
		return entity.Order{}, repository.ErrNotFound
	}
	return cloneOrder(r.t.st.Orders[i]), nil
}

func (r orderRepo) Create(ctx context.Context, o entity.Order) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if r.index(o.ID) >= 0 {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	r.t.st.Orders = append(r.t.st.Orders, cloneOrder(o))
	return nil
}

func (r orderRepo) Update(ctx context.Context, o entity.Order) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	i := r.index(o.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.t.st.Orders[i] = cloneOrder(o)
	return nil
}

func (r orderRepo) Delete(ctx context.Context, id string) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.t.st.Orders = slices.Delete(r.t.st.Orders, i, i+1)
	return nil
}

type cartRepo struct{ t *tx }

func (r cartRepo) Get(ctx context.Context, userID string) (entity.Cart, error) {
	c, ok := r.t.st.Carts[userID]
	if !ok {
		return entity.Cart{}, repository.ErrNotFound
	}
	return cloneCart(c), nil
}

func (r cartRepo) Save(ctx context.Context, c entity.Cart) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	r.t.st.Carts[c.UserID] = cloneCart(c)
	return nil
}

func (r cartRepo) Delete(ctx context.Context, userID string) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.st.Carts[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.t.st.Carts, userID)
	return nil
}

type customerRepo struct{ t *tx }

func (r customerRepo) index(id string) int {
	return slices.IndexFunc(r.t.st.Customers, func(c entity.Customer) bool { return c.ID == id })
}

func (r customerRepo) List(ctx context.Context) ([]entity.Customer, error) {
	return append([]entity.Customer{}, r.t.st.Customers...), nil
}

func (r customerRepo) GetByID(ctx context.Context, id string) (entity.Customer, error) {
	i := r.index(id)
	if i < 0 {
		return entity.Customer{}, repository.ErrNotFound
	}
	return r.t.st.Customers[i], nil
}

func (r customerRepo) GetByEmail(ctx context.Context, email string) (entity.Customer, error) {
	for _, c := range r.t.st.Customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return entity.Customer{}, repository.ErrNotFound
}

func (r customerRepo) Create(ctx context.Context, c entity.Customer) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if r.index(c.ID) >= 0 {
		return fmt.Errorf("customer %s already exists", c.ID)
	}
	r.t.st.Customers = append(r.t.st.Customers, c)
	return nil
}

func (r customerRepo) Update(ctx context.Context, c entity.Customer) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	i := r.index(c.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.t.st.Customers[i] = c
	return nil
}

func (r customerRepo) Delete(ctx context.Context, id string) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.t.st.Customers = slices.Delete(r.t.st.Customers, i, i+1)
	return nil
}

type stockRepo struct{ t *tx }

func (r stockRepo) Append(ctx context.Context, e entity.StockEntry) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	r.t.st.StockHistory = append(r.t.st.StockHistory, e)
	return nil
}

func (r stockRepo) List(ctx context.Context, f entity.StockFilter) ([]entity.StockEntry, error) {
	out := make([]entity.StockEntry, 0, len(r.t.st.StockHistory))
	for _, e := range r.t.st.StockHistory {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

type spendRepo struct{ t *tx }

func (r spendRepo) List(ctx context.Context) ([]entity.Spend, error) {
	return append([]entity.Spend{}, r.t.st.Spends...), nil
}

func (r spendRepo) index(year, month int) int {
	return slices.IndexFunc(r.t.st.Spends, func(s entity.Spend) bool {
		return s.Year == year && s.Month == month
	})
}

func (r spendRepo) Get(ctx context.Context, year, month int) (entity.Spend, error) {
	i := r.index(year, month)
	if i < 0 {
		return entity.Spend{}, repository.ErrNotFound
	}
	return r.t.st.Spends[i], nil
}

func (r spendRepo) Upsert(ctx context.Context, s entity.Spend) (entity.Spend, error) {
	if err := r.t.writable(); err != nil {
		return entity.Spend{}, err
	}
	if i := r.index(s.Year, s.Month); i >= 0 {
		s.ID = r.t.st.Spends[i].ID
		s.CreatedAt = r.t.st.Spends[i].CreatedAt
		r.t.st.Spends[i] = s
		return s, nil
	}
	r.t.st.Spends = append(r.t.st.Spends, s)
	return s, nil
}
