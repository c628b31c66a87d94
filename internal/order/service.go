package order

import (
	"context"
	"errors"
	"time"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/brickco/brickco-api/internal/infrastructure/metrics"
	"github.com/brickco/brickco-api/internal/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errOrderNotFound    = apperr.NotFound("Order not found")
	errAlreadyCancelled = apperr.Conflict("Order is already cancelled")
)

// Service provides business logic for orders.
type Service struct {
	uow     repository.UnitOfWork
	log     *zap.Logger
	metrics metrics.Recorder
}

func NewService(uow repository.UnitOfWork, log *zap.Logger, rec metrics.Recorder) *Service {
	return &Service{uow: uow, log: log, metrics: rec}
}

func listViews(ctx context.Context, tx repository.Tx, orders []entity.Order) ([]View, error) {
	customers, err := tx.Customers().List(ctx)
	if err != nil {
		return nil, err
	}
	bricks, err := tx.Bricks().List(ctx)
	if err != nil {
		return nil, err
	}
	return enrich(orders, customers, bricks), nil
}

func allViews(ctx context.Context, tx repository.Tx) ([]View, error) {
	orders, err := tx.Orders().List(ctx)
	if err != nil {
		return nil, err
	}
	return listViews(ctx, tx, orders)
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]View, error) {
	var out []View
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = allViews(ctx, tx)
		return err
	})
	return out, err
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]View, error) {
	var out []View
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		orders, err := tx.Orders().ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		out, err = listViews(ctx, tx, orders)
		return err
	})
	return out, err
}

func (s *Service) GetByID(ctx context.Context, id string) (View, error) {
	var out View
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		o, err := tx.Orders().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return err
		}
		views, err := listViews(ctx, tx, []entity.Order{o})
		if err != nil {
			return err
		}
		out = views[0]
		return nil
	})
	return out, err
}

// Create places a single-line pending order. Stock is not touched until
// the order is marked done.
func (s *Service) Create(ctx context.Context, in CreateInput) ([]View, error) {
	if in.CustomerID == "" || in.BrickID == "" || in.Quantity == nil {
		return nil, apperr.Validation("Missing required fields")
	}
	if *in.Quantity <= 0 {
		return nil, apperr.Validation("Invalid quantity")
	}

	var (
		out []View
		o   entity.Order
	)
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		if _, err := tx.Customers().GetByID(ctx, in.CustomerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Validation("Invalid customer")
			}
			return err
		}
		b, err := tx.Bricks().GetByID(ctx, in.BrickID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("Invalid brick")
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		item := entity.NewOrderItem(b, *in.Quantity)
		o = entity.Order{
			ID:         uuid.NewString(),
			CustomerID: in.CustomerID,
			Items:      []entity.OrderItem{item},
			Total:      item.Total,
			Status:     entity.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		out, err = allViews(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return out, nil
}

// SetStatus moves an order along its lifecycle. Moving to done takes the
// order's quantities out of stock unless that already happened at checkout;
// moving to cancelled never restores stock.
func (s *Service) SetStatus(ctx context.Context, id, status string) ([]View, error) {
	next, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.Validation("Invalid status")
	}

	var (
		out  []View
		prev entity.OrderStatus
	)
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		o, err := tx.Orders().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return err
		}
		prev = o.Status

		if next == entity.StatusCancelled {
			if err := cancel(ctx, tx, &o, false); err != nil {
				return err
			}
		} else {
			if !o.Status.CanTransition(next) {
				return apperr.Validationf("Cannot change order status from %s to %s", o.Status, next)
			}
			if next == entity.StatusDone && o.Status != entity.StatusDone && !o.StockDeducted {
				if err := deduct(ctx, tx, o); err != nil {
					return err
				}
				o.StockDeducted = true
			}
			o.Status = next
			o.UpdatedAt = time.Now().UTC()
			if err := tx.Orders().Update(ctx, o); err != nil {
				return err
			}
		}
		out, err = allViews(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if prev != next {
		s.log.Info("order status changed",
			zap.String("order_id", id),
			zap.String("from", string(prev)),
			zap.String("to", string(next)),
		)
		switch next {
		case entity.StatusDone:
			s.metrics.Count(ctx, metrics.OrdersCompleted, nil)
		case entity.StatusCancelled:
			s.metrics.Count(ctx, metrics.OrdersCancelled, nil)
		}
	}
	return out, nil
}

// Cancel cancels an order, putting its quantities back into stock when
// restoreStock is set and they had been taken out.
func (s *Service) Cancel(ctx context.Context, id string, restoreStock bool) ([]View, error) {
	var out []View
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		o, err := tx.Orders().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return err
		}
		if err := cancel(ctx, tx, &o, restoreStock); err != nil {
			return err
		}
		out, err = allViews(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order cancelled", zap.String("order_id", id), zap.Bool("restore_stock", restoreStock))
	s.metrics.Count(ctx, metrics.OrdersCancelled, nil)
	return out, nil
}

// Delete removes an order, restoring stock first under the same rule as
// Cancel.
func (s *Service) Delete(ctx context.Context, id string, restoreStock bool) ([]View, error) {
	var out []View
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		o, err := tx.Orders().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return err
		}
		if restoreStock && o.StockDeducted {
			if err := restore(ctx, tx, o); err != nil {
				return err
			}
		}
		if err := tx.Orders().Delete(ctx, id); err != nil {
			return err
		}
		out, err = allViews(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order deleted", zap.String("order_id", id), zap.Bool("restore_stock", restoreStock))
	return out, nil
}

func cancel(ctx context.Context, tx repository.Tx, o *entity.Order, restoreStock bool) error {
	if o.Status == entity.StatusCancelled {
		return errAlreadyCancelled
	}
	if restoreStock && o.StockDeducted {
		if err := restore(ctx, tx, *o); err != nil {
			return err
		}
		o.StockDeducted = false
	}
	o.Status = entity.StatusCancelled
	o.UpdatedAt = time.Now().UTC()
	return tx.Orders().Update(ctx, *o)
}

// deduct checks every line against stock before taking anything out.
func deduct(ctx context.Context, tx repository.Tx, o entity.Order) error {
	need := make(map[string]int, len(o.Items))
	for _, it := range o.Items {
		need[it.BrickID] += it.Quantity
	}
	for _, it := range o.Items {
		b, err := tx.Bricks().GetByID(ctx, it.BrickID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("Brick not found")
		}
		if err != nil {
			return err
		}
		if b.Stock < need[it.BrickID] {
			return apperr.Validationf("Insufficient stock. Available: %d, Required: %d", b.Stock, need[it.BrickID])
		}
	}
	for _, it := range o.Items {
		if _, err := stock.Adjust(ctx, tx, it.BrickID, -it.Quantity, entity.SourceOrder); err != nil {
			return err
		}
	}
	return nil
}

func restore(ctx context.Context, tx repository.Tx, o entity.Order) error {
	for _, it := range o.Items {
		if _, err := stock.Adjust(ctx, tx, it.BrickID, it.Quantity, entity.SourceOrder); err != nil {
			return &apperr.Error{Kind: apperr.KindValidation, Message: "Failed to restore brick stock", Err: err}
		}
	}
	return nil
}
