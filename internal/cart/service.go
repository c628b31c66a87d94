package cart

import (
	"context"
	"errors"
	"slices"
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
	errMissingFields = apperr.Validation("Missing required fields")
	errBrickNotFound = apperr.NotFound("Brick not found")
	errCartNotFound  = apperr.NotFound("Cart not found")
	errCartEmpty     = apperr.Validation("Cart is empty")
)

func insufficient(details map[string]any) error {
	return apperr.Validation("Insufficient stock").WithDetails(details)
}

// Service orchestrates cart operations.
type Service struct {
	uow     repository.UnitOfWork
	log     *zap.Logger
	metrics metrics.Recorder
}

func NewService(uow repository.UnitOfWork, log *zap.Logger, rec metrics.Recorder) *Service {
	return &Service{uow: uow, log: log, metrics: rec}
}

func loadCart(ctx context.Context, tx repository.Tx, userID string) (entity.Cart, bool, error) {
	c, err := tx.Carts().Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return entity.Cart{UserID: userID, Items: []entity.CartItem{}}, false, nil
	}
	if err != nil {
		return entity.Cart{}, false, err
	}
	return c, true, nil
}

func cartView(ctx context.Context, tx repository.Tx, c entity.Cart) (View, error) {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.BrickID)
	}
	bricks, err := tx.Bricks().GetByIDs(ctx, ids)
	if err != nil {
		return View{}, err
	}
	byID := make(map[string]entity.Brick, len(bricks))
	for _, b := range bricks {
		byID[b.ID] = b
	}
	return enrich(c, byID), nil
}

// Get returns the user's cart, or an empty one when they have none.
func (s *Service) Get(ctx context.Context, userID string) (View, error) {
	var out View
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		c, found, err := loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !found {
			c.UpdatedAt = time.Now().UTC()
		}
		out, err = cartView(ctx, tx, c)
		return err
	})
	return out, err
}

// Add puts quantity of a brick into the cart, merging with an existing
// line. The merged quantity may not exceed the brick's stock.
func (s *Service) Add(ctx context.Context, in AddInput) (View, error) {
	if in.UserID == "" || in.BrickID == "" || in.Quantity == 0 {
		return View{}, errMissingFields
	}
	if in.Quantity < 0 {
		return View{}, apperr.Validation("Invalid quantity")
	}

	var out View
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		b, err := tx.Bricks().GetByID(ctx, in.BrickID)
		if errors.Is(err, repository.ErrNotFound) {
			return errBrickNotFound
		}
		if err != nil {
			return err
		}
		if b.Stock < in.Quantity {
			return insufficient(map[string]any{"available": b.Stock})
		}

		c, _, err := loadCart(ctx, tx, in.UserID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if i := slices.IndexFunc(c.Items, func(it entity.CartItem) bool { return it.BrickID == in.BrickID }); i >= 0 {
			merged := c.Items[i].Quantity + in.Quantity
			if merged > b.Stock {
				return insufficient(map[string]any{"available": b.Stock})
			}
			c.Items[i].Quantity = merged
		} else {
			c.Items = append(c.Items, entity.CartItem{BrickID: in.BrickID, Quantity: in.Quantity, AddedAt: now})
		}
		c.UpdatedAt = now
		if err := tx.Carts().Save(ctx, c); err != nil {
			return err
		}
		out, err = cartView(ctx, tx, c)
		return err
	})
	return out, err
}

// Remove drops every line for the brick from the user's cart.
func (s *Service) Remove(ctx context.Context, in RemoveInput) (View, error) {
	if in.UserID == "" || in.BrickID == "" {
		return View{}, errMissingFields
	}

	var out View
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		c, found, err := loadCart(ctx, tx, in.UserID)
		if err != nil {
			return err
		}
		if !found {
			return errCartNotFound
		}
		c.Items = slices.DeleteFunc(c.Items, func(it entity.CartItem) bool { return it.BrickID == in.BrickID })
		c.UpdatedAt = time.Now().UTC()
		if err := tx.Carts().Save(ctx, c); err != nil {
			return err
		}
		out, err = cartView(ctx, tx, c)
		return err
	})
	return out, err
}

// Checkout turns the cart into a pending order. Stock is taken out here, so
// the order is created with StockDeducted set. Every line is checked before
// anything is written; a failure leaves bricks, orders, ledger and cart as
// they were.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (Receipt, error) {
	if in.UserID == "" || in.CustomerInfo == nil {
		return Receipt{}, errMissingFields
	}

	var (
		receipt Receipt
		lines   int
	)
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		c, found, err := loadCart(ctx, tx, in.UserID)
		if err != nil {
			return err
		}
		if !found || len(c.Items) == 0 {
			return errCartEmpty
		}

		bricks := make([]entity.Brick, 0, len(c.Items))
		for _, it := range c.Items {
			b, err := tx.Bricks().GetByID(ctx, it.BrickID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if err != nil || b.Stock < it.Quantity {
				// a missing brick reports zero available
				return insufficient(map[string]any{
					"brickId":   it.BrickID,
					"requested": it.Quantity,
					"available": b.Stock,
				})
			}
			bricks = append(bricks, b)
		}

		items := make([]entity.OrderItem, 0, len(c.Items))
		for i, it := range c.Items {
			if _, err := stock.Adjust(ctx, tx, it.BrickID, -it.Quantity, entity.SourceOrder); err != nil {
				return err
			}
			items = append(items, entity.NewOrderItem(bricks[i], it.Quantity))
		}

		now := time.Now().UTC()
		info := *in.CustomerInfo
		o := entity.Order{
			ID:            uuid.NewString(),
			CustomerID:    in.UserID,
			CustomerInfo:  &info,
			Items:         items,
			Total:         entity.SumItems(items),
			Status:        entity.StatusPending,
			StockDeducted: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := tx.Carts().Delete(ctx, in.UserID); err != nil {
			return err
		}
		receipt = Receipt{OrderID: o.ID, Total: o.Total}
		lines = len(items)
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	s.log.Info("checkout completed",
		zap.String("user_id", in.UserID),
		zap.String("order_id", receipt.OrderID),
		zap.Int("lines", lines),
		zap.String("total", receipt.Total.StringFixed(2)),
	)
	s.metrics.Count(ctx, metrics.CartCheckouts, nil)
	return receipt, nil
}
