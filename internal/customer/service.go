package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errCustomerNotFound = apperr.NotFound("Customer not found")
	errEmailExists      = apperr.Validation("Email address already exists")
	errHasOrders        = apperr.Conflict("Cannot delete customer with existing orders. Please delete all orders first.")
)

type Service struct {
	uow repository.UnitOfWork
	log *zap.Logger
}

func NewService(uow repository.UnitOfWork, log *zap.Logger) *Service {
	return &Service{uow: uow, log: log}
}

func (s *Service) List(ctx context.Context) ([]entity.Customer, error) {
	var out []entity.Customer
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Customers().List(ctx)
		return err
	})
	return out, err
}

func detail(ctx context.Context, tx repository.Tx, id string) (Detail, error) {
	c, err := tx.Customers().GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Detail{}, errCustomerNotFound
	}
	if err != nil {
		return Detail{}, err
	}
	orders, err := tx.Orders().ListByCustomer(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return Detail{Customer: c, Orders: orders}, nil
}

// GetByID returns the customer with their orders.
func (s *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	var out Detail
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = detail(ctx, tx, id)
		return err
	})
	return out, err
}

// emailTaken reports whether another customer already uses email,
// ignoring case.
func emailTaken(ctx context.Context, tx repository.Tx, email, selfID string) error {
	other, err := tx.Customers().GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != selfID {
		return errEmailExists
	}
	return nil
}

// Create adds a customer and returns the full list.
func (s *Service) Create(ctx context.Context, in Input) ([]entity.Customer, error) {
	now := time.Now().UTC()
	c := entity.Customer{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	in.applyTo(&c)
	c.Email = strings.TrimSpace(c.Email)
	if errs := validateCustomer(c); len(errs) > 0 {
		return nil, apperr.Invalid(errs)
	}

	var out []entity.Customer
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		if err := emailTaken(ctx, tx, c.Email, ""); err != nil {
			return err
		}
		if err := tx.Customers().Create(ctx, c); err != nil {
			return err
		}
		var err error
		out, err = tx.Customers().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("customer created", zap.String("customer_id", c.ID))
	return out, nil
}

// Update merges in over the stored customer, validates the result and
// returns it with its orders.
func (s *Service) Update(ctx context.Context, id string, in Input) (Detail, error) {
	var out Detail
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		c, err := tx.Customers().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errCustomerNotFound
		}
		if err != nil {
			return err
		}
		in.applyTo(&c)
		c.Email = strings.TrimSpace(c.Email)
		if errs := validateCustomer(c); len(errs) > 0 {
			return apperr.Invalid(errs)
		}
		if err := emailTaken(ctx, tx, c.Email, id); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		if err := tx.Customers().Update(ctx, c); err != nil {
			return err
		}
		out, err = detail(ctx, tx, id)
		return err
	})
	return out, err
}

// Delete removes a customer that has no orders and returns the remaining
// list.
func (s *Service) Delete(ctx context.Context, id string) ([]entity.Customer, error) {
	var out []entity.Customer
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		orders, err := tx.Orders().ListByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if len(orders) > 0 {
			return errHasOrders
		}
		if err := tx.Customers().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errCustomerNotFound
			}
			return err
		}
		out, err = tx.Customers().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("customer deleted", zap.String("customer_id", id))
	return out, nil
}
