package brick

import (
	"context"
	"errors"
	"time"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/brickco/brickco-api/internal/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errBrickNotFound = apperr.NotFound("Brick not found")

type Service struct {
	uow repository.UnitOfWork
	log *zap.Logger
}

func NewService(uow repository.UnitOfWork, log *zap.Logger) *Service {
	return &Service{uow: uow, log: log}
}

func (s *Service) List(ctx context.Context) ([]entity.Brick, error) {
	var out []entity.Brick
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Bricks().List(ctx)
		return err
	})
	return out, err
}

func (s *Service) GetByID(ctx context.Context, id string) (entity.Brick, error) {
	var b entity.Brick
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		b, err = tx.Bricks().GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return entity.Brick{}, errBrickNotFound
	}
	return b, err
}

// Create stores a new brick and ledgers its starting stock. It returns the
// full catalogue.
func (s *Service) Create(ctx context.Context, in Input) ([]entity.Brick, error) {
	now := time.Now().UTC()
	b := entity.Brick{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	in.applyTo(&b)
	if in.Stock != nil {
		b.Stock = *in.Stock
	}
	if errs := validateBrick(b); len(errs) > 0 {
		return nil, apperr.Invalid(errs)
	}

	var out []entity.Brick
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		if err := tx.Bricks().Create(ctx, b); err != nil {
			return err
		}
		if err := stock.RecordDelta(ctx, tx, b, b.Stock, entity.SourceInitialStock); err != nil {
			return err
		}
		var err error
		out, err = tx.Bricks().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("brick created", zap.String("brick_id", b.ID), zap.String("name", b.Name), zap.Int("stock", b.Stock))
	return out, nil
}

// Update applies a partial edit. A changed stock value is ledgered as a
// manual update.
func (s *Service) Update(ctx context.Context, id string, in Input) ([]entity.Brick, error) {
	var out []entity.Brick
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		b, err := tx.Bricks().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errBrickNotFound
		}
		if err != nil {
			return err
		}

		in.applyTo(&b)
		check := b
		if in.Stock != nil {
			check.Stock = *in.Stock
		}
		if errs := validateBrick(check); len(errs) > 0 {
			return apperr.Invalid(errs)
		}

		b.UpdatedAt = time.Now().UTC()
		if err := tx.Bricks().Update(ctx, b); err != nil {
			return err
		}
		if in.Stock != nil {
			if _, err := stock.SetAbsolute(ctx, tx, b, *in.Stock, entity.SourceManualUpdate); err != nil {
				return err
			}
		}
		out, err = tx.Bricks().List(ctx)
		return err
	})
	return out, err
}

// Delete ledgers the remaining stock out and removes the brick.
func (s *Service) Delete(ctx context.Context, id string) ([]entity.Brick, error) {
	var out []entity.Brick
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		b, err := tx.Bricks().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errBrickNotFound
		}
		if err != nil {
			return err
		}
		if err := stock.RecordDelta(ctx, tx, b, -b.Stock, entity.SourceBrickDeleted); err != nil {
			return err
		}
		if err := tx.Bricks().Delete(ctx, id); err != nil {
			return err
		}
		out, err = tx.Bricks().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("brick deleted", zap.String("brick_id", id))
	return out, nil
}

// ValidateStock returns the lines whose brick is missing or holds less
// than the requested quantity.
func (s *Service) ValidateStock(ctx context.Context, items []StockItem) ([]InvalidItem, error) {
	invalid := []InvalidItem{}
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		for _, it := range items {
			b, err := tx.Bricks().GetByID(ctx, it.BrickID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if err != nil || b.Stock < it.Quantity {
				invalid = append(invalid, InvalidItem{BrickID: it.BrickID, Requested: it.Quantity, Available: b.Stock})
			}
		}
		return nil
	})
	return invalid, err
}

// UpdateStock applies signed deltas clamped at zero. Unknown bricks are
// skipped.
func (s *Service) UpdateStock(ctx context.Context, updates []StockUpdate) ([]entity.Brick, error) {
	var out []entity.Brick
	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		for _, u := range updates {
			source := u.Source
			if source == "" {
				source = entity.SourceBulkUpdate
			}
			_, err := stock.Adjust(ctx, tx, u.BrickID, u.Quantity, source)
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warn("stock update skipped unknown brick", zap.String("brick_id", u.BrickID))
				continue
			}
			if err != nil {
				return err
			}
		}
		var err error
		out, err = tx.Bricks().List(ctx)
		return err
	})
	return out, err
}
