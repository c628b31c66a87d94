package spend

import (
	"context"
	"errors"
	"time"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errSpendNotFound = apperr.NotFound("Spend not found")

// Input is the body of POST /api/spends. Missing cost lines count as zero.
type Input struct {
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Labour    decimal.Decimal `json:"labour"`
	Clay      decimal.Decimal `json:"clay"`
	Coal      decimal.Decimal `json:"coal"`
	Transport decimal.Decimal `json:"transport"`
	Other     decimal.Decimal `json:"other"`
}

type Service struct {
	uow repository.UnitOfWork
	log *zap.Logger
}

func NewService(uow repository.UnitOfWork, log *zap.Logger) *Service {
	return &Service{uow: uow, log: log}
}

func (s *Service) List(ctx context.Context) ([]entity.Spend, error) {
	var out []entity.Spend
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Spends().List(ctx)
		return err
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, year, month int) (entity.Spend, error) {
	var out entity.Spend
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Spends().Get(ctx, year, month)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return entity.Spend{}, errSpendNotFound
	}
	return out, err
}

// Save books the costs for a month, replacing any earlier figures for the
// same month while keeping their id.
func (s *Service) Save(ctx context.Context, in Input) (entity.Spend, error) {
	if in.Month == 0 || in.Year == 0 {
		return entity.Spend{}, apperr.Validation("Month and year are required")
	}
	if in.Month < 1 || in.Month > 12 {
		return entity.Spend{}, apperr.Validation("Invalid month")
	}

	sp := entity.Spend{
		ID:        uuid.NewString(),
		Month:     in.Month,
		Year:      in.Year,
		Labour:    in.Labour,
		Clay:      in.Clay,
		Coal:      in.Coal,
		Transport: in.Transport,
		Other:     in.Other,
		CreatedAt: time.Now().UTC(),
	}
	sp.SumParts()

	err := s.uow.Update(ctx, func(tx repository.Tx) error {
		var err error
		sp, err = tx.Spends().Upsert(ctx, sp)
		return err
	})
	if err != nil {
		return entity.Spend{}, err
	}
	s.log.Info("spend saved",
		zap.Int("year", sp.Year),
		zap.Int("month", sp.Month),
		zap.String("total", sp.Total.StringFixed(2)),
	)
	return sp, nil
}
