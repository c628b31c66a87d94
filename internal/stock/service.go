package stock

import (
	"context"
	"time"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/brickco/brickco-api/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// Sources accepted by the raw ledger endpoint.
var AllowedRawSources = []string{entity.SourceInventory, entity.SourceOrder}

type Service struct {
	uow     repository.UnitOfWork
	log     *zap.Logger
	metrics metrics.Recorder
}

func NewService(uow repository.UnitOfWork, log *zap.Logger, rec metrics.Recorder) *Service {
	return &Service{uow: uow, log: log, metrics: rec}
}

func (s *Service) List(ctx context.Context, f entity.StockFilter) ([]entity.StockEntry, error) {
	var out []entity.StockEntry
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.StockHistory().List(ctx, f)
		return err
	})
	return out, err
}

// RecordInput is a ledger entry submitted directly by a client.
type RecordInput struct {
	BrickID   string `json:"brickId"`
	BrickName string `json:"brickName"`
	Quantity  int    `json:"quantity"`
	Type      string `json:"type"`
	Source    string `json:"source"`
}

// Record appends a client-submitted entry. Stock is left unchanged, so
// a raw entry shows up as drift until stock is corrected.
func (s *Service) Record(ctx context.Context, in RecordInput) (entity.StockEntry, error) {
	if in.BrickID == "" || in.Quantity == 0 || in.Type == "" || in.Source == "" {
		return entity.StockEntry{}, apperr.Validation("Missing required fields")
	}
	if in.Quantity < 0 {
		return entity.StockEntry{}, apperr.Validation("Invalid quantity")
	}
	dir, err := entity.ParseDirection(in.Type)
	if err != nil {
		return entity.StockEntry{}, apperr.Validation(`Invalid type. Must be "credit" or "debit"`)
	}
	validSource := false
	for _, src := range AllowedRawSources {
		if in.Source == src {
			validSource = true
			break
		}
	}
	if !validSource {
		return entity.StockEntry{}, apperr.Validation(`Invalid source. Must be "inventory" or "order"`)
	}

	var entry entity.StockEntry
	err = s.uow.Update(ctx, func(tx repository.Tx) error {
		b := entity.Brick{ID: in.BrickID, Name: in.BrickName}
		if b.Name == "" {
			if known, err := tx.Bricks().GetByID(ctx, in.BrickID); err == nil {
				b.Name = known.Name
			}
		}
		var err error
		entry, err = Record(ctx, tx, b, in.Quantity, dir, in.Source)
		return err
	})
	if err != nil {
		return entity.StockEntry{}, err
	}
	s.log.Info("raw ledger entry recorded",
		zap.String("brick_id", entry.BrickID),
		zap.String("direction", string(entry.Direction)),
		zap.Int("quantity", entry.Quantity),
		zap.String("source", entry.Source),
	)
	return entry, nil
}

// Drift describes one brick whose ledger balance differs from its stock.
type Drift struct {
	BrickID       string `json:"brickId"`
	BrickName     string `json:"brickName"`
	Stock         int    `json:"stock"`
	LedgerBalance int    `json:"ledgerBalance"`
	Drift         int    `json:"drift"`
}

type Reconciliation struct {
	CheckedAt time.Time `json:"checkedAt"`
	Bricks    int       `json:"bricks"`
	Drifted   int       `json:"drifted"`
	LowStock  int       `json:"lowStock"`
	Entries   []Drift   `json:"entries"`
}

// Reconcile compares every brick's stock with the sum of its ledger deltas.
func (s *Service) Reconcile(ctx context.Context) (Reconciliation, error) {
	var (
		bricks  []entity.Brick
		entries []entity.StockEntry
	)
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		if bricks, err = tx.Bricks().List(ctx); err != nil {
			return err
		}
		entries, err = tx.StockHistory().List(ctx, entity.StockFilter{})
		return err
	})
	if err != nil {
		return Reconciliation{}, err
	}

	balance := make(map[string]int, len(bricks))
	for _, e := range entries {
		balance[e.BrickID] += e.Delta()
	}

	rep := Reconciliation{CheckedAt: time.Now().UTC(), Bricks: len(bricks), Entries: []Drift{}}
	for _, b := range bricks {
		if b.LowStock() {
			rep.LowStock++
		}
		if d := b.Stock - balance[b.ID]; d != 0 {
			rep.Entries = append(rep.Entries, Drift{
				BrickID:       b.ID,
				BrickName:     b.Name,
				Stock:         b.Stock,
				LedgerBalance: balance[b.ID],
				Drift:         d,
			})
		}
	}
	rep.Drifted = len(rep.Entries)

	for _, d := range rep.Entries {
		s.log.Warn("stock ledger drift",
			zap.String("brick_id", d.BrickID),
			zap.String("brick_name", d.BrickName),
			zap.Int("stock", d.Stock),
			zap.Int("ledger_balance", d.LedgerBalance),
			zap.Int("drift", d.Drift),
		)
	}
	s.metrics.Value(ctx, metrics.StockLedgerDrift, float64(rep.Drifted), nil)
	s.metrics.Value(ctx, metrics.InventoryLowStock, float64(rep.LowStock), nil)
	return rep, nil
}

// RunReconciler reconciles every interval until ctx is done.
func (s *Service) RunReconciler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("ledger reconciliation scheduled", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rep, err := s.Reconcile(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("ledger reconciliation failed", zap.Error(err))
				}
				continue
			}
			s.log.Info("ledger reconciled", zap.Int("bricks", rep.Bricks), zap.Int("drifted", rep.Drifted))
		}
	}
}
