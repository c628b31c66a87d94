package inmemory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
)

// state is the whole data set. Its JSON form is the snapshot file layout.
type state struct {
	Bricks       []entity.Brick         `json:"bricks"`
	Orders       []entity.Order         `json:"orders"`
	Carts        map[string]entity.Cart `json:"carts"`
	Customers    []entity.Customer      `json:"customers"`
	StockHistory []entity.StockEntry    `json:"stockHistory"`
	Spends       []entity.Spend         `json:"spends"`
}

func newState() *state {
	return &state{Carts: make(map[string]entity.Cart)}
}

// clone copies the containers. Nested slices are copied on every read and
// write by the repositories, so element values can be shared.
func (s *state) clone() *state {
	return &state{
		Bricks:       slices.Clone(s.Bricks),
		Orders:       slices.Clone(s.Orders),
		Carts:        maps.Clone(s.Carts),
		Customers:    slices.Clone(s.Customers),
		StockHistory: slices.Clone(s.StockHistory),
		Spends:       slices.Clone(s.Spends),
	}
}

// Store is an in-memory implementation of repository.UnitOfWork.
type Store struct {
	mu   sync.RWMutex
	data *state
	path string
}

var _ repository.UnitOfWork = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newState()}
}

// Open returns a store backed by a JSON snapshot at path. A missing file
// starts an empty store; the file is created on the first commit.
func Open(path string) (*Store, error) {
	s := &Store{data: newState(), path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, s.data); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if s.data.Carts == nil {
		s.data.Carts = make(map[string]entity.Cart)
	}
	return s, nil
}

func (s *Store) Update(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&tx{st: work}); err != nil {
		return err
	}
	if s.path != "" {
		if err := writeSnapshot(s.path, work); err != nil {
			return err
		}
	}
	s.data = work
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{st: s.data, readOnly: true})
}

// writeSnapshot replaces path atomically: readers see either the old file
// or the new one, never a partial write.
func writeSnapshot(path string, st *state) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

type tx struct {
	st       *state
	readOnly bool
}

func (t *tx) Bricks() repository.BrickRepository             { return brickRepo{t} }
func (t *tx) Orders() repository.OrderRepository             { return orderRepo{t} }
func (t *tx) Carts() repository.CartRepository               { return cartRepo{t} }
func (t *tx) Customers() repository.CustomerRepository       { return customerRepo{t} }
func (t *tx) StockHistory() repository.StockHistoryRepository { return stockRepo{t} }
func (t *tx) Spends() repository.SpendRepository             { return spendRepo{t} }

func (t *tx) writable() error {
	if t.readOnly {
		return repository.ErrReadOnly
	}
	return nil
}
