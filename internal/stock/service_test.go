package stock

import (
	"context"
	"testing"
	"time"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/infrastructure/database/inmemory"
	"github.com/brickco/brickco-api/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedValue struct {
	name  string
	value float64
}

type fakeRecorder struct {
	values []recordedValue
	counts []string
}

func (f *fakeRecorder) Count(_ context.Context, name string, _ map[string]string) {
	f.counts = append(f.counts, name)
}

func (f *fakeRecorder) Value(_ context.Context, name string, v float64, _ map[string]string) {
	f.values = append(f.values, recordedValue{name, v})
}

func TestService_RecordValidation(t *testing.T) {
	svc := NewService(inmemory.NewStore(), zap.NewNop(), metrics.Nop{})
	ctx := context.Background()

	cases := map[string]RecordInput{
		"Missing required fields":                         {BrickID: "b1", Quantity: 1, Type: "credit"},
		"Invalid quantity":                                {BrickID: "b1", Quantity: -2, Type: "credit", Source: "inventory"},
		`Invalid type. Must be "credit" or "debit"`:       {BrickID: "b1", Quantity: 1, Type: "sideways", Source: "inventory"},
		`Invalid source. Must be "inventory" or "order"`: {BrickID: "b1", Quantity: 1, Type: "added", Source: "manual_update"},
	}
	for want, in := range cases {
		_, err := svc.Record(ctx, in)
		require.Error(t, err, want)
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, e.Kind)
		assert.Equal(t, want, e.Message)
	}
}

func TestService_RecordAcceptsLegacyType(t *testing.T) {
	svc := NewService(inmemory.NewStore(), zap.NewNop(), metrics.Nop{})
	e, err := svc.Record(context.Background(), RecordInput{BrickID: "b1", BrickName: "Red", Quantity: 4, Type: "deducted", Source: "order"})
	require.NoError(t, err)
	assert.Equal(t, entity.Debit, e.Direction)
	assert.Equal(t, -4, e.Delta())

	list, err := svc.List(context.Background(), entity.StockFilter{Direction: entity.Debit})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_ReconcileDetectsRawAppend(t *testing.T) {
	store := inmemory.NewStore()
	seedBrick(t, store, entity.Brick{ID: "b1", Name: "Red", Stock: 10, MinStockThreshold: 20})
	seedBrick(t, store, entity.Brick{ID: "b2", Name: "Grey", Stock: 5})
	core, logs := observer.New(zap.WarnLevel)
	rec := &fakeRecorder{}
	svc := NewService(store, zap.New(core), rec)
	ctx := context.Background()

	rep, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Bricks)
	assert.Zero(t, rep.Drifted)
	assert.Equal(t, 1, rep.LowStock)

	_, err = svc.Record(ctx, RecordInput{BrickID: "b1", Quantity: 3, Type: "credit", Source: "inventory"})
	require.NoError(t, err)

	rep, err = svc.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Drifted)
	d := rep.Entries[0]
	assert.Equal(t, "b1", d.BrickID)
	assert.Equal(t, 13, d.LedgerBalance)
	assert.Equal(t, -3, d.Drift)
	assert.Equal(t, 1, logs.FilterMessage("stock ledger drift").Len())
	assert.Contains(t, rec.values, recordedValue{metrics.StockLedgerDrift, 1})
}

func TestService_RunReconcilerStopsWithContext(t *testing.T) {
	svc := NewService(inmemory.NewStore(), zap.NewNop(), metrics.Nop{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunReconciler(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}
