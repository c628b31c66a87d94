package spend

import (
	"context"
	"testing"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/infrastructure/database/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSave_UpsertsByMonth(t *testing.T) {
	svc := NewService(inmemory.NewStore(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Save(ctx, Input{Month: 3, Year: 2024, Labour: dec("100"), Clay: dec("20.5")})
	require.NoError(t, err)
	assert.True(t, first.Total.Equal(dec("120.5")))

	second, err := svc.Save(ctx, Input{Month: 3, Year: 2024, Coal: dec("7.25")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Total.Equal(dec("7.25")))
	assert.True(t, second.Labour.IsZero())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := svc.Get(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestSave_Validation(t *testing.T) {
	svc := NewService(inmemory.NewStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Save(ctx, Input{Year: 2024})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Month and year are required", e.Message)

	_, err = svc.Save(ctx, Input{Year: 2024, Month: 13})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Get(ctx, 2024, 1)
	assert.ErrorIs(t, err, errSpendNotFound)
}
