package report

import (
	"context"
	"testing"
	"time"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/brickco/brickco-api/internal/infrastructure/database/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func order(id, customer string, status entity.OrderStatus, total string, created time.Time) entity.Order {
	return entity.Order{
		ID: id, CustomerID: customer, Status: status, Total: dec(total), CreatedAt: created,
		Items: []entity.OrderItem{{BrickID: "b1", Name: "Red", Quantity: 2}},
	}
}

func seededService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	store := inmemory.NewStore()
	require.NoError(t, store.Update(ctx, func(tx repository.Tx) error {
		for _, b := range []entity.Brick{
			{ID: "b1", Name: "Red", Stock: 5, MinStockThreshold: 10},
			{ID: "b2", Name: "Blue", Stock: 50, MinStockThreshold: 10},
		} {
			if err := tx.Bricks().Create(ctx, b); err != nil {
				return err
			}
		}
		if err := tx.Customers().Create(ctx, entity.Customer{ID: "c1", Name: "Ann", Email: "ann@example.com"}); err != nil {
			return err
		}
		for _, o := range []entity.Order{
			order("o1", "c1", entity.StatusDone, "100", at(2024, time.March, 3)),
			order("o2", "c1", entity.StatusDone, "50.50", at(2024, time.May, 9)),
			order("o3", "c1", entity.StatusCancelled, "999", at(2024, time.May, 10)),
			order("o4", "c1", entity.StatusPending, "10", at(2024, time.May, 11)),
			order("o5", "gone", entity.StatusDone, "5", at(2023, time.June, 1)),
		} {
			if err := tx.Orders().Create(ctx, o); err != nil {
				return err
			}
		}
		_, err := tx.Spends().Upsert(ctx, entity.Spend{ID: "s1", Year: 2024, Month: 5, Total: dec("20")})
		return err
	}))
	svc := NewService(store)
	svc.now = func() time.Time { return at(2024, time.May, 20) }
	return svc
}

func TestDashboard(t *testing.T) {
	d, err := seededService(t).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 55, d.TotalStock)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, 3, d.TotalOrders)
	assert.True(t, d.TotalRevenue.Equal(dec("155.5")))

	require.Len(t, d.RecentOrders, 3)
	assert.Equal(t, "o2", d.RecentOrders[0].ID)
	assert.Equal(t, "Ann", d.RecentOrders[0].Customer)
	assert.Equal(t, "Unknown Customer", d.RecentOrders[2].Customer)

	require.Len(t, d.MonthlyOrdersTrend, 6)
	assert.Equal(t, "Dec 23", d.MonthlyOrdersTrend[0].Month)
	assert.Equal(t, MonthCount{Month: "May 24", Orders: 1}, d.MonthlyOrdersTrend[5])
	assert.Equal(t, 1, d.MonthlyOrdersTrend[3].Orders)
	assert.True(t, d.MonthlyRevenueTrend[5].Revenue.Equal(dec("50.5")))
}

func TestRevenue(t *testing.T) {
	ms, err := seededService(t).Revenue(context.Background())
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, []string{"2023-06", "2024-03", "2024-05"}, []string{ms[0].Month, ms[1].Month, ms[2].Month})

	may := ms[2]
	assert.Equal(t, 2, may.OrderCount)
	assert.True(t, may.Revenue.Equal(dec("60.5")))
	assert.True(t, may.Expenses.Equal(dec("20")))
	assert.True(t, may.NetRevenue.Equal(dec("40.5")))
	assert.True(t, may.AverageOrderValue.Equal(dec("30.25")))

	march := ms[1]
	assert.True(t, march.NetRevenue.Equal(dec("100")), "months without a spend keep their revenue")
}

func TestTrends(t *testing.T) {
	tr, err := seededService(t).Trends(context.Background())
	require.NoError(t, err)
	require.Len(t, tr.MonthlyOrdersTrend, 3)
	assert.True(t, tr.MonthlyOrdersTrend[2].Value.Equal(decimal.NewFromInt(2)))
	assert.True(t, tr.MonthlyRevenueTrend[2].Value.Equal(dec("40.5")))
}

func TestOrdersAndCustomers(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	rows, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	byID := map[string]OrderRow{}
	for _, r := range rows {
		byID[r.OrderID] = r
	}
	assert.Equal(t, "ann@example.com", byID["o1"].CustomerEmail)
	assert.Equal(t, "Red", byID["o1"].BrickName)
	assert.Equal(t, 2, byID["o1"].Quantity)
	assert.Equal(t, unknown, byID["o5"].CustomerName)

	customers, err := svc.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	c := customers[0]
	assert.Equal(t, 4, c.TotalOrders)
	assert.Equal(t, 3, c.ActiveOrders)
	assert.True(t, c.TotalSpent.Equal(dec("160.5")))
	assert.Equal(t, "N/A", c.Phone)
}
