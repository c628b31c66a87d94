package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	dashboardMonths = 6
	recentOrders    = 5
)

// Service computes read-only aggregates. Every call works on one consistent
// snapshot of the store.
type Service struct {
	uow repository.UnitOfWork
	now func() time.Time
}

func NewService(uow repository.UnitOfWork) *Service {
	return &Service{uow: uow, now: time.Now}
}

type dataset struct {
	bricks    []entity.Brick
	orders    []entity.Order
	customers []entity.Customer
	spends    []entity.Spend
}

func (s *Service) load(ctx context.Context) (dataset, error) {
	var d dataset
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		if d.bricks, err = tx.Bricks().List(ctx); err != nil {
			return err
		}
		if d.orders, err = tx.Orders().List(ctx); err != nil {
			return err
		}
		if d.customers, err = tx.Customers().List(ctx); err != nil {
			return err
		}
		d.spends, err = tx.Spends().List(ctx)
		return err
	})
	return d, err
}

func customersByID(customers []entity.Customer) map[string]entity.Customer {
	out := make(map[string]entity.Customer, len(customers))
	for _, c := range customers {
		out[c.ID] = c
	}
	return out
}

// Dashboard summarises stock and completed orders.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	d, err := s.load(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		TotalRevenue:        decimal.Zero,
		RecentOrders:        []RecentOrder{},
		MonthlyOrdersTrend:  make([]MonthCount, 0, dashboardMonths),
		MonthlyRevenueTrend: make([]MonthRevenue, 0, dashboardMonths),
	}
	for _, b := range d.bricks {
		out.TotalStock += b.Stock
		if b.LowStock() {
			out.LowStockCount++
		}
	}

	customers := customersByID(d.customers)
	var done []entity.Order
	for _, o := range d.orders {
		if o.Status == entity.StatusDone {
			done = append(done, o)
		}
	}
	out.TotalOrders = len(done)
	for _, o := range done {
		out.TotalRevenue = out.TotalRevenue.Add(o.Total)
	}

	// orders come newest first
	for _, o := range done[:min(recentOrders, len(done))] {
		name := customers[o.CustomerID].Name
		if name == "" && o.CustomerInfo != nil {
			name = o.CustomerInfo.Name
		}
		if name == "" {
			name = "Unknown Customer"
		}
		out.RecentOrders = append(out.RecentOrders, RecentOrder{Order: o, Customer: name})
	}

	now := s.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := dashboardMonths - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		count, revenue := 0, decimal.Zero
		for _, o := range done {
			if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
				count++
				revenue = revenue.Add(o.Total)
			}
		}
		label := start.Format("Jan 06")
		out.MonthlyOrdersTrend = append(out.MonthlyOrdersTrend, MonthCount{Month: label, Orders: count})
		out.MonthlyRevenueTrend = append(out.MonthlyRevenueTrend, MonthRevenue{Month: label, Revenue: revenue})
	}
	return out, nil
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// months buckets orders by the month they were created in. Cancelled
// orders open a bucket but add nothing to it. Spends only fill buckets
// that already exist.
func months(orders []entity.Order, spends []entity.Spend) []Month {
	byKey := make(map[string]*Month)
	for _, o := range orders {
		t := o.CreatedAt.UTC()
		key := monthKey(t.Year(), t.Month())
		m, ok := byKey[key]
		if !ok {
			m = &Month{Month: key}
			byKey[key] = m
		}
		if o.Status != entity.StatusCancelled {
			m.Revenue = m.Revenue.Add(o.Total)
			m.OrderCount++
		}
	}
	for _, sp := range spends {
		if m, ok := byKey[monthKey(sp.Year, time.Month(sp.Month))]; ok {
			m.Expenses = sp.Total
		}
	}

	out := make([]Month, 0, len(byKey))
	for _, m := range byKey {
		m.NetRevenue = m.Revenue.Sub(m.Expenses)
		if m.OrderCount > 0 {
			m.AverageOrderValue = m.Revenue.Div(decimal.NewFromInt(int64(m.OrderCount))).Round(2)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b Month) int { return cmp.Compare(a.Month, b.Month) })
	return out
}

// Trends returns net revenue and order count per month.
func (s *Service) Trends(ctx context.Context) (Trends, error) {
	d, err := s.load(ctx)
	if err != nil {
		return Trends{}, err
	}
	ms := months(d.orders, d.spends)
	out := Trends{
		MonthlyRevenueTrend: make([]TrendPoint, 0, len(ms)),
		MonthlyOrdersTrend:  make([]TrendPoint, 0, len(ms)),
	}
	for _, m := range ms {
		out.MonthlyRevenueTrend = append(out.MonthlyRevenueTrend, TrendPoint{Month: m.Month, Value: m.NetRevenue})
		out.MonthlyOrdersTrend = append(out.MonthlyOrdersTrend, TrendPoint{Month: m.Month, Value: decimal.NewFromInt(int64(m.OrderCount))})
	}
	return out, nil
}

func (s *Service) Revenue(ctx context.Context) ([]Month, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return months(d.orders, d.spends), nil
}

// Orders lists every order with its customer and brick names.
func (s *Service) Orders(ctx context.Context) ([]OrderRow, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	customers := customersByID(d.customers)
	bricks := make(map[string]string, len(d.bricks))
	for _, b := range d.bricks {
		bricks[b.ID] = b.Name
	}

	out := make([]OrderRow, 0, len(d.orders))
	for _, o := range d.orders {
		row := OrderRow{
			OrderID:       o.ID,
			CustomerName:  unknown,
			CustomerEmail: unknown,
			Quantity:      o.Quantity(),
			Amount:        o.Total,
			Status:        o.Status,
			CreatedAt:     o.CreatedAt,
		}
		if c, ok := customers[o.CustomerID]; ok {
			row.CustomerName, row.CustomerEmail = c.Name, c.Email
		} else if o.CustomerInfo != nil {
			row.CustomerName = cmp.Or(o.CustomerInfo.Name, unknown)
			row.CustomerEmail = cmp.Or(o.CustomerInfo.Email, unknown)
		}
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			names = append(names, cmp.Or(bricks[it.BrickID], it.Name, unknown))
		}
		row.BrickName = cmp.Or(strings.Join(names, ", "), unknown)
		out = append(out, row)
	}
	return out, nil
}

// Customers lists every customer with order statistics. Cancelled orders
// count towards totalOrders only.
func (s *Service) Customers(ctx context.Context) ([]CustomerRow, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerRow, 0, len(d.customers))
	for _, c := range d.customers {
		row := CustomerRow{
			CustomerID: c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Phone:      cmp.Or(c.Phone, "N/A"),
			Address:    cmp.Or(c.Address, "N/A"),
			TotalSpent: decimal.Zero,
		}
		for _, o := range d.orders {
			if o.CustomerID != c.ID {
				continue
			}
			row.TotalOrders++
			if o.Status != entity.StatusCancelled {
				row.ActiveOrders++
				row.TotalSpent = row.TotalSpent.Add(o.Total)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Service) Spends(ctx context.Context) ([]entity.Spend, error) {
	var out []entity.Spend
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Spends().List(ctx)
		return err
	})
	return out, err
}

func (s *Service) StockHistory(ctx context.Context) ([]entity.StockEntry, error) {
	var out []entity.StockEntry
	err := s.uow.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.StockHistory().List(ctx, entity.StockFilter{})
		return err
	})
	return out, err
}
