package report

import (
	"strconv"
	"time"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const unknown = "Unknown"

// Dashboard is the payload of GET /api/dashboard/metrics. Order figures
// count done orders only.
type Dashboard struct {
	TotalStock          int             `json:"totalStock"`
	LowStockCount       int             `json:"lowStockCount"`
	TotalOrders         int             `json:"totalOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	RecentOrders        []RecentOrder   `json:"recentOrders"`
	MonthlyOrdersTrend  []MonthCount    `json:"monthlyOrdersTrend"`
	MonthlyRevenueTrend []MonthRevenue  `json:"monthlyRevenueTrend"`
}

type RecentOrder struct {
	entity.Order
	Customer string `json:"customer"`
}

type MonthCount struct {
	Month  string `json:"month"`
	Orders int    `json:"orders"`
}

type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Month aggregates non-cancelled orders for one YYYY-MM bucket together
// with the spend booked for it.
type Month struct {
	Month             string          `json:"month"`
	Revenue           decimal.Decimal `json:"revenue"`
	Expenses          decimal.Decimal `json:"expenses"`
	NetRevenue        decimal.Decimal `json:"netRevenue"`
	OrderCount        int             `json:"orderCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type TrendPoint struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

type Trends struct {
	MonthlyRevenueTrend []TrendPoint `json:"monthlyRevenueTrend"`
	MonthlyOrdersTrend  []TrendPoint `json:"monthlyOrdersTrend"`
}

type OrderRow struct {
	OrderID       string             `json:"orderId"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	BrickName     string             `json:"brickName"`
	Quantity      int                `json:"quantity"`
	Amount        decimal.Decimal    `json:"amount"`
	Status        entity.OrderStatus `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type CustomerRow struct {
	CustomerID   string          `json:"customerId"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	TotalOrders  int             `json:"totalOrders"`
	ActiveOrders int             `json:"activeOrders"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

var (
	orderHeader    = []string{"orderId", "customerName", "customerEmail", "brickName", "quantity", "amount", "status", "createdAt"}
	customerHeader = []string{"customerId", "name", "email", "phone", "address", "totalOrders", "activeOrders", "totalSpent"}
	revenueHeader  = []string{"month", "revenue", "expenses", "netRevenue", "orderCount", "averageOrderValue"}
	trendHeader    = []string{"month", "revenue", "orders"}
	spendHeader    = []string{"id", "labour", "clay", "coal", "transport", "other", "month", "year", "total", "createdAt"}
	stockHeader    = []string{"id", "brickId", "brickName", "quantity", "type", "source", "timestamp"}
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func orderRecord(r OrderRow) []string {
	return []string{r.OrderID, r.CustomerName, r.CustomerEmail, r.BrickName, strconv.Itoa(r.Quantity), money(r.Amount), string(r.Status), stamp(r.CreatedAt)}
}

func customerRecord(r CustomerRow) []string {
	return []string{r.CustomerID, r.Name, r.Email, r.Phone, r.Address, strconv.Itoa(r.TotalOrders), strconv.Itoa(r.ActiveOrders), money(r.TotalSpent)}
}

func revenueRecord(m Month) []string {
	return []string{m.Month, money(m.Revenue), money(m.Expenses), money(m.NetRevenue), strconv.Itoa(m.OrderCount), money(m.AverageOrderValue)}
}

func spendRecord(s entity.Spend) []string {
	return []string{
		s.ID, money(s.Labour), money(s.Clay), money(s.Coal), money(s.Transport), money(s.Other),
		strconv.Itoa(s.Month), strconv.Itoa(s.Year), money(s.Total), stamp(s.CreatedAt),
	}
}

func stockRecord(e entity.StockEntry) []string {
	return []string{e.ID, e.BrickID, e.BrickName, strconv.Itoa(e.Quantity), string(e.Direction), e.Source, stamp(e.Timestamp)}
}
