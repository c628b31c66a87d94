package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusDone       OrderStatus = "done"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus rejects anything outside the four lifecycle states,
// including the shipped/delivered vocabulary.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusProcessing, StatusDone, StatusCancelled:
		return st, true
	}
	return "", false
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusPending, StatusProcessing, StatusDone, StatusCancelled},
	StatusProcessing: {StatusProcessing, StatusDone, StatusCancelled},
	StatusDone:       {StatusDone, StatusCancelled},
	StatusCancelled:  {},
}

// CanTransition reports whether an order in from may be moved to to.
// Re-applying the current status is allowed except for cancelled.
func (from OrderStatus) CanTransition(to OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CustomerInfo is the contact block captured at checkout.
type CustomerInfo struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type OrderItem struct {
	BrickID  string          `json:"brickId"`
	Name     string          `json:"name,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Order is either a single-line admin order or a multi-line checkout.
// StockDeducted is true once the line quantities have left stock.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	CustomerInfo  *CustomerInfo   `json:"customerInfo,omitempty"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	StockDeducted bool            `json:"stockDeducted"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Quantity is the number of bricks across all lines.
func (o Order) Quantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// NewOrderItem prices a line as price × quantity.
func NewOrderItem(b Brick, quantity int) OrderItem {
	return OrderItem{
		BrickID:  b.ID,
		Name:     b.Name,
		Quantity: quantity,
		Price:    b.Price,
		Total:    b.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumItems adds up the line totals.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return total
}
