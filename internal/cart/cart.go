package cart

import (
	"time"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemView is a cart line joined with the brick's current catalogue data.
// The brick fields are absent when the brick has since been deleted.
type ItemView struct {
	entity.CartItem
	Name         string           `json:"name,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CurrentStock *int             `json:"currentStock,omitempty"`
}

type View struct {
	UserID    string     `json:"userId"`
	Items     []ItemView `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type AddInput struct {
	UserID   string `json:"userId"`
	BrickID  string `json:"brickId"`
	Quantity int    `json:"quantity"`
}

type RemoveInput struct {
	UserID  string `json:"userId"`
	BrickID string `json:"brickId"`
}

type CheckoutInput struct {
	UserID       string               `json:"userId"`
	CustomerInfo *entity.CustomerInfo `json:"customerInfo"`
}

// Receipt is returned by a successful checkout.
type Receipt struct {
	OrderID string          `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

func enrich(c entity.Cart, bricks map[string]entity.Brick) View {
	v := View{UserID: c.UserID, UpdatedAt: c.UpdatedAt, Items: make([]ItemView, 0, len(c.Items))}
	for _, it := range c.Items {
		iv := ItemView{CartItem: it}
		if b, ok := bricks[it.BrickID]; ok {
			price, stock := b.Price, b.Stock
			iv.Name = b.Name
			iv.Price = &price
			iv.CurrentStock = &stock
		}
		v.Items = append(v.Items, iv)
	}
	return v
}
