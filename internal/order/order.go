package order

import (
	"strings"

	"github.com/brickco/brickco-api/internal/domain/entity"
)

const (
	unknownCustomer = "Unknown Customer"
	unknownBrick    = "Unknown Brick"
)

// View is an order as the admin panel shows it: joined with the customer
// and brick names. BrickID and Quantity summarise single-line orders.
type View struct {
	entity.Order
	CustomerName string `json:"customerName"`
	BrickID      string `json:"brickId,omitempty"`
	BrickName    string `json:"brickName"`
	Quantity     int    `json:"quantity"`
}

// CreateInput is the body of POST /api/orders.
type CreateInput struct {
	CustomerID string `json:"customerId"`
	BrickID    string `json:"brickId"`
	Quantity   *int   `json:"quantity"`
}

func enrich(orders []entity.Order, customers []entity.Customer, bricks []entity.Brick) []View {
	customerNames := make(map[string]string, len(customers))
	for _, c := range customers {
		customerNames[c.ID] = c.Name
	}
	brickNames := make(map[string]string, len(bricks))
	for _, b := range bricks {
		brickNames[b.ID] = b.Name
	}

	out := make([]View, 0, len(orders))
	for _, o := range orders {
		v := View{Order: o, Quantity: o.Quantity(), CustomerName: customerNames[o.CustomerID]}
		if v.CustomerName == "" && o.CustomerInfo != nil {
			v.CustomerName = o.CustomerInfo.Name
		}
		if v.CustomerName == "" {
			v.CustomerName = unknownCustomer
		}

		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			name := brickNames[it.BrickID]
			if name == "" {
				name = it.Name
			}
			if name == "" {
				name = unknownBrick
			}
			names = append(names, name)
		}
		if len(o.Items) == 1 {
			v.BrickID = o.Items[0].BrickID
		}
		v.BrickName = strings.Join(names, ", ")
		if v.BrickName == "" {
			v.BrickName = unknownBrick
		}
		out = append(out, v)
	}
	return out
}
