package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a core domain entity without infrastructure concerns.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CartItem struct {
	BrickID  string    `json:"brickId"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// Cart belongs to exactly one user and disappears at checkout.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Spend is the production cost booked for one calendar month.
type Spend struct {
	ID        string          `json:"id"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Labour    decimal.Decimal `json:"labour"`
	Clay      decimal.Decimal `json:"clay"`
	Coal      decimal.Decimal `json:"coal"`
	Transport decimal.Decimal `json:"transport"`
	Other     decimal.Decimal `json:"other"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SumParts recomputes Total from the cost lines.
func (s *Spend) SumParts() {
	s.Total = s.Labour.Add(s.Clay).Add(s.Coal).Add(s.Transport).Add(s.Other)
}
