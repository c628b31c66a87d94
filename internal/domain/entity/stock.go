package entity

import (
	"fmt"
	"strings"
	"time"
)

// Direction says whether a ledger entry put stock in or took it out.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// ParseDirection accepts the canonical names plus the two legacy
// vocabularies still sent by older clients (add/remove, added/deducted).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "add", "added":
		return Credit, nil
	case "debit", "remove", "deducted":
		return Debit, nil
	}
	return "", fmt.Errorf("unknown stock direction %q", s)
}

// Ledger sources written by the service itself.
const (
	SourceInitialStock = "initial_stock"
	SourceManualUpdate = "manual_update"
	SourceBulkUpdate   = "bulk_update"
	SourceOrder        = "order"
	SourceInventory    = "inventory"
	SourceBrickDeleted = "brick_deleted"
)

// StockEntry is one immutable row of the stock ledger.
type StockEntry struct {
	ID        string    `json:"id"`
	BrickID   string    `json:"brickId"`
	BrickName string    `json:"brickName,omitempty"`
	Quantity  int       `json:"quantity"`
	Direction Direction `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Delta is the signed stock change this entry stands for.
func (e StockEntry) Delta() int {
	if e.Direction == Debit {
		return -e.Quantity
	}
	return e.Quantity
}

// StockFilter narrows a ledger listing. Empty fields match everything.
type StockFilter struct {
	Direction Direction
	Source    string
	BrickID   string
}

func (f StockFilter) Match(e StockEntry) bool {
	if f.Direction != "" && e.Direction != f.Direction {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if f.BrickID != "" && e.BrickID != f.BrickID {
		return false
	}
	return true
}
