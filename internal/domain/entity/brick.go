package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// MaterialType is the brick material.
type MaterialType string

const (
	MaterialClay     MaterialType = "Clay"
	MaterialConcrete MaterialType = "Concrete"
	MaterialGlass    MaterialType = "Glass"
	MaterialSpecial  MaterialType = "Special"
)

// BrickSize is the brick size class.
type BrickSize string

const (
	SizeSmall    BrickSize = "Small"
	SizeStandard BrickSize = "Standard"
	SizeLarge    BrickSize = "Large"
)

// AllowedMaterials contains the supported brick materials.
var AllowedMaterials = []MaterialType{MaterialClay, MaterialConcrete, MaterialGlass, MaterialSpecial}

// AllowedSizes contains the supported brick sizes.
var AllowedSizes = []BrickSize{SizeSmall, SizeStandard, SizeLarge}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Brick is a catalogue item together with its stock on hand.
type Brick struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku,omitempty"`
	Material          MaterialType    `json:"type,omitempty"`
	Size              BrickSize       `json:"size,omitempty"`
	Color             string          `json:"color,omitempty"`
	Dimensions        Dimensions      `json:"dimensions"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	MinStockThreshold int             `json:"minStockThreshold"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	StorageLocation   string          `json:"storageLocation,omitempty"`
	Image             string          `json:"image,omitempty"`
	Description       string          `json:"description,omitempty"`
	Featured          bool            `json:"featured"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// LowStock reports whether the brick is under its advisory threshold.
func (b Brick) LowStock() bool {
	return b.Stock < b.MinStockThreshold
}

// ValidMaterial reports whether m is one of AllowedMaterials.
func ValidMaterial(m MaterialType) bool {
	for _, v := range AllowedMaterials {
		if v == m {
			return true
		}
	}
	return false
}

// ValidSize reports whether s is one of AllowedSizes.
func ValidSize(s BrickSize) bool {
	for _, v := range AllowedSizes {
		if v == s {
			return true
		}
	}
	return false
}
