package brick

import (
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Input is the body of POST /api/bricks and, with every field optional,
// of PATCH /api/bricks/:id.
type Input struct {
	Name              *string              `json:"name"`
	SKU               *string              `json:"sku"`
	Material          *entity.MaterialType `json:"type"`
	Size              *entity.BrickSize    `json:"size"`
	Color             *string              `json:"color"`
	Dimensions        *entity.Dimensions   `json:"dimensions"`
	Price             *decimal.Decimal     `json:"price"`
	Stock             *int                 `json:"stock"`
	MinStockThreshold *int                 `json:"minStockThreshold"`
	Manufacturer      *string              `json:"manufacturer"`
	StorageLocation   *string              `json:"storageLocation"`
	Image             *string              `json:"image"`
	Description       *string              `json:"description"`
	Featured          *bool                `json:"featured"`
}

// applyTo copies every field set in in onto b, except stock.
func (in Input) applyTo(b *entity.Brick) {
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.SKU != nil {
		b.SKU = *in.SKU
	}
	if in.Material != nil {
		b.Material = *in.Material
	}
	if in.Size != nil {
		b.Size = *in.Size
	}
	if in.Color != nil {
		b.Color = *in.Color
	}
	if in.Dimensions != nil {
		b.Dimensions = *in.Dimensions
	}
	if in.Price != nil {
		b.Price = *in.Price
	}
	if in.MinStockThreshold != nil {
		b.MinStockThreshold = *in.MinStockThreshold
	}
	if in.Manufacturer != nil {
		b.Manufacturer = *in.Manufacturer
	}
	if in.StorageLocation != nil {
		b.StorageLocation = *in.StorageLocation
	}
	if in.Image != nil {
		b.Image = *in.Image
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Featured != nil {
		b.Featured = *in.Featured
	}
}

func validateBrick(b entity.Brick) []string {
	var errs []string
	if b.Name == "" {
		errs = append(errs, "Brick name is required")
	}
	if b.Price.IsNegative() {
		errs = append(errs, "Price must not be negative")
	}
	if b.Stock < 0 {
		errs = append(errs, "Stock must be a positive number")
	}
	if b.MinStockThreshold < 0 {
		errs = append(errs, "Minimum stock threshold must not be negative")
	}
	if b.Material != "" && !entity.ValidMaterial(b.Material) {
		errs = append(errs, "Invalid material type")
	}
	if b.Size != "" && !entity.ValidSize(b.Size) {
		errs = append(errs, "Invalid brick size")
	}
	d := b.Dimensions
	if d.Length < 0 || d.Width < 0 || d.Height < 0 {
		errs = append(errs, "Dimensions must not be negative")
	}
	return errs
}

// StockItem is one line of a stock availability check.
type StockItem struct {
	BrickID  string `json:"brickId"`
	Quantity int    `json:"quantity"`
}

// InvalidItem reports a line that cannot be served from stock.
type InvalidItem struct {
	BrickID   string `json:"brickId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockUpdate is a signed stock change for one brick.
type StockUpdate struct {
	BrickID  string `json:"brickId"`
	Quantity int    `json:"quantity"`
	Source   string `json:"source"`
}
