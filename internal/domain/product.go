package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID                    uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Slug                  string      `gorm:"uniqueIndex;size:140"`
	Name                  string      `gorm:"size:180"`
	Price                 float64     `gorm:"type:decimal(12,2)"`
	StockQuantity         *int        `gorm:"type:int"`
	EnableStockManagement bool        `gorm:"default:false"`
	CategoryIDs           []uuid.UUID `gorm:"type:jsonb;serializer:json"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Per-line quantity ceiling, applied on top of stock.
const MaxLineQuantity = 10

func (p *Product) stock() int {
	if p.StockQuantity == nil {
		return 0
	}
	return *p.StockQuantity
}

// IsOutOfStock reports availability. With stock management disabled the
// product is always available, whatever the stored quantity says.
func (p *Product) IsOutOfStock() bool {
	return p.EnableStockManagement && p.stock() <= 0
}

func (p *Product) IsLowStock() bool {
	return p.EnableStockManagement && p.stock() > 0 && p.stock() <= 5
}

// MaxAddable is the quantity bound callers clamp against before mutating a
// cart line for this product.
func (p *Product) MaxAddable() int {
	if !p.EnableStockManagement {
		return MaxLineQuantity
	}
	if s := p.stock(); s < MaxLineQuantity {
		return s
	}
	return MaxLineQuantity
}

type ProductFilter struct {
	Query      string
	CategoryID *uuid.UUID
	Sort       string
	Page       int
	PageSize   int
}
