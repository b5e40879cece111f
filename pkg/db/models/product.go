package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry with its on-hand stock.
type Product struct {
	ID            string          `gorm:"column:id;type:text;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Description   string          `gorm:"column:description;not null;default:''"`
	Barcode       *string         `gorm:"column:barcode;uniqueIndex"`
	Category      string          `gorm:"column:category;not null;default:''"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CostPrice     decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null;default:0"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	MinStock      int             `gorm:"column:min_stock;not null;default:0"`
	Active        bool            `gorm:"column:active;not null"`
	CompanyID     string          `gorm:"column:company_id;type:text;not null;default:''"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
