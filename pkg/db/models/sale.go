package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

// Sale is a finalized register transaction.
type Sale struct {
	ID            string              `gorm:"column:id;type:text;primaryKey"`
	SessionID     string              `gorm:"column:session_id;type:text;not null"`
	UserID        string              `gorm:"column:user_id;type:text;not null"`
	CompanyID     string              `gorm:"column:company_id;type:text;not null;default:''"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	ItemCount     int                 `gorm:"column:item_count;not null"`
	Items         []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;index"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem snapshots one cart line at the moment of sale.
type SaleItem struct {
	SaleID    string          `gorm:"column:sale_id;type:text;primaryKey"`
	Position  int             `gorm:"column:position;primaryKey;autoIncrement:false"`
	ProductID string          `gorm:"column:product_id;type:text;not null"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}

func (SaleItem) TableName() string { return "sale_items" }
