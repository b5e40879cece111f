package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/internal/cart"
	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

// SaleItem is a cart line frozen at the moment of sale.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Sale is a finalized register transaction. It doubles as the receipt.
type Sale struct {
	ID            string              `json:"id"`
	SessionID     string              `json:"-"`
	UserID        string              `json:"user_id"`
	CompanyID     string              `json:"company_id,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Items         []SaleItem          `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

// StockMoves lists the stock each item consumes.
func (s Sale) StockMoves() []catalog.StockMove {
	moves := make([]catalog.StockMove, 0, len(s.Items))
	for _, it := range s.Items {
		moves = append(moves, catalog.StockMove{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return moves
}

func itemsFromSnapshot(snap cart.Snapshot) []SaleItem {
	items := make([]SaleItem, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, SaleItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		})
	}
	return items
}
