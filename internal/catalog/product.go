package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// Product is a sellable catalog entry. The cart treats it as read-only.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Barcode       string          `json:"barcode,omitempty"`
	Category      string          `json:"category,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	MinStock      int             `json:"min_stock"`
	Active        bool            `json:"active"`
	CompanyID     string          `json:"company_id,omitempty"`
}

// LowStock reports whether on-hand stock is at or below the minimum.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.MinStock
}

// Filter narrows List results.
type Filter struct {
	// Query matches a case-insensitive name substring or a barcode substring.
	Query           string
	Category        string
	IncludeInactive bool
}

func (f Filter) matches(p Product) bool {
	if !f.IncludeInactive && !p.Active {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) ||
		(p.Barcode != "" && strings.Contains(p.Barcode, q))
}

// StockMove removes Quantity units of ProductID from stock.
type StockMove struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Catalog resolves products for the register and its screens.
type Catalog interface {
	FindByID(ctx context.Context, id string) (Product, error)
	FindByBarcode(ctx context.Context, barcode string) (Product, error)
	List(ctx context.Context, filter Filter) ([]Product, error)
	LowStock(ctx context.Context) ([]Product, error)
}

// StockLedger mutates on-hand quantities.
type StockLedger interface {
	// DecrementStock applies every move or none of them.
	DecrementStock(ctx context.Context, moves []StockMove) error
	AdjustStock(ctx context.Context, id string, delta int) (Product, error)
}

// Store is a catalog that also owns stock and accepts new products.
type Store interface {
	Catalog
	StockLedger
	Upsert(ctx context.Context, p Product) (Product, error)
}

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")

// StockShortage describes one move that could not be applied.
type StockShortage struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError is returned by DecrementStock when at least one move
// exceeds stock or names an unknown product.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		ids = append(ids, s.ProductID)
	}
	return "insufficient stock for " + strings.Join(ids, ", ")
}

// ProductIDs lists the offending products in a stable order.
func (e *InsufficientStockError) ProductIDs() []string {
	ids := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		ids = append(ids, s.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// mergeMoves folds repeated product ids so each product is checked once.
func mergeMoves(moves []StockMove) ([]StockMove, error) {
	order := make([]string, 0, len(moves))
	totals := make(map[string]int, len(moves))
	for _, m := range moves {
		if strings.TrimSpace(m.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock move requires a product id")
		}
		if m.Quantity <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "stock move for %s must be positive", m.ProductID)
		}
		if _, seen := totals[m.ProductID]; !seen {
			order = append(order, m.ProductID)
		}
		totals[m.ProductID] += m.Quantity
	}
	merged := make([]StockMove, 0, len(order))
	for _, id := range order {
		merged = append(merged, StockMove{ProductID: id, Quantity: totals[id]})
	}
	return merged, nil
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if p.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if p.StockQuantity < 0 || p.MinStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantities must not be negative")
	}
	return nil
}
