package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/display"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

// Row is one product on the stock screen.
type Row struct {
	catalog.Product
	Stock      display.StockStatus `json:"stock"`
	StockValue decimal.Decimal     `json:"stock_value"`
}

// AdjustInput records a stock entry (positive) or write-off (negative).
type AdjustInput struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"max=200"`
}

type productStore interface {
	catalog.Catalog
	AdjustStock(ctx context.Context, id string, delta int) (catalog.Product, error)
}

// Service drives the inventory screen.
type Service interface {
	Search(ctx context.Context, query string) ([]Row, error)
	LowStock(ctx context.Context) ([]Row, error)
	Adjust(ctx context.Context, productID string, input AdjustInput) (Row, error)
}

type service struct {
	products productStore
	logg     *logger.Logger
}

func NewService(products productStore, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product store required")
	}
	return &service{products: products, logg: logg}, nil
}

func (s *service) Search(ctx context.Context, query string) ([]Row, error) {
	products, err := s.products.List(ctx, catalog.Filter{Query: query, IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	return rows(products), nil
}

func (s *service) LowStock(ctx context.Context) ([]Row, error) {
	products, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return rows(products), nil
}

func (s *service) Adjust(ctx context.Context, productID string, input AdjustInput) (Row, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Row{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Delta == 0 {
		return Row{}, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	p, err := s.products.AdjustStock(ctx, productID, input.Delta)
	if err != nil {
		return Row{}, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"product_id": p.ID,
			"delta":      input.Delta,
			"stock":      p.StockQuantity,
			"reason":     input.Reason,
		}), "stock adjusted")
	}
	return rowOf(p), nil
}

func rowOf(p catalog.Product) Row {
	return Row{
		Product:    p,
		Stock:      display.StockBadge(p.StockQuantity, p.MinStock),
		StockValue: p.CostPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))),
	}
}

func rows(products []catalog.Product) []Row {
	out := make([]Row, 0, len(products))
	for _, p := range products {
		out = append(out, rowOf(p))
	}
	return out
}
