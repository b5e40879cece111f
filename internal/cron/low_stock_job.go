package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

type lowStockLister interface {
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

type lowStockGauge interface {
	SetLowStock(n int)
}

// LowStockJobParams configure the restock report.
type LowStockJobParams struct {
	Logger   *logger.Logger
	Products lowStockLister
	Gauge    lowStockGauge
}

// NewLowStockJob reports products at or below their minimum stock.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	return &lowStockJob{logg: params.Logger, products: params.Products, gauge: params.Gauge}, nil
}

type lowStockJob struct {
	logg     *logger.Logger
	products lowStockLister
	gauge    lowStockGauge
}

func (j *lowStockJob) Name() string { return "low-stock-report" }

func (j *lowStockJob) Run(ctx context.Context) error {
	low, err := j.products.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("list low stock: %w", err)
	}
	if j.gauge != nil {
		j.gauge.SetLowStock(len(low))
	}
	if len(low) == 0 {
		j.logg.Info(ctx, "stock levels healthy")
		return nil
	}
	for _, p := range low {
		j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
			"product_id": p.ID,
			"product":    p.Name,
			"stock":      p.StockQuantity,
			"min_stock":  p.MinStock,
		}), "product needs restocking")
	}
	return nil
}
