package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// DemoCompanyID owns every seeded record.
const DemoCompanyID = "1"

// DemoProducts is the starter catalog used when no database is configured.
func DemoProducts() []Product {
	return []Product{
		{
			ID: "1", Name: "Cerveja Heineken 600ml", Description: "Cerveja premium importada",
			Price: decimal.RequireFromString("25.00"), CostPrice: decimal.RequireFromString("18.00"),
			Barcode: "7891234567890", Category: "bebidas", StockQuantity: 150, MinStock: 20,
			Active: true, CompanyID: DemoCompanyID,
		},
		{
			ID: "2", Name: "Hambúrguer Especial", Description: "Hambúrguer artesanal 200g",
			Price: decimal.RequireFromString("30.00"), CostPrice: decimal.RequireFromString("15.00"),
			Barcode: "7891234567891", Category: "lanches", StockQuantity: 50, MinStock: 10,
			Active: true, CompanyID: DemoCompanyID,
		},
		{
			ID: "3", Name: "Refrigerante Coca-Cola 350ml", Description: "Refrigerante gelado",
			Price: decimal.RequireFromString("6.00"), CostPrice: decimal.RequireFromString("3.50"),
			Barcode: "7891234567892", Category: "refrigerantes", StockQuantity: 80, MinStock: 15,
			Active: true, CompanyID: DemoCompanyID,
		},
		{
			ID: "4", Name: "Batata Frita Especial", Description: "Porção de batata frita temperada",
			Price: decimal.RequireFromString("18.00"), CostPrice: decimal.RequireFromString("8.00"),
			Barcode: "7891234567893", Category: "lanches", StockQuantity: 2, MinStock: 5,
			Active: true, CompanyID: DemoCompanyID,
		},
	}
}

// SeedDemo loads DemoProducts into an empty store. A store that already holds
// products, active or not, is left untouched so stock counts survive restarts.
func SeedDemo(ctx context.Context, store Store) (bool, error) {
	existing, err := store.List(ctx, Filter{IncludeInactive: true})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	var errs error
	for _, p := range DemoProducts() {
		if _, err := store.Upsert(ctx, p); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs == nil, errs
}
