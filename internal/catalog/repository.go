package catalog

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/pdv-backend/pkg/db"
	"github.com/angelmondragon/pdv-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// Repository is the SQL-backed Store.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a repository to the provided GORM handle.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) FindByID(ctx context.Context, id string) (Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return Product{}, lookupError(err, "find product")
	}
	return fromModel(row), nil
}

func (r *Repository) FindByBarcode(ctx context.Context, barcode string) (Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&row).Error; err != nil {
		return Product{}, lookupError(err, "find product by barcode")
	}
	return fromModel(row), nil
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if !filter.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR barcode LIKE ? ESCAPE '\\')", like, "%"+escapeLike(term)+"%")
	}

	var rows []models.Product
	if err := q.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return fromModels(rows), nil
}

func (r *Repository) LowStock(ctx context.Context) ([]Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND stock_quantity <= min_stock", true).
		Order("stock_quantity ASC, name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	return fromModels(rows), nil
}

func (r *Repository) Upsert(ctx context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	row := toModel(p)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "barcode", "category", "price", "cost_price", "stock_quantity", "min_stock", "active", "company_id", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Product{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "barcode already in use")
		}
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
	}
	return fromModel(row), nil
}

func (r *Repository) DecrementStock(ctx context.Context, moves []StockMove) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return DecrementStockTx(tx, moves)
	})
}

// DecrementStockTx applies moves inside a caller-owned transaction so a sale
// insert can commit or roll back together with the stock change.
func DecrementStockTx(tx *gorm.DB, moves []StockMove) error {
	merged, err := mergeMoves(moves)
	if err != nil {
		return err
	}

	var shortages []StockShortage
	for _, m := range merged {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND active = ? AND stock_quantity >= ?", m.ProductID, true, m.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", m.Quantity))
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
		}
		if res.RowsAffected == 1 {
			continue
		}
		available := 0
		var row models.Product
		if err := tx.Select("stock_quantity").Where("id = ?", m.ProductID).Take(&row).Error; err == nil {
			available = row.StockQuantity
		}
		shortages = append(shortages, StockShortage{ProductID: m.ProductID, Requested: m.Quantity, Available: available})
	}
	if len(shortages) > 0 {
		sort.Slice(shortages, func(i, j int) bool { return shortages[i].ProductID < shortages[j].ProductID })
		return &InsufficientStockError{Shortages: shortages}
	}
	return nil
}

func (r *Repository) AdjustStock(ctx context.Context, id string, delta int) (Product, error) {
	var out Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Product
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return lookupError(err, "load product for adjustment")
		}
		if row.StockQuantity+delta < 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "stock for %s cannot go below zero", id).
				WithDetails(map[string]int{"current": row.StockQuantity, "delta": delta})
		}
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity + ? >= 0", id, delta).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust stock")
		}
		if res.RowsAffected != 1 {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "stock for %s changed concurrently", id)
		}
		row.StockQuantity += delta
		out = fromModel(row)
		return nil
	})
	return out, err
}

func lookupError(err error, action string) error {
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func toModel(p Product) models.Product {
	row := models.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		MinStock:      p.MinStock,
		Active:        p.Active,
		CompanyID:     p.CompanyID,
	}
	if p.Barcode != "" {
		barcode := p.Barcode
		row.Barcode = &barcode
	}
	return row
}

func fromModel(row models.Product) Product {
	p := Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Category:      row.Category,
		Price:         row.Price,
		CostPrice:     row.CostPrice,
		StockQuantity: row.StockQuantity,
		MinStock:      row.MinStock,
		Active:        row.Active,
		CompanyID:     row.CompanyID,
	}
	if row.Barcode != nil {
		p.Barcode = *row.Barcode
	}
	return p
}

func fromModels(rows []models.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out
}
