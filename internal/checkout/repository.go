package checkout

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository records sales in SQL, decrementing product stock in the same
// transaction.
type Repository struct {
	db *gorm.DB
	tx txRunner
}

// NewRepository binds the repository to a connection and its transaction runner.
func NewRepository(conn *gorm.DB, tx txRunner) *Repository {
	return &Repository{db: conn, tx: tx}
}

func (r *Repository) Commit(ctx context.Context, sale Sale) error {
	return r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := catalog.DecrementStockTx(tx, sale.StockMoves()); err != nil {
			return err
		}
		row := toModel(sale)
		if err := tx.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert sale")
		}
		return nil
	})
}

// Times are bound in UTC: sqlite keeps them as text, so a zoned bind would
// compare lexically against UTC rows.
func (r *Repository) ListSales(ctx context.Context, since time.Time) ([]Sale, error) {
	var rows []models.Sale
	err := r.salesSince(ctx, since).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return fromModels(rows), nil
}

func (r *Repository) ListSalesPage(ctx context.Context, since time.Time, cursor *pagination.Cursor, limit int) ([]Sale, error) {
	query := r.salesSince(ctx, since)
	if cursor != nil {
		at := cursor.CreatedAt.UTC()
		query = query.Where("((created_at < ?) OR (created_at = ? AND id < ?))", at, at, cursor.ID)
	}
	var rows []models.Sale
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales page")
	}
	return fromModels(rows), nil
}

func (r *Repository) salesSince(ctx context.Context, since time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("created_at >= ?", since.UTC())
}

func fromModels(rows []models.Sale) []Sale {
	out := make([]Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out
}

func toModel(s Sale) models.Sale {
	row := models.Sale{
		ID:            s.ID,
		SessionID:     s.SessionID,
		UserID:        s.UserID,
		CompanyID:     s.CompanyID,
		PaymentMethod: s.PaymentMethod,
		Total:         s.Total,
		ItemCount:     s.ItemCount,
		CreatedAt:     s.CreatedAt.UTC(),
	}
	for i, it := range s.Items {
		row.Items = append(row.Items, models.SaleItem{
			SaleID:    s.ID,
			Position:  i,
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.Subtotal,
		})
	}
	return row
}

func fromModel(row models.Sale) Sale {
	s := Sale{
		ID:            row.ID,
		SessionID:     row.SessionID,
		UserID:        row.UserID,
		CompanyID:     row.CompanyID,
		PaymentMethod: row.PaymentMethod,
		Total:         row.Total,
		ItemCount:     row.ItemCount,
		CreatedAt:     row.CreatedAt,
	}
	for _, it := range row.Items {
		s.Items = append(s.Items, SaleItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.LineTotal,
		})
	}
	return s
}
