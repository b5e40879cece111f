package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pdv-backend/internal/cart"
	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
	"github.com/angelmondragon/pdv-backend/pkg/metrics"
	"github.com/angelmondragon/pdv-backend/pkg/pagination"
)

// FinalizeInput identifies the cart being sold and who is selling it.
type FinalizeInput struct {
	SessionID     string
	PaymentMethod string
	UserID        string
	CompanyID     string
}

// Service turns carts into sales.
type Service interface {
	// Finalize records the session's cart as a sale and empties the cart. If
	// the sale is not recorded the cart is left exactly as it was.
	Finalize(ctx context.Context, input FinalizeInput) (*Sale, error)
	ListSales(ctx context.Context, since time.Time) ([]Sale, error)
	// ListSalesPage pages through sales made since the given time. A cursor
	// from an earlier page keeps that page's window.
	ListSalesPage(ctx context.Context, since time.Time, params pagination.Params) (SalesPage, error)
}

// Options carries optional collaborators.
type Options struct {
	Metrics *metrics.POSMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	carts   cart.Service
	store   Store
	metrics *metrics.POSMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires finalization over the cart service and a sale store.
func NewService(carts cart.Service, store Store, opts Options) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if store == nil {
		return nil, fmt.Errorf("sale store required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &service{carts: carts, store: store, metrics: opts.Metrics, logg: opts.Logger, now: now}, nil
}

func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*Sale, error) {
	method, err := enums.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(input.PaymentMethod)))
	if err != nil {
		s.metrics.CheckoutFailed("invalid_payment_method")
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method").
			WithDetails(map[string]any{"allowed": []enums.PaymentMethod{enums.PaymentMethodCash, enums.PaymentMethodCredit, enums.PaymentMethodDebit, enums.PaymentMethodPix}})
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator is required")
	}

	var (
		sale      Sale
		committed bool
	)
	_, err = s.carts.Update(ctx, input.SessionID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		snap := c.Snapshot()
		sale = Sale{
			ID:            uuid.NewString(),
			SessionID:     input.SessionID,
			UserID:        input.UserID,
			CompanyID:     input.CompanyID,
			PaymentMethod: method,
			Items:         itemsFromSnapshot(snap),
			Total:         snap.Total,
			ItemCount:     snap.ItemCount,
			CreatedAt:     s.now().UTC(),
		}
		if err := s.store.Commit(ctx, sale); err != nil {
			return commitError(err)
		}
		committed = true
		c.Clear()
		return nil
	})
	if err != nil && !committed {
		s.metrics.CheckoutFailed(failureReason(err))
		return nil, err
	}
	if err != nil && s.logg != nil {
		// the sale stands; the cart keeps its lines until the operator clears it
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"sale_id": sale.ID}), "sale recorded but cart not cleared", err)
	}

	s.metrics.SaleFinalized(sale.Total)
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"sale_id":        sale.ID,
			"total":          sale.Total.StringFixed(2),
			"item_count":     sale.ItemCount,
			"payment_method": sale.PaymentMethod,
		}), "sale finalized")
	}
	return &sale, nil
}

func (s *service) ListSales(ctx context.Context, since time.Time) ([]Sale, error) {
	return s.store.ListSales(ctx, since)
}

func (s *service) ListSalesPage(ctx context.Context, since time.Time, params pagination.Params) (SalesPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return SalesPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").
			WithDetails(map[string]any{"field": "cursor"})
	}
	if cursor != nil && !cursor.Since.IsZero() {
		since = cursor.Since
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.ListSalesPage(ctx, since, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return SalesPage{}, err
	}
	return newSalesPage(rows, limit, since), nil
}

func commitError(err error) error {
	var shortage *catalog.InsufficientStockError
	if errors.As(err, &shortage) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient stock").
			WithDetails(map[string]any{
				"product_ids": shortage.ProductIDs(),
				"shortages":   shortage.Shortages,
			})
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict:
		return "insufficient_stock"
	case pkgerrors.CodeValidation:
		return "empty_cart"
	default:
		return strings.ToLower(string(typed.Code()))
	}
}
