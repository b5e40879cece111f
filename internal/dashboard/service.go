package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/internal/checkout"
	"github.com/angelmondragon/pdv-backend/internal/tables"
	"github.com/angelmondragon/pdv-backend/pkg/display"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

const (
	recentSalesLimit = 3
	topProductsLimit = 5
)

type salesLister interface {
	ListSales(ctx context.Context, since time.Time) ([]checkout.Sale, error)
}

type orderCounter interface {
	OpenCount(ctx context.Context) int
}

type floorPlan interface {
	Occupancy(ctx context.Context) tables.Occupancy
}

type lowStockLister interface {
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

// RecentSale is a compact sale line for the overview.
type RecentSale struct {
	ID             string              `json:"id"`
	Total          decimal.Decimal     `json:"total"`
	TotalFormatted string              `json:"total_formatted"`
	ItemCount      int                 `json:"item_count"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	CreatedAt      time.Time           `json:"created_at"`
}

// TopProduct ranks products by units sold today.
type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Summary is the dashboard payload.
type Summary struct {
	SalesToday          decimal.Decimal  `json:"sales_today"`
	SalesTodayFormatted string           `json:"sales_today_formatted"`
	SalesCount          int              `json:"sales_count"`
	OpenOrders          int              `json:"open_orders"`
	Occupancy           tables.Occupancy `json:"occupancy"`
	LowStockCount       int              `json:"low_stock_count"`
	RecentSales         []RecentSale     `json:"recent_sales"`
	TopProducts         []TopProduct     `json:"top_products"`
}

// Sources are the boards the dashboard reads from.
type Sources struct {
	Sales    salesLister
	Orders   orderCounter
	Tables   floorPlan
	Products lowStockLister
}

// Service builds the overview.
type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

type service struct {
	src Sources
	loc *time.Location
	now func() time.Time
}

// NewService wires the dashboard. loc decides where "today" starts; nil means UTC.
func NewService(src Sources, loc *time.Location, now func() time.Time) (Service, error) {
	if src.Sales == nil || src.Orders == nil || src.Tables == nil || src.Products == nil {
		return nil, fmt.Errorf("dashboard sources are incomplete")
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &service{src: src, loc: loc, now: now}, nil
}

func (s *service) Summary(ctx context.Context) (Summary, error) {
	local := s.now().In(s.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	sales, err := s.src.Sales.ListSales(ctx, midnight)
	if err != nil {
		return Summary{}, err
	}
	low, err := s.src.Products.LowStock(ctx)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		SalesToday:    decimal.Zero,
		SalesCount:    len(sales),
		OpenOrders:    s.src.Orders.OpenCount(ctx),
		Occupancy:     s.src.Tables.Occupancy(ctx),
		LowStockCount: len(low),
		RecentSales:   []RecentSale{},
	}
	for _, sale := range sales {
		out.SalesToday = out.SalesToday.Add(sale.Total)
	}
	out.SalesTodayFormatted = display.FormatBRL(out.SalesToday)

	sort.SliceStable(sales, func(i, j int) bool { return sales[i].CreatedAt.After(sales[j].CreatedAt) })
	for i := 0; i < len(sales) && i < recentSalesLimit; i++ {
		out.RecentSales = append(out.RecentSales, RecentSale{
			ID:             sales[i].ID,
			Total:          sales[i].Total,
			TotalFormatted: display.FormatBRL(sales[i].Total),
			ItemCount:      sales[i].ItemCount,
			PaymentMethod:  sales[i].PaymentMethod,
			CreatedAt:      sales[i].CreatedAt,
		})
	}
	out.TopProducts = topProducts(sales)
	return out, nil
}

func topProducts(sales []checkout.Sale) []TopProduct {
	byID := map[string]*TopProduct{}
	for _, sale := range sales {
		for _, it := range sale.Items {
			tp, ok := byID[it.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				byID[it.ProductID] = tp
			}
			tp.Quantity += it.Quantity
			tp.Revenue = tp.Revenue.Add(it.Subtotal)
		}
	}
	out := make([]TopProduct, 0, len(byID))
	for _, tp := range byID {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}
