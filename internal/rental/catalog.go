package rental

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/pkg/display"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

// Item is equipment rented out by the day.
type Item struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	DailyPrice        decimal.Decimal `json:"daily_price"`
	Category          string          `json:"category"`
	AvailableQuantity int             `json:"available_quantity"`
	TotalQuantity     int             `json:"total_quantity"`
	ImageURL          string          `json:"image_url,omitempty"`
	CompanyID         string          `json:"company_id,omitempty"`
}

// View is an item decorated with its availability badge.
type View struct {
	Item
	Availability display.Availability `json:"availability"`
	Rentable     bool                 `json:"rentable"`
	PriceLabel   string               `json:"price_label"`
}

// Catalog is the read-only rental inventory.
type Catalog struct {
	mu    sync.RWMutex
	items []Item
}

func NewCatalog(items ...Item) *Catalog {
	return &Catalog{items: append([]Item(nil), items...)}
}

// Search matches the term against name and category, case-insensitively.
func (c *Catalog) Search(_ context.Context, term string) []View {
	q := strings.ToLower(strings.TrimSpace(term))
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]View, 0, len(c.items))
	for _, it := range c.items {
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) && !strings.Contains(strings.ToLower(it.Category), q) {
			continue
		}
		out = append(out, viewOf(it))
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories(_ context.Context) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{}, len(c.items))
	out := []string{}
	for _, it := range c.items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// Scarce lists items showing the few-left or unavailable badge, emptiest first.
func (c *Catalog) Scarce(ctx context.Context) []View {
	all := c.Search(ctx, "")
	out := all[:0]
	for _, v := range all {
		if v.Availability.Level != enums.AvailabilityLevelAvailable {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Availability.Percent < out[j].Availability.Percent })
	return out
}

func viewOf(it Item) View {
	return View{
		Item:         it,
		Availability: display.AvailabilityBadge(it.AvailableQuantity, it.TotalQuantity),
		Rentable:     it.AvailableQuantity > 0,
		PriceLabel:   display.FormatBRL(it.DailyPrice) + "/dia",
	}
}

// DemoItems is the rental inventory the register ships with.
func DemoItems() []Item {
	mk := func(id, name, desc, price, category string, available, total int) Item {
		return Item{ID: id, Name: name, Description: desc, DailyPrice: decimal.RequireFromString(price), Category: category, AvailableQuantity: available, TotalQuantity: total, CompanyID: "1"}
	}
	return []Item{
		mk("1", "Mesa Redonda 8 Lugares", "Mesa redonda para eventos, comporta 8 pessoas", "50.00", "Mobiliário", 15, 20),
		mk("2", "Cadeira Tiffany Dourada", "Cadeira elegante para casamentos e eventos", "8.00", "Mobiliário", 80, 100),
		mk("3", "Taça de Vidro 200ml", "Taça de vidro para bebidas", "2.50", "Utensílios", 150, 200),
		mk("4", "Toalha de Mesa 3x1.5m", "Toalha de mesa branca para eventos", "15.00", "Decoração", 25, 30),
		mk("5", "Iluminação LED Colorida", "Kit de iluminação LED com controle remoto", "120.00", "Iluminação", 2, 5),
		mk("6", "Caixa de Som Bluetooth", "Caixa de som portátil para eventos pequenos", "80.00", "Som", 3, 8),
	}
}
