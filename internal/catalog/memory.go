package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// MemoryCatalog keeps products in process. Safe for concurrent use.
type MemoryCatalog struct {
	mu        sync.RWMutex
	byID      map[string]Product
	byBarcode map[string]string
	order     []string
}

// NewMemoryCatalog returns a catalog holding the given products.
func NewMemoryCatalog(products ...Product) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		byID:      make(map[string]Product),
		byBarcode: make(map[string]string),
	}
	for _, p := range products {
		if _, err := c.Upsert(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *MemoryCatalog) FindByID(_ context.Context, id string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (c *MemoryCatalog) FindByBarcode(_ context.Context, barcode string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byBarcode[barcode]
	if !ok {
		return Product{}, ErrNotFound
	}
	return c.byID[id], nil
}

func (c *MemoryCatalog) List(_ context.Context, filter Filter) ([]Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		if p := c.byID[id]; filter.matches(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return byName(out[i], out[j]) })
	return out, nil
}

func (c *MemoryCatalog) LowStock(_ context.Context) ([]Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []Product{}
	for _, id := range c.order {
		if p := c.byID[id]; p.Active && p.LowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StockQuantity != out[j].StockQuantity {
			return out[i].StockQuantity < out[j].StockQuantity
		}
		return byName(out[i], out[j])
	})
	return out, nil
}

// byName is the listing order shared with the SQL repository: name, then id.
func byName(a, b Product) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func (c *MemoryCatalog) Upsert(_ context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.Barcode != "" {
		if owner, taken := c.byBarcode[p.Barcode]; taken && owner != p.ID {
			return Product{}, pkgerrors.Newf(pkgerrors.CodeConflict, "barcode %s already belongs to product %s", p.Barcode, owner)
		}
	}
	if prev, exists := c.byID[p.ID]; exists {
		if prev.Barcode != "" {
			delete(c.byBarcode, prev.Barcode)
		}
	} else {
		c.order = append(c.order, p.ID)
	}
	c.byID[p.ID] = p
	if p.Barcode != "" {
		c.byBarcode[p.Barcode] = p.ID
	}
	return p, nil
}

func (c *MemoryCatalog) DecrementStock(_ context.Context, moves []StockMove) error {
	merged, err := mergeMoves(moves)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var shortages []StockShortage
	for _, m := range merged {
		p, ok := c.byID[m.ProductID]
		if !ok || !p.Active || p.StockQuantity < m.Quantity {
			shortages = append(shortages, StockShortage{ProductID: m.ProductID, Requested: m.Quantity, Available: p.StockQuantity})
		}
	}
	if len(shortages) > 0 {
		sort.Slice(shortages, func(i, j int) bool { return shortages[i].ProductID < shortages[j].ProductID })
		return &InsufficientStockError{Shortages: shortages}
	}
	for _, m := range merged {
		p := c.byID[m.ProductID]
		p.StockQuantity -= m.Quantity
		c.byID[m.ProductID] = p
	}
	return nil
}

func (c *MemoryCatalog) AdjustStock(_ context.Context, id string, delta int) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, ErrNotFound
	}
	if p.StockQuantity+delta < 0 {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeValidation, "stock for %s cannot go below zero", id).
			WithDetails(map[string]int{"current": p.StockQuantity, "delta": delta})
	}
	p.StockQuantity += delta
	c.byID[p.ID] = p
	return p, nil
}
