package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/pkg/display"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// Item is one line of a kitchen/service order.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes,omitempty"`
}

// Order is a ticket on the service board.
type Order struct {
	ID            string              `json:"id"`
	TableID       string              `json:"table_id,omitempty"`
	CustomerName  string              `json:"customer_name"`
	Status        enums.OrderStatus   `json:"status"`
	Items         []Item              `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method,omitempty"`
	UserID        string              `json:"user_id"`
	CompanyID     string              `json:"company_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// View is an order decorated for display.
type View struct {
	Order
	Badge          display.Badge `json:"badge"`
	Tone           string        `json:"tone"`
	TotalFormatted string        `json:"total_formatted"`
}

var nextStatus = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusOpen:      enums.OrderStatusPreparing,
	enums.OrderStatusPreparing: enums.OrderStatusReady,
	enums.OrderStatusReady:     enums.OrderStatusCompleted,
}

// Board holds the live orders.
type Board struct {
	mu     sync.RWMutex
	orders map[string]Order
	now    func() time.Time
}

func NewBoard(orders ...Order) *Board {
	b := &Board{orders: make(map[string]Order, len(orders)), now: time.Now}
	for _, o := range orders {
		b.orders[o.ID] = o
	}
	return b
}

// List returns orders newest first; an empty status returns every order.
func (b *Board) List(_ context.Context, status enums.OrderStatus) ([]View, error) {
	if status != "" && !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown order status %q", status)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]View, 0, len(b.orders))
	for _, o := range b.orders {
		if status == "" || o.Status == status {
			out = append(out, viewOf(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Advance moves an order one step: open → preparing → ready → completed.
func (b *Board) Advance(_ context.Context, id string) (View, error) {
	return b.mutate(id, func(o *Order) error {
		next, ok := nextStatus[o.Status]
		if !ok {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in status %s cannot advance", o.Status)
		}
		o.Status = next
		return nil
	})
}

// Cancel stops any order that is not final.
func (b *Board) Cancel(_ context.Context, id string) (View, error) {
	return b.mutate(id, func(o *Order) error {
		if o.Status.IsFinal() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in status %s cannot be cancelled", o.Status)
		}
		o.Status = enums.OrderStatusCancelled
		return nil
	})
}

// OpenCount counts orders that still need work.
func (b *Board) OpenCount(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, o := range b.orders {
		if !o.Status.IsFinal() {
			n++
		}
	}
	return n
}

func (b *Board) mutate(id string, fn func(*Order) error) (View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return View{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
	}
	if err := fn(&o); err != nil {
		return View{}, err
	}
	o.UpdatedAt = b.now().UTC()
	b.orders[id] = o
	return viewOf(o), nil
}

func viewOf(o Order) View {
	return View{
		Order:          o,
		Badge:          display.OrderBadge(o.Status),
		Tone:           display.OrderStatusTone(o.Status),
		TotalFormatted: display.FormatBRL(o.Total),
	}
}

// DemoOrders is the service board the register ships with.
func DemoOrders() []Order {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []Order{
		{ID: "1", TableID: "1", CustomerName: "Mesa 1", Status: enums.OrderStatusPreparing, Items: []Item{}, Total: decimal.RequireFromString("125.50"), UserID: "1", CompanyID: "1", CreatedAt: at("2024-06-11T14:30:00Z"), UpdatedAt: at("2024-06-11T14:30:00Z")},
		{ID: "2", TableID: "5", CustomerName: "Mesa 5", Status: enums.OrderStatusReady, Items: []Item{}, Total: decimal.RequireFromString("89.75"), UserID: "1", CompanyID: "1", CreatedAt: at("2024-06-11T14:15:00Z"), UpdatedAt: at("2024-06-11T14:45:00Z")},
		{ID: "3", CustomerName: "Cliente Balcão", Status: enums.OrderStatusOpen, Items: []Item{}, Total: decimal.RequireFromString("45.00"), UserID: "1", CompanyID: "1", CreatedAt: at("2024-06-11T15:00:00Z"), UpdatedAt: at("2024-06-11T15:00:00Z")},
		{ID: "4", TableID: "3", CustomerName: "Mesa 3", Status: enums.OrderStatusCompleted, Items: []Item{}, Total: decimal.RequireFromString("156.25"), PaymentMethod: enums.PaymentMethodCredit, UserID: "1", CompanyID: "1", CreatedAt: at("2024-06-11T13:30:00Z"), UpdatedAt: at("2024-06-11T14:20:00Z")},
	}
}
