package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/internal/cart"
	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

type fixture struct {
	catalog *catalog.MemoryCatalog
	carts   cart.Service
	store   *MemoryStore
	svc     Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cat, err := catalog.NewMemoryCatalog(catalog.DemoProducts()...)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	carts, err := cart.NewService(cart.NewMemoryStore(), cat, cart.Options{})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	store, err := NewMemoryStore(cat)
	if err != nil {
		t.Fatalf("sale store: %v", err)
	}
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc, err := NewService(carts, store, Options{Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return fixture{catalog: cat, carts: carts, store: store, svc: svc}
}

func (f fixture) add(t *testing.T, session, productID string, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		if _, err := f.carts.Add(context.Background(), session, productID); err != nil {
			t.Fatalf("add %s: %v", productID, err)
		}
	}
}

func TestFinalizeRecordsSaleAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "s1", "1", 2)
	f.add(t, "s1", "3", 1)

	sale, err := f.svc.Finalize(ctx, FinalizeInput{SessionID: "s1", PaymentMethod: "pix", UserID: "u1"})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !sale.Total.Equal(decimal.RequireFromString("56.00")) {
		t.Fatalf("expected total 56.00, got %s", sale.Total)
	}
	if sale.ItemCount != 3 || len(sale.Items) != 2 {
		t.Fatalf("unexpected receipt %+v", sale)
	}
	if sale.PaymentMethod != enums.PaymentMethodPix {
		t.Fatalf("unexpected payment method %q", sale.PaymentMethod)
	}

	snap, err := f.carts.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !snap.IsEmpty() {
		t.Fatalf("expected cart cleared, got %+v", snap)
	}

	p, _ := f.catalog.FindByID(ctx, "1")
	if p.StockQuantity != 148 {
		t.Fatalf("expected stock 148, got %d", p.StockQuantity)
	}

	sales, err := f.svc.ListSales(ctx, time.Time{})
	if err != nil || len(sales) != 1 || sales[0].ID != sale.ID {
		t.Fatalf("expected one listed sale, got %v (%v)", sales, err)
	}
}

func TestFinalizeEmptyCartIsValidationError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Finalize(context.Background(), FinalizeInput{SessionID: "s1", PaymentMethod: "cash", UserID: "u1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	sales, _ := f.store.ListSales(context.Background(), time.Time{})
	if len(sales) != 0 {
		t.Fatalf("expected no sale recorded")
	}
}

func TestFinalizeRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.add(t, "s1", "1", 1)

	_, err := f.svc.Finalize(context.Background(), FinalizeInput{SessionID: "s1", PaymentMethod: "cheque", UserID: "u1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	snap, _ := f.carts.Get(context.Background(), "s1")
	if snap.ItemCount != 1 {
		t.Fatalf("cart must be untouched, got %+v", snap)
	}
}

func TestFinalizeInsufficientStockKeepsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "s1", "1", 1)
	f.add(t, "s1", "4", 3)

	_, err := f.svc.Finalize(ctx, FinalizeInput{SessionID: "s1", PaymentMethod: "debit", UserID: "u1"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	ids, _ := details["product_ids"].([]string)
	if len(ids) != 1 || ids[0] != "4" {
		t.Fatalf("expected product 4 reported, got %v", details["product_ids"])
	}
	var shortage *catalog.InsufficientStockError
	if !errors.As(err, &shortage) {
		t.Fatalf("expected shortage cause to be preserved")
	}

	snap, _ := f.carts.Get(ctx, "s1")
	if snap.ItemCount != 4 {
		t.Fatalf("cart must be kept intact, got %+v", snap)
	}
	p, _ := f.catalog.FindByID(ctx, "1")
	if p.StockQuantity != 150 {
		t.Fatalf("stock must not move on failure, got %d", p.StockQuantity)
	}
}

func TestFinalizeRequiresSessionAndOperator(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Finalize(context.Background(), FinalizeInput{PaymentMethod: "cash", UserID: "u1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized without session, got %v", err)
	}
	_, err = f.svc.Finalize(context.Background(), FinalizeInput{SessionID: "s1", PaymentMethod: "cash"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized without operator, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, &MemoryStore{}, Options{}); err == nil {
		t.Fatal("expected error without cart service")
	}
	if _, err := NewMemoryStore(nil); err == nil {
		t.Fatal("expected error without ledger")
	}
}

type flakyCartStore struct {
	*cart.MemoryStore
	failSave bool
}

func (s *flakyCartStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if s.failSave {
		return errors.New("redis down")
	}
	return s.MemoryStore.Save(ctx, sessionID, c)
}

func TestFinalizeKeepsCommittedSaleWhenCartSaveFails(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.NewMemoryCatalog(catalog.DemoProducts()...)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	carts := &flakyCartStore{MemoryStore: cart.NewMemoryStore()}
	cartSvc, err := cart.NewService(carts, cat, cart.Options{})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	store, err := NewMemoryStore(cat)
	if err != nil {
		t.Fatalf("sale store: %v", err)
	}
	svc, err := NewService(cartSvc, store, Options{})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	if _, err := cartSvc.Add(ctx, "s1", "3"); err != nil {
		t.Fatalf("add: %v", err)
	}

	carts.failSave = true
	sale, err := svc.Finalize(ctx, FinalizeInput{SessionID: "s1", PaymentMethod: "cash", UserID: "u1"})
	if err != nil {
		t.Fatalf("expected committed sale despite cart save failure, got %v", err)
	}
	sales, _ := svc.ListSales(ctx, time.Time{})
	if len(sales) != 1 || sales[0].ID != sale.ID {
		t.Fatalf("expected the sale to be recorded, got %v", sales)
	}
	snap, _ := cartSvc.Get(ctx, "s1")
	if snap.ItemCount != 1 {
		t.Fatalf("expected cart to keep its line, got %+v", snap)
	}
}
