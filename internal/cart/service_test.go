package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	products, err := catalog.NewMemoryCatalog(catalog.DemoProducts()...)
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	svc, err := NewService(NewMemoryStore(), products, Options{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	if _, err := NewService(nil, &catalog.MemoryCatalog{}, Options{}); err == nil {
		t.Fatal("expected error for missing store")
	}
	if _, err := NewService(NewMemoryStore(), nil, Options{}); err == nil {
		t.Fatal("expected error for missing catalog")
	}
}

func TestServiceAddAndTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap, err := svc.Add(ctx, "s1", "3")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !snap.Total.Equal(decimal.NewFromInt(31)) {
		t.Fatalf("expected 31, got %s", snap.Total)
	}

	other, err := svc.Get(ctx, "s2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !other.IsEmpty() {
		t.Fatalf("sessions must not share carts")
	}
}

func TestServiceAddUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Add(context.Background(), "s1", "404")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	snap, _ := svc.Get(context.Background(), "s1")
	if !snap.IsEmpty() {
		t.Fatalf("failed add must not touch the cart")
	}
}

func TestServiceRequiresSession(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Get(context.Background(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestServiceScan(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	out, err := svc.Scan(ctx, "s1", "7891234567890")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !out.ClearSearch || out.Cart.ItemCount != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}

	out, err = svc.Scan(ctx, "s1", "abc123")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.Looked || out.Cart.ItemCount != 1 {
		t.Fatalf("non-barcode input must not change the cart: %+v", out)
	}
}

func TestServiceMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _ = svc.Add(ctx, "s1", "1")
	_, _ = svc.Add(ctx, "s1", "2")

	snap, err := svc.SetQuantity(ctx, "s1", "2", 3)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !snap.Total.Equal(decimal.NewFromInt(115)) {
		t.Fatalf("expected 115, got %s", snap.Total)
	}

	snap, err = svc.Remove(ctx, "s1", "1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(snap.Lines) != 1 || snap.Lines[0].ProductID != "2" {
		t.Fatalf("unexpected lines %+v", snap.Lines)
	}

	snap, err = svc.Clear(ctx, "s1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !snap.IsEmpty() || !snap.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", snap)
	}
}

func TestServiceUpdateKeepsCartOnError(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, "s1", "1")

	boom := errors.New("payment refused")
	_, err := svc.Update(ctx, "s1", func(c *Cart) error {
		c.Clear()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	snap, _ := svc.Get(ctx, "s1")
	if snap.ItemCount != 1 {
		t.Fatalf("cart must survive a failed update, got %+v", snap)
	}
}

func TestServiceSerialisesSameSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(ctx, "shared", "1"); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	snap, _ := svc.Get(ctx, "shared")
	if snap.ItemCount != 50 {
		t.Fatalf("expected 50 units, got %d", snap.ItemCount)
	}
}
