package orders

import (
	"context"
	"testing"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

func TestListNewestFirstAndByStatus(t *testing.T) {
	b := NewBoard(DemoOrders()...)
	ctx := context.Background()

	all, err := b.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"3", "1", "2", "4"}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("position %d: expected %s got %s", i, id, all[i].ID)
		}
	}
	if all[0].Badge.Label != "Aberto" || all[0].TotalFormatted != "R$ 45.00" {
		t.Fatalf("unexpected decoration %+v", all[0])
	}

	ready, _ := b.List(ctx, enums.OrderStatusReady)
	if len(ready) != 1 || ready[0].ID != "2" {
		t.Fatalf("expected only order 2 ready, got %+v", ready)
	}
	if _, err := b.List(ctx, enums.OrderStatus("lost")); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdvanceWalksTheWorkflow(t *testing.T) {
	b := NewBoard(DemoOrders()...)
	ctx := context.Background()

	for _, want := range []enums.OrderStatus{enums.OrderStatusPreparing, enums.OrderStatusReady, enums.OrderStatusCompleted} {
		v, err := b.Advance(ctx, "3")
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if v.Status != want {
			t.Fatalf("expected %s, got %s", want, v.Status)
		}
	}
	if _, err := b.Advance(ctx, "3"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict past completion, got %v", err)
	}
	if _, err := b.Advance(ctx, "404"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	b := NewBoard(DemoOrders()...)
	ctx := context.Background()

	v, err := b.Cancel(ctx, "1")
	if err != nil || v.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %+v (%v)", v, err)
	}
	if _, err := b.Cancel(ctx, "1"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("cancelling twice should conflict, got %v", err)
	}
	if _, err := b.Cancel(ctx, "4"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("completed order cannot be cancelled, got %v", err)
	}
	if _, err := b.Advance(ctx, "1"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("cancelled order cannot advance, got %v", err)
	}
}

func TestOpenCount(t *testing.T) {
	b := NewBoard(DemoOrders()...)
	if n := b.OpenCount(context.Background()); n != 3 {
		t.Fatalf("expected 3 open orders, got %d", n)
	}
}
