package display

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

func TestTableStatusLookups(t *testing.T) {
	cases := []struct {
		status enums.TableStatus
		label  string
		color  string
	}{
		{enums.TableStatusAvailable, "Disponível", "green"},
		{enums.TableStatusOccupied, "Ocupada", "red"},
		{enums.TableStatusReserved, "Reservada", "yellow"},
		{enums.TableStatusCleaning, "Limpeza", "blue"},
		{enums.TableStatus("broken"), "Desconhecido", "gray"},
	}
	for _, tc := range cases {
		if got := TableStatusLabel(tc.status); got != tc.label {
			t.Fatalf("label(%s) = %q want %q", tc.status, got, tc.label)
		}
		if got := TableStatusColor(tc.status); got != tc.color {
			t.Fatalf("color(%s) = %q want %q", tc.status, got, tc.color)
		}
	}
}

func TestOrderStatusLookups(t *testing.T) {
	if got := OrderStatusLabel(enums.OrderStatusReady); got != "Pronto" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := OrderStatusVariant(enums.OrderStatusCancelled); got != enums.BadgeVariantDestructive {
		t.Fatalf("unexpected variant %q", got)
	}
	if got := OrderStatusVariant(enums.OrderStatusOpen); got != enums.BadgeVariantSecondary {
		t.Fatalf("unexpected variant %q", got)
	}
	if got := OrderStatusTone(enums.OrderStatusOpen); got != "" {
		t.Fatalf("expected neutral tone for open orders, got %q", got)
	}
	if got := OrderStatusLabel(enums.OrderStatus("lost")); got != "Desconhecido" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestRoleLookups(t *testing.T) {
	cases := map[enums.UserRole]Badge{
		enums.UserRoleAdminSistema: {Label: "Admin Sistema", Variant: enums.BadgeVariantDestructive},
		enums.UserRoleAdminEmpresa: {Label: "Admin Empresa", Variant: enums.BadgeVariantDestructive},
		enums.UserRoleGerente:      {Label: "Gerente", Variant: enums.BadgeVariantDefault},
		enums.UserRoleSupervisor:   {Label: "Supervisor", Variant: enums.BadgeVariantDefault},
		enums.UserRoleCaixa:        {Label: "Caixa", Variant: enums.BadgeVariantSecondary},
		enums.UserRoleAtendente:    {Label: "Atendente", Variant: enums.BadgeVariantSecondary},
	}
	for role, want := range cases {
		if got := RoleBadge(role); got != want {
			t.Fatalf("RoleBadge(%s) = %+v want %+v", role, got, want)
		}
	}
}

func TestStockBadge(t *testing.T) {
	cases := []struct {
		current, minimum int
		level            enums.StockLevel
		label            string
	}{
		{0, 20, enums.StockLevelOut, "Sem Estoque"},
		{20, 20, enums.StockLevelLow, "Estoque Baixo"},
		{3, 5, enums.StockLevelLow, "Estoque Baixo"},
		{150, 20, enums.StockLevelIn, "Em Estoque"},
	}
	for _, tc := range cases {
		got := StockBadge(tc.current, tc.minimum)
		if got.Level != tc.level || got.Label != tc.label {
			t.Fatalf("StockBadge(%d,%d) = %+v", tc.current, tc.minimum, got)
		}
	}
}

func TestAvailabilityBadge(t *testing.T) {
	cases := []struct {
		available, total int
		level            enums.AvailabilityLevel
		variant          enums.BadgeVariant
	}{
		{0, 20, enums.AvailabilityLevelUnavailable, enums.BadgeVariantDestructive},
		{5, 0, enums.AvailabilityLevelUnavailable, enums.BadgeVariantDestructive},
		{2, 10, enums.AvailabilityLevelFew, enums.BadgeVariantSecondary},
		{3, 10, enums.AvailabilityLevelAvailable, enums.BadgeVariantDefault},
		{15, 20, enums.AvailabilityLevelAvailable, enums.BadgeVariantDefault},
	}
	for _, tc := range cases {
		got := AvailabilityBadge(tc.available, tc.total)
		if got.Level != tc.level || got.Variant != tc.variant {
			t.Fatalf("AvailabilityBadge(%d,%d) = %+v", tc.available, tc.total, got)
		}
	}
	if got := AvailabilityBadge(15, 20).Percent; got != 75 {
		t.Fatalf("expected 75%%, got %v", got)
	}
}

func TestFormatBRL(t *testing.T) {
	if got := FormatBRL(decimal.RequireFromString("25")); got != "R$ 25.00" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := FormatBRL(decimal.RequireFromString("2.5")); got != "R$ 2.50" {
		t.Fatalf("unexpected format %q", got)
	}
}
