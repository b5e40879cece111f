// Package display maps domain status values to the labels, colours and badge
// variants shown on the POS screens. Every function is a pure lookup.
package display

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

const unknownLabel = "Desconhecido"

// Badge is the rendered form of a status.
type Badge struct {
	Label   string             `json:"label"`
	Variant enums.BadgeVariant `json:"variant"`
}

var tableLabels = map[enums.TableStatus]string{
	enums.TableStatusAvailable: "Disponível",
	enums.TableStatusOccupied:  "Ocupada",
	enums.TableStatusReserved:  "Reservada",
	enums.TableStatusCleaning:  "Limpeza",
}

var tableColors = map[enums.TableStatus]string{
	enums.TableStatusAvailable: "green",
	enums.TableStatusOccupied:  "red",
	enums.TableStatusReserved:  "yellow",
	enums.TableStatusCleaning:  "blue",
}

// TableStatusLabel returns the board label for a table status.
func TableStatusLabel(status enums.TableStatus) string {
	return lookup(tableLabels, status, unknownLabel)
}

// TableStatusColor returns the indicator colour for a table status.
func TableStatusColor(status enums.TableStatus) string {
	return lookup(tableColors, status, "gray")
}

// TableBadge highlights free tables and mutes everything else.
func TableBadge(status enums.TableStatus) Badge {
	variant := enums.BadgeVariantSecondary
	if status == enums.TableStatusAvailable {
		variant = enums.BadgeVariantDefault
	}
	return Badge{Label: TableStatusLabel(status), Variant: variant}
}

var orderLabels = map[enums.OrderStatus]string{
	enums.OrderStatusOpen:      "Aberto",
	enums.OrderStatusPreparing: "Preparando",
	enums.OrderStatusReady:     "Pronto",
	enums.OrderStatusCompleted: "Finalizado",
	enums.OrderStatusCancelled: "Cancelado",
}

var orderVariants = map[enums.OrderStatus]enums.BadgeVariant{
	enums.OrderStatusOpen:      enums.BadgeVariantSecondary,
	enums.OrderStatusPreparing: enums.BadgeVariantDefault,
	enums.OrderStatusReady:     enums.BadgeVariantDefault,
	enums.OrderStatusCompleted: enums.BadgeVariantSecondary,
	enums.OrderStatusCancelled: enums.BadgeVariantDestructive,
}

var orderTones = map[enums.OrderStatus]string{
	enums.OrderStatusPreparing: "yellow",
	enums.OrderStatusReady:     "green",
	enums.OrderStatusCompleted: "blue",
	enums.OrderStatusCancelled: "red",
}

// OrderStatusLabel returns the board label for an order status.
func OrderStatusLabel(status enums.OrderStatus) string {
	return lookup(orderLabels, status, unknownLabel)
}

// OrderStatusVariant returns the badge variant for an order status.
func OrderStatusVariant(status enums.OrderStatus) enums.BadgeVariant {
	return lookup(orderVariants, status, enums.BadgeVariantSecondary)
}

// OrderStatusTone returns the icon colour; open orders use the neutral tone.
func OrderStatusTone(status enums.OrderStatus) string {
	return lookup(orderTones, status, "")
}

// OrderBadge combines label and variant.
func OrderBadge(status enums.OrderStatus) Badge {
	return Badge{Label: OrderStatusLabel(status), Variant: OrderStatusVariant(status)}
}

var roleLabels = map[enums.UserRole]string{
	enums.UserRoleAdminSistema: "Admin Sistema",
	enums.UserRoleAdminEmpresa: "Admin Empresa",
	enums.UserRoleGerente:      "Gerente",
	enums.UserRoleSupervisor:   "Supervisor",
	enums.UserRoleCaixa:        "Caixa",
	enums.UserRoleAtendente:    "Atendente",
}

var roleVariants = map[enums.UserRole]enums.BadgeVariant{
	enums.UserRoleAdminSistema: enums.BadgeVariantDestructive,
	enums.UserRoleAdminEmpresa: enums.BadgeVariantDestructive,
	enums.UserRoleGerente:      enums.BadgeVariantDefault,
	enums.UserRoleSupervisor:   enums.BadgeVariantDefault,
}

// RoleLabel returns the human label for a role.
func RoleLabel(role enums.UserRole) string {
	return lookup(roleLabels, role, unknownLabel)
}

// RoleVariant returns the badge variant for a role.
func RoleVariant(role enums.UserRole) enums.BadgeVariant {
	return lookup(roleVariants, role, enums.BadgeVariantSecondary)
}

// RoleBadge combines label and variant.
func RoleBadge(role enums.UserRole) Badge {
	return Badge{Label: RoleLabel(role), Variant: RoleVariant(role)}
}

// StockStatus is the inventory badge for a product.
type StockStatus struct {
	Level enums.StockLevel `json:"level"`
	Badge
}

var stockBadges = map[enums.StockLevel]Badge{
	enums.StockLevelOut: {Label: "Sem Estoque", Variant: enums.BadgeVariantDestructive},
	enums.StockLevelLow: {Label: "Estoque Baixo", Variant: enums.BadgeVariantSecondary},
	enums.StockLevelIn:  {Label: "Em Estoque", Variant: enums.BadgeVariantDefault},
}

// StockLevelFor classifies on-hand stock against the configured minimum.
func StockLevelFor(current, minimum int) enums.StockLevel {
	switch {
	case current <= 0:
		return enums.StockLevelOut
	case current <= minimum:
		return enums.StockLevelLow
	default:
		return enums.StockLevelIn
	}
}

// StockBadge returns the inventory badge for the given quantities.
func StockBadge(current, minimum int) StockStatus {
	level := StockLevelFor(current, minimum)
	return StockStatus{Level: level, Badge: stockBadges[level]}
}

// Availability is the rental badge plus the percentage it was derived from.
type Availability struct {
	Percent float64                 `json:"percent"`
	Level   enums.AvailabilityLevel `json:"level"`
	Badge
}

// fewThreshold is the percentage under which an item shows as scarce.
const fewThreshold = 30.0

var availabilityBadges = map[enums.AvailabilityLevel]Badge{
	enums.AvailabilityLevelUnavailable: {Label: "Indisponível", Variant: enums.BadgeVariantDestructive},
	enums.AvailabilityLevelFew:         {Label: "Poucos disponíveis", Variant: enums.BadgeVariantSecondary},
	enums.AvailabilityLevelAvailable:   {Label: "Disponível", Variant: enums.BadgeVariantDefault},
}

// AvailabilityBadge classifies how much of a rental item's fleet is free.
// A zero-sized fleet counts as unavailable.
func AvailabilityBadge(available, total int) Availability {
	percent := 0.0
	if total > 0 && available > 0 {
		percent = float64(available) / float64(total) * 100
	}
	level := enums.AvailabilityLevelAvailable
	switch {
	case percent == 0:
		level = enums.AvailabilityLevelUnavailable
	case percent < fewThreshold:
		level = enums.AvailabilityLevelFew
	}
	return Availability{Percent: percent, Level: level, Badge: availabilityBadges[level]}
}

// FormatBRL renders an amount the way the register prints it.
func FormatBRL(amount decimal.Decimal) string {
	return "R$ " + amount.StringFixed(2)
}

func lookup[K comparable, V any](table map[K]V, key K, fallback V) V {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
