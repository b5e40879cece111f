package access

import (
	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

// Route keys name the screens of the register.
const (
	RouteDashboard = "dashboard"
	RouteProducts  = "products"
	RouteOrders    = "orders"
	RouteTables    = "tables"
	RoutePOS       = "pos"
	RouteRental    = "rental"
	RouteInventory = "inventory"
	RouteUsers     = "users"
)

// NavItem is one sidebar entry.
type NavItem struct {
	Route string `json:"route"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var navigation = []NavItem{
	{Route: RouteDashboard, Title: "Dashboard", Path: "/dashboard"},
	{Route: RouteProducts, Title: "Produtos", Path: "/products"},
	{Route: RouteOrders, Title: "Pedidos", Path: "/orders"},
	{Route: RouteTables, Title: "Mesas", Path: "/tables"},
	{Route: RoutePOS, Title: "Caixa/PDV", Path: "/pos"},
	{Route: RouteRental, Title: "Aluguel", Path: "/rental"},
	{Route: RouteInventory, Title: "Estoque", Path: "/inventory"},
	{Route: RouteUsers, Title: "Usuários", Path: "/users"},
}

// Policy maps a route key to the roles allowed to open it. Routes that are
// absent, or map to no roles, admit every authenticated role.
type Policy struct {
	rules map[string]map[enums.UserRole]struct{}
}

// NewPolicy builds a policy from a route → roles table.
func NewPolicy(table map[string][]enums.UserRole) *Policy {
	rules := make(map[string]map[enums.UserRole]struct{}, len(table))
	for route, roles := range table {
		set := make(map[enums.UserRole]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		rules[route] = set
	}
	return &Policy{rules: rules}
}

// DefaultPolicy is the register's stock permission table.
func DefaultPolicy() *Policy {
	return NewPolicy(map[string][]enums.UserRole{
		RoutePOS: {
			enums.UserRoleAdminSistema,
			enums.UserRoleAdminEmpresa,
			enums.UserRoleGerente,
			enums.UserRoleSupervisor,
			enums.UserRoleCaixa,
		},
		RouteInventory: {
			enums.UserRoleAdminSistema,
			enums.UserRoleAdminEmpresa,
			enums.UserRoleGerente,
			enums.UserRoleSupervisor,
		},
		RouteUsers: {
			enums.UserRoleAdminSistema,
			enums.UserRoleAdminEmpresa,
			enums.UserRoleGerente,
		},
	})
}

// Allowed reports whether role may open route. Unknown roles are never allowed.
func (p *Policy) Allowed(route string, role enums.UserRole) bool {
	if !role.IsValid() {
		return false
	}
	if p == nil {
		return true
	}
	set, ok := p.rules[route]
	if !ok || len(set) == 0 {
		return true
	}
	_, ok = set[role]
	return ok
}

// Routes lists the sidebar entries role may see, in menu order.
func (p *Policy) Routes(role enums.UserRole) []NavItem {
	out := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if p.Allowed(item.Route, role) {
			out = append(out, item)
		}
	}
	return out
}
