package tables

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/pdv-backend/pkg/display"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// Table is a dining table on the floor plan.
type Table struct {
	ID             string            `json:"id"`
	Number         int               `json:"number"`
	Capacity       int               `json:"capacity"`
	Status         enums.TableStatus `json:"status"`
	CurrentOrderID string            `json:"current_order_id,omitempty"`
	CompanyID      string            `json:"company_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// View is a table decorated for display.
type View struct {
	Table
	Badge display.Badge `json:"badge"`
	Color string        `json:"color"`
}

// Occupancy summarises the floor.
type Occupancy struct {
	Occupied int `json:"occupied"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

var transitions = map[enums.TableStatus][]enums.TableStatus{
	enums.TableStatusAvailable: {enums.TableStatusOccupied, enums.TableStatusReserved},
	enums.TableStatusReserved:  {enums.TableStatusOccupied, enums.TableStatusAvailable},
	enums.TableStatusOccupied:  {enums.TableStatusCleaning},
	enums.TableStatusCleaning:  {enums.TableStatusAvailable},
}

// CanTransition reports whether a table may move from one status to another.
func CanTransition(from, to enums.TableStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Board holds the floor plan.
type Board struct {
	mu     sync.RWMutex
	tables map[string]Table
}

func NewBoard(tables ...Table) *Board {
	b := &Board{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		b.tables[t.ID] = t
	}
	return b
}

// List returns tables ordered by number, optionally filtered by status.
func (b *Board) List(_ context.Context, status enums.TableStatus) ([]View, error) {
	if status != "" && !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown table status %q", status)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]View, 0, len(b.tables))
	for _, t := range b.tables {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, viewOf(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// UpdateStatus moves a table along the floor workflow. Leaving the occupied
// state detaches the current order.
func (b *Board) UpdateStatus(_ context.Context, id string, status enums.TableStatus) (View, error) {
	if !status.IsValid() {
		return View{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown table status %q", status)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tables[id]
	if !ok {
		return View{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "table %s not found", id)
	}
	if t.Status == status {
		return viewOf(t), nil
	}
	if !CanTransition(t.Status, status) {
		return View{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "table cannot go from %s to %s", t.Status, status).
			WithDetails(map[string]any{"from": t.Status, "to": status, "allowed": transitions[t.Status]})
	}
	if status != enums.TableStatusOccupied {
		t.CurrentOrderID = ""
	}
	t.Status = status
	b.tables[id] = t
	return viewOf(t), nil
}

// Occupancy counts occupied tables against the floor size.
func (b *Board) Occupancy(_ context.Context) Occupancy {
	b.mu.RLock()
	defer b.mu.RUnlock()
	occ := Occupancy{Total: len(b.tables)}
	for _, t := range b.tables {
		if t.Status == enums.TableStatusOccupied {
			occ.Occupied++
		}
	}
	if occ.Total > 0 {
		occ.Percent = occ.Occupied * 100 / occ.Total
	}
	return occ
}

func viewOf(t Table) View {
	return View{Table: t, Badge: display.TableBadge(t.Status), Color: display.TableStatusColor(t.Status)}
}

// DemoTables is the floor plan the register ships with.
func DemoTables() []Table {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id string, number, capacity int, status enums.TableStatus, order string) Table {
		return Table{ID: id, Number: number, Capacity: capacity, Status: status, CurrentOrderID: order, CompanyID: "1", CreatedAt: created}
	}
	return []Table{
		mk("1", 1, 4, enums.TableStatusOccupied, "1"),
		mk("2", 2, 2, enums.TableStatusAvailable, ""),
		mk("3", 3, 6, enums.TableStatusReserved, ""),
		mk("4", 4, 4, enums.TableStatusCleaning, ""),
		mk("5", 5, 8, enums.TableStatusOccupied, "2"),
		mk("6", 6, 2, enums.TableStatusAvailable, ""),
	}
}
