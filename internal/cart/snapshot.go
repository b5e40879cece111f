package cart

import "github.com/shopspring/decimal"

// SnapshotLine is a line as rendered to clients and receipts.
type SnapshotLine struct {
	Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Snapshot is the cart's lines and total captured at one instant.
type Snapshot struct {
	Lines     []SnapshotLine  `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Snapshot captures the current lines together with their total.
func (c *Cart) Snapshot() Snapshot {
	lines := make([]SnapshotLine, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, SnapshotLine{Line: l, Subtotal: l.Subtotal()})
	}
	return Snapshot{Lines: lines, Total: c.Total(), ItemCount: c.ItemCount()}
}

// IsEmpty reports whether the snapshot has no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}
