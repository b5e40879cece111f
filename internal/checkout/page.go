package checkout

import (
	"sort"
	"time"

	"github.com/angelmondragon/pdv-backend/pkg/pagination"
)

// SalesPage is one page of the sales history, newest first. Since is the
// window the pages are read from; NextCursor keeps it for later pages.
type SalesPage struct {
	Sales      []Sale    `json:"sales"`
	Since      time.Time `json:"since"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func sortNewestFirst(sales []Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		if sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].ID > sales[j].ID
		}
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
}

// pageAfter returns up to limit sales that sort after cursor. sales must
// already be newest first.
func pageAfter(sales []Sale, cursor *pagination.Cursor, limit int) []Sale {
	start := 0
	if cursor != nil {
		for start < len(sales) && !cursor.After(sales[start].CreatedAt, sales[start].ID) {
			start++
		}
	}
	end := start + limit
	if end > len(sales) {
		end = len(sales)
	}
	return sales[start:end]
}

// newSalesPage trims a buffered read of limit+1 rows down to one page.
func newSalesPage(rows []Sale, limit int, since time.Time) SalesPage {
	page := SalesPage{Sales: rows, Since: since}
	if len(rows) > limit {
		page.Sales = rows[:limit]
		last := page.Sales[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID, Since: since})
	}
	return page
}
