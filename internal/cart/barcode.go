package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
)

// DefaultBarcodeMinDigits is the shortest input treated as a scanned barcode.
const DefaultBarcodeMinDigits = 8

// BarcodeLookup resolves a barcode to at most one product.
type BarcodeLookup interface {
	FindByBarcode(ctx context.Context, barcode string) (catalog.Product, error)
}

// IsBarcode reports whether input is all ASCII digits and at least minDigits
// long. A non-positive minDigits uses DefaultBarcodeMinDigits.
func IsBarcode(input string, minDigits int) bool {
	if minDigits <= 0 {
		minDigits = DefaultBarcodeMinDigits
	}
	if len(input) < minDigits {
		return false
	}
	for i := 0; i < len(input); i++ {
		if input[i] < '0' || input[i] > '9' {
			return false
		}
	}
	return true
}

// ScanResult reports what a scan did.
type ScanResult struct {
	// Looked is true when the input qualified as a barcode and was looked up.
	Looked bool `json:"looked_up"`
	// Product is set when the barcode matched and was added to the cart.
	Product *catalog.Product `json:"product,omitempty"`
	// ClearSearch tells the caller to reset its search field.
	ClearSearch bool `json:"clear_search"`
}

// Scan treats input as a possible barcode. On a match the product is added to
// the cart exactly once and the search should be cleared. Input that is not a
// barcode, or a barcode that matches no active product, leaves the cart alone.
func Scan(ctx context.Context, lookup BarcodeLookup, c *Cart, input string, minDigits int) (ScanResult, error) {
	code := strings.TrimSpace(input)
	if !IsBarcode(code, minDigits) {
		return ScanResult{}, nil
	}
	p, err := lookup.FindByBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return ScanResult{Looked: true}, nil
		}
		return ScanResult{Looked: true}, err
	}
	if !p.Active {
		return ScanResult{Looked: true}, nil
	}
	c.AddItem(p)
	return ScanResult{Looked: true, Product: &p, ClearSearch: true}, nil
}
