package enums

import "fmt"

// StockLevel buckets a product's on-hand quantity against its minimum.
type StockLevel string

const (
	StockLevelIn  StockLevel = "in_stock"
	StockLevelLow StockLevel = "low_stock"
	StockLevelOut StockLevel = "out_of_stock"
)

var validStockLevels = []StockLevel{
	StockLevelIn,
	StockLevelLow,
	StockLevelOut,
}

// String implements fmt.Stringer.
func (v StockLevel) String() string {
	return string(v)
}

// IsValid reports whether the value is a known StockLevel.
func (v StockLevel) IsValid() bool {
	for _, candidate := range validStockLevels {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseStockLevel converts raw input into a StockLevel.
func ParseStockLevel(value string) (StockLevel, error) {
	for _, candidate := range validStockLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock level %q", value)
}
