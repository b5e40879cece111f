package enums

import "fmt"

// TableStatus is the occupancy state of a dining table.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusCleaning  TableStatus = "cleaning"
)

var validTableStatuses = []TableStatus{
	TableStatusAvailable,
	TableStatusOccupied,
	TableStatusReserved,
	TableStatusCleaning,
}

// String implements fmt.Stringer.
func (v TableStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TableStatus.
func (v TableStatus) IsValid() bool {
	for _, candidate := range validTableStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTableStatus converts raw input into a TableStatus.
func ParseTableStatus(value string) (TableStatus, error) {
	for _, candidate := range validTableStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid table status %q", value)
}
