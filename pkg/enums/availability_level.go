package enums

import "fmt"

// AvailabilityLevel buckets how much of a rental item is still free.
type AvailabilityLevel string

const (
	AvailabilityLevelAvailable   AvailabilityLevel = "available"
	AvailabilityLevelFew         AvailabilityLevel = "few"
	AvailabilityLevelUnavailable AvailabilityLevel = "unavailable"
)

var validAvailabilityLevels = []AvailabilityLevel{
	AvailabilityLevelAvailable,
	AvailabilityLevelFew,
	AvailabilityLevelUnavailable,
}

// String implements fmt.Stringer.
func (v AvailabilityLevel) String() string {
	return string(v)
}

// IsValid reports whether the value is a known AvailabilityLevel.
func (v AvailabilityLevel) IsValid() bool {
	for _, candidate := range validAvailabilityLevels {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseAvailabilityLevel converts raw input into a AvailabilityLevel.
func ParseAvailabilityLevel(value string) (AvailabilityLevel, error) {
	for _, candidate := range validAvailabilityLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability level %q", value)
}
