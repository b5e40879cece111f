package enums

import "fmt"

// BadgeVariant is the visual emphasis of a status badge.
type BadgeVariant string

const (
	BadgeVariantDefault     BadgeVariant = "default"
	BadgeVariantSecondary   BadgeVariant = "secondary"
	BadgeVariantDestructive BadgeVariant = "destructive"
)

var validBadgeVariants = []BadgeVariant{
	BadgeVariantDefault,
	BadgeVariantSecondary,
	BadgeVariantDestructive,
}

// String implements fmt.Stringer.
func (v BadgeVariant) String() string {
	return string(v)
}

// IsValid reports whether the value is a known BadgeVariant.
func (v BadgeVariant) IsValid() bool {
	for _, candidate := range validBadgeVariants {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseBadgeVariant converts raw input into a BadgeVariant.
func ParseBadgeVariant(value string) (BadgeVariant, error) {
	for _, candidate := range validBadgeVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid badge variant %q", value)
}
