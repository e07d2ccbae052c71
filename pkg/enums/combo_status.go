package enums

import "fmt"

// ComboStatus captures whether a combo is currently sellable.
type ComboStatus string

const (
	ComboStatusActive   ComboStatus = "active"
	ComboStatusInactive ComboStatus = "inactive"
	ComboStatusArchived ComboStatus = "archived"
)

var validComboStatuses = []ComboStatus{
	ComboStatusActive,
	ComboStatusInactive,
	ComboStatusArchived,
}

// String implements fmt.Stringer.
func (c ComboStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComboStatus.
func (c ComboStatus) IsValid() bool {
	for _, candidate := range validComboStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComboStatus converts raw input into a ComboStatus.
func ParseComboStatus(value string) (ComboStatus, error) {
	for _, candidate := range validComboStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid combo status %q", value)
}
