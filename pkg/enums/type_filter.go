package enums

import "fmt"

// TypeFilter narrows a catalog browse to one sellable variant.
type TypeFilter string

const (
	TypeFilterAll      TypeFilter = "all"
	TypeFilterServices TypeFilter = "services"
	TypeFilterCombos   TypeFilter = "combos"
)

var validTypeFilters = []TypeFilter{
	TypeFilterAll,
	TypeFilterServices,
	TypeFilterCombos,
}

// String implements fmt.Stringer.
func (t TypeFilter) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TypeFilter.
func (t TypeFilter) IsValid() bool {
	for _, candidate := range validTypeFilters {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTypeFilter converts raw input into a TypeFilter. Empty input means no
// narrowing and parses as TypeFilterAll.
func ParseTypeFilter(value string) (TypeFilter, error) {
	if value == "" {
		return TypeFilterAll, nil
	}
	for _, candidate := range validTypeFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid type filter %q", value)
}
