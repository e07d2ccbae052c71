package enums

import "fmt"

// ItemKind discriminates the sellable catalog variants. Every consumption
// site must switch exhaustively over it; there is no "neither" case.
type ItemKind string

const (
	ItemKindService ItemKind = "service"
	ItemKindCombo   ItemKind = "combo"
)

var validItemKinds = []ItemKind{
	ItemKindService,
	ItemKindCombo,
}

// String implements fmt.Stringer.
func (i ItemKind) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemKind.
func (i ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemKind converts raw input into an ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
