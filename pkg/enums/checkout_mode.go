package enums

import "fmt"

// CheckoutMode selects which total a checkout submits: express sales charge
// the raw cart subtotal, customer sales charge the discounted+tipped final
// total from the pricing breakdown.
type CheckoutMode string

const (
	CheckoutModeExpress  CheckoutMode = "express"
	CheckoutModeCustomer CheckoutMode = "customer"
)

var validCheckoutModes = []CheckoutMode{
	CheckoutModeExpress,
	CheckoutModeCustomer,
}

// String implements fmt.Stringer.
func (c CheckoutMode) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutMode.
func (c CheckoutMode) IsValid() bool {
	for _, candidate := range validCheckoutModes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutMode converts raw input into a CheckoutMode.
func ParseCheckoutMode(value string) (CheckoutMode, error) {
	for _, candidate := range validCheckoutModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout mode %q", value)
}
