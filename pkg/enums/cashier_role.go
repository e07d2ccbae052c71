package enums

import "fmt"

// CashierRole represents the register-level permissions role. Admins bypass
// branch scoping when browsing the catalog and transaction history.
type CashierRole string

const (
	CashierRoleAdmin   CashierRole = "admin"
	CashierRoleManager CashierRole = "manager"
	CashierRoleCashier CashierRole = "cashier"
)

var validCashierRoles = []CashierRole{
	CashierRoleAdmin,
	CashierRoleManager,
	CashierRoleCashier,
}

// String implements fmt.Stringer.
func (c CashierRole) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CashierRole.
func (c CashierRole) IsValid() bool {
	for _, candidate := range validCashierRoles {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCashierRole converts raw input into a CashierRole.
func ParseCashierRole(value string) (CashierRole, error) {
	for _, candidate := range validCashierRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cashier role %q", value)
}
