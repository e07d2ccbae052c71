package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/salonworks/pos-terminal/pkg/enums"
)

// CashierTokenPayload captures the data available when minting a JWT for a
// cashier signing on to a terminal.
type CashierTokenPayload struct {
	Cashier    string
	EmployeeID string
	BranchID   string
	Role       enums.CashierRole
	JTI        string
}

// CashierTokenClaims is the typed JWT carried by every terminal request.
type CashierTokenClaims struct {
	Cashier    string            `json:"cashier"`
	EmployeeID string            `json:"employee_id,omitempty"`
	BranchID   string            `json:"branch_id,omitempty"`
	Role       enums.CashierRole `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims bypass branch scoping.
func (c *CashierTokenClaims) IsAdmin() bool {
	return c.Role == enums.CashierRoleAdmin
}
