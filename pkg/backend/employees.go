package backend

import (
	"context"

	"github.com/salonworks/pos-terminal/pkg/enums"
)

// EmployeeRecord is the staff directory's view of a cashier-capable
// employee.
type EmployeeRecord struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	BranchID string            `json:"branch_id,omitempty"`
	Role     enums.CashierRole `json:"role"`
}

type verifyCashierRequest struct {
	EmployeeID string `json:"employee_id"`
	PIN        string `json:"pin"`
}

// VerifyCashier checks the employee's PIN against the staff directory and
// returns the employee profile on success. A wrong PIN surfaces as a
// NOT_FOUND error from the directory.
func (c *Client) VerifyCashier(ctx context.Context, employeeID, pin string) (*EmployeeRecord, error) {
	body := verifyCashierRequest{EmployeeID: employeeID, PIN: pin}
	var employee EmployeeRecord
	if err := c.do(ctx, "POST", "/api/v1/employees/verify", nil, body, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}
