package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/pkg/enums"
)

// TransactionItem is one sold line. ServiceID and ComboID are mutually
// exclusive; exactly one is set according to the line's kind.
type TransactionItem struct {
	ServiceID *string         `json:"service_id,omitempty"`
	ComboID   *string         `json:"combo_id,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// TransactionPayload is the outbound checkout submission.
type TransactionPayload struct {
	BranchID      string              `json:"branch_id"`
	Items         []TransactionItem   `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	CustomerID    *string             `json:"customer_id,omitempty"`
	Cashier       string              `json:"cashier"`
	EmployeeID    *string             `json:"employee_id,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
}

// TransactionRecord is the persisted transaction as the backend returns it.
// Immutable from the terminal's perspective once created.
type TransactionRecord struct {
	ID            string              `json:"id"`
	BranchID      string              `json:"branch_id"`
	Items         []TransactionItem   `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	CustomerID    *string             `json:"customer_id,omitempty"`
	Cashier       string              `json:"cashier"`
	EmployeeID    *string             `json:"employee_id,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

type transactionsResponse struct {
	Transactions []TransactionRecord `json:"transactions"`
}

// SubmitTransaction persists one checkout. The backend de-duplicates
// retries; a failed submission leaves no record behind.
func (c *Client) SubmitTransaction(ctx context.Context, payload TransactionPayload) (*TransactionRecord, error) {
	var record TransactionRecord
	if err := c.do(ctx, "POST", "/api/v1/transactions", nil, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListTransactions returns the branch's persisted transactions for history
// and reprint.
func (c *Client) ListTransactions(ctx context.Context, branchID string) ([]TransactionRecord, error) {
	query := url.Values{}
	if branchID != "" {
		query.Set("branch_id", branchID)
	}
	var payload transactionsResponse
	if err := c.do(ctx, "GET", "/api/v1/transactions", query, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Transactions, nil
}

// GetTransaction loads a single persisted transaction.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*TransactionRecord, error) {
	var record TransactionRecord
	if err := c.do(ctx, "GET", "/api/v1/transactions/"+url.PathEscape(transactionID), nil, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
