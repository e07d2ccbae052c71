package backend

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/pkg/enums"
)

// ServiceRecord is the wire shape of a bookable salon service.
type ServiceRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	BranchIDs   []string        `json:"branch_ids"`
	Active      bool            `json:"active"`
}

// ComboComponent names one service bundled inside a combo.
type ComboComponent struct {
	Name string `json:"name"`
}

// ComboRecord is the wire shape of a bundled offer. Price is the negotiated
// discount price; the terminal never recomputes it from component prices.
type ComboRecord struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	Price              decimal.Decimal   `json:"price"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	Components         []ComboComponent  `json:"components"`
	BranchIDs          []string          `json:"branch_ids"`
	Status             enums.ComboStatus `json:"status"`
	Stock              *int              `json:"stock,omitempty"`
}

// BranchRecord carries the branch metadata printed on receipts.
type BranchRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type catalogResponse struct {
	Services []ServiceRecord `json:"services"`
	Combos   []ComboRecord   `json:"combos"`
}

// FetchCatalog pulls the full service and combo collections, optionally
// scoped to one branch server-side.
func (c *Client) FetchCatalog(ctx context.Context, branchID string) ([]ServiceRecord, []ComboRecord, error) {
	query := url.Values{}
	if branchID != "" {
		query.Set("branch_id", branchID)
	}
	var payload catalogResponse
	if err := c.do(ctx, "GET", "/api/v1/catalog", query, nil, &payload); err != nil {
		return nil, nil, err
	}
	return payload.Services, payload.Combos, nil
}

// GetBranch loads branch metadata for receipt rendering.
func (c *Client) GetBranch(ctx context.Context, branchID string) (*BranchRecord, error) {
	var branch BranchRecord
	if err := c.do(ctx, "GET", "/api/v1/branches/"+url.PathEscape(branchID), nil, nil, &branch); err != nil {
		return nil, err
	}
	return &branch, nil
}
