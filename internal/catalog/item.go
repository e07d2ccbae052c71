package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
)

// Item is the sellable shape the register works with: every variant is
// normalized to a final price. Kind discriminates the union; combo-only
// fields are zero for services.
type Item struct {
	ID          string          `json:"id"`
	Kind        enums.ItemKind  `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	BranchIDs   []string        `json:"branch_ids"`

	// Combo-only. FinalPrice is the negotiated discount price as published
	// by the catalog, never recomputed from component prices.
	Components         []string        `json:"components,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage,omitempty"`
	Stock              *int            `json:"stock,omitempty"`
}

// BranchContext scopes a browse to the caller's branch. Admins see every
// branch.
type BranchContext struct {
	BranchID string
	Admin    bool
}

// ItemFromService normalizes a service record.
func ItemFromService(record backend.ServiceRecord) Item {
	return Item{
		ID:          record.ID,
		Kind:        enums.ItemKindService,
		Name:        record.Name,
		Description: record.Description,
		FinalPrice:  record.Price,
		BranchIDs:   record.BranchIDs,
	}
}

// ItemFromCombo normalizes a combo record.
func ItemFromCombo(record backend.ComboRecord) Item {
	components := make([]string, 0, len(record.Components))
	for _, component := range record.Components {
		components = append(components, component.Name)
	}
	return Item{
		ID:                 record.ID,
		Kind:               enums.ItemKindCombo,
		Name:               record.Name,
		Description:        record.Description,
		FinalPrice:         record.Price,
		BranchIDs:          record.BranchIDs,
		Components:         components,
		DiscountPercentage: record.DiscountPercentage,
		Stock:              copyIntPtr(record.Stock),
	}
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
