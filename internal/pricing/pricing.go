package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/money"
)

// MembershipDiscount is the membership input to a pricing pass. When the
// validation collaborator supplied an explicit amount, ValidatedAmount is
// set and wins over the nominal percentage.
type MembershipDiscount struct {
	Percentage      decimal.Decimal
	ValidatedAmount *decimal.Decimal
}

// Breakdown is the full pricing summary for a checkout. Derived on every
// input change, never mutated incrementally.
type Breakdown struct {
	OriginalTotal            decimal.Decimal `json:"original_total"`
	MembershipDiscountAmount decimal.Decimal `json:"membership_discount_amount"`
	ManualDiscountAmount     decimal.Decimal `json:"manual_discount_amount"`
	TotalDiscountAmount      decimal.Decimal `json:"total_discount_amount"`
	DiscountedTotal          decimal.Decimal `json:"discounted_total"`
	TipAmount                decimal.Decimal `json:"tip_amount"`
	FinalTotal               decimal.Decimal `json:"final_total"`
}

// Compute derives the breakdown. Membership and manual discounts both apply
// to the original total, additively, never compounded. The discounted total
// floors at zero.
func Compute(originalTotal decimal.Decimal, membership *MembershipDiscount, manualPercent decimal.Decimal, tip decimal.Decimal) (Breakdown, error) {
	if originalTotal.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "original total must not be negative")
	}
	if !money.ValidPercent(manualPercent) {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "manual discount percent must be between 0 and 100")
	}
	if tip.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "tip must not be negative")
	}

	membershipAmount := decimal.Zero
	if membership != nil {
		if membership.ValidatedAmount != nil {
			if membership.ValidatedAmount.IsNegative() {
				return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "validated discount must not be negative")
			}
			membershipAmount = *membership.ValidatedAmount
		} else {
			if !money.ValidPercent(membership.Percentage) {
				return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "membership percentage must be between 0 and 100")
			}
			membershipAmount = money.Percent(originalTotal, membership.Percentage)
		}
	}

	manualAmount := money.Percent(originalTotal, manualPercent)
	totalDiscount := membershipAmount.Add(manualAmount)
	discountedTotal := money.FloorZero(originalTotal.Sub(totalDiscount))

	return Breakdown{
		OriginalTotal:            originalTotal,
		MembershipDiscountAmount: membershipAmount,
		ManualDiscountAmount:     manualAmount,
		TotalDiscountAmount:      totalDiscount,
		DiscountedTotal:          discountedTotal,
		TipAmount:                tip,
		FinalTotal:               discountedTotal.Add(tip),
	}, nil
}
