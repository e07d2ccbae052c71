package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/pkg/metrics"
)

// Publisher receives every freshly computed breakdown. The checkout summary
// and the orchestrator both subscribe through this hook.
type Publisher func(Breakdown)

// Engine holds the pricing inputs of one register session and recomputes the
// breakdown on every input change, so a stale breakdown is never observable.
// Not safe for concurrent use; the owning session serializes access.
type Engine struct {
	subtotal      decimal.Decimal
	membership    *MembershipDiscount
	manualPercent decimal.Decimal
	tip           decimal.Decimal

	latest    Breakdown
	publish   Publisher
	registerM *metrics.RegisterMetrics
}

func NewEngine(publish Publisher, registerM *metrics.RegisterMetrics) *Engine {
	engine := &Engine{publish: publish, registerM: registerM}
	engine.latest, _ = Compute(decimal.Zero, nil, decimal.Zero, decimal.Zero)
	return engine
}

// Latest returns the breakdown for the current inputs.
func (e *Engine) Latest() Breakdown {
	return e.latest
}

// SetSubtotal feeds a new cart subtotal into the engine.
func (e *Engine) SetSubtotal(subtotal decimal.Decimal) error {
	return e.recompute(subtotal, e.membership, e.manualPercent, e.tip)
}

// SetMembership attaches or clears the membership discount input.
func (e *Engine) SetMembership(membership *MembershipDiscount) error {
	return e.recompute(e.subtotal, membership, e.manualPercent, e.tip)
}

// SetManualPercent sets the cashier-entered discount percentage.
func (e *Engine) SetManualPercent(percent decimal.Decimal) error {
	return e.recompute(e.subtotal, e.membership, percent, e.tip)
}

// SetTip sets the tip amount.
func (e *Engine) SetTip(tip decimal.Decimal) error {
	return e.recompute(e.subtotal, e.membership, e.manualPercent, tip)
}

// Reset drops every input back to zero, as after a completed checkout.
func (e *Engine) Reset() {
	_ = e.recompute(decimal.Zero, nil, decimal.Zero, decimal.Zero)
}

func (e *Engine) recompute(subtotal decimal.Decimal, membership *MembershipDiscount, manualPercent, tip decimal.Decimal) error {
	breakdown, err := Compute(subtotal, membership, manualPercent, tip)
	if err != nil {
		// Rejected inputs leave the engine on its last good breakdown.
		return err
	}

	e.subtotal = subtotal
	e.membership = membership
	e.manualPercent = manualPercent
	e.tip = tip
	e.latest = breakdown

	e.registerM.IncPricingCompute()
	if e.publish != nil {
		e.publish(breakdown)
	}
	return nil
}
