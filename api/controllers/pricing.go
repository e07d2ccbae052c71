package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	"github.com/salonworks/pos-terminal/internal/session"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type manualDiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

type tipRequest struct {
	Tip decimal.Decimal `json:"tip"`
}

// PricingBreakdown returns the current totals for the session.
func PricingBreakdown(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Pricing())
	}
}

// PricingManualDiscount sets the cashier-entered discount percentage. The
// route is restricted to managers and admins.
func PricingManualDiscount(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body manualDiscountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := sess.SetManualDiscount(body.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}

// PricingTip sets the tip amount.
func PricingTip(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tipRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := sess.SetTip(body.Tip)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}
