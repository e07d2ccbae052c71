package controllers

import (
	"net/http"

	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	"github.com/salonworks/pos-terminal/internal/checkout"
	"github.com/salonworks/pos-terminal/internal/session"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type checkoutRequest struct {
	Mode          string `json:"mode" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// CheckoutSubmit finalizes the sale. Express mode charges the raw subtotal;
// customer mode charges the discounted final total and requires a verified
// customer on the session.
func CheckoutSubmit(manager *session.Manager, svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mode, err := enums.ParseCheckoutMode(body.Mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout mode"))
			return
		}
		payment, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Checkout(r.Context(), sess, mode, payment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
