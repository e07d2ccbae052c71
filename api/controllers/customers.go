package controllers

import (
	"net/http"

	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	"github.com/salonworks/pos-terminal/internal/customers"
	"github.com/salonworks/pos-terminal/internal/session"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type phoneInputRequest struct {
	Phone string `json:"phone"`
}

type registerCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type selectMembershipRequest struct {
	MembershipID string `json:"membership_id" validate:"required"`
}

// CustomerPhoneInput feeds a keystroke-level phone update into the session's
// verification workflow and returns the state as of this call. Lookups run
// asynchronously after the debounce window; poll CustomerVerification for
// the outcome.
func CustomerPhoneInput(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body phoneInputRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess.PhoneInput(body.Phone)
		responses.WriteSuccess(w, sess.Verification())
	}
}

// CustomerVerification reports the verification state snapshot.
func CustomerVerification(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Verification())
	}
}

// CustomerRegister creates a directory entry for a walk-in.
func CustomerRegister(svc customers.RegistrationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var body registerCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name := validators.SanitizeString(body.Name, 120)
		customer, err := svc.Register(r.Context(), name, body.Phone, body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// SessionCustomerRegister registers a walk-in and attaches them to the
// session, so the sale can proceed without re-entering the phone.
func SessionCustomerRegister(manager *session.Manager, svc customers.RegistrationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var body registerCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Register(r.Context(), validators.SanitizeString(body.Name, 120), body.Phone, body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess.AttachCustomer(customer)
		responses.WriteSuccess(w, sess.Verification())
	}
}

// MembershipSelect picks one of the verified customer's memberships for the
// sale.
func MembershipSelect(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body selectMembershipRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.SelectMembership(body.MembershipID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"verification": sess.Verification(),
			"pricing":      sess.Pricing(),
		})
	}
}

// MembershipClear drops the selected membership from the sale.
func MembershipClear(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.ClearMembership()
		responses.WriteSuccess(w, map[string]any{
			"verification": sess.Verification(),
			"pricing":      sess.Pricing(),
		})
	}
}
