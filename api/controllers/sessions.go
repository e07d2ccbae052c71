package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salonworks/pos-terminal/api/middleware"
	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	"github.com/salonworks/pos-terminal/internal/customers"
	"github.com/salonworks/pos-terminal/internal/pricing"
	"github.com/salonworks/pos-terminal/internal/session"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type openSessionRequest struct {
	TerminalID string `json:"terminal_id"`
}

type sessionView struct {
	ID           string             `json:"id"`
	BranchID     string             `json:"branch_id,omitempty"`
	Cashier      string             `json:"cashier"`
	EmployeeID   string             `json:"employee_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	Cart         session.CartView   `json:"cart"`
	Verification customers.Snapshot `json:"verification"`
	Pricing      pricing.Breakdown  `json:"pricing"`
}

func newSessionView(sess *session.Session) sessionView {
	return sessionView{
		ID:           sess.ID,
		BranchID:     sess.BranchID,
		Cashier:      sess.Cashier,
		EmployeeID:   sess.EmployeeID,
		CreatedAt:    sess.CreatedAt,
		Cart:         sess.Cart(),
		Verification: sess.Verification(),
		Pricing:      sess.Pricing(),
	}
}

// SessionOpen starts a register session bound to the signed-on cashier. A
// stable terminal id resumes the persisted cart for that terminal.
func SessionOpen(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		var body openSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		admin := middleware.RoleFromContext(ctx) == string(enums.CashierRoleAdmin)
		sess, err := manager.Open(
			ctx,
			body.TerminalID,
			middleware.BranchIDFromContext(ctx),
			middleware.CashierFromContext(ctx),
			middleware.EmployeeIDFromContext(ctx),
			admin,
		)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSessionView(sess))
	}
}

// SessionGet returns the full state of one register session.
func SessionGet(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(sess))
	}
}

// SessionClose ends the session and drops its persisted cart.
func SessionClose(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := manager.Close(r.Context(), sess.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "closed", "id": sess.ID})
	}
}

// loadSession resolves the routed session and enforces branch ownership.
// Admins may act on any branch's sessions.
func loadSession(manager *session.Manager, r *http.Request) (*session.Session, error) {
	if manager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable")
	}
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	sess, err := manager.Get(id)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	if middleware.RoleFromContext(ctx) == string(enums.CashierRoleAdmin) {
		return sess, nil
	}
	if sess.BranchID != "" && sess.BranchID != middleware.BranchIDFromContext(ctx) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "session belongs to another branch")
	}
	return sess, nil
}
