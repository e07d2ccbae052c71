package middleware

import (
	"net/http"

	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

// BranchContext rejects requests that carry no branch scope. Admin tokens
// pass through; they see every branch.
func BranchContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) == string(enums.CashierRoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			if BranchIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "branch context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
