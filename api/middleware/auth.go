package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/salonworks/pos-terminal/api/responses"
	pkgAuth "github.com/salonworks/pos-terminal/pkg/auth"
	"github.com/salonworks/pos-terminal/pkg/config"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

// Auth validates a cashier bearer token and seeds the request context with
// the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseCashierToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxCashier, claims.Cashier)
			ctx = context.WithValue(ctx, ctxEmployeeID, claims.EmployeeID)
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if claims.BranchID != "" {
				ctx = context.WithValue(ctx, ctxBranchID, claims.BranchID)
			}

			if logg != nil {
				fields := map[string]any{
					"cashier":    claims.Cashier,
					"actor_role": string(claims.Role),
				}
				if claims.BranchID != "" {
					fields["branch_id"] = claims.BranchID
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
