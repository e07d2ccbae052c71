package controllers

import (
	"net/http"
	"strings"

	"github.com/salonworks/pos-terminal/api/middleware"
	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	"github.com/salonworks/pos-terminal/internal/catalog"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

// CatalogBrowse lists the sellable items for the caller's branch, narrowed
// by the search and type query parameters.
func CatalogBrowse(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		typeFilter := enums.TypeFilterAll
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParseTypeFilter(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			typeFilter = parsed
		}

		branchCtx := catalog.BranchContext{
			BranchID: middleware.BranchIDFromContext(r.Context()),
			Admin:    middleware.RoleFromContext(r.Context()) == string(enums.CashierRoleAdmin),
		}
		query := catalog.Query{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
			Type:   typeFilter,
		}

		items, err := svc.Browse(r.Context(), branchCtx, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items, "count": len(items)})
	}
}
