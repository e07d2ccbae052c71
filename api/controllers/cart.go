package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	"github.com/salonworks/pos-terminal/internal/catalog"
	"github.com/salonworks/pos-terminal/internal/session"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type addItemRequest struct {
	ID         string          `json:"id" validate:"required"`
	Kind       string          `json:"kind" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	FinalPrice decimal.Decimal `json:"final_price"`
	Stock      *int            `json:"stock,omitempty"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartAddItem adds a tapped catalog item to the session cart, merging with
// an existing line of the same identity.
func CartAddItem(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := enums.ParseItemKind(body.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item kind"))
			return
		}

		view, err := sess.AddItem(r.Context(), catalog.Item{
			ID:         body.ID,
			Kind:       kind,
			Name:       body.Name,
			FinalPrice: body.FinalPrice,
			Stock:      body.Stock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartUpdateQuantity replaces a line's quantity. Zero or below removes the
// line.
func CartUpdateQuantity(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, itemID, err := cartLineParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := sess.UpdateQuantity(r.Context(), itemID, kind, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops a line. Removing an absent line is a no-op.
func CartRemoveItem(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, itemID, err := cartLineParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := sess.RemoveItem(r.Context(), itemID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the cart.
func CartClear(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := loadSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := sess.ClearCart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func cartLineParams(r *http.Request) (enums.ItemKind, string, error) {
	kind, err := enums.ParseItemKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item kind")
	}
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return kind, itemID, nil
}
